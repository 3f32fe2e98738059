package domain

// Rebuild derives a complete snapshot from a configuration. A nil
// configuration yields an empty registry holding only the global lifecycle.
// The configuration is copied; later changes to it do not affect the result.
func Rebuild(cfg *Config) *Snapshot {
	src := cfg.Clone()

	snap := &Snapshot{
		lifecycles: make(map[string]*Lifecycle, src.Len()+1),
		names:      make([]string, 0, src.Len()),
		maps:       make(map[string]map[string]string, len(src.maps)),
	}

	var initial, active, inactive []string
	ordered := make([]*Lifecycle, 0, src.Len())
	for _, name := range src.order {
		if name == "" || name == MapsKey {
			continue
		}
		def := src.lifecycles[name]
		l := newLifecycle(name, def)
		snap.lifecycles[name] = l
		snap.names = append(snap.names, name)
		ordered = append(ordered, l)

		initial = append(initial, def.Initial...)
		active = append(active, def.Active...)
		inactive = append(inactive, def.Inactive...)
	}

	global := &Lifecycle{
		statuses: NewStatusSet(
			dedupeStatuses(initial),
			dedupeStatuses(active),
			dedupeStatuses(inactive),
		),
		transitions: NewTransitionGraph(nil),
		rights:      NewRightTable(nil),
		actions:     NewActionTable(nil),
	}
	global.indexCase()
	snap.lifecycles[""] = global

	for key, m := range src.maps {
		if from, to, err := ParseTransitionKey(key); err == nil {
			key = TransitionKey(from, to)
		}
		norm := make(map[string]string, len(m))
		for status, target := range m {
			norm[FoldStatus(status)] = target
		}
		snap.maps[key] = norm
	}

	snap.rights = describeRights(ordered)
	return snap
}
