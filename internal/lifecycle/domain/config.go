package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// MapsKey is the reserved top-level key holding cross-lifecycle maps.
const MapsKey = "__maps__"

// Config is the source of truth persisted by a Store: every lifecycle
// definition in configuration order plus the lifecycle maps, keyed
// "from -> to". The zero value is an empty configuration.
type Config struct {
	order      []string
	lifecycles map[string]Definition
	maps       map[string]map[string]string
}

// NewConfig returns an empty configuration.
func NewConfig() *Config {
	return &Config{
		lifecycles: make(map[string]Definition),
		maps:       make(map[string]map[string]string),
	}
}

// Names returns lifecycle names in configuration order.
func (c *Config) Names() []string {
	return copyStrings(c.order)
}

// Len returns the number of lifecycles.
func (c *Config) Len() int {
	return len(c.order)
}

// Has reports whether a lifecycle is defined.
func (c *Config) Has(name string) bool {
	_, ok := c.lifecycles[name]
	return ok
}

// Get returns a copy of a lifecycle definition.
func (c *Config) Get(name string) (Definition, bool) {
	def, ok := c.lifecycles[name]
	if !ok {
		return Definition{}, false
	}
	return def.Clone(), true
}

// Put stores a copy of a definition. New names are appended to the order.
func (c *Config) Put(name string, def Definition) {
	if c.lifecycles == nil {
		c.lifecycles = make(map[string]Definition)
	}
	if _, ok := c.lifecycles[name]; !ok {
		c.order = append(c.order, name)
	}
	c.lifecycles[name] = def.Clone()
}

// MapKeys returns the keys of every stored map.
func (c *Config) MapKeys() []string {
	keys := make([]string, 0, len(c.maps))
	for k := range c.maps {
		keys = append(keys, k)
	}
	return keys
}

// Map returns a copy of the map stored under "from -> to".
func (c *Config) Map(from, to string) (map[string]string, bool) {
	m, ok := c.maps[TransitionKey(from, to)]
	return copyStringMap(m), ok
}

// MapByKey returns a copy of the map stored under a combined key.
func (c *Config) MapByKey(key string) (map[string]string, bool) {
	m, ok := c.maps[key]
	return copyStringMap(m), ok
}

// SetMap stores a status translation table with lower-cased keys.
func (c *Config) SetMap(from, to string, mapping map[string]string) {
	c.SetMapByKey(TransitionKey(from, to), mapping)
}

// SetMapByKey stores a map under a combined key, lower-casing status keys.
// Well-formed keys are stored in canonical "from -> to" form; malformed
// keys are kept as given so ValidateConfig can report them.
func (c *Config) SetMapByKey(key string, mapping map[string]string) {
	if c.maps == nil {
		c.maps = make(map[string]map[string]string)
	}
	if from, to, err := ParseTransitionKey(key); err == nil {
		key = TransitionKey(from, to)
	}
	norm := make(map[string]string, len(mapping))
	for status, target := range mapping {
		norm[FoldStatus(status)] = target
	}
	c.maps[key] = norm
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := NewConfig()
	if c == nil {
		return out
	}
	for _, name := range c.order {
		out.Put(name, c.lifecycles[name])
	}
	for key, m := range c.maps {
		out.maps[key] = copyStringMap(m)
	}
	return out
}

// UnmarshalYAML decodes the top-level mapping, keeping lifecycle order.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	*c = *NewConfig()
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("lifecycle config: expected a mapping at line %d", value.Line)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		name := value.Content[i].Value
		node := value.Content[i+1]
		if name == MapsKey {
			var maps map[string]map[string]string
			if err := node.Decode(&maps); err != nil {
				return fmt.Errorf("lifecycle config %s: %w", MapsKey, err)
			}
			for key, m := range maps {
				c.SetMapByKey(key, m)
			}
			continue
		}
		var def Definition
		if err := node.Decode(&def); err != nil {
			return fmt.Errorf("lifecycle %q: %w", name, err)
		}
		c.Put(name, def)
	}
	return nil
}

// MarshalYAML encodes lifecycles in order, maps last.
func (c Config) MarshalYAML() (any, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range c.order {
		var node yaml.Node
		if err := node.Encode(c.lifecycles[name]); err != nil {
			return nil, fmt.Errorf("lifecycle %q: %w", name, err)
		}
		root.Content = append(root.Content, keyNode(name), &node)
	}
	if len(c.maps) > 0 {
		var node yaml.Node
		if err := node.Encode(c.maps); err != nil {
			return nil, fmt.Errorf("lifecycle config %s: %w", MapsKey, err)
		}
		root.Content = append(root.Content, keyNode(MapsKey), &node)
	}
	return root, nil
}

func keyNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

// UnmarshalJSON decodes the top-level object, keeping lifecycle order.
func (c *Config) UnmarshalJSON(data []byte) error {
	*c = *NewConfig()
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("lifecycle config: %w", err)
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("lifecycle config: expected an object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("lifecycle config: %w", err)
		}
		name, _ := tok.(string)
		if name == MapsKey {
			var maps map[string]map[string]string
			if err := dec.Decode(&maps); err != nil {
				return fmt.Errorf("lifecycle config %s: %w", MapsKey, err)
			}
			for key, m := range maps {
				c.SetMapByKey(key, m)
			}
			continue
		}
		var def Definition
		if err := dec.Decode(&def); err != nil {
			return fmt.Errorf("lifecycle %q: %w", name, err)
		}
		c.Put(name, def)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("lifecycle config: %w", err)
	}
	return nil
}

// MarshalJSON encodes lifecycles in order, maps last.
func (c Config) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range c.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONField(&buf, name, c.lifecycles[name]); err != nil {
			return nil, err
		}
	}
	if len(c.maps) > 0 {
		if len(c.order) > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONField(&buf, MapsKey, c.maps); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSONField(buf *bytes.Buffer, key string, value any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("lifecycle config %q: %w", key, err)
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}
