package persistence

import "github.com/felixgeelhaar/lifecycles/internal/lifecycle/domain"

func sampleConfig() *domain.Config {
	cfg := domain.NewConfig()
	cfg.Put("support", domain.Definition{
		Initial:         []string{"new"},
		Active:          []string{"open", "stalled"},
		Inactive:        []string{"resolved", "deleted"},
		DefaultInitial:  "new",
		DefaultInactive: "resolved",
		Transitions: map[string][]string{
			"new":  {"open"},
			"open": {"stalled", "resolved"},
		},
		Rights: map[string]string{"* -> deleted": "DeleteTicket"},
		Actions: domain.Actions{
			{From: "open", To: "resolved", Label: "Resolve", Update: domain.UpdateComment},
		},
	})
	cfg.Put("approvals", domain.Definition{
		Type:     "approval",
		Initial:  []string{"pending"},
		Inactive: []string{"approved", "denied"},
	})
	cfg.SetMap("support", "approvals", map[string]string{"new": "pending"})
	return cfg
}
