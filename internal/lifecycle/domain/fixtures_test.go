package domain

func defaultDefinition() Definition {
	return Definition{
		Initial:         []string{"new"},
		Active:          []string{"open", "stalled"},
		Inactive:        []string{"resolved", "rejected", "deleted"},
		DefaultInitial:  "new",
		DefaultInactive: "resolved",
		Transitions: map[string][]string{
			"new":     {"open", "rejected"},
			"open":    {"stalled", "resolved"},
			"stalled": {"open"},
		},
		Rights: map[string]string{
			"* -> deleted": "DeleteTicket",
		},
	}
}

func approvalsDefinition() Definition {
	return Definition{
		Type:     "ticket",
		Initial:  []string{"New", "pending"},
		Active:   []string{"Open"},
		Inactive: []string{"approved", "denied", "deleted"},
		Transitions: map[string][]string{
			"":        {"new", "pending"},
			"pending": {"approved", "denied"},
		},
		Rights: map[string]string{
			"pending -> approved": "ApproveTicket",
			"pending -> denied":   "ApproveTicket",
			"* -> deleted":        "DeleteTicket",
		},
		Actions: Actions{
			{From: "pending", To: "approved", Label: "Approve", Update: UpdateComment},
			{From: "*", To: "deleted", Label: "Delete"},
		},
	}
}

func testConfig() *Config {
	cfg := NewConfig()
	cfg.Put("default", defaultDefinition())
	cfg.Put("approvals", approvalsDefinition())
	return cfg
}
