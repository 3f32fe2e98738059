package domain

// RightCategory is the catalog category of rights derived from lifecycles.
const RightCategory = "Status"

// Right describes a permission published to the catalog.
type Right struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// PermissionCatalog is the process-wide catalog an authorization layer
// consults. Lookup ignores case.
type PermissionCatalog interface {
	Lookup(name string) (Right, bool)
	Register(right Right) error
}
