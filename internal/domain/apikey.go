package domain

// Record status values shared by API keys, groups and integrations.
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// WildcardApp is the sentinel app name granting access to every route.
const WildcardApp = "*"

// APIKey represents an opaque caller token and the groups it belongs to.
type APIKey struct {
	Key              string   `json:"api_key" bson:"api_key"`
	Name             string   `json:"name" bson:"name"`
	AssociatedGroups []string `json:"associated_groups" bson:"associated_groups"`
	Status           string   `json:"status" bson:"status"`
	CreatedAt        int64    `json:"created_at" bson:"created_at"`
	LastUsed         string   `json:"last_used" bson:"last_used"` // RFC3339 UTC, empty when never used
}

// APIKeyPatch is a sparse update: nil and empty fields are left untouched.
type APIKeyPatch struct {
	Name             *string
	AssociatedGroups []string
	Status           *string
	TouchLastUsed    bool
}

// Group maps a name to the set of route identifiers ("apps") it grants.
type Group struct {
	Name           string   `json:"name" bson:"name"`
	AssociatedApps []string `json:"associated_apps" bson:"associated_apps"`
	Status         string   `json:"status" bson:"status"`
	CreatedAt      int64    `json:"created_at" bson:"created_at"`
}

// AuthResult is the outcome of a successful route authorization. It carries
// the caller identity so downstream logic never re-reads the key header.
type AuthResult struct {
	Identifier string
	Apps       []string
}
