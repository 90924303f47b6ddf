package domain

// MaskToken replaces credential values on every display path.
const MaskToken = "***********"

// Credential is a single named secret belonging to an integration. Value
// holds ciphertext at rest and plaintext only on the internal use path.
type Credential struct {
	Name  string `json:"name" bson:"name"`
	Value string `json:"value" bson:"value"`
}

// Integration represents a third-party provider's credential record. The
// envelope key encrypting the credential values is stored alongside them,
// base64 encoded; there is no separate key-encryption key in this design.
type Integration struct {
	IntegrationID string         `json:"integration_id" bson:"integration_id"`
	ProviderCode  string         `json:"provider_code" bson:"provider_code"`
	ProviderName  string         `json:"provider_name" bson:"provider_name"`
	ConfigData    map[string]any `json:"config_data" bson:"config_data"`
	Credentials   []Credential   `json:"credentials" bson:"credentials"`
	EnvelopeKey   string         `json:"-" bson:"salt_key"`
	Status        string         `json:"status" bson:"status"`
	CreatedAt     int64          `json:"created_at" bson:"created_at"`
	UpdatedAt     int64          `json:"updated_at" bson:"updated_at"`
}

// IntegrationPatch is a sparse update; empty values count as absent. When
// Credentials is non-empty the stored credential list and envelope key are
// replaced wholesale.
type IntegrationPatch struct {
	Status      *string
	ConfigData  map[string]any
	Credentials []Credential
}

// CredentialContext is the explicit result of the credential-use path:
// decrypted credentials plus the record attributes downstream calls need.
type CredentialContext struct {
	IntegrationID string
	ConfigData    map[string]any
	Credentials   []Credential
}
