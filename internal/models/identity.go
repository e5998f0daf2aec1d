package models

// IdentitySource tags where a vault record came from. Project records are the
// bundled accounts reapplied on every initialization; session records are
// created locally at runtime.
type IdentitySource string

const (
	SourceProject IdentitySource = "project"
	SourceSession IdentitySource = "session"
)

// Identity is one participant's on-chain credentials plus profile metadata.
// The private key never leaves the vault boundary except to sign a
// transaction or a message.
type Identity struct {
	ID          string         `json:"id"`
	Address     string         `json:"address"`
	PrivateKey  string         `json:"privateKey"`
	Email       string         `json:"email"`
	Description string         `json:"description,omitempty"`
	Timestamp   string         `json:"timestamp,omitempty"`
	Network     string         `json:"network,omitempty"`
	AgentID     int64          `json:"agentId,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Source      IdentitySource `json:"source"`
}

// VaultBlob is the single-row persistence for the identity vault: the whole
// identity list serialized as one JSON array under a fixed key. There is no
// versioning scheme; schema changes require a manual clear.
type VaultBlob struct {
	Key  string `gorm:"primaryKey"`
	Data []byte `gorm:"type:bytea"`
}
