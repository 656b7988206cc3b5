package entities

import (
	"time"
)

// Secret is a named credential stored encrypted at rest.
type Secret struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Value     string    `gorm:"type:text;not null" json:"-"` // base64 AES-256-GCM ciphertext
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Secret) TableName() string {
	return "secrets"
}

// StoreMeta holds per-database values needed to open the store, such as the
// key derivation salt. Values are not encrypted.
type StoreMeta struct {
	Name  string `gorm:"primaryKey;size:100"`
	Value string `gorm:"type:text"`
}

func (StoreMeta) TableName() string {
	return "store_meta"
}

// Known secret names
const (
	SecretNotionAPIKey      = "notion_api_key"
	SecretNotionDatabaseID  = "notion_database_id"
	SecretGoogleBooksAPIKey = "google_books_api_key"
)

// KnownSecrets lists the names accepted by the credentials command.
var KnownSecrets = []string{
	SecretNotionAPIKey,
	SecretNotionDatabaseID,
	SecretGoogleBooksAPIKey,
}
