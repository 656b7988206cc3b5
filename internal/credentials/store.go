// Package credentials stores API keys and destination identifiers encrypted
// at rest in SQLite.
package credentials

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/booknotion/internal/entities"
)

const (
	// DefaultKeyFileName is created in the home directory when neither a key
	// nor a passphrase is configured.
	DefaultKeyFileName = ".booknotion-key"

	saltMetaKey = "kdf_salt"
)

// Config holds configuration for the store.
type Config struct {
	// DatabasePath is the path to the SQLite database file.
	DatabasePath string

	// EncryptionKey is a base64-encoded 32-byte key. Takes precedence.
	EncryptionKey string

	// Passphrase derives the key with argon2id, using a salt kept in the database.
	Passphrase string

	// KeyFilePath defaults to ~/.booknotion-key.
	KeyFilePath string
}

// Store provides encrypted storage for named secrets.
type Store struct {
	db     *gorm.DB
	sealer *sealer
}

// Open opens (creating if needed) the store described by cfg.
func Open(cfg Config) (*Store, error) {
	if cfg.DatabasePath == "" {
		return nil, errors.New("credentials database path is empty")
	}
	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&entities.Secret{}, &entities.StoreMeta{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	store := &Store{db: db}

	key, err := store.resolveKey(cfg)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to resolve encryption key: %w", err)
	}

	store.sealer, err = newSealer(key)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return store, nil
}

func (s *Store) resolveKey(cfg Config) ([]byte, error) {
	if cfg.EncryptionKey != "" {
		return decodeKey(cfg.EncryptionKey)
	}

	if cfg.Passphrase != "" {
		salt, err := s.salt()
		if err != nil {
			return nil, err
		}
		return DeriveKey(cfg.Passphrase, salt), nil
	}

	return loadOrCreateKeyFile(KeyFilePath(cfg.KeyFilePath))
}

// salt returns the key derivation salt, generating and persisting one on first use.
func (s *Store) salt() ([]byte, error) {
	var meta entities.StoreMeta
	err := s.db.Where("name = ?", saltMetaKey).First(&meta).Error
	if err == nil {
		return base64.StdEncoding.DecodeString(meta.Value)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to read salt: %w", err)
	}

	salt, err := randomBytes(saltSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	meta = entities.StoreMeta{Name: saltMetaKey, Value: base64.StdEncoding.EncodeToString(salt)}
	if err := s.db.Create(&meta).Error; err != nil {
		return nil, fmt.Errorf("failed to save salt: %w", err)
	}
	return salt, nil
}

func loadOrCreateKeyFile(path string) ([]byte, error) {
	if data, err := os.ReadFile(path); err == nil {
		return decodeKey(strings.TrimSpace(string(data)))
	}

	encoded, err := GenerateKey()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, []byte(encoded), 0o600); err != nil {
		return nil, fmt.Errorf("failed to save encryption key to %s: %w", path, err)
	}

	log.Printf("[CREDENTIALS] Generated new encryption key and saved to %s", path)
	return decodeKey(encoded)
}

// KeyFilePath returns customPath, or the default key file in the home directory.
func KeyFilePath(customPath string) string {
	if customPath != "" {
		return customPath
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return DefaultKeyFileName
	}
	return filepath.Join(homeDir, DefaultKeyFileName)
}

// Set encrypts and stores value under name, replacing any previous value.
func (s *Store) Set(name, value string) error {
	if name == "" {
		return errors.New("secret name is empty")
	}

	encrypted, err := s.sealer.seal(value)
	if err != nil {
		return fmt.Errorf("failed to encrypt %s: %w", name, err)
	}

	secret := &entities.Secret{Name: name, Value: encrypted}
	result := s.db.Where("name = ?", name).
		Assign(map[string]interface{}{
			"value":      encrypted,
			"updated_at": time.Now(),
		}).
		FirstOrCreate(secret)
	if result.Error != nil {
		return fmt.Errorf("failed to save %s: %w", name, result.Error)
	}
	return nil
}

// Get returns the decrypted value of name, or "" when it is not stored.
func (s *Store) Get(name string) (string, error) {
	var secret entities.Secret
	result := s.db.Where("name = ?", name).First(&secret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get %s: %w", name, result.Error)
	}

	value, err := s.sealer.open(secret.Value)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt %s: %w", name, err)
	}
	return value, nil
}

// Names lists stored secret names in alphabetical order.
func (s *Store) Names() ([]string, error) {
	var names []string
	if err := s.db.Model(&entities.Secret{}).Order("name").Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("failed to list secrets: %w", err)
	}
	return names, nil
}

// Delete removes name. Deleting a missing secret is not an error.
func (s *Store) Delete(name string) error {
	if err := s.db.Where("name = ?", name).Delete(&entities.Secret{}).Error; err != nil {
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}
	return nil
}

// Resolve returns explicit when set, otherwise the stored value of name.
func (s *Store) Resolve(explicit, name string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	return s.Get(name)
}

// Ping checks the database connection.
func (s *Store) Ping() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Ping()
}

// Close closes the database connection.
func (s *Store) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
