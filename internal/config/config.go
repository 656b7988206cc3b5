package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		GoogleBooks
		Notion
		HTTPClient
		Database
		Credentials
		Audit
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
		MetricsEnabled           bool
	}
	GoogleBooks struct {
		APIKey              string
		Locale              string // "default" follows the system locale
		SystemLocale        string // from LC_ALL, LC_MESSAGES or LANG
		EnableCoverEdgeCurl bool
		RequestsPerSecond   float64 // 0 disables pacing
	}
	Notion struct {
		APIKey     string
		DatabaseID string
		APIVersion string
	}
	HTTPClient struct {
		Timeout time.Duration
	}
	Database struct {
		Path string
	}
	Credentials struct {
		EncryptionKey string // base64, 32 bytes
		Passphrase    string
		KeyFilePath   string
	}
	Audit struct {
		Dir string // empty disables submission snapshots
	}
)

// systemLocale returns the first non-empty POSIX locale variable, in the
// order the C library consults them.
func systemLocale(v *viper.Viper) string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if locale := v.GetString(key); locale != "" {
			return locale
		}
	}
	return ""
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8189)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("metrics_enabled", true)

	v.SetDefault("google_books_locale", DefaultLocale)
	v.SetDefault("google_books_edge_curl", true)
	v.SetDefault("google_books_requests_per_second", 0)

	v.SetDefault("notion_api_version", "2022-06-28")
	v.SetDefault("http_client_timeout", "30s")

	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("credentials_key_file", "")
	v.SetDefault("audit_dir", "")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
			MetricsEnabled:           v.GetBool("METRICS_ENABLED"),
		},
		GoogleBooks: GoogleBooks{
			APIKey:              v.GetString("GOOGLE_BOOKS_API_KEY"),
			Locale:              v.GetString("GOOGLE_BOOKS_LOCALE"),
			SystemLocale:        systemLocale(v),
			EnableCoverEdgeCurl: v.GetBool("GOOGLE_BOOKS_EDGE_CURL"),
			RequestsPerSecond:   v.GetFloat64("GOOGLE_BOOKS_REQUESTS_PER_SECOND"),
		},
		Notion: Notion{
			APIKey:     v.GetString("NOTION_API_KEY"),
			DatabaseID: v.GetString("NOTION_DATABASE_ID"),
			APIVersion: v.GetString("NOTION_API_VERSION"),
		},
		HTTPClient: HTTPClient{
			Timeout: v.GetDuration("HTTP_CLIENT_TIMEOUT"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Credentials: Credentials{
			EncryptionKey: v.GetString("CREDENTIALS_ENCRYPTION_KEY"),
			Passphrase:    v.GetString("CREDENTIALS_PASSPHRASE"),
			KeyFilePath:   v.GetString("CREDENTIALS_KEY_FILE"),
		},
		Audit: Audit{
			Dir: v.GetString("AUDIT_DIR"),
		},
	}
}
