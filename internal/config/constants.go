package config

const (
	// DefaultDatabasePath is the default path for the credentials database
	DefaultDatabasePath = "./booknotion.db"

	// DefaultLocale restricts searches to English results
	DefaultLocale = "en"
)
