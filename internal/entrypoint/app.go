package entrypoint

import (
	"fmt"
	"log"

	"github.com/mrlokans/booknotion/internal/apierrors"
	"github.com/mrlokans/booknotion/internal/audit"
	"github.com/mrlokans/booknotion/internal/config"
	"github.com/mrlokans/booknotion/internal/credentials"
	"github.com/mrlokans/booknotion/internal/entities"
	"github.com/mrlokans/booknotion/internal/googlebooks"
	"github.com/mrlokans/booknotion/internal/metrics"
	"github.com/mrlokans/booknotion/internal/notion"
	"github.com/mrlokans/booknotion/internal/services"
)

// App holds the wired services shared by the server and the CLI commands.
type App struct {
	Books            *services.BookService
	Metrics          *metrics.Metrics
	Store            *credentials.Store
	NotionConfigured bool
	Language         string
}

// OpenCredentialStore opens the encrypted credential store described by cfg.
func OpenCredentialStore(cfg *config.Config) (*credentials.Store, error) {
	return credentials.Open(credentials.Config{
		DatabasePath:  cfg.Database.Path,
		EncryptionKey: cfg.Credentials.EncryptionKey,
		Passphrase:    cfg.Credentials.Passphrase,
		KeyFilePath:   cfg.Credentials.KeyFilePath,
	})
}

// NewApp resolves credentials and builds the search and Notion services.
// Missing Notion credentials are not an error: search keeps working and adds
// report a ConfigurationError.
func NewApp(cfg *config.Config) (*App, error) {
	store, err := OpenCredentialStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}

	googleKey, err := store.Resolve(cfg.GoogleBooks.APIKey, entities.SecretGoogleBooksAPIKey)
	if err != nil {
		store.Close()
		return nil, err
	}
	notionKey, err := store.Resolve(cfg.Notion.APIKey, entities.SecretNotionAPIKey)
	if err != nil {
		store.Close()
		return nil, err
	}
	databaseID, err := store.Resolve(cfg.Notion.DatabaseID, entities.SecretNotionDatabaseID)
	if err != nil {
		store.Close()
		return nil, err
	}

	language := googlebooks.ResolveLanguage(cfg.GoogleBooks.Locale, cfg.GoogleBooks.SystemLocale)

	searcher := googlebooks.NewClient(googlebooks.Settings{
		APIKey:              googleKey,
		Language:            language,
		EnableCoverEdgeCurl: cfg.GoogleBooks.EnableCoverEdgeCurl,
		RequestsPerSecond:   cfg.GoogleBooks.RequestsPerSecond,
		Timeout:             cfg.HTTPClient.Timeout,
	})

	// Kept as an interface so an unconfigured destination stays a true nil.
	var destination services.Destination
	notionService, err := newDestination(cfg, notionKey, databaseID)
	switch {
	case err == nil:
		destination = notionService
	case apierrors.IsConfiguration(err):
		log.Printf("[NOTION] WARNING: %v. Set NOTION_API_KEY and NOTION_DATABASE_ID or use the credentials command.", err)
	default:
		store.Close()
		return nil, err
	}

	books := services.NewBookService(searcher, destination, language)

	var collector *metrics.Metrics
	if cfg.Global.MetricsEnabled {
		collector = metrics.New()
		books.SetObserver(collector)
	}

	app := &App{
		Books:            books,
		Metrics:          collector, // nil when metrics are disabled
		Store:            store,
		NotionConfigured: destination != nil,
		Language:         language,
	}
	return app, nil
}

func newDestination(cfg *config.Config, apiKey, databaseID string) (*notion.Service, error) {
	client, err := notion.NewClient(notion.Config{
		APIKey:     apiKey,
		DatabaseID: databaseID,
		APIVersion: cfg.Notion.APIVersion,
		Timeout:    cfg.HTTPClient.Timeout,
	})
	if err != nil {
		return nil, err
	}

	service := notion.NewService(client, client.DatabaseID())
	if cfg.Audit.Dir != "" {
		service.SetRecorder(audit.NewAuditor(cfg.Audit.Dir))
		log.Printf("[NOTION] Recording submissions to %s", cfg.Audit.Dir)
	}
	return service, nil
}

// Close releases the credential store.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}
