package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booknotion/internal/config"
	http_controllers "github.com/mrlokans/booknotion/internal/http"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT. SIGKILL can't be caught.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	app, err := NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	log.Printf("Searching Google Books with langRestrict=%s", app.Language)

	var metricsHandler http.Handler
	if app.Metrics != nil {
		metricsHandler = app.Metrics.Handler()
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Books:            app.Books,
		Notion:           app.Books,
		CredentialStore:  app.Store,
		NotionConfigured: app.NotionConfigured,
		SystemLocale:     cfg.GoogleBooks.SystemLocale,
		Metrics:          metricsHandler,
		RequestTimeout:   cfg.HTTPClient.Timeout,
		Version:          version,
	})

	onShutdown := func(ctx context.Context) {
		if err := app.Close(); err != nil {
			log.Printf("Error closing credential store: %v", err)
		}
	}

	Serve(router, cfg, onShutdown)
}
