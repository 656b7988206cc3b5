package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.CredentialStore, cfg.NotionConfigured, cfg.Version)
	booksController := NewBooksController(cfg.Books, cfg.SystemLocale, cfg.RequestTimeout)
	notionController := NewNotionController(cfg.Books, cfg.Notion, cfg.RequestTimeout)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	// Search
	router.GET("/api/books/search", booksController.Search)

	// Notion
	router.POST("/api/notion/books", notionController.AddBook)
	router.POST("/api/notion/books/search-and-add", notionController.SearchAndAdd)
	router.GET("/api/notion/books/preview", notionController.Preview)
	router.GET("/api/notion/schema", notionController.Schema)

	return router
}
