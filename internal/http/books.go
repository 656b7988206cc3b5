package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booknotion/internal/googlebooks"
)

type BooksController struct {
	finder       BookFinder
	systemLocale string
	timeout      time.Duration
}

func NewBooksController(finder BookFinder, systemLocale string, timeout time.Duration) *BooksController {
	return &BooksController{
		finder:       finder,
		systemLocale: systemLocale,
		timeout:      timeout,
	}
}

// Search handles GET /api/books/search?q=&locale=. Without a locale the
// configured default applies; "default" resolves the server's system locale.
func (controller *BooksController) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		respondBadRequest(c, "q query parameter is required")
		return
	}

	language := ""
	if locale := c.Query("locale"); locale != "" {
		language = googlebooks.ResolveLanguage(locale, controller.systemLocale)
	}

	ctx, cancel := requestContext(c, controller.timeout)
	defer cancel()

	books, err := controller.finder.Search(ctx, query, language)
	if err != nil {
		respondServiceError(c, err, "search books")
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

func requestContext(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), timeout)
}
