package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booknotion/internal/entities"
	"github.com/mrlokans/booknotion/internal/notion"
	"github.com/mrlokans/booknotion/internal/services"
)

// AddBookResponse is returned after a page was created.
type AddBookResponse struct {
	ID      string   `json:"id"`
	URL     string   `json:"url,omitempty"`
	Added   []string `json:"added"`
	Skipped []string `json:"skipped"`
	Message string   `json:"message"`
}

type searchAndAddRequest struct {
	Query string `json:"query" binding:"required"`
}

type NotionController struct {
	books   BookFinder
	writer  NotionWriter
	timeout time.Duration
}

func NewNotionController(books BookFinder, writer NotionWriter, timeout time.Duration) *NotionController {
	return &NotionController{
		books:   books,
		writer:  writer,
		timeout: timeout,
	}
}

// AddBook handles POST /api/notion/books with a book as the body.
func (controller *NotionController) AddBook(c *gin.Context) {
	var book entities.Book
	if err := c.ShouldBindJSON(&book); err != nil {
		respondBadRequest(c, "invalid book: "+err.Error())
		return
	}
	if strings.TrimSpace(book.Title) == "" {
		respondBadRequest(c, "title is required")
		return
	}

	ctx, cancel := requestContext(c, controller.timeout)
	defer cancel()

	result, err := controller.writer.AddBook(ctx, book)
	if err != nil {
		respondServiceError(c, err, "add book to notion")
		return
	}

	c.JSON(http.StatusCreated, newAddBookResponse(result, notion.BuildSuccessMessage(result)))
}

// SearchAndAdd handles POST /api/notion/books/search-and-add, adding the best
// match for the query.
func (controller *NotionController) SearchAndAdd(c *gin.Context) {
	var req searchAndAddRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		respondBadRequest(c, "query is required")
		return
	}

	ctx, cancel := requestContext(c, controller.timeout)
	defer cancel()

	result, err := controller.writer.SearchAndAdd(ctx, req.Query)
	if err != nil {
		respondServiceError(c, err, "search and add")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"book":    result.Book,
		"result":  newAddBookResponse(result.Result, notion.BuildSuccessMessage(result.Result)),
		"message": result.Message,
	})
}

// Preview handles GET /api/notion/books/preview?q= and describes the book
// SearchAndAdd would add.
func (controller *NotionController) Preview(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		respondBadRequest(c, "q query parameter is required")
		return
	}

	ctx, cancel := requestContext(c, controller.timeout)
	defer cancel()

	book, err := controller.books.BestMatch(ctx, query)
	if err != nil {
		respondServiceError(c, err, "preview best match")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"book":         book,
		"confirmation": services.ConfirmationMessage(book),
	})
}

// Schema handles GET /api/notion/schema.
func (controller *NotionController) Schema(c *gin.Context) {
	ctx, cancel := requestContext(c, controller.timeout)
	defer cancel()

	result, err := controller.writer.InspectSchema(ctx)
	if err != nil {
		respondServiceError(c, err, "inspect notion schema")
		return
	}

	c.IndentedJSON(http.StatusOK, result)
}

func newAddBookResponse(result *notion.AddBookResult, message string) AddBookResponse {
	return AddBookResponse{
		ID:      result.Response.ID,
		URL:     result.Response.URL,
		Added:   result.Added,
		Skipped: result.Missing,
		Message: message,
	}
}
