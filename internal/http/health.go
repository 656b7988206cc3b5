package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	store            Pinger
	notionConfigured bool
	version          string
}

func NewHealthController(store Pinger, notionConfigured bool, version string) *HealthController {
	return &HealthController{
		store:            store,
		notionConfigured: notionConfigured,
		version:          version,
	}
}

// Status reports the credential store connectivity and whether Notion is set
// up. Missing Notion credentials do not make the service unhealthy since
// search keeps working.
func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.store != nil {
		if err := h.store.Ping(); err != nil {
			checks["credentials"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["credentials"] = "ok"
		}
	} else {
		checks["credentials"] = "not configured"
	}

	if h.notionConfigured {
		checks["notion"] = "configured"
	} else {
		checks["notion"] = "not configured"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
