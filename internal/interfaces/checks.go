package interfaces

// Compile-time checks that concrete types satisfy the interfaces they are
// wired through. Verify with: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/booknotion/internal/audit"
	"github.com/mrlokans/booknotion/internal/credentials"
	"github.com/mrlokans/booknotion/internal/googlebooks"
	"github.com/mrlokans/booknotion/internal/http"
	"github.com/mrlokans/booknotion/internal/metrics"
	"github.com/mrlokans/booknotion/internal/notion"
	"github.com/mrlokans/booknotion/internal/services"
)

// =============================================================================
// External Services
// =============================================================================

var _ services.BookSearcher = (*googlebooks.Client)(nil)
var _ notion.Gateway = (*notion.Client)(nil)
var _ notion.Recorder = (*audit.Auditor)(nil)

// =============================================================================
// Services
// =============================================================================

var _ services.Destination = (*notion.Service)(nil)
var _ http.BookFinder = (*services.BookService)(nil)
var _ http.NotionWriter = (*services.BookService)(nil)
var _ services.Observer = (*metrics.Metrics)(nil)

// =============================================================================
// Storage
// =============================================================================

var _ http.Pinger = (*credentials.Store)(nil)
