// Package worklist is the terminal view of the worklist: row list, menu
// panels, add form and the gesture dispatcher that routes input into the
// row controller.
package worklist

import (
	"context"
	"time"

	"github.com/atotto/clipboard"

	"recworklist/internal/api"
	"recworklist/internal/config"
	"recworklist/internal/flags"
	"recworklist/internal/highlight"
	"recworklist/internal/history"
	"recworklist/internal/page"
)

// API is the backend surface the view uses.
type API interface {
	FetchPage(ctx context.Context, sortBy string) (*page.Page, error)
	AddPrograms(ctx context.Context, provider string, uris []string) (api.Response, error)
	Command(ctx context.Context, req api.CommandRequest) (api.Response, error)
	EditProgramURL(provider, id string) string
}

// PageLoader loads the worklist page for a sort order. Refresh bypasses
// any cached copy.
type PageLoader interface {
	Get(ctx context.Context, key string, sortBy string) (*page.Page, error)
	Refresh(ctx context.Context, key string, sortBy string) (*page.Page, error)
}

// Clipboard defines the interface for clipboard operations.
type Clipboard interface {
	Copy(text string) error
}

// SystemClipboard implements Clipboard using the system clipboard.
type SystemClipboard struct{}

// Copy copies text to the system clipboard.
func (SystemClipboard) Copy(text string) error {
	return clipboard.WriteAll(text)
}

// Services are the collaborators of the view. Pages, Results,
// Highlights and Flags may be nil.
type Services struct {
	API        API
	Pages      PageLoader
	Results    *history.Recorder
	Highlights highlight.Store
	Flags      *flags.Registry
	Config     *config.Config
	ConfigPath string
	Clipboard  Clipboard
	Now        func() time.Time
}

func (s Services) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s Services) enabled(flag string) bool {
	return s.Flags != nil && s.Flags.Enabled(flag)
}

func (s Services) loadPage(ctx context.Context, sortBy string, refresh bool) (*page.Page, error) {
	if s.Pages == nil {
		return s.API.FetchPage(ctx, sortBy)
	}
	key := "page:" + sortBy
	if refresh {
		return s.Pages.Refresh(ctx, key, sortBy)
	}
	return s.Pages.Get(ctx, key, sortBy)
}
