package browser

import (
	"context"
	"errors"
	"time"
)

const (
	// DefaultNavigationTimeout bounds a single navigation.
	DefaultNavigationTimeout = 30 * time.Second

	// DefaultOperationTimeout bounds every other page operation
	// (script injection and evaluation).
	DefaultOperationTimeout = 30 * time.Second
)

// ErrSessionClosed is returned when a closed Session is used.
var ErrSessionClosed = errors.New("browser session is closed")

// Launcher starts browser sessions.
type Launcher interface {
	// Launch starts a browser process and opens an isolated browsing context.
	// The returned Session must be closed by the caller.
	Launch(ctx context.Context) (Session, error)
}

// Session is one running browser with one isolated browsing context.
type Session interface {
	// NewPage opens a blank page in the session's browsing context.
	NewPage(ctx context.Context) (Page, error)

	// Close releases the browsing context and the browser process.
	// Calling Close more than once is a no-op.
	Close() error
}

// Page is a single tab.
type Page interface {
	// Navigate loads url and returns once DOMContentLoaded has fired.
	Navigate(ctx context.Context, url string) error

	// AddScript injects source into the page as a script element.
	AddScript(ctx context.Context, source string) error

	// Evaluate runs a JavaScript function expression, awaits the promise it
	// returns, and returns the resolved string value.
	Evaluate(ctx context.Context, expression string) (string, error)
}
