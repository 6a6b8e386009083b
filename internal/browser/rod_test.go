package browser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/launcher"
)

// TestNewRodLauncher tests launcher construction.
func TestNewRodLauncher(t *testing.T) {
	t.Parallel()

	t.Run("uses default timeouts", func(t *testing.T) {
		t.Parallel()

		l := NewRodLauncher()
		if l.navigationTimeout != DefaultNavigationTimeout {
			t.Errorf("got navigation timeout %v, expected %v", l.navigationTimeout, DefaultNavigationTimeout)
		}
		if l.operationTimeout != DefaultOperationTimeout {
			t.Errorf("got operation timeout %v, expected %v", l.operationTimeout, DefaultOperationTimeout)
		}
		if l.logger == nil {
			t.Error("expected default logger")
		}
	})

	t.Run("applies options", func(t *testing.T) {
		t.Parallel()

		l := NewRodLauncher(
			WithBin("/usr/bin/chromium"),
			WithNavigationTimeout(5*time.Second),
			WithOperationTimeout(7*time.Second),
		)
		if l.bin != "/usr/bin/chromium" {
			t.Errorf("got bin %q", l.bin)
		}
		if l.navigationTimeout != 5*time.Second {
			t.Errorf("got navigation timeout %v", l.navigationTimeout)
		}
		if l.operationTimeout != 7*time.Second {
			t.Errorf("got operation timeout %v", l.operationTimeout)
		}
	})

	t.Run("ignores non-positive timeouts", func(t *testing.T) {
		t.Parallel()

		l := NewRodLauncher(WithNavigationTimeout(0), WithOperationTimeout(-time.Second))
		if l.navigationTimeout != DefaultNavigationTimeout || l.operationTimeout != DefaultOperationTimeout {
			t.Error("expected defaults to be kept")
		}
	})
}

// requireBrowser skips the test unless a local Chromium is available.
func requireBrowser(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	bin, found := launcher.LookPath()
	if !found {
		t.Skip("skipping browser test: no Chromium installation found")
	}
	return bin
}

// TestRodSession exercises a real browser end to end.
func TestRodSession(t *testing.T) {
	bin := requireBrowser(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<!doctype html><html lang="en"><head><title>fixture</title></head><body><p>hello</p></body></html>`)
	}))
	defer srv.Close()

	ctx := context.Background()
	l := NewRodLauncher(WithBin(bin), WithNavigationTimeout(20*time.Second))

	session, err := l.Launch(ctx)
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}
	defer session.Close()

	page, err := session.NewPage(ctx)
	if err != nil {
		t.Fatalf("failed to open page: %v", err)
	}

	t.Run("navigates and evaluates", func(t *testing.T) {
		if err := page.Navigate(ctx, srv.URL); err != nil {
			t.Fatalf("navigate failed: %v", err)
		}
		title, err := page.Evaluate(ctx, `() => document.title`)
		if err != nil {
			t.Fatalf("evaluate failed: %v", err)
		}
		if title != "fixture" {
			t.Errorf("got title %q, expected fixture", title)
		}
	})

	t.Run("injects scripts", func(t *testing.T) {
		if err := page.AddScript(ctx, `window.injected = "yes";`); err != nil {
			t.Fatalf("inject failed: %v", err)
		}
		got, err := page.Evaluate(ctx, `() => Promise.resolve(window.injected)`)
		if err != nil {
			t.Fatalf("evaluate failed: %v", err)
		}
		if got != "yes" {
			t.Errorf("got %q, expected yes", got)
		}
	})

	t.Run("rejects non-string results", func(t *testing.T) {
		if _, err := page.Evaluate(ctx, `() => 42`); err == nil {
			t.Error("expected error for numeric result")
		}
	})

	t.Run("fails on unresolvable host", func(t *testing.T) {
		if err := page.Navigate(ctx, "https://does-not-exist.invalid/"); err == nil {
			t.Error("expected navigation error")
		}
	})

	t.Run("close is idempotent", func(t *testing.T) {
		_ = session.Close() //nolint:errcheck // Close errors are not under test
		if err := session.Close(); err != nil {
			t.Errorf("expected second close to be a no-op, got %v", err)
		}
		if _, err := session.NewPage(ctx); err != ErrSessionClosed {
			t.Errorf("expected ErrSessionClosed, got %v", err)
		}
	})
}
