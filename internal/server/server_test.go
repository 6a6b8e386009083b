package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/a11yscan/internal/browser/browsertest"
	"github.com/nao1215/a11yscan/internal/guide"
	"github.com/nao1215/a11yscan/internal/model"
	"github.com/nao1215/a11yscan/internal/scan"
)

const missingAltViolations = `[{"id":"image-alt","impact":"critical","tags":["wcag2a"],` +
	`"description":"Ensures <img> elements have alternate text","help":"Images must have alternate text",` +
	`"helpUrl":"https://dequeuniversity.com/rules/axe/4.10/image-alt",` +
	`"nodes":[{"html":"<img src=\"a.png\">","target":["img"],"failureSummary":"Fix any of the following"}]}]`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServer wires a real Scanner to a fake browser.
func newTestServer(t *testing.T, l *browsertest.Launcher) *Server {
	t.Helper()

	path := filepath.Join(t.TempDir(), "axe.min.js")
	if err := os.WriteFile(path, []byte("window.axe = {};"), 0600); err != nil {
		t.Fatalf("failed to write bundle: %v", err)
	}

	scanner := scan.NewScanner(l,
		scan.WithScriptPath(path),
		scan.WithSettleDelay(0),
		scan.WithLogger(discardLogger()),
	)
	return New(scanner, WithLogger(discardLogger()))
}

func postScan(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) model.ScanResponse {
	t.Helper()

	var resp model.ScanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unexpected error: %v (body %s)", err, rec.Body.String())
	}
	return resp
}

// TestHandleScan_MissingURL tests that absent, blank and non-string urls are rejected with 400.
func TestHandleScan_MissingURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "empty string", body: `{"url":""}`},
		{name: "whitespace only", body: `{"url":"   "}`},
		{name: "field absent", body: `{}`},
		{name: "null", body: `{"url":null}`},
		{name: "number", body: `{"url":42}`},
		{name: "object", body: `{"url":{"href":"example.com"}}`},
		{name: "null body", body: `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l := &browsertest.Launcher{}
			rec := postScan(t, newTestServer(t, l).Handler(), tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", rec.Code)
			}
			want := `{"ok":false,"violations":[],"error":"Missing url"}`
			if got := strings.TrimSpace(rec.Body.String()); got != want {
				t.Errorf("expected body %s, got %s", want, got)
			}
			if l.Launched() != 0 {
				t.Errorf("expected no browser launch, got %d", l.Launched())
			}
		})
	}
}

// TestHandleScan_CompliantPage tests a page without violations.
func TestHandleScan_CompliantPage(t *testing.T) {
	t.Parallel()

	var navigated string
	l := &browsertest.Launcher{
		NavigateFunc: func(_ context.Context, url string) error {
			navigated = url
			return nil
		},
	}
	rec := postScan(t, newTestServer(t, l).Handler(), `{"url":"example.com"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("expected JSON content type, got %q", ct)
	}

	resp := decodeResponse(t, rec)
	if !resp.OK {
		t.Fatalf("expected ok, got error %q", resp.Error)
	}
	if len(resp.Violations) != 0 {
		t.Errorf("expected no violations, got %d", len(resp.Violations))
	}
	if resp.URL != "https://example.com" || navigated != "https://example.com" {
		t.Errorf("expected normalized url https://example.com, got %q (navigated %q)", resp.URL, navigated)
	}
	if _, err := time.Parse(model.TimestampLayout, resp.Timestamp); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if l.Open() != 0 {
		t.Errorf("expected every browser to be closed, %d still open", l.Open())
	}
}

// TestHandleScan_MissingAlt tests that a violation is passed through with 200.
func TestHandleScan_MissingAlt(t *testing.T) {
	t.Parallel()

	l := &browsertest.Launcher{
		EvaluateFunc: func(context.Context, string) (string, error) {
			return missingAltViolations, nil
		},
	}
	rec := postScan(t, newTestServer(t, l).Handler(), `{"url":"example.com"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if len(resp.Violations) != 1 || resp.Violations[0].ID != "image-alt" {
		t.Fatalf("expected one image-alt violation, got %+v", resp.Violations)
	}
	if resp.Violations[0].Impact != model.ImpactCritical {
		t.Errorf("expected critical impact, got %q", resp.Violations[0].Impact)
	}
}

// TestHandleScan_UnresolvableHost tests that navigation failures map to 500.
func TestHandleScan_UnresolvableHost(t *testing.T) {
	t.Parallel()

	l := &browsertest.Launcher{
		NavigateFunc: func(context.Context, string) error {
			return browsertest.ErrUnresolvable
		},
	}
	rec := postScan(t, newTestServer(t, l).Handler(), `{"url":"nonexistent.invalid"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.OK {
		t.Fatal("expected ok to be false")
	}
	if resp.Error == "" {
		t.Error("expected non-empty error")
	}
	if resp.Violations == nil || len(resp.Violations) != 0 {
		t.Errorf("expected empty violations, got %v", resp.Violations)
	}
	if l.Open() != 0 {
		t.Errorf("expected every browser to be closed, %d still open", l.Open())
	}
}

// TestHandleScan_MalformedJSON tests that a body that is not a JSON object yields 500 with a trace.
func TestHandleScan_MalformedJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "truncated object", body: `{"url":`},
		{name: "array", body: `[1]`},
		{name: "string", body: `"example.com"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := postScan(t, newTestServer(t, &browsertest.Launcher{}).Handler(), tt.body)

			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("expected status 500, got %d", rec.Code)
			}
			resp := decodeResponse(t, rec)
			if resp.OK || resp.Error == "" {
				t.Errorf("expected failed response with error, got %+v", resp)
			}
			if resp.Trace == "" {
				t.Error("expected trace text")
			}
		})
	}
}

// TestHandleScan_BodyTooLarge tests the request size cap.
func TestHandleScan_BodyTooLarge(t *testing.T) {
	t.Parallel()

	body := `{"url":"` + strings.Repeat("a", MaxRequestBodySize) + `"}`
	rec := postScan(t, newTestServer(t, &browsertest.Launcher{}).Handler(), body)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	if resp := decodeResponse(t, rec); !strings.Contains(resp.Error, "exceeds") {
		t.Errorf("expected size error, got %q", resp.Error)
	}
}

// TestHandleScan_ClientCancellationIsIgnored tests that a cancelled request context does not abort the scan.
func TestHandleScan_ClientCancellationIsIgnored(t *testing.T) {
	t.Parallel()

	l := &browsertest.Launcher{}
	h := newTestServer(t, l).Handler()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequestWithContext(ctx, http.MethodPost, "/api/scan", strings.NewReader(`{"url":"example.com"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (%s)", rec.Code, rec.Body.String())
	}
}

type panicScanner struct{}

func (panicScanner) Scan(context.Context, string) model.ScanResponse {
	panic("boom")
}

// TestRecoverPanics tests that a panic escaping the handler becomes a 500 with message and trace.
func TestRecoverPanics(t *testing.T) {
	t.Parallel()

	h := New(panicScanner{}, WithLogger(discardLogger())).Handler()
	rec := postScan(t, h, `{"url":"example.com"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Error != "boom" {
		t.Errorf("expected error boom, got %q", resp.Error)
	}
	if !strings.Contains(resp.Trace, "goroutine") {
		t.Errorf("expected stack trace, got %q", resp.Trace)
	}
	if resp.Violations == nil {
		t.Error("expected empty violations array, got nil")
	}
}

type fixedScanner struct {
	resp model.ScanResponse
}

func (f fixedScanner) Scan(context.Context, string) model.ScanResponse {
	return f.resp
}

// TestHandleScanInvalidResponse tests that a result breaking the ok/error
// invariant is replaced with a 500 error response.
func TestHandleScanInvalidResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		resp model.ScanResponse
	}{
		{
			name: "ok with error",
			resp: model.ScanResponse{OK: true, URL: "https://example.com/", Violations: []model.Violation{}, Error: "stray"},
		},
		{
			name: "ok with nil violations",
			resp: model.ScanResponse{OK: true, URL: "https://example.com/"},
		},
		{
			name: "failure without error",
			resp: model.ScanResponse{OK: false, URL: "https://example.com/", Violations: []model.Violation{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := New(fixedScanner{resp: tt.resp}, WithLogger(discardLogger())).Handler()
			rec := postScan(t, h, `{"url":"example.com"}`)

			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("expected status 500, got %d", rec.Code)
			}
			resp := decodeResponse(t, rec)
			if resp.OK {
				t.Error("expected ok=false")
			}
			if resp.Error != InvalidResponseMessage {
				t.Errorf("expected error %q, got %q", InvalidResponseMessage, resp.Error)
			}
			if resp.URL != "https://example.com/" {
				t.Errorf("expected url to be kept, got %q", resp.URL)
			}
			if !resp.Valid() {
				t.Errorf("expected a valid response, got %+v", resp)
			}
		})
	}
}

// TestHandleGuides tests the fix guide endpoints.
func TestHandleGuides(t *testing.T) {
	t.Parallel()

	h := New(panicScanner{}, WithLogger(discardLogger())).Handler()

	t.Run("lists all guides", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/guides", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}

		var got map[string]guide.FixGuide
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != len(guide.IDs()) {
			t.Errorf("expected %d guides, got %d", len(guide.IDs()), len(got))
		}
	})

	t.Run("returns one guide", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/guides/image-alt", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}

		var got guide.FixGuide
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want, _ := guide.Lookup("image-alt")
		if got.Title != want.Title {
			t.Errorf("expected title %q, got %q", want.Title, got.Title)
		}
	})

	t.Run("unknown rule is 404", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/guides/no-such-rule", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rec.Code)
		}
	})
}

// TestStaticRoutes tests the health check and the embedded UI.
func TestStaticRoutes(t *testing.T) {
	t.Parallel()

	h := New(panicScanner{}, WithLogger(discardLogger())).Handler()

	tests := []struct {
		name     string
		path     string
		status   int
		contains string
	}{
		{name: "health", path: "/healthz", status: http.StatusOK, contains: "ok"},
		{name: "index", path: "/", status: http.StatusOK, contains: `id="scan-form"`},
		{name: "script", path: "/app.js", status: http.StatusOK, contains: "/api/scan"},
		{name: "missing asset", path: "/nope.txt", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, rec.Code)
			}
			if tt.contains != "" && !strings.Contains(rec.Body.String(), tt.contains) {
				t.Errorf("expected body to contain %q", tt.contains)
			}
		})
	}
}

// TestLogRequests tests that every request is logged with its status.
func TestLogRequests(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	h := New(panicScanner{}, WithLogger(logger)).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/guides/no-such-rule", nil))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record["path"] != "/api/guides/no-such-rule" {
		t.Errorf("expected logged path, got %v", record["path"])
	}
	if status, _ := record["status"].(float64); int(status) != http.StatusNotFound {
		t.Errorf("expected logged status 404, got %v", record["status"])
	}
}

// TestServe tests that Serve answers requests and stops when ctx is cancelled.
func TestServe(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := New(panicScanner{}, WithLogger(discardLogger()), WithShutdownTimeout(time.Second))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	res, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", res.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancellation")
	}
}

// TestNew tests the default options.
func TestNew(t *testing.T) {
	t.Parallel()

	s := New(panicScanner{})
	if s.Address() != DefaultAddress {
		t.Errorf("expected address %s, got %s", DefaultAddress, s.Address())
	}
	if s.shutdownTimeout != DefaultShutdownTimeout {
		t.Errorf("expected shutdown timeout %v, got %v", DefaultShutdownTimeout, s.shutdownTimeout)
	}
	if got := New(panicScanner{}, WithAddress(":9090")).Address(); got != ":9090" {
		t.Errorf("expected address :9090, got %s", got)
	}
}
