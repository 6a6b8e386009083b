package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/nao1215/a11yscan/internal/guide"
	"github.com/nao1215/a11yscan/internal/model"
)

// MissingURLMessage is the error reported when the request has no usable url.
const MissingURLMessage = "Missing url"

// InvalidResponseMessage replaces a scan result that breaks the ok/error
// invariant.
const InvalidResponseMessage = "scanner returned an invalid response"

//go:embed static
var staticFiles embed.FS

// scanRequestBody mirrors model.ScanRequest but keeps url untyped so a
// non-string value can be told apart from malformed JSON.
type scanRequestBody struct {
	URL any `json:"url"`
}

// Handler returns the routed handler with recovery and request logging.
func (s *Server) Handler() http.Handler {
	return s.handler(context.Background())
}

// handler builds the route table. Scans are cancelled when base is.
func (s *Server) handler(base context.Context) http.Handler {
	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("embedded static files missing: %v", err))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/scan", s.handleScan(base))
	mux.HandleFunc("GET /api/guides", s.handleGuides)
	mux.HandleFunc("GET /api/guides/{id}", s.handleGuide)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.Handle("GET /", http.FileServerFS(static))

	return s.logRequests(s.recoverPanics(mux))
}

// handleScan validates the body, runs the scan detached from the client's
// cancellation, and maps ok to 200 and failure to 500.
func (s *Server) handleScan(base context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

		var req scanRequestBody
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			s.writeInternalError(w, fmt.Errorf("invalid request body: %w", err), debug.Stack())
			return
		}

		rawURL, ok := req.URL.(string)
		if !ok || strings.TrimSpace(rawURL) == "" {
			writeJSON(w, http.StatusBadRequest, model.NewErrorResponse("", time.Time{}, MissingURLMessage))
			return
		}

		ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
		defer cancel()
		stop := context.AfterFunc(base, cancel)
		defer stop()

		resp := s.scanner.Scan(ctx, rawURL)
		if !resp.Valid() {
			s.logger.Error("scanner returned an invalid response", "url", rawURL, "ok", resp.OK, "error", resp.Error)
			resp = model.NewErrorResponse(resp.URL, time.Now(), InvalidResponseMessage)
		}

		status := http.StatusOK
		if !resp.OK {
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, resp)
	}
}

func (s *Server) handleGuides(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, guide.All())
}

func (s *Server) handleGuide(w http.ResponseWriter, r *http.Request) {
	g, ok := guide.Lookup(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no fix guide for rule"})
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// writeInternalError writes a 500 ScanResponse carrying err and trace.
func (s *Server) writeInternalError(w http.ResponseWriter, err error, trace []byte) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		err = fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
	}
	s.logger.Error("request failed", "error", err)

	resp := model.NewErrorResponse("", time.Time{}, err.Error())
	resp.Trace = string(trace)
	writeJSON(w, http.StatusInternalServerError, resp)
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
