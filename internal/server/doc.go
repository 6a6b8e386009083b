// Package server serves the a11yscan web app.
//
// Routes:
//   - POST /api/scan          scan {"url": "..."} and return a ScanResponse
//   - GET  /api/guides        all fix guides keyed by rule id
//   - GET  /api/guides/{id}   one fix guide, or 404
//   - GET  /healthz           health check
//   - GET  /                  the embedded single page UI
//
// A scan keeps running when its client disconnects; its context is detached
// from the request. Panics escaping a handler become 500 responses carrying
// the panic message and stack trace.
package server
