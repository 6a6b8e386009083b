// Package scan is the single entry point for auditing one page.
//
// Scanner.Scan normalizes the URL, launches a dedicated browser session,
// runs the scan pipeline and converts the outcome into a model.ScanResponse.
// Every call owns exactly one browser session, released before Scan returns
// on every path. Scan never returns an error value and never panics; all
// failures are reported through ScanResponse.Error.
package scan
