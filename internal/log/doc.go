// Package log provides slog loggers that redact sensitive values.
//
// The SecureHandler wraps any slog.Handler and rewrites attributes before
// they are written:
//   - Values of sensitive keys (cookie, authorization, token, password...)
//     are replaced with MaskValue
//   - Bearer tokens, basic credentials and JWT-looking strings are masked
//     regardless of key
//   - URL values keep their scheme, host and path, but userinfo and
//     sensitive query parameters are masked
//
// Scanned URLs are user input and routinely carry session tokens in their
// query strings, so every URL logged by the scanner passes through here.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//	logger.Info("scan completed", "url", "https://u:p@example.com/?token=abc")
//	// url=https://***REDACTED***@example.com/?token=***REDACTED***
package log
