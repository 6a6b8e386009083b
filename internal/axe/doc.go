// Package axe wraps the axe-core accessibility rule engine.
//
// It loads the bundled engine script from disk, provides the in-page
// expression that runs the audit, and shapes the engine's native violation
// records into model.Violation values. Rule evaluation itself happens inside
// the browser; this package never inspects markup.
package axe
