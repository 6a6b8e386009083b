// Package guide holds the static remediation content shown next to
// violations. Guides are keyed by the rule engine's rule id and are
// read-only for the life of the process.
package guide
