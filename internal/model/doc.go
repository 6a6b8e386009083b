// Package model defines the data structures shared by the scanner, the HTTP
// API and the report writers.
//
// This package contains the following main types:
//   - ScanRequest: The body accepted by the scan endpoint
//   - ScanResponse: The result of one scan, successful or not
//   - Violation: One accessibility rule failure reported by the rule engine
//   - Impact: The ordinal severity of a violation
//   - Filter: Minimum-impact and free-text filtering over violations
//
// All types are value objects. Nothing is mutated after a scan returns.
package model
