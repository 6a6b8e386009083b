package axe

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// DefaultScriptPath is where the axe-core bundle is expected when no path is
// configured. It is resolved relative to the working directory.
const DefaultScriptPath = "assets/axe.min.js"

var (
	// ErrScriptNotFound is returned when the engine bundle does not exist.
	ErrScriptNotFound = errors.New("rule engine script not found")

	// ErrEmptyScript is returned when the engine bundle exists but is empty.
	ErrEmptyScript = errors.New("rule engine script is empty")
)

// AuditExpression is evaluated in the page after the bundle is injected.
// It audits the whole document for violations only and returns them as a
// JSON string so that the result crosses the protocol boundary intact.
const AuditExpression = `() => axe.run(document, { resultTypes: ["violations"] })
	.then((results) => JSON.stringify(results.violations || []))`

// LoadScript reads the axe-core bundle at path.
func LoadScript(path string) (string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path comes from operator configuration
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrScriptNotFound, path)
		}
		return "", fmt.Errorf("failed to read rule engine script %s: %w", path, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyScript, path)
	}
	return string(data), nil
}
