package axe

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nao1215/a11yscan/internal/model"
)

// shadowSeparator joins the selectors of a target that crosses shadow roots.
const shadowSeparator = " >>> "

// RawViolation is one violation record as axe-core reports it.
// Only the fields surfaced in model.Violation are decoded.
type RawViolation struct {
	ID          string    `json:"id"`
	Impact      *string   `json:"impact"`
	Tags        []string  `json:"tags"`
	Description string    `json:"description"`
	Help        string    `json:"help"`
	HelpURL     string    `json:"helpUrl"`
	Nodes       []RawNode `json:"nodes"`
}

// RawNode is one offending node in a RawViolation.
type RawNode struct {
	HTML           string   `json:"html"`
	Target         []Target `json:"target"`
	FailureSummary string   `json:"failureSummary"`
}

// Target is one entry of an axe node target. axe reports a plain CSS
// selector, or a list of selectors when the node sits inside shadow DOM.
type Target []string

// UnmarshalJSON accepts either a string or an array of strings.
func (t *Target) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*t = Target{single}
		return nil
	}

	var nested []string
	if err := json.Unmarshal(data, &nested); err != nil {
		return fmt.Errorf("target must be a selector or a list of selectors: %w", err)
	}
	*t = Target(nested)
	return nil
}

// String joins a shadow DOM selector chain.
func (t Target) String() string {
	return strings.Join(t, shadowSeparator)
}

// Decode parses the JSON array returned by AuditExpression.
// A JSON null decodes to an empty list.
func Decode(data []byte) ([]RawViolation, error) {
	var raw []RawViolation
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode rule engine result: %w", err)
	}
	if raw == nil {
		raw = []RawViolation{}
	}
	return raw, nil
}

// Shape converts engine records into model violations. It renames fields and
// fills defaults only: the output has the same length and order as raw, and
// Tags and Nodes are never nil.
func Shape(raw []RawViolation) []model.Violation {
	violations := make([]model.Violation, len(raw))
	for i, r := range raw {
		violations[i] = shapeViolation(r)
	}
	return violations
}

func shapeViolation(r RawViolation) model.Violation {
	v := model.Violation{
		ID:          r.ID,
		Description: r.Description,
		Help:        r.Help,
		HelpURL:     r.HelpURL,
		Tags:        make([]string, len(r.Tags)),
		Nodes:       make([]model.ViolationNode, len(r.Nodes)),
	}
	if r.Impact != nil {
		v.Impact = model.NormalizeImpact(*r.Impact)
	}
	copy(v.Tags, r.Tags)

	for i, n := range r.Nodes {
		node := model.ViolationNode{
			HTML:           n.HTML,
			FailureSummary: n.FailureSummary,
		}
		if len(n.Target) > 0 {
			node.Target = make([]string, len(n.Target))
			for j, target := range n.Target {
				node.Target[j] = target.String()
			}
		}
		v.Nodes[i] = node
	}
	return v
}
