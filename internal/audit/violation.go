// Package audit holds the violation type shared by all checks and the
// plain-text reporter that renders check output.
//
// Every check is a pure single-pass function from loaded export entities
// to a slice of violations. Checks never mutate the data and never depend
// on each other.
package audit

import "fmt"

// Violation is one rule finding against a single entity.
type Violation struct {
	// EntityID identifies the flagged entity, e.g. a WCA person ID or a
	// competition/event/round triple.
	EntityID string

	// Rule names the check that produced the finding.
	Rule string

	// Description is the human-readable explanation, already formatted
	// for the report.
	Description string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s\t%s\t%s", v.EntityID, v.Rule, v.Description)
}
