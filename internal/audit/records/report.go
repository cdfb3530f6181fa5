package records

import (
	"fmt"
	"io"
	"strings"

	"github.com/cubetools/wcacheck/internal/audit"
)

// Rule is the rule name attached to violations.
const Rule = "record-consistency"

var columnHeaders = []string{
	"WCA-ID", "country", "continent", "event", "record type", "result",
	"competition", "start date", "end date", "round", "stored", "computed",
}

// Tuple renders one finding as the tab-separated report row.
func (f Finding) Tuple() string {
	return strings.Join([]string{
		f.PersonID, f.CountryID, f.ContinentID, f.EventID, string(f.Kind),
		FormatResult(f.Value, f.EventID), f.CompetitionID,
		f.Start.Format("2006-01-02"), f.End.Format("2006-01-02"),
		f.RoundTypeID, f.Stored, f.Computed,
	}, "\t")
}

// Render writes the report: the clear-error block followed by the
// possible-error block, groups separated by blank lines.
func (r Report) Render(w io.Writer) error {
	writeBlock := func(title string, groups []Group) error {
		if _, err := fmt.Fprintf(w, "%s: %d\n\n", title, len(groups)); err != nil {
			return err
		}
		if len(groups) > 0 {
			if _, err := fmt.Fprintf(w, "%s\n\n", strings.Join(columnHeaders, "\t")); err != nil {
				return err
			}
		}
		for _, g := range groups {
			lines := make([]string, len(g))
			for i, f := range g {
				lines[i] = f.Tuple()
			}
			if _, err := fmt.Fprintf(w, "%s\n\n", strings.Join(lines, "\n")); err != nil {
				return err
			}
		}
		return nil
	}

	if err := writeBlock("Clear errors", r.Clear); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, "\n"); err != nil {
		return err
	}
	return writeBlock("Possible errors", r.Possible)
}

// Violations flattens the report into the shared violation shape, one
// violation per involved result.
func (r Report) Violations() []audit.Violation {
	var out []audit.Violation
	add := func(groups []Group, rule string) {
		for _, g := range groups {
			for _, f := range g {
				out = append(out, audit.Violation{
					EntityID:    f.PersonID + "@" + f.CompetitionID,
					Rule:        rule,
					Description: f.Tuple(),
				})
			}
		}
	}
	add(r.Clear, Rule+"/clear")
	add(r.Possible, Rule+"/possible")
	return out
}
