// Package scrambles validates the Scrambles table: column values within
// their expected ranges, IDs within the known sets, and scramble strings
// matching their event's move grammar.
package scrambles

import (
	"fmt"

	"github.com/cubetools/wcacheck/internal/audit"
	"github.com/cubetools/wcacheck/internal/export"
)

// Rule is the rule name attached to violations.
const Rule = "irregular-scramble"

// Checker validates scramble rows one at a time so the caller can stream
// the table. It keeps per-column error counts across rows.
type Checker struct {
	// MinYear skips rows of competitions before this year, so a run can
	// be limited to new violations. Zero checks everything.
	MinYear int

	competitions map[string]bool
	events       map[string]bool
	roundTypes   map[string]bool

	// Checked counts rows examined, Counts errors per column.
	Checked int
	Counts  map[string]int
}

// NewChecker builds a checker whose membership checks run against the
// loaded competition, event and round type sets.
func NewChecker(comps []export.Competition, events []export.Event, roundTypes []export.RoundType, minYear int) *Checker {
	c := &Checker{
		MinYear:      minYear,
		competitions: make(map[string]bool, len(comps)),
		events:       make(map[string]bool, len(events)),
		roundTypes:   make(map[string]bool, len(roundTypes)),
		Counts:       map[string]int{},
	}
	for _, comp := range comps {
		c.competitions[comp.ID] = true
	}
	for _, ev := range events {
		c.events[ev.ID] = true
	}
	for _, rt := range roundTypes {
		c.roundTypes[rt.ID] = true
	}
	return c
}

// Check validates one row. The first failing column wins: at most one
// violation per row. Rows before MinYear are skipped entirely.
func (c *Checker) Check(s export.Scramble) (audit.Violation, bool) {
	year, err := export.CompetitionYear(s.CompetitionID)
	if err != nil {
		return c.flag(s, "competitionId"), true
	}
	if year < c.MinYear {
		return audit.Violation{}, false
	}
	c.Checked++

	switch {
	case !patternScrambleID.MatchString(s.ScrambleID):
		return c.flag(s, "scrambleId"), true
	case !c.competitions[s.CompetitionID]:
		return c.flag(s, "competitionId"), true
	case !c.events[s.EventID]:
		return c.flag(s, "eventId"), true
	case !c.roundTypes[s.RoundTypeID]:
		return c.flag(s, "roundTypeId"), true
	case !patternGroupID.MatchString(s.GroupID):
		return c.flag(s, "groupId"), true
	case !patternIsExtra.MatchString(s.IsExtra):
		return c.flag(s, "isExtra"), true
	case !patternScrambleNum.MatchString(s.ScrambleNum):
		return c.flag(s, "scrambleNum"), true
	}

	pattern := patterns[s.EventID]
	if s.EventID == "333fm" && year >= 2017 {
		pattern = pattern333fmNew
	}
	if pattern == nil || !pattern.MatchString(s.Scramble) {
		return c.flag(s, "scramble"), true
	}
	return audit.Violation{}, false
}

func (c *Checker) flag(s export.Scramble, column string) audit.Violation {
	c.Counts[column]++
	return audit.Violation{
		EntityID: s.ScrambleID,
		Rule:     Rule,
		Description: fmt.Sprintf("error for %s: %s %s %s group %s extra %s num %s scramble %q",
			column, s.CompetitionID, s.EventID, s.RoundTypeID, s.GroupID, s.IsExtra, s.ScrambleNum, s.Scramble),
	}
}

// Errors sums the per-column error counts.
func (c *Checker) Errors() int {
	n := 0
	for _, v := range c.Counts {
		n += v
	}
	return n
}
