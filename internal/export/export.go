// Package export loads tables of a WCA results database export into memory.
//
// The export comes in three shapes: an unpacked directory of
// WCA_export_*.tsv files, the original zip bundle, or a SQLite snapshot
// with one table per export file. All loaders are read-only and produce
// the same entity types; a malformed row is skipped and counted, never
// fatal.
package export

import (
	"fmt"
	"strings"
	"time"
)

// Person is one row of the Persons table. A person can appear multiple
// times with different SubIDs when their name or country changed; SubID 1
// is the current row.
type Person struct {
	ID        string
	SubID     int
	Name      string
	CountryID string
}

// Result is one row of the Results table. Values holds the up to five
// attempt values in centiseconds (0 means no attempt, negative values are
// DNF/DNS).
type Result struct {
	CompetitionID   string
	EventID         string
	RoundTypeID     string
	Pos             int
	PersonID        string
	PersonCountryID string
	Values          [5]int
	Best            int
	Average         int
	SingleRecord    string
	AverageRecord   string
}

// ZeroCount returns how many of the five attempt slots are empty.
func (r Result) ZeroCount() int {
	n := 0
	for _, v := range r.Values {
		if v == 0 {
			n++
		}
	}
	return n
}

// Competition is one row of the Competitions table. Dates are stored the
// way the export stores them: a year plus start and end month/day.
type Competition struct {
	ID       string
	Year     int
	Month    int
	Day      int
	EndMonth int
	EndDay   int
}

// StartDate returns the first day of the competition.
func (c Competition) StartDate() time.Time {
	return time.Date(c.Year, time.Month(c.Month), c.Day, 0, 0, 0, 0, time.UTC)
}

// EndDate returns the last day of the competition. An end month smaller
// than the start month means the competition spans the turn of the year.
func (c Competition) EndDate() time.Time {
	year := c.Year
	if c.EndMonth < c.Month {
		year++
	}
	return time.Date(year, time.Month(c.EndMonth), c.EndDay, 0, 0, 0, 0, time.UTC)
}

// Event is one row of the Events table.
type Event struct {
	ID string
}

// RoundType is one row of the RoundTypes table.
type RoundType struct {
	ID string
}

// Country is one row of the Countries table.
type Country struct {
	ID          string
	ContinentID string
}

// Scramble is one row of the Scrambles table.
type Scramble struct {
	ScrambleID    string
	CompetitionID string
	EventID       string
	RoundTypeID   string
	GroupID       string
	IsExtra       string
	ScrambleNum   string
	Scramble      string
}

// CompetitionYear extracts the year from a competition ID, which by WCA
// convention ends in the four-digit year.
func CompetitionYear(competitionID string) (int, error) {
	if len(competitionID) < 4 {
		return 0, fmt.Errorf("competition id %q too short for year suffix", competitionID)
	}
	suffix := competitionID[len(competitionID)-4:]
	var year int
	if _, err := fmt.Sscanf(suffix, "%d", &year); err != nil || year < 1000 {
		return 0, fmt.Errorf("competition id %q has no year suffix", competitionID)
	}
	return year, nil
}

// Loader provides access to the export tables. Slices are loaded whole;
// Scrambles is streamed because the table is by far the largest one.
type Loader interface {
	Persons() ([]Person, error)
	Results() ([]Result, error)
	Competitions() ([]Competition, error)
	Events() ([]Event, error)
	RoundTypes() ([]RoundType, error)
	Countries() ([]Country, error)
	Scrambles(fn func(Scramble) error) error

	// Skipped reports how many malformed rows were dropped so far.
	Skipped() int
	Close() error
}

// Open picks a loader implementation from the path suffix: .zip opens the
// bundled export, .db/.sqlite/.sqlite3 a SQLite snapshot, anything else is
// treated as an unpacked export directory.
func Open(path string) (Loader, error) {
	switch {
	case strings.HasSuffix(path, ".zip"):
		return OpenZip(path)
	case strings.HasSuffix(path, ".db"),
		strings.HasSuffix(path, ".sqlite"),
		strings.HasSuffix(path, ".sqlite3"):
		return OpenDB(path)
	default:
		return OpenDir(path)
	}
}
