package export

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"
)

// tableFile returns the file name of a table inside a TSV export.
func tableFile(table string) string {
	return "WCA_export_" + table + ".tsv"
}

// tsvLoader implements Loader on top of anything that can open table files
// by name. Both the directory and the zip form of the export share it.
type tsvLoader struct {
	open    func(table string) (io.ReadCloser, error)
	closeFn func() error
	log     zerolog.Logger
	skipped int
}

func (l *tsvLoader) Skipped() int { return l.skipped }

func (l *tsvLoader) Close() error {
	if l.closeFn != nil {
		return l.closeFn()
	}
	return nil
}

// record is one data row paired with the header of its table.
type record struct {
	idx map[string]int
	row []string
}

func (r record) str(col string) string {
	i, ok := r.idx[col]
	if !ok || i >= len(r.row) {
		return ""
	}
	return r.row[i]
}

func (r record) int(col string) (int, error) {
	s := r.str(col)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", col, err)
	}
	return n, nil
}

// scan streams one table through fn. Rows that fail fn are skipped and
// counted; a missing file or header is fatal.
func (l *tsvLoader) scan(table string, required []string, fn func(record) error) error {
	rc, err := l.open(table)
	if err != nil {
		return err
	}
	defer rc.Close()

	r := csv.NewReader(rc)
	r.Comma = '\t'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrBadHeader, table, err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return fmt.Errorf("%w: %s: missing column %s", ErrBadHeader, table, col)
		}
	}

	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			return nil
		}
		line++
		if err != nil {
			l.skipped++
			l.log.Warn().Str("table", table).Int("line", line).Err(err).Msg("skipping malformed row")
			continue
		}
		if err := fn(record{idx: idx, row: row}); err != nil {
			l.skipped++
			l.log.Warn().Str("table", table).Int("line", line).Err(err).Msg("skipping malformed row")
		}
	}
}

func (l *tsvLoader) Persons() ([]Person, error) {
	var out []Person
	err := l.scan("Persons", []string{"id", "name"}, func(rec record) error {
		subID, err := rec.int("subid")
		if err != nil {
			return err
		}
		out = append(out, Person{
			ID:        rec.str("id"),
			SubID:     subID,
			Name:      rec.str("name"),
			CountryID: rec.str("countryId"),
		})
		return nil
	})
	return out, err
}

func (l *tsvLoader) Results() ([]Result, error) {
	var out []Result
	cols := []string{"competitionId", "eventId", "roundTypeId", "pos", "personId", "best", "average"}
	err := l.scan("Results", cols, func(rec record) error {
		res := Result{
			CompetitionID:   rec.str("competitionId"),
			EventID:         rec.str("eventId"),
			RoundTypeID:     rec.str("roundTypeId"),
			PersonID:        rec.str("personId"),
			PersonCountryID: rec.str("personCountryId"),
			SingleRecord:    rec.str("regionalSingleRecord"),
			AverageRecord:   rec.str("regionalAverageRecord"),
		}
		var err error
		if res.Pos, err = rec.int("pos"); err != nil {
			return err
		}
		if res.Best, err = rec.int("best"); err != nil {
			return err
		}
		if res.Average, err = rec.int("average"); err != nil {
			return err
		}
		for i := 0; i < 5; i++ {
			if res.Values[i], err = rec.int("value" + strconv.Itoa(i+1)); err != nil {
				return err
			}
		}
		out = append(out, res)
		return nil
	})
	return out, err
}

func (l *tsvLoader) Competitions() ([]Competition, error) {
	var out []Competition
	cols := []string{"id", "year", "month", "day", "endMonth", "endDay"}
	err := l.scan("Competitions", cols, func(rec record) error {
		c := Competition{ID: rec.str("id")}
		var err error
		if c.Year, err = rec.int("year"); err != nil {
			return err
		}
		if c.Month, err = rec.int("month"); err != nil {
			return err
		}
		if c.Day, err = rec.int("day"); err != nil {
			return err
		}
		if c.EndMonth, err = rec.int("endMonth"); err != nil {
			return err
		}
		if c.EndDay, err = rec.int("endDay"); err != nil {
			return err
		}
		out = append(out, c)
		return nil
	})
	return out, err
}

func (l *tsvLoader) Events() ([]Event, error) {
	var out []Event
	err := l.scan("Events", []string{"id"}, func(rec record) error {
		out = append(out, Event{ID: rec.str("id")})
		return nil
	})
	return out, err
}

func (l *tsvLoader) RoundTypes() ([]RoundType, error) {
	var out []RoundType
	err := l.scan("RoundTypes", []string{"id"}, func(rec record) error {
		out = append(out, RoundType{ID: rec.str("id")})
		return nil
	})
	return out, err
}

func (l *tsvLoader) Countries() ([]Country, error) {
	var out []Country
	err := l.scan("Countries", []string{"id", "continentId"}, func(rec record) error {
		out = append(out, Country{ID: rec.str("id"), ContinentID: rec.str("continentId")})
		return nil
	})
	return out, err
}

func (l *tsvLoader) Scrambles(fn func(Scramble) error) error {
	cols := []string{"scrambleId", "competitionId", "eventId", "roundTypeId", "groupId", "isExtra", "scrambleNum", "scramble"}
	return l.scan("Scrambles", cols, func(rec record) error {
		return fn(Scramble{
			ScrambleID:    rec.str("scrambleId"),
			CompetitionID: rec.str("competitionId"),
			EventID:       rec.str("eventId"),
			RoundTypeID:   rec.str("roundTypeId"),
			GroupID:       rec.str("groupId"),
			IsExtra:       rec.str("isExtra"),
			ScrambleNum:   rec.str("scrambleNum"),
			Scramble:      rec.str("scramble"),
		})
	})
}

// OpenDir opens an unpacked export directory.
func OpenDir(dir string) (Loader, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrExportMissing, dir)
	}
	l := &tsvLoader{log: zerolog.Nop()}
	l.open = func(table string) (io.ReadCloser, error) {
		f, err := os.Open(filepath.Join(dir, tableFile(table)))
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrExportMissing, tableFile(table))
		}
		return f, nil
	}
	return l, nil
}

// OpenZip opens the export zip bundle without unpacking it.
func OpenZip(path string) (Loader, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrExportMissing, path)
	}
	l := &tsvLoader{log: zerolog.Nop()}
	l.closeFn = zr.Close
	l.open = func(table string) (io.ReadCloser, error) {
		f, err := zr.Open(tableFile(table))
		if err != nil {
			return nil, fmt.Errorf("%w: %s in %s", ErrExportMissing, tableFile(table), path)
		}
		return f, nil
	}
	return l, nil
}

// SetLogger routes skip warnings of a loader to the given logger. Loaders
// default to a no-op logger so library use stays quiet.
func SetLogger(l Loader, log zerolog.Logger) {
	switch v := l.(type) {
	case *tsvLoader:
		v.log = log
	case *dbLoader:
		v.log = log
	}
}
