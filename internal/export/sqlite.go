package export

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// dbLoader implements Loader against a SQLite snapshot of the export, one
// table per TSV file with the same column names.
type dbLoader struct {
	db      *sql.DB
	log     zerolog.Logger
	skipped int
}

// OpenDB opens a read-only SQLite snapshot of the export.
func OpenDB(path string) (Loader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrExportMissing, path)
	}
	db, err := sql.Open("sqlite", path+"?mode=ro&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite export: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrExportMissing, path, err)
	}
	return &dbLoader{db: db, log: zerolog.Nop()}, nil
}

func (l *dbLoader) Skipped() int { return l.skipped }

func (l *dbLoader) Close() error { return l.db.Close() }

// query runs a SELECT and feeds each row to scan. A row that fails to scan
// is skipped and counted, matching the TSV loader's behavior.
func (l *dbLoader) query(table, stmt string, scan func(*sql.Rows) error) error {
	rows, err := l.db.Query(stmt)
	if err != nil {
		return fmt.Errorf("%w: table %s: %v", ErrExportMissing, table, err)
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			l.skipped++
			l.log.Warn().Str("table", table).Err(err).Msg("skipping malformed row")
		}
	}
	return rows.Err()
}

func (l *dbLoader) Persons() ([]Person, error) {
	var out []Person
	err := l.query("Persons", `SELECT id, subid, name, countryId FROM Persons`, func(rows *sql.Rows) error {
		var p Person
		if err := rows.Scan(&p.ID, &p.SubID, &p.Name, &p.CountryID); err != nil {
			return err
		}
		out = append(out, p)
		return nil
	})
	return out, err
}

func (l *dbLoader) Results() ([]Result, error) {
	var out []Result
	stmt := `SELECT competitionId, eventId, roundTypeId, pos, personId, personCountryId,
		value1, value2, value3, value4, value5, best, average,
		COALESCE(regionalSingleRecord, ''), COALESCE(regionalAverageRecord, '')
		FROM Results`
	err := l.query("Results", stmt, func(rows *sql.Rows) error {
		var r Result
		if err := rows.Scan(&r.CompetitionID, &r.EventID, &r.RoundTypeID, &r.Pos,
			&r.PersonID, &r.PersonCountryID,
			&r.Values[0], &r.Values[1], &r.Values[2], &r.Values[3], &r.Values[4],
			&r.Best, &r.Average, &r.SingleRecord, &r.AverageRecord); err != nil {
			return err
		}
		out = append(out, r)
		return nil
	})
	return out, err
}

func (l *dbLoader) Competitions() ([]Competition, error) {
	var out []Competition
	stmt := `SELECT id, year, month, day, endMonth, endDay FROM Competitions`
	err := l.query("Competitions", stmt, func(rows *sql.Rows) error {
		var c Competition
		if err := rows.Scan(&c.ID, &c.Year, &c.Month, &c.Day, &c.EndMonth, &c.EndDay); err != nil {
			return err
		}
		out = append(out, c)
		return nil
	})
	return out, err
}

func (l *dbLoader) Events() ([]Event, error) {
	var out []Event
	err := l.query("Events", `SELECT id FROM Events`, func(rows *sql.Rows) error {
		var e Event
		if err := rows.Scan(&e.ID); err != nil {
			return err
		}
		out = append(out, e)
		return nil
	})
	return out, err
}

func (l *dbLoader) RoundTypes() ([]RoundType, error) {
	var out []RoundType
	err := l.query("RoundTypes", `SELECT id FROM RoundTypes`, func(rows *sql.Rows) error {
		var rt RoundType
		if err := rows.Scan(&rt.ID); err != nil {
			return err
		}
		out = append(out, rt)
		return nil
	})
	return out, err
}

func (l *dbLoader) Countries() ([]Country, error) {
	var out []Country
	err := l.query("Countries", `SELECT id, continentId FROM Countries`, func(rows *sql.Rows) error {
		var c Country
		if err := rows.Scan(&c.ID, &c.ContinentID); err != nil {
			return err
		}
		out = append(out, c)
		return nil
	})
	return out, err
}

func (l *dbLoader) Scrambles(fn func(Scramble) error) error {
	stmt := `SELECT scrambleId, competitionId, eventId, roundTypeId, groupId, isExtra, scrambleNum, scramble
		FROM Scrambles`
	return l.query("Scrambles", stmt, func(rows *sql.Rows) error {
		var s Scramble
		if err := rows.Scan(&s.ScrambleID, &s.CompetitionID, &s.EventID, &s.RoundTypeID,
			&s.GroupID, &s.IsExtra, &s.ScrambleNum, &s.Scramble); err != nil {
			return err
		}
		return fn(s)
	})
}
