package staffing

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// ReadSchedule parses the schedule file: comma-separated with a header,
// one row per session: date,start,end,event,round,groups,areas. Times are
// HHMM on the given date.
func ReadSchedule(r io.Reader) ([]Session, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read schedule: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("read schedule: empty file")
	}

	var out []Session
	for i, row := range rows[1:] {
		if len(row) < 7 {
			return nil, fmt.Errorf("schedule line %d: want 7 fields, got %d", i+2, len(row))
		}
		day := strings.TrimSpace(row[0])
		date, err := time.Parse("2006-01-02", day)
		if err != nil {
			return nil, fmt.Errorf("schedule line %d: bad date %q", i+2, row[0])
		}
		start, err := clockOn(date, row[1])
		if err != nil {
			return nil, fmt.Errorf("schedule line %d: %v", i+2, err)
		}
		end, err := clockOn(date, row[2])
		if err != nil {
			return nil, fmt.Errorf("schedule line %d: %v", i+2, err)
		}
		round, err := strconv.Atoi(strings.TrimSpace(row[4]))
		if err != nil {
			return nil, fmt.Errorf("schedule line %d: bad round %q", i+2, row[4])
		}
		groups, err := strconv.Atoi(strings.TrimSpace(row[5]))
		if err != nil || groups < 1 {
			return nil, fmt.Errorf("schedule line %d: bad group count %q", i+2, row[5])
		}
		areas, err := strconv.Atoi(strings.TrimSpace(row[6]))
		if err != nil || areas < 1 {
			return nil, fmt.Errorf("schedule line %d: bad area count %q", i+2, row[6])
		}
		out = append(out, Session{
			Index:  len(out) + 1,
			Day:    day,
			Start:  start,
			End:    end,
			Event:  strings.TrimSpace(row[3]),
			Round:  round,
			Groups: groups,
			Areas:  areas,
		})
	}
	return out, nil
}

// clockOn parses an HHMM time of day onto the given date.
func clockOn(date time.Time, hhmm string) (time.Time, error) {
	s := strings.TrimSpace(hhmm)
	if len(s) != 4 {
		return time.Time{}, fmt.Errorf("bad time %q", hhmm)
	}
	h, err1 := strconv.Atoi(s[:2])
	m, err2 := strconv.Atoi(s[2:])
	if err1 != nil || err2 != nil || h > 23 || m > 59 {
		return time.Time{}, fmt.Errorf("bad time %q", hhmm)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), h, m, 0, 0, date.Location()), nil
}

// ReadStaff parses the staff file: semicolon-separated with a header, one
// row per member: name;days;run;scr1;scr2;prac;proc. The days field is a
// comma list of dates the member is present, the event fields are comma
// lists of event IDs.
func ReadStaff(r io.Reader) ([]*Member, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read staff: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("read staff: empty file")
	}

	var out []*Member
	for i, row := range rows[1:] {
		if len(row) < 7 {
			return nil, fmt.Errorf("staff line %d: want 7 fields, got %d", i+2, len(row))
		}
		run, err := strconv.Atoi(strings.TrimSpace(row[2]))
		if err != nil {
			return nil, fmt.Errorf("staff line %d: bad running value %q", i+2, row[2])
		}
		days := map[string]bool{}
		for _, d := range splitList(row[1]) {
			days[d] = true
		}
		out = append(out, &Member{
			Name: strings.TrimSpace(row[0]),
			Days: days,
			Run:  run,
			Scr1: splitList(row[3]),
			Scr2: splitList(row[4]),
			Prac: splitList(row[5]),
			Proc: splitList(row[6]),
		})
	}
	return out, nil
}

// ReadGrouping parses the grouping file: semicolon-separated, header
// "name;<event>;<event>;...", one row per member with the assigned group
// number per event (0 = not competing).
func ReadGrouping(r io.Reader) (map[string]map[string]int, []string, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read grouping: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("read grouping: empty file")
	}

	events := make([]string, 0, len(rows[0])-1)
	for _, ev := range rows[0][1:] {
		events = append(events, strings.TrimSpace(ev))
	}

	grouping := map[string]map[string]int{}
	for i, row := range rows[1:] {
		if len(row) != len(events)+1 {
			return nil, nil, fmt.Errorf("grouping line %d: want %d fields, got %d", i+2, len(events)+1, len(row))
		}
		name := strings.TrimSpace(row[0])
		byEvent := make(map[string]int, len(events))
		for j, ev := range events {
			n, err := strconv.Atoi(strings.TrimSpace(row[j+1]))
			if err != nil {
				return nil, nil, fmt.Errorf("grouping line %d: bad group for %s: %q", i+2, ev, row[j+1])
			}
			byEvent[ev] = n
		}
		grouping[name] = byEvent
	}
	return grouping, events, nil
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ReadScheduleFile, ReadStaffFile and ReadGroupingFile are the file-path
// variants of the readers.
func ReadScheduleFile(path string) ([]Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSchedule(f)
}

func ReadStaffFile(path string) ([]*Member, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadStaff(f)
}

func ReadGroupingFile(path string) (map[string]map[string]int, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return ReadGrouping(f)
}
