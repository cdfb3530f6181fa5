package export

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTable(t *testing.T, dir, table, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, tableFile(table)), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestOpenDirMissing(t *testing.T) {
	_, err := OpenDir(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, ErrExportMissing) {
		t.Fatalf("expected ErrExportMissing, got %v", err)
	}
}

func TestMissingTableFile(t *testing.T) {
	l, err := OpenDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	if _, err := l.Persons(); !errors.Is(err, ErrExportMissing) {
		t.Fatalf("expected ErrExportMissing, got %v", err)
	}
}

func TestPersons(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "Persons",
		"id\tsubid\tname\tcountryId\tgender\n"+
			"2009ZEMD01\t1\tFeliks Zemdegs\tAustralia\tm\n"+
			"2009ZEMD01\t2\tFeliks Zemdegs\tAustralia\tm\n")
	l, err := OpenDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	persons, err := l.Persons()
	if err != nil {
		t.Fatal(err)
	}
	if len(persons) != 2 {
		t.Fatalf("expected 2 persons, got %d", len(persons))
	}
	want := Person{ID: "2009ZEMD01", SubID: 1, Name: "Feliks Zemdegs", CountryID: "Australia"}
	if persons[0] != want {
		t.Fatalf("got %+v, want %+v", persons[0], want)
	}
}

func TestMalformedRowSkipped(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "Persons",
		"id\tsubid\tname\tcountryId\n"+
			"2009ZEMD01\tone\tFeliks Zemdegs\tAustralia\n"+
			"2005AKKE01\t1\tErik Akkersdijk\tNetherlands\n")
	l, err := OpenDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	persons, err := l.Persons()
	if err != nil {
		t.Fatal(err)
	}
	if len(persons) != 1 || persons[0].ID != "2005AKKE01" {
		t.Fatalf("expected the valid row only, got %+v", persons)
	}
	if l.Skipped() != 1 {
		t.Fatalf("expected 1 skipped row, got %d", l.Skipped())
	}
}

func TestMissingHeaderColumn(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "Persons", "id\tsubid\tcountryId\n2009ZEMD01\t1\tAustralia\n")
	l, err := OpenDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	if _, err := l.Persons(); !errors.Is(err, ErrBadHeader) {
		t.Fatalf("expected ErrBadHeader, got %v", err)
	}
}

func TestResults(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "Results",
		"competitionId\teventId\troundTypeId\tpos\tbest\taverage\tpersonName\tpersonId\tpersonCountryId\tformatId\tvalue1\tvalue2\tvalue3\tvalue4\tvalue5\tregionalSingleRecord\tregionalAverageRecord\n"+
			"TestOpen2019\t333\tf\t1\t534\t642\tSomeone Fast\t2010AAAA01\tGermany\ta\t534\t650\t700\t-1\t601\tNR\t\n")
	l, err := OpenDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	results, err := l.Results()
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if r.Best != 534 || r.Average != 642 || r.Pos != 1 {
		t.Fatalf("bad numbers: %+v", r)
	}
	if r.Values != [5]int{534, 650, 700, -1, 601} {
		t.Fatalf("bad values: %v", r.Values)
	}
	if r.SingleRecord != "NR" || r.AverageRecord != "" {
		t.Fatalf("bad markers: %+v", r)
	}
}

func TestScramblesStream(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "Scrambles",
		"scrambleId\tcompetitionId\teventId\troundTypeId\tgroupId\tisExtra\tscrambleNum\tscramble\n"+
			"1\tTestOpen2019\t222\tf\tA\t0\t1\tR U2 F' R2 U F R' U2 F R2 U\n"+
			"2\tTestOpen2019\t222\tf\tA\t0\t2\tR U F R U F R U F R U\n")
	l, err := OpenDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	var got []Scramble
	err = l.Scrambles(func(s Scramble) error {
		got = append(got, s)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 scrambles, got %d", len(got))
	}
	if got[1].ScrambleNum != "2" {
		t.Fatalf("bad scramble: %+v", got[1])
	}
}

func TestOpenZip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create(tableFile("Events"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("id\tname\n333\t3x3x3 Cube\n222\t2x2x2 Cube\n")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	l, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	events, err := l.Events()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 || events[0].ID != "333" {
		t.Fatalf("bad events: %+v", events)
	}
}

func TestCompetitionDates(t *testing.T) {
	tests := []struct {
		name  string
		comp  Competition
		start time.Time
		end   time.Time
	}{
		{
			name:  "single weekend",
			comp:  Competition{ID: "A2019", Year: 2019, Month: 3, Day: 9, EndMonth: 3, EndDay: 10},
			start: time.Date(2019, 3, 9, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2019, 3, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "turn of year",
			comp:  Competition{ID: "B2019", Year: 2019, Month: 12, Day: 30, EndMonth: 1, EndDay: 2},
			start: time.Date(2019, 12, 30, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.comp.StartDate(); !got.Equal(tc.start) {
				t.Errorf("start: got %v, want %v", got, tc.start)
			}
			if got := tc.comp.EndDate(); !got.Equal(tc.end) {
				t.Errorf("end: got %v, want %v", got, tc.end)
			}
		})
	}
}

func TestCompetitionYear(t *testing.T) {
	tests := []struct {
		id      string
		year    int
		wantErr bool
	}{
		{"WC2019", 2019, false},
		{"TestOpen2021", 2021, false},
		{"NoYearHere", 0, true},
		{"Short1", 0, true},
	}
	for _, tc := range tests {
		year, err := CompetitionYear(tc.id)
		if tc.wantErr {
			if err == nil {
				t.Errorf("%s: expected error", tc.id)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: %v", tc.id, err)
			continue
		}
		if year != tc.year {
			t.Errorf("%s: got %d, want %d", tc.id, year, tc.year)
		}
	}
}
