package audit

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var testViolations = []Violation{
	{EntityID: "2010AAAA01", Rule: "bad-name", Description: "John_Doe\t_"},
	{EntityID: "Open2019/333/c", Rule: "strange-round", Description: "fewer results placed above"},
}

func TestRenderToStream(t *testing.T) {
	var buf bytes.Buffer
	r := &Reporter{Out: &buf}
	path, err := r.Render("bad-name", testViolations)
	if err != nil {
		t.Fatal(err)
	}
	if path != "" {
		t.Errorf("expected no file path, got %q", path)
	}
	want := "2010AAAA01\tbad-name\tJohn_Doe\t_\n" +
		"Open2019/333/c\tstrange-round\tfewer results placed above\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestRenderToFile(t *testing.T) {
	dir := t.TempDir()
	r := &Reporter{
		OutputDir: dir,
		Now:       func() time.Time { return time.Date(2023, 7, 1, 12, 30, 0, 0, time.UTC) },
	}
	path, err := r.Render("bad-name", testViolations[:1])
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "bad-name_20230701-123000.txt")
	if path != want {
		t.Errorf("got path %q, want %q", path, want)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != testViolations[0].String()+"\n" {
		t.Errorf("unexpected file content: %q", data)
	}
}

func TestRenderCreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	r := &Reporter{OutputDir: dir}
	if _, err := r.RenderText("rule", "content\n"); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one report file, got %d", len(entries))
	}
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	r := &Reporter{Out: &buf}
	if _, err := r.Render("bad-name", nil); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected empty output, got %q", buf.String())
	}
}
