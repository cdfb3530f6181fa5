package cliconfig

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"negative min year", func(c *Config) { c.MinYear = -1 }, true},
		{"zero top", func(c *Config) { c.TopN = 0 }, true},
		{"unknown format", func(c *Config) { c.Format = "xml" }, true},
		{"valid since", func(c *Config) { c.Since = "2023-01-15" }, false},
		{"bad since", func(c *Config) { c.Since = "15.01.2023" }, true},
		{"zero debounce", func(c *Config) { c.Debounce = 0 }, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestRequireExport(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.RequireExport(); err == nil {
		t.Error("expected error for empty export path")
	}
	cfg.ExportPath = "/data/export"
	if err := cfg.RequireExport(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSinceTime(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.SinceTime().IsZero() {
		t.Error("empty since should parse to zero time")
	}
	cfg.Since = "2023-06-01"
	want := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	if got := cfg.SinceTime(); !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestApplyFileConfig(t *testing.T) {
	watchOn := true

	tests := []struct {
		name     string
		file     FileConfig
		changed  map[string]bool
		initial  Config
		expected Config
	}{
		{
			name: "applies all values",
			file: FileConfig{
				ExportPath: "/data/export",
				OutputDir:  "/data/reports",
				MinYear:    2015,
				Since:      "2023-01-01",
				TopN:       50,
				Format:     "tsv",
				Watch:      &watchOn,
				Debounce:   "5s",
				Seed:       42,
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				ExportPath: "/data/export",
				OutputDir:  "/data/reports",
				MinYear:    2015,
				Since:      "2023-01-01",
				TopN:       50,
				Format:     "tsv",
				Watch:      true,
				Debounce:   5 * time.Second,
				Seed:       42,
			},
		},
		{
			name: "respects changed flags",
			file: FileConfig{
				ExportPath: "/file/export",
				OutputDir:  "/file/reports",
			},
			changed: map[string]bool{"export": true},
			initial: Config{ExportPath: "/flag/export"},
			expected: Config{
				ExportPath: "/flag/export", // unchanged because the flag was set
				OutputDir:  "/file/reports",
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.initial
			if err := ApplyFileConfig(&cfg, tc.file, tc.changed); err != nil {
				t.Fatalf("ApplyFileConfig: %v", err)
			}
			if !reflect.DeepEqual(cfg, tc.expected) {
				t.Errorf("got %+v, want %+v", cfg, tc.expected)
			}
		})
	}
}

func TestApplyFileConfigBadDuration(t *testing.T) {
	cfg := DefaultConfig()
	err := ApplyFileConfig(&cfg, FileConfig{Debounce: "soon"}, map[string]bool{})
	if err == nil {
		t.Error("expected error for bad duration")
	}
}

func TestLoadFileConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `export_path = "/data/export"
min_year = 2018
format = "tsv"
watch = true
debounce = "3s"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig: %v", err)
	}
	if fc.ExportPath != "/data/export" || fc.MinYear != 2018 || fc.Format != "tsv" {
		t.Errorf("unexpected config: %+v", fc)
	}
	if fc.Watch == nil || !*fc.Watch {
		t.Error("watch should be true")
	}
	if fc.Debounce != "3s" {
		t.Errorf("debounce: got %q", fc.Debounce)
	}
}

func TestApplyEnvConfig(t *testing.T) {
	t.Setenv("WCACHECK_EXPORT", "/env/export")
	t.Setenv("WCACHECK_MIN_YEAR", "2016")
	t.Setenv("WCACHECK_WATCH", "true")
	t.Setenv("WCACHECK_DEBOUNCE", "4s")

	cfg := DefaultConfig()
	if err := ApplyEnvConfig(&cfg, map[string]bool{}); err != nil {
		t.Fatalf("ApplyEnvConfig: %v", err)
	}
	if cfg.ExportPath != "/env/export" {
		t.Errorf("export: got %q", cfg.ExportPath)
	}
	if cfg.MinYear != 2016 {
		t.Errorf("min year: got %d", cfg.MinYear)
	}
	if !cfg.Watch {
		t.Error("watch should be true")
	}
	if cfg.Debounce != 4*time.Second {
		t.Errorf("debounce: got %v", cfg.Debounce)
	}
}

func TestConfigPrecedence(t *testing.T) {
	// Flags beat environment beats file.
	t.Setenv("WCACHECK_EXPORT", "/env/export")
	t.Setenv("WCACHECK_OUTPUT_DIR", "/env/reports")

	cfg := DefaultConfig()
	cfg.ExportPath = "/flag/export"
	changed := map[string]bool{"export": true}

	file := FileConfig{
		ExportPath: "/file/export",
		OutputDir:  "/file/reports",
		MinYear:    2010,
	}
	if err := ApplyFileConfig(&cfg, file, changed); err != nil {
		t.Fatal(err)
	}
	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatal(err)
	}

	if cfg.ExportPath != "/flag/export" {
		t.Errorf("flag should win: got %q", cfg.ExportPath)
	}
	if cfg.OutputDir != "/env/reports" {
		t.Errorf("env should beat file: got %q", cfg.OutputDir)
	}
	if cfg.MinYear != 2010 {
		t.Errorf("file value should apply: got %d", cfg.MinYear)
	}
}
