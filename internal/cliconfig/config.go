// Package cliconfig holds the CLI configuration shared by all wcacheck
// subcommands: where the database export lives, where reports go, and the
// per-check tuning knobs. Values come from flags, WCACHECK_* environment
// variables and a TOML config file, in that order of precedence.
package cliconfig

import (
	"fmt"
	"strconv"
	"time"
)

// Config holds CLI configuration for wcacheck.
type Config struct {
	// ExportPath points at the database export: an unpacked directory,
	// the zip bundle, or a SQLite snapshot.
	ExportPath string

	// OutputDir receives timestamped report files; empty writes reports
	// to stdout.
	OutputDir string

	// MinYear limits the scramble check to competitions from this year
	// on, so a run can be restricted to new violations.
	MinYear int

	// Since limits the record check's possible-error output to results
	// ending on or after this date (YYYY-MM-DD); empty keeps everything.
	Since string

	// TopN is how many rows the podium statistics print.
	TopN int

	// Format selects the podium output: "bb" forum table code or "tsv".
	Format string

	// Watch re-runs a check whenever the export directory changes.
	Watch    bool
	Debounce time.Duration

	// Staff assignment inputs and output directory.
	SchedulePath string
	StaffPath    string
	GroupingPath string
	StaffOutDir  string

	// Seed fixes the staff assignment shuffle; 0 uses the clock.
	Seed int64
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		MinYear:     2020,
		TopN:        100,
		Format:      "bb",
		Debounce:    2 * time.Second,
		StaffOutDir: "output",
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.MinYear < 0 {
		return fmt.Errorf("min-year must not be negative")
	}
	if c.TopN <= 0 {
		return fmt.Errorf("top must be positive")
	}
	if c.Format != "bb" && c.Format != "tsv" {
		return fmt.Errorf("format must be bb or tsv, got %q", c.Format)
	}
	if c.Since != "" {
		if _, err := time.Parse("2006-01-02", c.Since); err != nil {
			return fmt.Errorf("since must be YYYY-MM-DD: %w", err)
		}
	}
	if c.Debounce <= 0 {
		return fmt.Errorf("debounce must be positive")
	}
	return nil
}

// RequireExport is the extra validation for subcommands that read the
// database export.
func (c *Config) RequireExport() error {
	if c.ExportPath == "" {
		return fmt.Errorf("export path is required (flag --export, env WCACHECK_EXPORT, or config file)")
	}
	return nil
}

// SinceTime returns the parsed Since date, zero when unset.
func (c *Config) SinceTime() time.Time {
	if c.Since == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", c.Since)
	if err != nil {
		return time.Time{}
	}
	return t
}

// configSetter helps apply configuration values while respecting flag
// precedence: it only applies values whose flag hasn't been set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setDuration parses and sets a duration from string if valid and flag
// not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setIntFromString parses a string to int and sets the destination if
// valid. Used for environment variables.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setInt64FromString parses a string to int64 and sets the destination.
func (s *configSetter) setInt64FromString(flag, value string, dst *int64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true" and "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
