package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables
// (WCACHECK_*). It respects flags that have been explicitly set (changed
// map). Returns an error if a variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("export", os.Getenv("WCACHECK_EXPORT"), &cfg.ExportPath)
	s.setString("output-dir", os.Getenv("WCACHECK_OUTPUT_DIR"), &cfg.OutputDir)
	s.setString("since", os.Getenv("WCACHECK_SINCE"), &cfg.Since)
	s.setString("format", os.Getenv("WCACHECK_FORMAT"), &cfg.Format)
	s.setString("schedule", os.Getenv("WCACHECK_SCHEDULE"), &cfg.SchedulePath)
	s.setString("staff", os.Getenv("WCACHECK_STAFF"), &cfg.StaffPath)
	s.setString("grouping", os.Getenv("WCACHECK_GROUPING"), &cfg.GroupingPath)
	s.setString("staff-out", os.Getenv("WCACHECK_STAFF_OUT"), &cfg.StaffOutDir)

	if err := s.setIntFromString("min-year", os.Getenv("WCACHECK_MIN_YEAR"), &cfg.MinYear); err != nil {
		return err
	}
	if err := s.setIntFromString("top", os.Getenv("WCACHECK_TOP"), &cfg.TopN); err != nil {
		return err
	}
	if err := s.setInt64FromString("seed", os.Getenv("WCACHECK_SEED"), &cfg.Seed); err != nil {
		return err
	}
	if err := s.setDuration("debounce", os.Getenv("WCACHECK_DEBOUNCE"), &cfg.Debounce); err != nil {
		return err
	}

	s.setBoolFromString("watch", os.Getenv("WCACHECK_WATCH"), &cfg.Watch)
	return nil
}
