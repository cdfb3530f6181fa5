package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML
// friendly.
type FileConfig struct {
	ExportPath   string `toml:"export_path"`
	OutputDir    string `toml:"output_dir"`
	MinYear      int    `toml:"min_year"`
	Since        string `toml:"since"`
	TopN         int    `toml:"top"`
	Format       string `toml:"format"`
	Watch        *bool  `toml:"watch"`
	Debounce     string `toml:"debounce"`
	SchedulePath string `toml:"schedule_path"`
	StaffPath    string `toml:"staff_path"`
	GroupingPath string `toml:"grouping_path"`
	StaffOutDir  string `toml:"staff_out_dir"`
	Seed         int64  `toml:"seed"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.wcacheck/config.toml if the user home
// directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".wcacheck", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("export", fc.ExportPath, &cfg.ExportPath)
	s.setString("output-dir", fc.OutputDir, &cfg.OutputDir)
	s.setString("since", fc.Since, &cfg.Since)
	s.setString("format", fc.Format, &cfg.Format)
	s.setString("schedule", fc.SchedulePath, &cfg.SchedulePath)
	s.setString("staff", fc.StaffPath, &cfg.StaffPath)
	s.setString("grouping", fc.GroupingPath, &cfg.GroupingPath)
	s.setString("staff-out", fc.StaffOutDir, &cfg.StaffOutDir)

	s.setInt("min-year", fc.MinYear, &cfg.MinYear)
	s.setInt("top", fc.TopN, &cfg.TopN)
	if fc.Seed != 0 && !changed["seed"] {
		cfg.Seed = fc.Seed
	}

	s.setBool("watch", fc.Watch, &cfg.Watch)
	return s.setDuration("debounce", fc.Debounce, &cfg.Debounce)
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
