package audit

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Reporter renders violations as plain text, one line per violation, in
// input order. With an OutputDir it writes a timestamped file per rule,
// otherwise it writes to Out (stdout by default).
type Reporter struct {
	OutputDir string
	Out       io.Writer

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

// Render writes the violations and returns the output path, or "" when
// writing to the stream.
func (r *Reporter) Render(rule string, violations []Violation) (string, error) {
	var b strings.Builder
	for _, v := range violations {
		b.WriteString(v.String())
		b.WriteByte('\n')
	}
	return r.RenderText(rule, b.String())
}

// RenderText writes an already formatted report. Checks with a custom
// layout use this instead of Render.
func (r *Reporter) RenderText(rule, text string) (string, error) {
	if r.OutputDir == "" {
		out := r.Out
		if out == nil {
			out = os.Stdout
		}
		_, err := io.WriteString(out, text)
		return "", err
	}

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	path := filepath.Join(r.OutputDir, fmt.Sprintf("%s_%s.txt", rule, now().Format("20060102-150405")))
	if err := writeFileAtomic(path, []byte(text)); err != nil {
		return "", err
	}
	return path, nil
}

// writeFileAtomic writes via a temp file and rename so a crashed run never
// leaves a truncated report behind.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
