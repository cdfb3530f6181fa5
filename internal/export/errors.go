package export

import "errors"

// Errors returned by the loaders. A missing or unreadable export is fatal
// to the run; callers check with errors.Is.
var (
	// ErrExportMissing is returned when the export path does not exist or
	// a required table file is absent.
	ErrExportMissing = errors.New("export: source missing")

	// ErrBadHeader is returned when a table file lacks an expected column.
	ErrBadHeader = errors.New("export: unexpected table header")
)
