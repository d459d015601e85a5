package sharestat

import "time"

// ShareRecord identifies a single host-exposed share. Records are immutable
// after creation; the capitalized JSON keys are the snapshot wire format.
type ShareRecord struct {
	// Name is the share name.
	Name string `json:"Name"`
	// Path is the filesystem path the share exposes.
	Path string `json:"Path"`
}

// ShareResult holds the aggregate statistics for one successfully walked
// share. Sizes stay numeric here; rendering to "12.34GB" happens only at
// the report-writing boundary.
type ShareResult struct {
	// Name is the share name.
	Name string
	// Path is the walked root.
	Path string
	// SizeBytes is the cumulative size of all regular files.
	SizeBytes int64
	// Files is the number of regular files.
	Files int64
	// Folders is the number of directories below the root.
	Folders int64
}

// ShareError records a share whose traversal failed.
type ShareError struct {
	// Name is the share name.
	Name string `json:"Name"`
	// Path is the root that failed.
	Path string `json:"Path"`
	// Error is the failure message.
	Error string `json:"Error"`
	// Timestamp is when the failure was recorded.
	Timestamp time.Time `json:"Timestamp"`
}

// ErrorPolicy controls how the walker reacts to unreadable entries.
type ErrorPolicy int

const (
	// PolicySkipUnreadable treats unreadable entries as absent from the
	// counts. This is the default.
	PolicySkipUnreadable ErrorPolicy = iota
	// PolicyAbortOnUnreadable fails the share's walk on the first
	// unreadable entry.
	PolicyAbortOnUnreadable
)

const (
	// DefaultLongPathLimit is the path length at which a share is flagged
	// as likely inaccessible on Windows hosts.
	DefaultLongPathLimit = 260

	// DefaultPause is the delay inserted between shares in first-N mode.
	DefaultPause = 2 * time.Second

	// DefaultBaseName is the report base name when none is given.
	DefaultBaseName = "share_report"

	// TimestampLayout names error logs and transcripts uniquely per run.
	TimestampLayout = "20060102_150405"
)

// Options configures report generation.
type Options struct {
	// SnapshotPath is the snapshot file to read shares from.
	SnapshotPath string
	// OutputDir is where the CSV report and error log are written.
	OutputDir string
	// BaseName is the report base name (defaults to DefaultBaseName).
	BaseName string
	// Excludes contains share names to drop, matched case-insensitively.
	Excludes []string
	// First selects the first N shares when positive; non-positive walks
	// the whole list.
	First int
	// Pause is the delay between shares in first-N mode (defaults to
	// DefaultPause when non-positive).
	Pause time.Duration
	// Policy selects the walker's reaction to unreadable entries.
	Policy ErrorPolicy
	// SkipLongPaths skips shares whose path meets the long-path limit
	// instead of attempting the walk.
	SkipLongPaths bool
	// LongPathLimit overrides DefaultLongPathLimit when positive.
	LongPathLimit int
}

// Summary aggregates the outcome of one report run.
type Summary struct {
	// Results holds one entry per walked share, in completion order.
	Results []ShareResult
	// Errors holds one entry per failed share.
	Errors []ShareError
	// Elapsed is the total walk time.
	Elapsed time.Duration
	// ReportPath is the written CSV file, empty when no results.
	ReportPath string
	// ErrorLogPath is the written error log, empty when no errors.
	ErrorLogPath string
}

// ProgressFunc receives completion progress after each share.
type ProgressFunc func(completed, total, percent int)
