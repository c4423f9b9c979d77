// Package types defines core data structures used across AgeTag modules.
package types

import (
	"fmt"
	"time"
)

// FileEntry represents a scanned file with its metadata.
type FileEntry struct {
	// Path is the absolute path to the source file.
	Path string
	// Name is the base filename.
	Name string
	// Size is the file size in bytes.
	Size int64
	// ModTime is the file modification time.
	ModTime time.Time
	// Extension is the lowercase file extension without dot (e.g., "jpg", "nef").
	Extension string
}

// MediaMetadata contains extracted metadata from a media file.
type MediaMetadata struct {
	// CaptureTime is the shooting/creation time extracted from metadata.
	// Nil if extraction failed.
	CaptureTime *time.Time
	// Source indicates where the metadata came from (e.g., "exif:DateTimeOriginal", "fs:ModTime").
	Source string
	// Error contains extraction error message if any.
	Error string
}

// CaptureDate is the calendar day a photo was taken.
// Age math never looks below day granularity; TimeOfDay is kept for display only.
type CaptureDate struct {
	Year  int
	Month time.Month
	Day   int
	// TimeOfDay is the offset from midnight when the source carried a wall-clock time.
	TimeOfDay *time.Duration
	// Source is the MediaMetadata source the date was taken from.
	Source string
}

// NewCaptureDate builds a CaptureDate from a timestamp, using the timestamp's own location.
func NewCaptureDate(t time.Time, source string) CaptureDate {
	y, m, d := t.Date()
	tod := time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
	return CaptureDate{Year: y, Month: m, Day: d, TimeOfDay: &tod, Source: source}
}

// Civil returns the date as midnight UTC, suitable for day arithmetic.
func (d CaptureDate) Civil() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Key returns the date as YYYYMMDD. It is the grouping key for sequence counters.
func (d CaptureDate) Key() string {
	return fmt.Sprintf("%04d%02d%02d", d.Year, int(d.Month), d.Day)
}

func (d CaptureDate) String() string {
	s := fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
	if d.TimeOfDay != nil {
		tod := *d.TimeOfDay
		s += fmt.Sprintf(" %02d:%02d:%02d", int(tod.Hours()), int(tod.Minutes())%60, int(tod.Seconds())%60)
	}
	return s
}

// RenameTask represents a planned rename operation.
type RenameTask struct {
	// Source is the scanned file.
	Source FileEntry
	// Capture is the resolved capture date.
	Capture CaptureDate
	// Age is the age label (e.g., "27days", "3months", "2years").
	Age string
	// NegativeAge is set when the capture date precedes the birth date and Age was clamped.
	NegativeAge bool
	// DestPath is the full destination file path.
	DestPath string
	// Action indicates what happened to the file.
	Action RenameAction
	// Error contains error message if the rename failed.
	Error string
}

// RenameAction represents the action taken for a file.
type RenameAction string

const (
	RenameActionRenamed RenameAction = "renamed"
	RenameActionPlanned RenameAction = "planned"
	RenameActionSkipped RenameAction = "skipped"
	RenameActionFailed  RenameAction = "failed"
)

// RenameRecord is one row of the rename log: enough to reverse a single rename.
type RenameRecord struct {
	OriginalPath string
	NewPath      string
	Timestamp    time.Time
}

// RunSummary contains statistics for a completed rename run.
type RunSummary struct {
	ScannedFiles int
	Renamed      int
	Planned      int
	Skipped      int
	Failed       int
	NegativeAges int
	DryRun       bool
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
}

// UndoSummary contains statistics for a completed undo run.
type UndoSummary struct {
	Records    int
	Reverted   int
	Missing    int
	Conflicts  int
	Failed     int
	Cancelled  bool
	LogRemoved bool
}

// Complete reports whether every record in the log was reverted.
func (s UndoSummary) Complete() bool {
	return !s.Cancelled && s.Reverted == s.Records
}
