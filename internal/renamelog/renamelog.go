// Package renamelog persists rename mappings so a run can be undone.
//
// The log is a CSV file named rename_log.csv in the target directory:
//
//	original_path,new_path,timestamp
//	/photos/IMG_0001.jpg,/photos/Jane_20220115_0days_001.jpg,2022-01-15T10:00:00Z
//
// Rows are appended and synced one at a time so an interrupted run never
// leaves a renamed file without its row.
package renamelog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/On-Jun9/AgeTag/pkg/types"
	"github.com/spf13/afero"
)

// FileName is the fixed name of the log inside a target directory.
const FileName = "rename_log.csv"

// ErrLogMissing is returned when there is no log to read.
var ErrLogMissing = errors.New("rename log not found")

var header = []string{"original_path", "new_path", "timestamp"}

// PathFor returns the log location for a target directory.
func PathFor(dir string) string {
	return filepath.Join(dir, FileName)
}

// Clock abstracts time retrieval so log timestamps are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// Writer appends records to a log. The file is opened on the first Append,
// so a run that renames nothing leaves no log behind.
type Writer struct {
	fs    afero.Fs
	path  string
	clock Clock
	file  afero.File
	csv   *csv.Writer
}

func NewWriter(fs afero.Fs, path string, clock Clock) *Writer {
	return &Writer{fs: fs, path: path, clock: clock}
}

// Append writes one record and syncs it to disk before returning.
func (w *Writer) Append(originalPath, newPath string) (types.RenameRecord, error) {
	if err := w.open(); err != nil {
		return types.RenameRecord{}, err
	}

	rec := types.RenameRecord{
		OriginalPath: originalPath,
		NewPath:      newPath,
		Timestamp:    w.clock.Now(),
	}
	if err := w.writeRow([]string{rec.OriginalPath, rec.NewPath, rec.Timestamp.Format(time.RFC3339Nano)}); err != nil {
		return types.RenameRecord{}, err
	}
	return rec, nil
}

func (w *Writer) Close() error {
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	w.csv = nil
	return err
}

func (w *Writer) open() error {
	if w.file != nil {
		return nil
	}

	f, err := w.fs.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening rename log: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat rename log: %w", err)
	}

	w.file = f
	w.csv = csv.NewWriter(f)
	if info.Size() == 0 {
		return w.writeRow(header)
	}
	return nil
}

func (w *Writer) writeRow(row []string) error {
	if err := w.csv.Write(row); err != nil {
		return fmt.Errorf("writing rename log: %w", err)
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("writing rename log: %w", err)
	}
	if err := w.file.Sync(); err != nil {
		return fmt.Errorf("syncing rename log: %w", err)
	}
	return nil
}

// Read returns every record in file order.
func Read(fs afero.Fs, path string) ([]types.RenameRecord, error) {
	f, err := fs.Open(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrLogMissing, path)
	}
	if err != nil {
		return nil, fmt.Errorf("opening rename log: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(header)

	var records []types.RenameRecord
	for line := 1; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading rename log %s: %w", path, err)
		}
		if line == 1 {
			if row[0] != header[0] || row[1] != header[1] || row[2] != header[2] {
				return nil, fmt.Errorf("reading rename log %s: unexpected header %v", path, row)
			}
			continue
		}

		ts, err := time.Parse(time.RFC3339Nano, row[2])
		if err != nil {
			return nil, fmt.Errorf("reading rename log %s line %d: bad timestamp: %w", path, line, err)
		}
		records = append(records, types.RenameRecord{
			OriginalPath: row[0],
			NewPath:      row[1],
			Timestamp:    ts,
		})
	}
	return records, nil
}

// PreviouslyRenamed returns the destination paths recorded in records.
func PreviouslyRenamed(records []types.RenameRecord) map[string]bool {
	done := make(map[string]bool, len(records))
	for _, rec := range records {
		done[rec.NewPath] = true
	}
	return done
}

// Remove deletes the log file.
func Remove(fs afero.Fs, path string) error {
	if err := fs.Remove(path); err != nil {
		return fmt.Errorf("removing rename log: %w", err)
	}
	return nil
}
