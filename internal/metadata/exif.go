package metadata

import (
	"time"

	"github.com/On-Jun9/AgeTag/pkg/types"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/spf13/afero"
)

// exifLayout is the EXIF date format. It carries no zone, so values are camera-local.
const exifLayout = "2006:01:02 15:04:05"

// Capture date sources, most to least trusted.
const (
	SourceEXIFOriginal  = "exif:DateTimeOriginal"
	SourceEXIFDigitized = "exif:DateTimeDigitized"
	SourceEXIFModified  = "exif:DateTime"
	SourceModTime       = "fs:ModTime"
)

// exifDateFields are tried in order. DateTime is the last-edit time, so it
// only counts when neither shooting field is present.
var exifDateFields = []struct {
	field  exif.FieldName
	source string
}{
	{exif.DateTimeOriginal, SourceEXIFOriginal},
	{exif.DateTimeDigitized, SourceEXIFDigitized},
	{exif.DateTime, SourceEXIFModified},
}

// EXIFStrategy reads the shooting date from EXIF/TIFF headers (JPEG, TIFF, NEF, DNG).
type EXIFStrategy struct {
	fs afero.Fs
}

func NewEXIFStrategy(fs afero.Fs) *EXIFStrategy {
	return &EXIFStrategy{fs: fs}
}

func (e *EXIFStrategy) Name() string { return "exif" }

func (e *EXIFStrategy) Extract(entry types.FileEntry) types.MediaMetadata {
	f, err := e.fs.Open(entry.Path)
	if err != nil {
		return types.MediaMetadata{Error: err.Error()}
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return types.MediaMetadata{Error: "unreadable EXIF: " + err.Error()}
	}

	for _, candidate := range exifDateFields {
		if t, ok := exifDate(x, candidate.field); ok {
			return types.MediaMetadata{CaptureTime: &t, Source: candidate.source}
		}
	}
	return types.MediaMetadata{Error: "EXIF has no shooting date"}
}

func exifDate(x *exif.Exif, field exif.FieldName) (time.Time, bool) {
	tag, err := x.Get(field)
	if err != nil {
		return time.Time{}, false
	}
	s, err := tag.StringVal()
	if err != nil {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(exifLayout, s, time.Local)
	if err != nil || t.Year() < 1900 {
		return time.Time{}, false
	}
	return t, true
}
