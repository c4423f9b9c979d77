package metadata

import (
	"strings"

	"github.com/On-Jun9/AgeTag/pkg/types"
	"github.com/spf13/afero"
)

// Strategy is one source of capture time. A nil CaptureTime means "try the next one".
type Strategy interface {
	Name() string
	Extract(entry types.FileEntry) types.MediaMetadata
}

// ModTimeStrategy falls back to the filesystem modification time and always succeeds.
type ModTimeStrategy struct {
	fs afero.Fs
}

func NewModTimeStrategy(fs afero.Fs) *ModTimeStrategy {
	return &ModTimeStrategy{fs: fs}
}

func (m *ModTimeStrategy) Name() string { return "modtime" }

func (m *ModTimeStrategy) Extract(entry types.FileEntry) types.MediaMetadata {
	t := entry.ModTime
	if t.IsZero() {
		if info, err := m.fs.Stat(entry.Path); err == nil {
			t = info.ModTime()
		}
	}
	return types.MediaMetadata{CaptureTime: &t, Source: SourceModTime}
}

// Resolver tries strategies in order; the first one that yields a time wins.
type Resolver struct {
	strategies []Strategy
}

// New returns the default chain: EXIF, then imagemeta, then modification time.
func New(fs afero.Fs) *Resolver {
	return NewResolver(
		NewEXIFStrategy(fs),
		NewImageMetaStrategy(fs),
		NewModTimeStrategy(fs),
	)
}

func NewResolver(strategies ...Strategy) *Resolver {
	return &Resolver{strategies: strategies}
}

// Extract returns the first successful metadata. When every strategy fails,
// the returned value carries the joined errors and a nil CaptureTime.
func (r *Resolver) Extract(entry types.FileEntry) types.MediaMetadata {
	var errs []string
	for _, s := range r.strategies {
		meta := s.Extract(entry)
		if meta.CaptureTime != nil {
			if len(errs) > 0 {
				meta.Error = strings.Join(errs, "; ")
			}
			return meta
		}
		errs = append(errs, s.Name()+": "+meta.Error)
	}
	return types.MediaMetadata{Error: strings.Join(errs, "; ")}
}

// Resolve returns the capture date for entry. It never fails: if every
// strategy comes up empty the scanned modification time is used.
// Errors from skipped strategies stay on the returned metadata for logging.
func (r *Resolver) Resolve(entry types.FileEntry) (types.CaptureDate, types.MediaMetadata) {
	meta := r.Extract(entry)
	if meta.CaptureTime == nil {
		t := entry.ModTime
		meta.CaptureTime = &t
		meta.Source = SourceModTime
	}
	return types.NewCaptureDate(*meta.CaptureTime, meta.Source), meta
}
