package metadata

import (
	"github.com/On-Jun9/AgeTag/pkg/types"
	"github.com/evanoberholster/imagemeta"
	"github.com/spf13/afero"
)

// ImageMetaStrategy covers containers goexif cannot walk, HEIC in particular.
type ImageMetaStrategy struct {
	fs afero.Fs
}

func NewImageMetaStrategy(fs afero.Fs) *ImageMetaStrategy {
	return &ImageMetaStrategy{fs: fs}
}

func (s *ImageMetaStrategy) Name() string { return "imagemeta" }

func (s *ImageMetaStrategy) Extract(entry types.FileEntry) types.MediaMetadata {
	f, err := s.fs.Open(entry.Path)
	if err != nil {
		return types.MediaMetadata{Error: err.Error()}
	}
	defer f.Close()

	x, err := imagemeta.Decode(f)
	if err != nil {
		return types.MediaMetadata{Error: "imagemeta decode: " + err.Error()}
	}

	if t := x.DateTimeOriginal(); !t.IsZero() {
		return types.MediaMetadata{CaptureTime: &t, Source: "imagemeta:DateTimeOriginal"}
	}
	if t := x.CreateDate(); !t.IsZero() {
		return types.MediaMetadata{CaptureTime: &t, Source: "imagemeta:CreateDate"}
	}

	return types.MediaMetadata{Error: "no capture time found in image metadata"}
}
