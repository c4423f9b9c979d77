package scanner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/On-Jun9/AgeTag/internal/renamelog"
	"github.com/On-Jun9/AgeTag/pkg/types"
	"github.com/spf13/afero"
)

// ErrPathNotFound is returned when the scan root does not exist.
var ErrPathNotFound = errors.New("path not found")

// DefaultExtensions is the set of image formats eligible for renaming.
var DefaultExtensions = []string{"jpg", "jpeg", "png", "tiff", "heic", "bmp", "nef", "dng"}

type Scanner struct {
	fs         afero.Fs
	includeExt map[string]bool
}

func New(fs afero.Fs, extensions []string) *Scanner {
	extMap := make(map[string]bool)
	for _, ext := range extensions {
		extMap[strings.TrimPrefix(strings.ToLower(ext), ".")] = true
	}
	return &Scanner{fs: fs, includeExt: extMap}
}

// Supports reports whether a filename has an included extension.
// The rename log is never a candidate, whatever the extension set.
func (s *Scanner) Supports(name string) bool {
	if filepath.Base(name) == renamelog.FileName {
		return false
	}
	return s.includeExt[extension(name)]
}

// IsDefaultExtension reports whether ext is one of DefaultExtensions.
func IsDefaultExtension(ext string) bool {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	for _, d := range DefaultExtensions {
		if d == ext {
			return true
		}
	}
	return false
}

// Scan lists candidate files under root, sorted by path.
// A root that is itself a supported file yields just that file.
func (s *Scanner) Scan(root string, recursive bool) ([]types.FileEntry, error) {
	info, err := s.fs.Stat(root)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrPathNotFound, root)
	}
	if err != nil {
		return nil, err
	}

	var entries []types.FileEntry

	if !info.IsDir() {
		if s.Supports(root) {
			entries = append(entries, s.entry(root, info))
		}
		return entries, nil
	}

	if recursive {
		err = afero.Walk(s.fs, root, func(path string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if fi.IsDir() || !s.Supports(path) {
				return nil
			}
			entries = append(entries, s.entry(path, fi))
			return nil
		})
	} else {
		var infos []os.FileInfo
		infos, err = afero.ReadDir(s.fs, root)
		for _, fi := range infos {
			if fi.IsDir() || !s.Supports(fi.Name()) {
				continue
			}
			entries = append(entries, s.entry(filepath.Join(root, fi.Name()), fi))
		}
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

func (s *Scanner) entry(path string, info os.FileInfo) types.FileEntry {
	return types.FileEntry{
		Path:      path,
		Name:      info.Name(),
		Size:      info.Size(),
		ModTime:   info.ModTime(),
		Extension: extension(path),
	}
}

func extension(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}
