package planner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/On-Jun9/AgeTag/pkg/types"
	"github.com/spf13/afero"
)

// ErrInvalidName is returned for names that cannot appear in a filename.
var ErrInvalidName = errors.New("invalid name")

const unsafeNameChars = `/\:*?"<>|`

// SanitizeName trims the name and replaces spaces with underscores.
// Names containing path separators, reserved characters or control
// characters are rejected rather than rewritten.
func SanitizeName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", fmt.Errorf("%w: name is empty", ErrInvalidName)
	}

	for _, r := range name {
		if strings.ContainsRune(unsafeNameChars, r) {
			return "", fmt.Errorf("%w: %q contains %q", ErrInvalidName, raw, r)
		}
		if unicode.IsControl(r) {
			return "", fmt.Errorf("%w: %q contains a control character", ErrInvalidName, raw)
		}
	}

	name = strings.ReplaceAll(name, " ", "_")
	if name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, raw)
	}
	return name, nil
}

// Planner assigns collision-free destination names for one run.
// It owns the per-date sequence counters and the set of claimed destinations,
// so a fresh Planner must be used for every run. Not safe for concurrent use.
type Planner struct {
	fs       afero.Fs
	name     string
	counters map[string]int
	claimed  map[string]bool
	reserved map[string]bool
}

// New returns a planner for an already sanitized name.
func New(fs afero.Fs, name string) *Planner {
	return &Planner{
		fs:       fs,
		name:     name,
		counters: make(map[string]int),
		claimed:  make(map[string]bool),
		reserved: make(map[string]bool),
	}
}

// Reserve marks paths that must never be chosen as a destination, typically every
// source file of the run. A rename then never lands on a path vacated earlier in
// the same run, so a dry run plans exactly what a live run does.
func (p *Planner) Reserve(paths ...string) {
	for _, path := range paths {
		p.reserved[path] = true
	}
}

// Plan fills task.DestPath with Name_YYYYMMDD_Age_ID.ext in the source's directory.
// The ID is the date's counter, advanced past any path that exists on disk or was
// claimed earlier in the run. A file that already carries its planned name is
// marked skipped.
func (p *Planner) Plan(task types.RenameTask) (types.RenameTask, error) {
	key := task.Capture.Key()
	seq := p.counters[key]
	if seq == 0 {
		seq = 1
	}

	dir := filepath.Dir(task.Source.Path)
	ext := strings.ToLower(filepath.Ext(task.Source.Name))

	for {
		candidate := filepath.Join(dir, FileName(p.name, key, task.Age, seq, ext))

		if candidate == task.Source.Path && !p.claimed[candidate] {
			p.claim(key, seq, candidate)
			task.DestPath = candidate
			task.Action = types.RenameActionSkipped
			return task, nil
		}

		free, err := p.isFree(candidate)
		if err != nil {
			return task, err
		}
		if free {
			p.claim(key, seq, candidate)
			task.DestPath = candidate
			return task, nil
		}
		seq++
	}
}

// Claimed reports whether path was handed out earlier in this run.
func (p *Planner) Claimed(path string) bool {
	return p.claimed[path]
}

func (p *Planner) claim(key string, seq int, path string) {
	p.claimed[path] = true
	p.counters[key] = seq + 1
}

func (p *Planner) isFree(path string) (bool, error) {
	if p.claimed[path] || p.reserved[path] {
		return false, nil
	}
	_, err := p.fs.Stat(path)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", path, err)
	}
	return false, nil
}

// FileName formats Name_YYYYMMDD_Age_NNN.ext. ext includes the leading dot.
func FileName(name, dateKey, ageLabel string, seq int, ext string) string {
	return fmt.Sprintf("%s_%s_%s_%03d%s", name, dateKey, ageLabel, seq, ext)
}
