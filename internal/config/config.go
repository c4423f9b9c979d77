package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/On-Jun9/AgeTag/internal/planner"
	"github.com/On-Jun9/AgeTag/internal/scanner"
	"gopkg.in/yaml.v3"
)

// BirthLayout is the birth date format, MM-DD-YYYY.
const BirthLayout = "01-02-2006"

// birthParseLayout also accepts single-digit months and days.
const birthParseLayout = "1-2-2006"

// Config describes one rename task.
type Config struct {
	Path              string   `yaml:"path" json:"path" toml:"path"`
	Name              string   `yaml:"name" json:"name" toml:"name"`
	Birth             string   `yaml:"birth" json:"birth" toml:"birth"`
	Recursive         bool     `yaml:"recursive" json:"recursive" toml:"recursive"`
	DryRun            bool     `yaml:"dry_run" json:"dry_run" toml:"dry_run"`
	IncludeExtensions []string `yaml:"include_extensions" json:"include_extensions" toml:"include_extensions"`

	fileName  string
	birthDate time.Time
}

func DefaultConfig() *Config {
	return &Config{
		IncludeExtensions: append([]string(nil), scanner.DefaultExtensions...),
	}
}

// Validate checks the task and derives the sanitized name and parsed birth date.
func (c *Config) Validate() error {
	if c.Path == "" {
		return &ValidationError{Field: "path", Message: "path is required"}
	}
	if c.Name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if c.Birth == "" {
		return &ValidationError{Field: "birth", Message: "birth date is required"}
	}

	name, err := planner.SanitizeName(c.Name)
	if err != nil {
		return &ValidationError{Field: "name", Message: err.Error()}
	}

	birth, err := ParseBirth(c.Birth)
	if err != nil {
		return err
	}

	if len(c.IncludeExtensions) == 0 {
		c.IncludeExtensions = append([]string(nil), scanner.DefaultExtensions...)
	}
	for _, ext := range c.IncludeExtensions {
		if !scanner.IsDefaultExtension(ext) {
			return &ValidationError{
				Field:   "include_extensions",
				Message: fmt.Sprintf("%q is not a supported image extension (%s)", ext, strings.Join(scanner.DefaultExtensions, ", ")),
			}
		}
	}

	c.fileName = name
	c.birthDate = birth
	return nil
}

// FileName is the name as it appears in renamed files. Valid after Validate.
func (c *Config) FileName() string { return c.fileName }

// BirthDate is the parsed birth date. Valid after Validate.
func (c *Config) BirthDate() time.Time { return c.birthDate }

// ParseBirth parses an MM-DD-YYYY date.
func ParseBirth(s string) (time.Time, error) {
	t, err := time.Parse(birthParseLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, &ValidationError{
			Field:   "birth",
			Message: fmt.Sprintf("birth date %q must be in MM-DD-YYYY format", s),
		}
	}
	return t, nil
}

// BatchFile lists several rename tasks. Top-level settings apply to every task.
type BatchFile struct {
	DryRun            bool     `yaml:"dry_run" json:"dry_run" toml:"dry_run"`
	IncludeExtensions []string `yaml:"include_extensions" json:"include_extensions" toml:"include_extensions"`
	Tasks             []Config `yaml:"tasks" json:"tasks" toml:"tasks"`
}

// LoadBatchFile reads a batch file. Files ending in .toml are decoded as TOML,
// anything else as YAML, which also accepts JSON.
func LoadBatchFile(path string) (*BatchFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var batch BatchFile
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), &batch); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &batch); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if len(batch.Tasks) == 0 {
		return nil, &ValidationError{Field: "tasks", Message: "batch file must contain at least one task"}
	}
	return &batch, nil
}

// TaskConfig returns task i with the batch-level settings applied.
func (b *BatchFile) TaskConfig(i int, dryRun bool) *Config {
	cfg := DefaultConfig()
	task := b.Tasks[i]

	cfg.Path = task.Path
	cfg.Name = task.Name
	cfg.Birth = task.Birth
	cfg.Recursive = task.Recursive
	cfg.DryRun = dryRun || b.DryRun || task.DryRun

	switch {
	case len(task.IncludeExtensions) > 0:
		cfg.IncludeExtensions = task.IncludeExtensions
	case len(b.IncludeExtensions) > 0:
		cfg.IncludeExtensions = b.IncludeExtensions
	}
	return cfg
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// IsValidationError reports whether err is an invalid-argument error.
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
