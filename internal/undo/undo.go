// Package undo reverses the renames recorded in a rename log.
package undo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/On-Jun9/AgeTag/internal/log"
	"github.com/On-Jun9/AgeTag/internal/prompt"
	"github.com/On-Jun9/AgeTag/internal/renamelog"
	"github.com/On-Jun9/AgeTag/internal/renamer"
	"github.com/On-Jun9/AgeTag/internal/scanner"
	"github.com/On-Jun9/AgeTag/pkg/types"
	"github.com/spf13/afero"
)

var (
	// ErrUndoConflict means the original path is occupied, so the record was left alone.
	ErrUndoConflict = errors.New("original path already exists")
	// ErrRenamedFileMissing means the renamed file is gone, usually because it was already undone.
	ErrRenamedFileMissing = errors.New("renamed file not found")
)

const (
	OutcomeReverted = "Reverted"
	OutcomeMissing  = "Missing"
	OutcomeConflict = "Conflict"
	OutcomeFailed   = "Failed"
)

type Executor struct {
	fs      afero.Fs
	confirm prompt.Confirmer
	logger  *log.Logger
}

func New(fs afero.Fs, confirm prompt.Confirmer, logger *log.Logger) *Executor {
	return &Executor{fs: fs, confirm: confirm, logger: logger}
}

// Run reverts every record of the log in target, most recent first.
// Without force the user is asked once before anything changes. The log is
// deleted only with force and only when every record was reverted.
func (e *Executor) Run(target string, force bool) (*types.UndoSummary, error) {
	logPath, err := e.logPath(target)
	if err != nil {
		return nil, err
	}

	records, err := renamelog.Read(e.fs, logPath)
	if err != nil {
		return nil, err
	}

	summary := &types.UndoSummary{Records: len(records)}

	if !force {
		ok, err := e.confirm.Confirm("Undo " + strconv.Itoa(len(records)) + " renames listed in " + logPath + "?")
		if err != nil {
			return nil, err
		}
		if !ok {
			summary.Cancelled = true
			e.logger.Info("Undo cancelled")
			return summary, nil
		}
	}

	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		outcome, err := e.revert(rec)
		switch outcome {
		case OutcomeReverted:
			summary.Reverted++
		case OutcomeMissing:
			summary.Missing++
		case OutcomeConflict:
			summary.Conflicts++
		default:
			summary.Failed++
		}
		e.logger.LogUndo(rec, outcome, err)
	}

	if force && summary.Complete() {
		if err := renamelog.Remove(e.fs, logPath); err != nil {
			e.logger.Error("Failed to remove "+logPath, err)
		} else {
			summary.LogRemoved = true
		}
	}

	e.logger.UndoSummary(*summary)
	return summary, nil
}

func (e *Executor) revert(rec types.RenameRecord) (string, error) {
	if _, err := e.fs.Stat(rec.NewPath); os.IsNotExist(err) {
		return OutcomeMissing, fmt.Errorf("%w: %s", ErrRenamedFileMissing, rec.NewPath)
	} else if err != nil {
		return OutcomeFailed, err
	}

	if _, err := e.fs.Stat(rec.OriginalPath); err == nil {
		return OutcomeConflict, fmt.Errorf("%w: %s", ErrUndoConflict, rec.OriginalPath)
	}

	if err := renamer.Move(e.fs, rec.NewPath, rec.OriginalPath); err != nil {
		return OutcomeFailed, err
	}
	return OutcomeReverted, nil
}

// logPath locates the log for target: inside it for a directory, next to it for a file.
func (e *Executor) logPath(target string) (string, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}
	info, err := e.fs.Stat(abs)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("%w: %s", scanner.ErrPathNotFound, abs)
	}
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		abs = filepath.Dir(abs)
	}
	return renamelog.PathFor(abs), nil
}
