package renamer

import (
	"errors"
	"fmt"
	"os"

	"github.com/On-Jun9/AgeTag/pkg/types"
	"github.com/spf13/afero"
)

// ErrDestinationExists is wrapped by RenameError when the target appeared after planning.
var ErrDestinationExists = errors.New("destination already exists")

// RenameError describes a single failed rename. The batch keeps going after one.
type RenameError struct {
	From string
	To   string
	Err  error
}

func (e *RenameError) Error() string {
	return fmt.Sprintf("rename %s -> %s: %v", e.From, e.To, e.Err)
}

func (e *RenameError) Unwrap() error { return e.Err }

type Renamer struct {
	fs     afero.Fs
	dryRun bool
}

func New(fs afero.Fs, dryRun bool) *Renamer {
	return &Renamer{fs: fs, dryRun: dryRun}
}

// Rename moves task.Source.Path to task.DestPath and sets the task's action.
// In dry-run mode the filesystem is not touched and the action is "planned".
func (r *Renamer) Rename(task types.RenameTask) (types.RenameTask, error) {
	if r.dryRun {
		task.Action = types.RenameActionPlanned
		return task, nil
	}

	if err := Move(r.fs, task.Source.Path, task.DestPath); err != nil {
		task.Action = types.RenameActionFailed
		task.Error = err.Error()
		return task, err
	}

	task.Action = types.RenameActionRenamed
	return task, nil
}

// Move renames from to to, refusing to replace an existing file.
func Move(fs afero.Fs, from, to string) error {
	if _, err := fs.Stat(to); err == nil {
		return &RenameError{From: from, To: to, Err: ErrDestinationExists}
	} else if !os.IsNotExist(err) {
		return &RenameError{From: from, To: to, Err: err}
	}

	if err := fs.Rename(from, to); err != nil {
		return &RenameError{From: from, To: to, Err: err}
	}
	return nil
}
