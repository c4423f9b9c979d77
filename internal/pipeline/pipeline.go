package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/On-Jun9/AgeTag/internal/age"
	"github.com/On-Jun9/AgeTag/internal/config"
	"github.com/On-Jun9/AgeTag/internal/log"
	"github.com/On-Jun9/AgeTag/internal/metadata"
	"github.com/On-Jun9/AgeTag/internal/planner"
	"github.com/On-Jun9/AgeTag/internal/renamelog"
	"github.com/On-Jun9/AgeTag/internal/renamer"
	"github.com/On-Jun9/AgeTag/internal/scanner"
	"github.com/On-Jun9/AgeTag/pkg/types"
	"github.com/spf13/afero"
)

// ErrLogWrite aborts a run when a completed rename could not be recorded.
// The rename is rolled back first so no file is left without its log row.
var ErrLogWrite = errors.New("rename log write failed")

type Pipeline struct {
	cfg      *config.Config
	fs       afero.Fs
	clock    renamelog.Clock
	logger   *log.Logger
	resolver *metadata.Resolver
}

type Option func(*Pipeline)

// WithFs runs the pipeline against fs instead of the real filesystem.
func WithFs(fs afero.Fs) Option {
	return func(p *Pipeline) { p.fs = fs }
}

// WithClock sets the clock used for rename log timestamps.
func WithClock(clock renamelog.Clock) Option {
	return func(p *Pipeline) { p.clock = clock }
}

// WithResolver replaces the default capture date strategies.
func WithResolver(r *metadata.Resolver) Option {
	return func(p *Pipeline) { p.resolver = r }
}

func New(cfg *config.Config, logger *log.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:    cfg,
		fs:     afero.NewOsFs(),
		clock:  renamelog.RealClock{},
		logger: logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.resolver == nil {
		p.resolver = metadata.New(p.fs)
	}
	return p
}

// Run renames every supported image under the configured path. Per-file
// failures are counted in the summary and do not stop the run; the returned
// error is reserved for problems that make the whole run invalid.
func (p *Pipeline) Run() (*types.RunSummary, error) {
	startTime := time.Now()

	if err := p.cfg.Validate(); err != nil {
		return nil, err
	}

	root, err := filepath.Abs(p.cfg.Path)
	if err != nil {
		return nil, err
	}
	info, err := p.fs.Stat(root)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", scanner.ErrPathNotFound, root)
	}
	if err != nil {
		return nil, err
	}

	logDir := root
	if !info.IsDir() {
		logDir = filepath.Dir(root)
	}
	logPath := renamelog.PathFor(logDir)

	p.logger.Info("Scanning '" + root + "'")
	entries, err := scanner.New(p.fs, p.cfg.IncludeExtensions).Scan(root, p.cfg.Recursive)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("Found " + strconv.Itoa(len(entries)) + " supported files")

	done, err := p.previouslyRenamed(logPath)
	if err != nil {
		return nil, err
	}

	plan := planner.New(p.fs, p.cfg.FileName())
	sources := make([]string, 0, len(entries))
	for _, entry := range entries {
		sources = append(sources, entry.Path)
	}
	plan.Reserve(sources...)

	tasks := p.buildTasks(entries)

	summary := &types.RunSummary{
		ScannedFiles: len(entries),
		DryRun:       p.cfg.DryRun,
		StartTime:    startTime,
	}

	r := renamer.New(p.fs, p.cfg.DryRun)
	var w *renamelog.Writer
	if !p.cfg.DryRun {
		w = renamelog.NewWriter(p.fs, logPath, p.clock)
		defer w.Close()
	}

	for _, task := range tasks {
		if done[task.Source.Path] {
			task.Action = types.RenameActionSkipped
			task.Error = "already renamed (listed in " + renamelog.FileName + ")"
			summary.Skipped++
			p.logger.LogTask(task)
			continue
		}

		if task.NegativeAge {
			summary.NegativeAges++
			p.logger.Warn(fmt.Sprintf("%s: capture date %s is before birth date %s, using %s",
				task.Source.Name, task.Capture.Civil().Format(config.BirthLayout),
				p.cfg.BirthDate().Format(config.BirthLayout), task.Age))
		}

		task, err = plan.Plan(task)
		if err != nil {
			task.Action = types.RenameActionFailed
			task.Error = err.Error()
			summary.Failed++
			p.logger.LogTask(task)
			continue
		}
		if task.Action == types.RenameActionSkipped {
			task.Error = "already named"
			summary.Skipped++
			p.logger.LogTask(task)
			continue
		}

		task, err = r.Rename(task)
		if err != nil {
			summary.Failed++
			p.logger.LogTask(task)
			continue
		}

		if task.Action == types.RenameActionPlanned {
			summary.Planned++
			p.logger.LogTask(task)
			continue
		}

		if _, err := w.Append(task.Source.Path, task.DestPath); err != nil {
			if rbErr := renamer.Move(p.fs, task.DestPath, task.Source.Path); rbErr != nil {
				p.logger.Error("Failed to roll back "+task.DestPath, rbErr)
				return nil, fmt.Errorf("%w: %v (rollback failed, %s is unrecorded)", ErrLogWrite, err, task.DestPath)
			}
			return nil, fmt.Errorf("%w: %v", ErrLogWrite, err)
		}
		summary.Renamed++
		p.logger.LogTask(task)
	}

	summary.EndTime = time.Now()
	summary.Duration = summary.EndTime.Sub(startTime)
	p.logger.Summary(*summary)

	return summary, nil
}

// buildTasks resolves capture dates and age labels, ordered by (date, path)
// so sequence numbers follow capture order within each day.
func (p *Pipeline) buildTasks(entries []types.FileEntry) []types.RenameTask {
	tasks := make([]types.RenameTask, 0, len(entries))
	for _, entry := range entries {
		capture, meta := p.resolver.Resolve(entry)
		if meta.Error != "" {
			p.logger.Debug(entry.Name + ": " + meta.Error)
		}
		p.logger.Debug(fmt.Sprintf("%s: captured %s (%s)", entry.Name, capture, capture.Source))

		label := age.Label(p.cfg.BirthDate(), capture.Civil())
		tasks = append(tasks, types.RenameTask{
			Source:      entry,
			Capture:     capture,
			Age:         label.Label,
			NegativeAge: label.Negative,
		})
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		ki, kj := tasks[i].Capture.Key(), tasks[j].Capture.Key()
		if ki != kj {
			return ki < kj
		}
		return tasks[i].Source.Path < tasks[j].Source.Path
	})
	return tasks
}

func (p *Pipeline) previouslyRenamed(logPath string) (map[string]bool, error) {
	records, err := renamelog.Read(p.fs, logPath)
	if errors.Is(err, renamelog.ErrLogMissing) {
		return map[string]bool{}, nil
	}
	if err != nil {
		return nil, err
	}
	return renamelog.PreviouslyRenamed(records), nil
}

