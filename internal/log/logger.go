package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/On-Jun9/AgeTag/pkg/types"
	"github.com/google/uuid"
)

type Logger struct {
	mu      sync.Mutex
	console io.Writer
	errOut  io.Writer
	file    io.WriteCloser
	logJSON bool
	runID   string
}

// New creates a logger printing to console. When logFilePath is set, every
// entry is also appended there, as JSON lines if logJSON is true.
func New(console io.Writer, logFilePath string, logJSON bool) (*Logger, error) {
	l := NewConsole(console)
	l.errOut = os.Stderr
	l.logJSON = logJSON

	if logFilePath == "" {
		return l, nil
	}

	if err := os.MkdirAll(filepath.Dir(logFilePath), 0755); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	l.file = file
	return l, nil
}

// NewConsole creates a logger that writes everything to w and keeps no file.
func NewConsole(w io.Writer) *Logger {
	return &Logger{
		console: w,
		errOut:  w,
		runID:   uuid.New().String(),
	}
}

// RunID identifies every entry written by this logger.
func (l *Logger) RunID() string {
	return l.runID
}

func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

type LogEntry struct {
	Timestamp time.Time          `json:"timestamp"`
	Level     string             `json:"level"`
	RunID     string             `json:"run_id,omitempty"`
	Message   string             `json:"message"`
	Source    string             `json:"source,omitempty"`
	Dest      string             `json:"dest,omitempty"`
	Action    types.RenameAction `json:"action,omitempty"`
	Error     string             `json:"error,omitempty"`
}

// LogTask reports the outcome of one planned rename.
func (l *Logger) LogTask(task types.RenameTask) {
	l.mu.Lock()
	defer l.mu.Unlock()

	dest := filepath.Base(task.DestPath)
	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     "INFO",
		Source:    task.Source.Path,
		Dest:      task.DestPath,
		Action:    task.Action,
	}

	switch task.Action {
	case types.RenameActionPlanned:
		entry.Message = fmt.Sprintf("[DRY-RUN] %s → %s", task.Source.Name, dest)
	case types.RenameActionRenamed:
		entry.Message = fmt.Sprintf("Renamed: %s → %s", task.Source.Name, dest)
	case types.RenameActionSkipped:
		entry.Message = fmt.Sprintf("[SKIP] %s: %s", task.Source.Name, task.Error)
	case types.RenameActionFailed:
		entry.Level = "ERROR"
		entry.Message = fmt.Sprintf("Failed to rename %s", task.Source.Name)
		entry.Error = task.Error
	default:
		entry.Message = fmt.Sprintf("%s: %s → %s", task.Action, task.Source.Name, dest)
	}

	l.writeEntry(entry, true)
}

// LogUndo reports the outcome of reverting one record.
func (l *Logger) LogUndo(rec types.RenameRecord, outcome string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     "INFO",
		Message:   fmt.Sprintf("%s: %s → %s", outcome, filepath.Base(rec.NewPath), filepath.Base(rec.OriginalPath)),
		Source:    rec.NewPath,
		Dest:      rec.OriginalPath,
	}
	if err != nil {
		entry.Level = "WARN"
		entry.Error = err.Error()
	}
	l.writeEntry(entry, true)
}

// Debug writes to the log file only.
func (l *Logger) Debug(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.writeEntry(LogEntry{Timestamp: time.Now(), Level: "DEBUG", Message: msg}, false)
}

func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.writeEntry(LogEntry{Timestamp: time.Now(), Level: "INFO", Message: msg}, true)
}

func (l *Logger) Warn(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.writeEntry(LogEntry{Timestamp: time.Now(), Level: "WARN", Message: msg}, true)
}

func (l *Logger) Error(msg string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     "ERROR",
		Message:   msg,
	}
	if err != nil {
		entry.Error = err.Error()
	}
	l.writeEntry(entry, true)
}

func (l *Logger) writeEntry(entry LogEntry, toConsole bool) {
	entry.RunID = l.runID

	if toConsole {
		switch {
		case entry.Level == "INFO" && entry.Error == "":
			fmt.Fprintln(l.console, entry.Message)
		case entry.Error != "":
			fmt.Fprintf(l.errOut, "%s: %s: %s\n", levelPrefix(entry.Level), entry.Message, entry.Error)
		default:
			fmt.Fprintf(l.errOut, "%s: %s\n", levelPrefix(entry.Level), entry.Message)
		}
	}

	if l.file == nil {
		return
	}

	if l.logJSON {
		data, _ := json.Marshal(entry)
		l.file.Write(data)
		l.file.Write([]byte("\n"))
		return
	}

	line := fmt.Sprintf("[%s] %s %s %s\n",
		entry.Timestamp.Format("2006-01-02 15:04:05"),
		entry.Level,
		entry.RunID,
		entry.Message,
	)
	if entry.Error != "" {
		line = fmt.Sprintf("[%s] %s %s %s - Error: %s\n",
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			entry.Level,
			entry.RunID,
			entry.Message,
			entry.Error,
		)
	}
	io.WriteString(l.file, line)
}

func levelPrefix(level string) string {
	switch level {
	case "WARN":
		return "warning"
	case "ERROR":
		return "error"
	default:
		return "info"
	}
}

func (l *Logger) Summary(summary types.RunSummary) {
	title := "=== AgeTag Summary ==="
	if summary.DryRun {
		title = "=== AgeTag Summary (dry run) ==="
	}
	fmt.Fprintln(l.console, "\n"+title)
	fmt.Fprintf(l.console, "Scanned files:  %d\n", summary.ScannedFiles)
	if summary.DryRun {
		fmt.Fprintf(l.console, "Planned:        %d\n", summary.Planned)
	} else {
		fmt.Fprintf(l.console, "Renamed:        %d\n", summary.Renamed)
	}
	fmt.Fprintf(l.console, "Skipped:        %d\n", summary.Skipped)
	fmt.Fprintf(l.console, "Failed:         %d\n", summary.Failed)
	if summary.NegativeAges > 0 {
		fmt.Fprintf(l.console, "Before birth:   %d\n", summary.NegativeAges)
	}
	fmt.Fprintf(l.console, "Duration:       %s\n", summary.Duration.Round(time.Millisecond))
	fmt.Fprintln(l.console, "=======================")
}

func (l *Logger) UndoSummary(summary types.UndoSummary) {
	fmt.Fprintln(l.console, "\n=== AgeTag Undo Summary ===")
	fmt.Fprintf(l.console, "Records:        %d\n", summary.Records)
	fmt.Fprintf(l.console, "Reverted:       %d\n", summary.Reverted)
	fmt.Fprintf(l.console, "Missing:        %d\n", summary.Missing)
	fmt.Fprintf(l.console, "Conflicts:      %d\n", summary.Conflicts)
	fmt.Fprintf(l.console, "Failed:         %d\n", summary.Failed)
	if summary.LogRemoved {
		fmt.Fprintln(l.console, "Log file removed")
	}
	fmt.Fprintln(l.console, "===========================")
}
