package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/On-Jun9/AgeTag/internal/config"
	"github.com/On-Jun9/AgeTag/internal/log"
	"github.com/On-Jun9/AgeTag/internal/pipeline"
	"github.com/On-Jun9/AgeTag/internal/prompt"
	"github.com/On-Jun9/AgeTag/internal/undo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// errFilesFailed makes the process exit non-zero after a run that otherwise completed.
var errFilesFailed = errors.New("some files could not be processed")

var (
	appVersion = "dev" // set by ldflags during build
	logFile    string
	logJSON    bool
	recursive  bool
	dryRun     bool
	force      bool
	includeExt []string
	confirmer  prompt.Confirmer = prompt.NewTerminalConfirmer()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "agetag",
	Short: "Rename photos by the subject's age at capture time",
	Long: `AgeTag renames images to Name_YYYYMMDD_Age_ID.ext, where Age is how old
the subject was when the photo was taken (27days, 3months, 2years).
Every rename is recorded in rename_log.csv so it can be undone.`,
	SilenceErrors: true,
}

var renameCmd = &cobra.Command{
	Use:   "rename <path> <name> <MM-DD-YYYY>",
	Short: "Rename images in a directory or a single image",
	Args:  cobra.ExactArgs(3),
	RunE:  runRename,
}

var undoCmd = &cobra.Command{
	Use:   "undo <path>",
	Short: "Revert the renames recorded in <path>/rename_log.csv",
	Args:  cobra.ExactArgs(1),
	RunE:  runUndo,
}

var batchCmd = &cobra.Command{
	Use:   "batch <config-file>",
	Short: "Run several rename tasks from a YAML, JSON or TOML file",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatch,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), appVersion)
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "diagnostic log file path")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "write the diagnostic log as JSON lines")

	renameCmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "include subdirectories")
	renameCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "show planned renames without touching files")
	renameCmd.Flags().StringSliceVarP(&includeExt, "include-ext", "e", nil, "limit to these image extensions (subset of the supported formats)")

	undoCmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation and delete the log after a full undo")

	batchCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "show planned renames without touching files")
}

func newLogger(cmd *cobra.Command) (*log.Logger, error) {
	logger, err := log.New(cmd.OutOrStdout(), logFile, logJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return logger, nil
}

func runRename(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	cfg.Path = args[0]
	cfg.Name = args[1]
	cfg.Birth = args[2]
	cfg.Recursive = recursive
	cfg.DryRun = dryRun
	if len(includeExt) > 0 {
		cfg.IncludeExtensions = includeExt
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	cmd.SilenceUsage = true

	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer logger.Close()

	summary, err := pipeline.New(cfg, logger).Run()
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%w: %d failed", errFilesFailed, summary.Failed)
	}
	return nil
}

func runUndo(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer logger.Close()

	summary, err := undo.New(afero.NewOsFs(), confirmer, logger).Run(args[0], force)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%w: %d failed", errFilesFailed, summary.Failed)
	}
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	batch, err := config.LoadBatchFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cmd.SilenceUsage = true

	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer logger.Close()

	failed := 0
	for i := range batch.Tasks {
		cfg := batch.TaskConfig(i, dryRun)
		label := "task " + strconv.Itoa(i+1)

		if err := cfg.Validate(); err != nil {
			logger.Error(label+": skipped", err)
			failed++
			continue
		}

		logger.Info(fmt.Sprintf("%s: %s for %s", label, cfg.Path, cfg.Name))
		summary, err := pipeline.New(cfg, logger).Run()
		if err != nil {
			logger.Error(label+": failed", err)
			failed++
			continue
		}
		failed += summary.Failed
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d failed", errFilesFailed, failed)
	}
	return nil
}
