package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agentic-research/dirtree/internal/config"
	"github.com/agentic-research/dirtree/internal/logging"
)

// app carries state resolved once per invocation and shared by subcommands.
type app struct {
	configPath string
	verbose    bool

	cfg config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Default(), log: zap.NewNop()}

	root := &cobra.Command{
		Use:   "dirtree",
		Short: "dirtree: rebuild a directory tree from a shell transcript and size it",
		Long: `dirtree replays a terminal transcript of "$ cd" / "$ ls" commands and their
listing output, reconstructs the directory tree it describes, and reports
directory sizes against a disk capacity.

Settings are read from ./dirtree.hcl when present, or from --config.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to HCL config (default ./"+config.DefaultPath+" if present)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Debug logging to stderr")

	root.AddCommand(newSolveCmd(a), newTreeCmd(a), newScanCmd(a))
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.Load(a.configPath)
	} else {
		a.cfg, err = config.LoadDefault()
	}
	if err != nil {
		return err
	}

	opts := logging.Options{
		Level:   a.cfg.Log.Level,
		Format:  a.cfg.Log.Format,
		Verbose: a.verbose,
	}
	if w := cmd.ErrOrStderr(); w == os.Stderr {
		a.log, err = logging.New(opts)
	} else {
		a.log, err = logging.NewWriter(w, opts)
	}
	if err != nil {
		return err
	}
	a.log.Debug("config resolved",
		zap.String("path", a.configPath),
		zap.Uint64("capacity", a.cfg.Disk.Capacity),
		zap.Uint64("required_free", a.cfg.Disk.RequiredFree),
		zap.Uint64("ceiling", a.cfg.Report.Ceiling))
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
