package cmd

import (
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agentic-research/dirtree/internal/diskinfo"
	"github.com/agentic-research/dirtree/internal/report"
	"github.com/agentic-research/dirtree/internal/scan"
)

func newScanCmd(a *app) *cobra.Command {
	var (
		flags  reportFlags
		statfs bool
	)
	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Run the size report over a real directory",
		Long: `Walks <dir> on disk instead of replaying a transcript and prints the same
report as "solve". With --statfs the capacity and used space come from the
filesystem holding <dir>; otherwise the config and flags supply the capacity
and used space is the scanned total.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			tree, err := scan.FromFS(osfs.New(dir), "/", scan.WithLogger(a.log))
			if err != nil {
				return err
			}

			p := flags.params(cmd, a)
			var res report.Result
			if statfs {
				st, err := diskinfo.Usage(dir)
				if err != nil {
					return err
				}
				a.log.Debug("statfs", zap.String("dir", dir),
					zap.Uint64("capacity", st.Capacity), zap.Uint64("free", st.Free))
				p.Capacity = st.Capacity
				res, err = report.ComputeWithUsage(tree, p, st.Used())
				if err != nil {
					return err
				}
			} else {
				res, err = report.Compute(tree, p)
				if err != nil {
					return err
				}
			}
			a.logResult(res)
			return printResult(cmd.OutOrStdout(), p, res, flags.asJSON)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&statfs, "statfs", false, "Take capacity and used space from the filesystem")
	return cmd
}
