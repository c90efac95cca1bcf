package cmd

import (
	"fmt"
	"io"

	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agentic-research/dirtree/internal/report"
)

// reportFlags override config values for a single run.
type reportFlags struct {
	ceiling     uint64
	capacity    uint64
	required    uint64
	includeRoot bool
	asJSON      bool
}

func (f *reportFlags) register(cmd *cobra.Command) {
	cmd.Flags().Uint64Var(&f.ceiling, "ceiling", report.DefaultCeiling, "Size limit for the small-directory sum")
	cmd.Flags().Uint64Var(&f.capacity, "capacity", report.DefaultCapacity, "Total disk capacity")
	cmd.Flags().Uint64Var(&f.required, "required", report.DefaultRequiredFree, "Free space required")
	cmd.Flags().BoolVar(&f.includeRoot, "include-root", false, "Count the root directory in the small-directory sum")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "Print the result as JSON")
}

// params starts from the config and applies only the flags that were set.
func (f *reportFlags) params(cmd *cobra.Command, a *app) report.Params {
	p := a.cfg.ReportParams()
	flags := cmd.Flags()
	if flags.Changed("ceiling") {
		p.Ceiling = f.ceiling
	}
	if flags.Changed("capacity") {
		p.Capacity = f.capacity
	}
	if flags.Changed("required") {
		p.RequiredFree = f.required
	}
	if flags.Changed("include-root") {
		p.IncludeRoot = f.includeRoot
	}
	return p
}

func newSolveCmd(a *app) *cobra.Command {
	var flags reportFlags
	cmd := &cobra.Command{
		Use:   "solve [transcript]",
		Short: "Print the small-directory sum and the smallest directory to delete",
		Long: `Replays a transcript (a file, or stdin when omitted or "-") and prints:

  1. the total size of all directories no larger than --ceiling
  2. the smallest directory whose deletion frees enough space to reach
     --required free bytes on a disk of --capacity bytes`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := a.buildFromArgs(cmd, args)
			if err != nil {
				return err
			}
			p := flags.params(cmd, a)
			res, err := report.Compute(tree, p)
			if err != nil {
				return err
			}
			a.logResult(res)
			return printResult(cmd.OutOrStdout(), p, res, flags.asJSON)
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) logResult(res report.Result) {
	a.log.Debug("report computed",
		zap.Uint64("used", res.Used),
		zap.Uint64("free", res.Free),
		zap.Uint64("needed", res.Needed))
	if !res.Found {
		a.log.Warn("no directory is large enough", zap.Uint64("needed", res.Needed))
	}
}

func printResult(w io.Writer, p report.Params, res report.Result, asJSON bool) error {
	if asJSON {
		data := map[string]any{
			"used":        res.Used,
			"free":        res.Free,
			"needed":      res.Needed,
			"sum_at_most": res.SumAtMost,
			"found":       res.Found,
		}
		if res.Found {
			data["smallest"] = res.Smallest
		}
		_, err := fmt.Fprintln(w, oj.JSON(data, &oj.Options{Indent: 2, Sort: true}))
		return err
	}

	if _, err := fmt.Fprintf(w, "Sum of directories under %d: %d\n", p.Ceiling, res.SumAtMost); err != nil {
		return err
	}
	var err error
	if res.Found {
		_, err = fmt.Fprintf(w, "Smallest directory to free %d: %d\n", res.Needed, res.Smallest)
	} else {
		_, err = fmt.Fprintf(w, "No directory of at least %d found\n", res.Needed)
	}
	return err
}
