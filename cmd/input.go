package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agentic-research/dirtree/internal/fstree"
	"github.com/agentic-research/dirtree/internal/transcript"
)

// buildFromArgs replays the transcript named by args[0], or stdin when no
// argument or "-" is given.
func (a *app) buildFromArgs(cmd *cobra.Command, args []string) (*fstree.Tree, error) {
	var (
		r    io.Reader
		name = "-"
	)
	if len(args) > 0 {
		name = args[0]
	}
	if name == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(name)
		if err != nil {
			return nil, fmt.Errorf("open transcript: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	tree, err := transcript.NewEngine(a.log).Build(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	a.log.Debug("tree built", zap.String("source", name), zap.Int("nodes", tree.Len()))
	return tree, nil
}
