package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/agentic-research/dirtree/internal/export"
	"github.com/agentic-research/dirtree/internal/fstree"
)

func newTreeCmd(a *app) *cobra.Command {
	var (
		human  bool
		asJSON bool
		selExp string
	)
	cmd := &cobra.Command{
		Use:   "tree [transcript]",
		Short: "Print the directory tree a transcript describes",
		Example: `  dirtree tree session.log
  dirtree tree --human < session.log
  dirtree tree --select "$..children[?(@.kind == 'dir')].name" session.log`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := a.buildFromArgs(cmd, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch {
			case selExp != "":
				matches, err := export.Select(tree, selExp)
				if err != nil {
					return err
				}
				for _, m := range matches {
					if _, err := fmt.Fprintln(out, oj.JSON(m, &oj.Options{Sort: true})); err != nil {
						return err
					}
				}
				return nil
			case asJSON:
				_, err := fmt.Fprintln(out, export.JSON(tree, 2))
				return err
			default:
				return renderTree(out, tree, human)
			}
		},
	}
	cmd.Flags().BoolVar(&human, "human", false, "Human-readable sizes")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the tree as JSON")
	cmd.Flags().StringVar(&selExp, "select", "", "JSONPath expression evaluated against the JSON tree")
	return cmd
}

// renderTree writes one line per node, indented two spaces per level:
//
//	- / (dir, size=48381165)
//	  - a (dir, size=94853)
func renderTree(w io.Writer, t *fstree.Tree, human bool) error {
	idx := t.IndexDirs()
	return t.Walk(func(id fstree.NodeID, n fstree.Node, depth int) error {
		size := n.Size
		if n.IsDir() {
			size, _ = idx.Size(id)
		}
		sizeStr := fmt.Sprintf("%d", size)
		if human {
			sizeStr = humanize.Bytes(size)
		}
		_, err := fmt.Fprintf(w, "%s- %s (%s, size=%s)\n", strings.Repeat("  ", depth), n.Name, n.Kind, sizeStr)
		return err
	})
}
