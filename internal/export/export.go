// Package export renders a tree as generic JSON data and runs JSONPath
// selections over it.
package export

import (
	"fmt"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/agentic-research/dirtree/internal/fstree"
)

// ToData converts the tree into nested maps:
//
//	{"name": "/", "kind": "dir", "size": 48381165, "children": [...]}
//
// Sizes are effective sizes. Children are ordered by name; files have no
// "children" key.
func ToData(t *fstree.Tree) map[string]any {
	idx := t.IndexDirs()
	return nodeData(t, idx, t.Root())
}

func nodeData(t *fstree.Tree, idx *fstree.DirIndex, id fstree.NodeID) map[string]any {
	n, _ := t.Node(id)
	out := map[string]any{
		"name": n.Name,
		"kind": n.Kind.String(),
	}
	if !n.IsDir() {
		out["size"] = n.Size
		return out
	}
	size, _ := idx.Size(id)
	out["size"] = size

	ids := t.Children(id)
	children := make([]any, len(ids))
	for i, c := range ids {
		children[i] = nodeData(t, idx, c)
	}
	out["children"] = children
	return out
}

// JSON renders the tree as JSON with sorted keys. indent 0 gives a single line.
func JSON(t *fstree.Tree, indent int) string {
	return oj.JSON(ToData(t), &oj.Options{Indent: indent, Sort: true})
}

// Select evaluates a JSONPath expression against ToData(t).
func Select(t *fstree.Tree, expr string) ([]any, error) {
	x, err := jp.ParseString(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", expr, err)
	}
	return x.Get(ToData(t)), nil
}
