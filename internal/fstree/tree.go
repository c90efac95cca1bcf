// Package fstree holds the reconstructed directory tree: a Path cursor used
// while replaying a transcript, an arena-backed Tree of file and directory
// nodes, and the size queries that run over a finished tree.
package fstree

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrNotFound     = errors.New("node not found")
	ErrNotDirectory = errors.New("not a directory")
)

// Kind distinguishes files from directories.
type Kind uint8

const (
	File Kind = iota
	Directory
)

func (k Kind) String() string {
	switch k {
	case File:
		return "file"
	case Directory:
		return "dir"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// NodeID addresses a node inside its Tree's arena.
type NodeID uint32

// RootID is the ID of the root directory in every Tree.
const RootID NodeID = 0

// Node is one entry in the tree.
// Size is only meaningful for files; directories are sized on demand.
type Node struct {
	Name     string
	Kind     Kind
	Size     uint64
	Parent   NodeID
	children map[string]NodeID // directories only
}

// IsDir reports whether the node is a directory.
func (n Node) IsDir() bool {
	return n.Kind == Directory
}

// Tree is a rooted tree of nodes stored in an arena.
//
// Nodes are never removed. Replacing a child by name detaches the previous
// node, which stays in the arena but is no longer reachable from the root.
type Tree struct {
	nodes []Node
}

// New returns a tree holding only an empty root directory.
func New() *Tree {
	return &Tree{
		nodes: []Node{{
			Name:     "/",
			Kind:     Directory,
			children: make(map[string]NodeID),
		}},
	}
}

// Root returns the root directory's ID.
func (t *Tree) Root() NodeID {
	return RootID
}

// Node returns a copy of the node with the given ID. Changing the copy does
// not change the tree.
func (t *Tree) Node(id NodeID) (Node, error) {
	n, err := t.node(id)
	if err != nil {
		return Node{}, err
	}
	return *n, nil
}

func (t *Tree) node(id NodeID) (*Node, error) {
	if int(id) >= len(t.nodes) {
		return nil, ErrNotFound
	}
	return &t.nodes[id], nil
}

// Insert creates a child of parent called name, replacing any existing child
// of that name. Transcripts list each name once per directory, so a repeat is
// taken as the newer listing.
func (t *Tree) Insert(parent NodeID, name string, size uint64, kind Kind) (NodeID, error) {
	p, err := t.node(parent)
	if err != nil {
		return 0, err
	}
	if !p.IsDir() {
		return 0, fmt.Errorf("insert %q under %q: %w", name, p.Name, ErrNotDirectory)
	}

	id := NodeID(len(t.nodes))
	n := Node{Name: name, Kind: kind, Parent: parent}
	switch kind {
	case File:
		n.Size = size
	case Directory:
		n.children = make(map[string]NodeID)
	default:
		return 0, fmt.Errorf("insert %q: unknown kind %s", name, kind)
	}
	t.nodes = append(t.nodes, n)
	// append may have moved the arena
	t.nodes[parent].children[name] = id
	return id, nil
}

// Resolve follows p from the root.
func (t *Tree) Resolve(p *Path) (NodeID, error) {
	return t.ResolveFrom(RootID, p, 0)
}

// ResolveFrom follows the segments of p starting at index depth, beginning at
// node from. It returns the node the remaining segments lead to.
func (t *Tree) ResolveFrom(from NodeID, p *Path, depth int) (NodeID, error) {
	cur := from
	for _, seg := range p.segments[max(0, min(depth, len(p.segments))):] {
		n, err := t.node(cur)
		if err != nil {
			return 0, err
		}
		if !n.IsDir() {
			return 0, fmt.Errorf("resolve %s at %q: %w", p, n.Name, ErrNotDirectory)
		}
		next, ok := n.children[seg]
		if !ok {
			return 0, fmt.Errorf("resolve %s at %q: %w", p, seg, ErrNotFound)
		}
		cur = next
	}
	if _, err := t.node(cur); err != nil {
		return 0, err
	}
	return cur, nil
}

// Lookup returns the child of dir called name.
func (t *Tree) Lookup(dir NodeID, name string) (NodeID, bool) {
	n, err := t.node(dir)
	if err != nil || !n.IsDir() {
		return 0, false
	}
	id, ok := n.children[name]
	return id, ok
}

// Children returns the IDs of dir's children ordered by name.
func (t *Tree) Children(dir NodeID) []NodeID {
	n, err := t.node(dir)
	if err != nil || len(n.children) == 0 {
		return nil
	}
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)
	ids := make([]NodeID, len(names))
	for i, name := range names {
		ids[i] = n.children[name]
	}
	return ids
}

// EffectiveSize returns a file's stored size, or the recursive sum over a
// directory's descendants. It is recomputed on every call.
func (t *Tree) EffectiveSize(id NodeID) uint64 {
	n, err := t.node(id)
	if err != nil {
		return 0
	}
	if !n.IsDir() {
		return n.Size
	}
	var total uint64
	for _, child := range n.children {
		total += t.EffectiveSize(child)
	}
	return total
}

// WalkFunc is called for every reachable node with its depth below the root.
// Returning an error stops the walk.
type WalkFunc func(id NodeID, n Node, depth int) error

// Walk visits the root and every reachable node depth first, children in
// name order.
func (t *Tree) Walk(fn WalkFunc) error {
	return t.walk(RootID, 0, fn)
}

func (t *Tree) walk(id NodeID, depth int, fn WalkFunc) error {
	if err := fn(id, t.nodes[id], depth); err != nil {
		return err
	}
	for _, child := range t.Children(id) {
		if err := t.walk(child, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of nodes reachable from the root, root included.
func (t *Tree) Len() int {
	count := 0
	_ = t.Walk(func(NodeID, Node, int) error {
		count++
		return nil
	})
	return count
}
