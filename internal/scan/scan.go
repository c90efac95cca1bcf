// Package scan builds an fstree.Tree from a live filesystem exposed through
// billy, so the size queries can run on a real directory instead of a
// transcript.
package scan

import (
	"fmt"
	"path"

	billy "github.com/go-git/go-billy/v5"
	"go.uber.org/zap"

	"github.com/agentic-research/dirtree/internal/fstree"
)

// Option configures a scan.
type Option func(*scanner)

// WithLogger traces skipped entries and the final node count.
func WithLogger(l *zap.Logger) Option {
	return func(s *scanner) {
		if l != nil {
			s.log = l
		}
	}
}

type scanner struct {
	fs      billy.Filesystem
	tree    *fstree.Tree
	log     *zap.Logger
	skipped int
}

// FromFS walks root inside fsys and mirrors every directory and regular file
// into a new tree. root becomes the tree's root. Symlinks, devices and other
// special files are skipped.
func FromFS(fsys billy.Filesystem, root string, opts ...Option) (*fstree.Tree, error) {
	s := &scanner{
		fs:   fsys,
		tree: fstree.New(),
		log:  zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}

	root = cleanPath(root)
	if root != "/" {
		info, err := fsys.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat scan root %s: %w", root, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("scan root %s: %w", root, fstree.ErrNotDirectory)
		}
	}

	if err := s.walk(root, s.tree.Root()); err != nil {
		return nil, err
	}
	s.log.Debug("scan complete",
		zap.String("root", root),
		zap.Int("nodes", s.tree.Len()),
		zap.Int("skipped", s.skipped))
	return s.tree, nil
}

func (s *scanner) walk(dir string, parent fstree.NodeID) error {
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %s: %w", dir, err)
	}
	for _, fi := range entries {
		p := s.fs.Join(dir, fi.Name())
		switch {
		case fi.IsDir():
			id, err := s.tree.Insert(parent, fi.Name(), 0, fstree.Directory)
			if err != nil {
				return err
			}
			if err := s.walk(p, id); err != nil {
				return err
			}
		case fi.Mode().IsRegular():
			if _, err := s.tree.Insert(parent, fi.Name(), uint64(fi.Size()), fstree.File); err != nil {
				return err
			}
		default:
			s.skipped++
			s.log.Debug("skipping special file", zap.String("path", p), zap.Stringer("mode", fi.Mode()))
		}
	}
	return nil
}

// cleanPath normalises a billy path so "" and "." both mean the root.
func cleanPath(p string) string {
	return path.Clean("/" + p)
}
