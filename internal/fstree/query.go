package fstree

import (
	"github.com/RoaringBitmap/roaring"
)

// DirIndex is a snapshot of every reachable directory's effective size,
// taken in one post-order pass over the tree.
type DirIndex struct {
	dirs  *roaring.Bitmap   // reachable directory IDs
	sizes map[NodeID]uint64 // effective size per directory
}

// IndexDirs sizes every directory reachable from the root. Nothing is
// cached on the tree; each call walks it again.
func (t *Tree) IndexDirs() *DirIndex {
	idx := &DirIndex{
		dirs:  roaring.New(),
		sizes: make(map[NodeID]uint64),
	}
	idx.visit(t, RootID)
	return idx
}

func (idx *DirIndex) visit(t *Tree, id NodeID) uint64 {
	n := &t.nodes[id]
	if !n.IsDir() {
		return n.Size
	}
	var total uint64
	for _, child := range n.children {
		total += idx.visit(t, child)
	}
	idx.dirs.Add(uint32(id))
	idx.sizes[id] = total
	return total
}

// Dirs returns the IDs of all indexed directories, root included.
func (idx *DirIndex) Dirs() *roaring.Bitmap {
	return idx.dirs.Clone()
}

// Size returns the indexed effective size of a directory.
func (idx *DirIndex) Size(id NodeID) (uint64, bool) {
	s, ok := idx.sizes[id]
	return s, ok
}

// Select returns the directories whose effective size satisfies keep.
func (idx *DirIndex) Select(keep func(size uint64) bool) *roaring.Bitmap {
	out := roaring.New()
	it := idx.dirs.Iterator()
	for it.HasNext() {
		id := it.Next()
		if keep(idx.sizes[NodeID(id)]) {
			out.Add(id)
		}
	}
	return out
}

// Sum adds up the effective sizes of the directories in set.
func (idx *DirIndex) Sum(set *roaring.Bitmap) uint64 {
	var total uint64
	it := set.Iterator()
	for it.HasNext() {
		total += idx.sizes[NodeID(it.Next())]
	}
	return total
}

// SumDirsAtMost sums the effective sizes of directories no larger than
// ceiling. A directory nested inside another qualifying one is counted
// again in its own right. The root only takes part when includeRoot is set.
func SumDirsAtMost(t *Tree, ceiling uint64, includeRoot bool) uint64 {
	idx := t.IndexDirs()
	set := idx.Select(func(size uint64) bool { return size <= ceiling })
	if !includeRoot {
		set.Remove(uint32(RootID))
	}
	return idx.Sum(set)
}

// SmallestDirAtLeast returns the smallest effective size among directories,
// root included, that are at least floor. The boolean is false when no
// directory qualifies.
func SmallestDirAtLeast(t *Tree, floor uint64) (uint64, bool) {
	idx := t.IndexDirs()
	set := idx.Select(func(size uint64) bool { return size >= floor })
	if set.IsEmpty() {
		return 0, false
	}
	var (
		best  uint64
		found bool
	)
	it := set.Iterator()
	for it.HasNext() {
		s := idx.sizes[NodeID(it.Next())]
		if !found || s < best {
			best, found = s, true
		}
	}
	return best, found
}
