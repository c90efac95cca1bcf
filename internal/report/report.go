// Package report turns a finished tree into the two disk-cleanup answers:
// how much small directories add up to, and the smallest directory whose
// removal frees enough space.
package report

import (
	"errors"
	"fmt"

	"github.com/agentic-research/dirtree/internal/fstree"
)

var ErrOverCapacity = errors.New("used space exceeds disk capacity")

const (
	DefaultCapacity     uint64 = 70000000
	DefaultRequiredFree uint64 = 30000000
	DefaultCeiling      uint64 = 100000
)

// Params are the fixed constants of a report.
type Params struct {
	Capacity     uint64 // total disk size
	RequiredFree uint64 // free space the update needs
	Ceiling      uint64 // size limit for the small-directory sum
	IncludeRoot  bool   // count the root in the small-directory sum
}

func DefaultParams() Params {
	return Params{
		Capacity:     DefaultCapacity,
		RequiredFree: DefaultRequiredFree,
		Ceiling:      DefaultCeiling,
	}
}

// Result holds both answers and the figures they were derived from.
type Result struct {
	Used      uint64
	Free      uint64
	Needed    uint64
	SumAtMost uint64
	Smallest  uint64
	Found     bool
}

// Compute runs both queries against t.
func Compute(t *fstree.Tree, p Params) (Result, error) {
	used := t.EffectiveSize(t.Root())
	return ComputeWithUsage(t, p, used)
}

// ComputeWithUsage is Compute with the used space supplied by the caller,
// e.g. taken from the real filesystem rather than summed from the tree.
func ComputeWithUsage(t *fstree.Tree, p Params, used uint64) (Result, error) {
	if used > p.Capacity {
		return Result{}, fmt.Errorf("%d used of %d: %w", used, p.Capacity, ErrOverCapacity)
	}
	free := p.Capacity - used

	var needed uint64
	if p.RequiredFree > free {
		needed = p.RequiredFree - free
	}

	smallest, found := fstree.SmallestDirAtLeast(t, needed)
	return Result{
		Used:      used,
		Free:      free,
		Needed:    needed,
		SumAtMost: fstree.SumDirsAtMost(t, p.Ceiling, p.IncludeRoot),
		Smallest:  smallest,
		Found:     found,
	}, nil
}
