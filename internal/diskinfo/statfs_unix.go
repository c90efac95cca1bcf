//go:build linux || darwin

package diskinfo

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Usage statfs(2)s the filesystem containing path.
func Usage(path string) (Stats, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return Stats{}, fmt.Errorf("statfs %s: %w", path, err)
	}
	bsize := uint64(st.Bsize)
	return Stats{
		Capacity: st.Blocks * bsize,
		Free:     st.Bavail * bsize,
	}, nil
}
