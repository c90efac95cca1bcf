// Package diskinfo reports the capacity and free space of the filesystem
// holding a path.
package diskinfo

import "errors"

var ErrUnsupported = errors.New("disk usage not supported on this platform")

// Stats are byte counts for one filesystem.
type Stats struct {
	Capacity uint64
	Free     uint64 // available to unprivileged users
}

// Used is the space not available for new data.
func (s Stats) Used() uint64 {
	if s.Free > s.Capacity {
		return 0
	}
	return s.Capacity - s.Free
}
