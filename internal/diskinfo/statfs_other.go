//go:build !linux && !darwin

package diskinfo

// Usage is not implemented on this platform.
func Usage(path string) (Stats, error) {
	return Stats{}, ErrUnsupported
}
