package fstree

import "strings"

const (
	separator    = "/"
	parentMarker = ".."
)

// Path is a cursor over a location in the tree, kept as the ordered list of
// directory names below the root. It is mutated in place by Navigate.
type Path struct {
	segments []string
}

// NewPath returns a Path positioned at the root and then moved by token.
func NewPath(token string) *Path {
	p := &Path{}
	p.Navigate(token)
	return p
}

// Navigate applies a cd-style token to the cursor.
//
// A token starting with "/" clears the cursor first. Each non-empty
// component is then either ".." (pop) or a child name (push). Popping at
// the root is a no-op, so a malformed token never fails.
func (p *Path) Navigate(token string) {
	if strings.HasPrefix(token, separator) {
		p.segments = p.segments[:0]
	}
	for _, part := range strings.Split(token, separator) {
		switch part {
		case "":
		case parentMarker:
			if len(p.segments) > 0 {
				p.segments = p.segments[:len(p.segments)-1]
			}
		default:
			p.segments = append(p.segments, part)
		}
	}
}

// Segments returns a copy of the cursor's segments.
func (p *Path) Segments() []string {
	out := make([]string, len(p.segments))
	copy(out, p.segments)
	return out
}

// Depth is the number of segments below the root.
func (p *Path) Depth() int {
	return len(p.segments)
}

// String renders the path in absolute form ("/" for the root).
func (p *Path) String() string {
	return separator + strings.Join(p.segments, separator)
}
