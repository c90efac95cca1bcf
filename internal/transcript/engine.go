// Package transcript replays a shell session log (cd/ls commands and ls
// output) into an fstree.Tree.
package transcript

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/agentic-research/dirtree/internal/fstree"
)

const (
	commandMarker = "$"
	dirMarker     = "dir"
	maxLineBytes  = 1024 * 1024
)

// ParseError reports a transcript line that could not be applied.
type ParseError struct {
	Line int    // 1-based
	Text string // the trimmed line
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Engine drives the replay.
type Engine struct {
	Logger *zap.Logger
}

func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{Logger: logger}
}

// Build replays the transcript read from r and returns the finished tree.
func Build(r io.Reader) (*fstree.Tree, error) {
	return NewEngine(nil).Build(r)
}

// BuildString is Build over an in-memory transcript.
func BuildString(s string) (*fstree.Tree, error) {
	return Build(strings.NewReader(s))
}

// Build replays the transcript read from r.
//
// Command lines move the cursor ("$ cd X") or are ignored ("$ ls").
// Every other non-blank line is a listing entry inserted under the
// directory the cursor currently points at.
func (e *Engine) Build(r io.Reader) (*fstree.Tree, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineBytes)

	tree := fstree.New()
	cwd := fstree.NewPath("")
	lineNum := 0
	entries := 0

	for sc.Scan() {
		lineNum++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		var err error
		if rest, ok := strings.CutPrefix(line, commandMarker); ok {
			err = e.command(cwd, rest)
		} else {
			err = e.entry(tree, cwd, line)
			entries++
		}
		if err != nil {
			return nil, &ParseError{Line: lineNum, Text: line, Err: err}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	e.Logger.Debug("transcript replayed",
		zap.Int("lines", lineNum),
		zap.Int("entries", entries),
		zap.Int("nodes", tree.Len()))
	return tree, nil
}

func (e *Engine) command(cwd *fstree.Path, rest string) error {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return fmt.Errorf("empty command")
	}
	switch fields[0] {
	case "cd":
		// "$ cd" with no target moves nowhere.
		if len(fields) > 1 {
			cwd.Navigate(fields[1])
		}
		e.Logger.Debug("cd", zap.Strings("args", fields[1:]), zap.Stringer("cwd", cwd))
		return nil
	case "ls":
		return nil
	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
}

func (e *Engine) entry(tree *fstree.Tree, cwd *fstree.Path, line string) error {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return fmt.Errorf("listing entry needs 2 fields, got %d", len(fields))
	}
	field, name := fields[0], fields[1]

	kind := fstree.File
	var size uint64
	if field == dirMarker {
		kind = fstree.Directory
	} else {
		var err error
		size, err = strconv.ParseUint(field, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid size %q: %w", field, err)
		}
	}

	parent, err := tree.Resolve(cwd)
	if err != nil {
		return fmt.Errorf("current directory %s: %w", cwd, err)
	}
	if _, err := tree.Insert(parent, name, size, kind); err != nil {
		return err
	}
	return nil
}
