package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/dirtree/internal/fstree"
)

const exampleTranscript = `$ cd /
$ ls
dir a
14848514 b.txt
8504156 c.dat
dir d
$ cd a
$ ls
dir e
29116 f
2557 g
62596 h.lst
$ cd e
$ ls
584 i
$ cd ..
$ cd ..
$ cd d
$ ls
4060174 j
8033020 d.log
5626152 d.ext
7214296 k
`

// run executes the CLI in a scratch working directory so no stray
// dirtree.hcl is picked up.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	wd, wdErr := os.Getwd()
	require.NoError(t, wdErr)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTranscript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.log")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSolve_File(t *testing.T) {
	path := writeTranscript(t, exampleTranscript)
	out, _, err := run(t, "", "solve", path)
	require.NoError(t, err)
	assert.Equal(t,
		"Sum of directories under 100000: 95437\n"+
			"Smallest directory to free 8381165: 24933642\n", out)
}

func TestSolve_Stdin(t *testing.T) {
	for _, args := range [][]string{{"solve"}, {"solve", "-"}} {
		out, _, err := run(t, exampleTranscript, args...)
		require.NoError(t, err)
		assert.Contains(t, out, ": 95437\n")
	}
}

func TestSolve_FlagsOverride(t *testing.T) {
	out, _, err := run(t, exampleTranscript, "solve", "--ceiling", "600", "--required", "30000000", "--capacity", "100000000")
	require.NoError(t, err)
	assert.Equal(t,
		"Sum of directories under 600: 584\n"+
			"Smallest directory to free 0: 584\n", out)
}

func TestSolve_ConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "dirtree.hcl")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
report {
  ceiling      = 100000000
  include_root = true
}
`), 0o644))

	out, _, err := run(t, exampleTranscript, "--config", cfgPath, "solve")
	require.NoError(t, err)
	assert.Contains(t, out, "Sum of directories under 100000000: 73410244\n")
}

func TestSolve_JSON(t *testing.T) {
	out, _, err := run(t, exampleTranscript, "solve", "--json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.EqualValues(t, 95437, got["sum_at_most"])
	assert.EqualValues(t, 24933642, got["smallest"])
	assert.EqualValues(t, 8381165, got["needed"])
	assert.Equal(t, true, got["found"])
}

func TestSolve_JSONLargeValues(t *testing.T) {
	out, _, err := run(t, exampleTranscript, "solve", "--json",
		"--capacity", "18446744073709551615", "--required", "18446744073709551615")
	require.NoError(t, err)

	dec := json.NewDecoder(strings.NewReader(out))
	dec.UseNumber()
	var got map[string]any
	require.NoError(t, dec.Decode(&got))
	assert.Equal(t, json.Number("18446744073661170450"), got["free"])
	assert.Equal(t, json.Number("48381165"), got["needed"])
	assert.Equal(t, json.Number("48381165"), got["smallest"])
}

func TestSolve_NoneFound(t *testing.T) {
	out, stderr, err := run(t, "$ ls\n10 x\n", "solve", "--capacity", "100", "--required", "200")
	require.NoError(t, err)
	assert.Contains(t, out, "No directory of at least 110 found\n")
	assert.Contains(t, stderr, "no directory is large enough")
}

func TestSolve_ParseError(t *testing.T) {
	_, _, err := run(t, "$ ls\nbogus f\n", "solve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), "invalid size")
}

func TestSolve_MissingFile(t *testing.T) {
	_, _, err := run(t, "", "solve", filepath.Join(t.TempDir(), "nope.log"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSolve_BadConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "bad.hcl")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log {\n level = \"loud\"\n}\n"), 0o644))
	_, _, err := run(t, exampleTranscript, "-c", cfgPath, "solve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}

func TestVerboseLogsToStderr(t *testing.T) {
	_, stderr, err := run(t, exampleTranscript, "-v", "solve")
	require.NoError(t, err)
	assert.Contains(t, stderr, "tree built")
	assert.Contains(t, stderr, "report computed")
}

func TestTree_Text(t *testing.T) {
	out, _, err := run(t, "$ cd /\ndir a\n5 z\n$ cd a\n3 x\n", "tree")
	require.NoError(t, err)
	assert.Equal(t,
		"- / (dir, size=8)\n"+
			"  - a (dir, size=3)\n"+
			"    - x (file, size=3)\n"+
			"  - z (file, size=5)\n", out)
}

func TestTree_Human(t *testing.T) {
	out, _, err := run(t, exampleTranscript, "tree", "--human")
	require.NoError(t, err)
	assert.Contains(t, out, "- / (dir, size=48 MB)\n")
	assert.Contains(t, out, "      - i (file, size=584 B)\n")
}

func TestTree_JSON(t *testing.T) {
	out, _, err := run(t, exampleTranscript, "tree", "--json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "/", got["name"])
	assert.EqualValues(t, 48381165, got["size"])
}

func TestTree_Select(t *testing.T) {
	out, _, err := run(t, exampleTranscript, "tree", "--select", "$.children[?(@.kind == 'dir')].size")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"94853", "24933642"}, strings.Fields(out))
}

func TestTree_SelectInvalid(t *testing.T) {
	_, _, err := run(t, exampleTranscript, "tree", "--select", "$[?(")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid jsonpath")
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	for name, size := range map[string]int64{"a/f": 40000, "a/e/i": 584, "big": 90000000} {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		f, err := os.Create(p)
		require.NoError(t, err)
		require.NoError(t, f.Truncate(size))
		require.NoError(t, f.Close())
	}

	out, _, err := run(t, "", "scan", dir, "--capacity", "100000000", "--required", "30000000")
	require.NoError(t, err)
	assert.Equal(t,
		"Sum of directories under 100000: 41168\n"+
			"Smallest directory to free 20040584: 90040584\n", out)
}

func TestScan_Statfs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "f"), []byte("hello"), 0o644))

	out, _, err := run(t, "", "scan", "--statfs", "--required", "0", "--json", dir)
	if err != nil && strings.Contains(err.Error(), "not supported") {
		t.Skip(err)
	}
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.EqualValues(t, 0, got["needed"])
	assert.Equal(t, true, got["found"])
}

func TestScan_NotADirectory(t *testing.T) {
	_, _, err := run(t, "", "scan", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestRenderTree_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderTree(&buf, fstree.New(), false))
	assert.Equal(t, "- / (dir, size=0)\n", buf.String())
}
