package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pytexp/internal/cli"
	"pytexp/internal/config"
	"pytexp/internal/domain"
)

const sampleTests = `import pytest


def test_top():
    assert True


class TestGroup:
    def test_inner(self):
        pass

    def helper(self):
        pass
`

func newProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	_, out, errOut, err := executeWith(t, args...)
	return out, errOut, err
}

func executeWith(t *testing.T, args ...string) (*Commands, string, string, error) {
	t.Helper()
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	rootCmd := &cobra.Command{Use: "pytexp", SilenceUsage: true, SilenceErrors: true}
	cfg := config.New()
	var flags cli.Flags
	cmds := NewCommands(cfg)
	cmds.Register(rootCmd, &flags, cfg)
	t.Cleanup(func() { cmds.Close() })

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return cmds, out.String(), errOut.String(), err
}

func TestCollect(t *testing.T) {
	project := newProject(t, map[string]string{
		"tests/test_a.py":      sampleTests,
		"tests/test_broken.py": "def test_broken(:\n",
		"tests/helpers.py":     "def test_not_collected():\n    pass\n",
	})

	out, errOut, err := execute(t, "collect", "-p", project)

	require.NoError(t, err)
	assert.Equal(t, "tests/test_a.py::test_top\n"+
		"tests/test_a.py::TestGroup\n"+
		"tests/test_a.py::TestGroup::test_inner\n"+
		"\n3 tests collected from 2 files (1 skipped)\n", out)
	assert.Contains(t, errOut, "tests/test_broken.py")
}

func TestCollect_DescendsIntoDotAndVenvDirectories(t *testing.T) {
	project := newProject(t, map[string]string{
		"tests/.integration/test_slow.py": "def test_slow():\n    pass\n",
		"tests/venv/test_env.py":          "def test_env():\n    pass\n",
		"tests/__pycache__/test_a.py":     "def test_cached():\n    pass\n",
	})

	out, _, err := execute(t, "collect", "-p", project)

	require.NoError(t, err)
	assert.Equal(t, "tests/.integration/test_slow.py::test_slow\n"+
		"tests/venv/test_env.py::test_env\n"+
		"\n2 tests collected from 2 files\n", out)
}

func TestCollect_Strict(t *testing.T) {
	project := newProject(t, map[string]string{
		"tests/test_a.py":      sampleTests,
		"tests/test_broken.py": "def test_broken(:\n",
	})

	_, _, err := execute(t, "collect", "-p", project, "--strict")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "tests/test_broken.py")
}

func TestCollect_TestPath(t *testing.T) {
	project := newProject(t, map[string]string{
		"tests/unit/test_a.py":  sampleTests,
		"tests/other/test_b.py": "def test_other():\n    pass\n",
	})

	out, _, err := execute(t, "collect", "-p", project, "-t", "tests/other")

	require.NoError(t, err)
	assert.Equal(t, "tests/other/test_b.py::test_other\n\n1 tests collected from 1 files\n", out)
}

func TestCollect_MissingTestPath(t *testing.T) {
	project := newProject(t, nil)

	out, _, err := execute(t, "collect", "-p", project)

	require.NoError(t, err)
	assert.Equal(t, "\n0 tests collected from 0 files\n", out)
}

func TestCollect_TestPathIsFile(t *testing.T) {
	project := newProject(t, map[string]string{"tests": "not a directory"})

	_, _, err := execute(t, "collect", "-p", project)

	assert.Error(t, err)
}

func TestCollect_JSON(t *testing.T) {
	project := newProject(t, map[string]string{"tests/test_a.py": sampleTests})

	_, errOut, err := execute(t, "collect", "-p", project, "--json", "out/collection.json")
	require.NoError(t, err)
	assert.Contains(t, errOut, "collection written to")

	data, err := os.ReadFile(filepath.Join(project, "out", "collection.json"))
	require.NoError(t, err)

	var collection domain.Collection
	require.NoError(t, json.Unmarshal(data, &collection))
	assert.Equal(t, "tests", collection.Meta.Root)
	assert.Equal(t, 3, collection.Meta.TotalTests)
	require.Len(t, collection.Tests, 3)
	assert.Equal(t, domain.CollectedTest{
		Path: "tests/test_a.py::TestGroup::test_inner", Kind: "Function", File: "tests/test_a.py", Line: 9,
	}, collection.Tests[2])
}

func TestCollect_JSONReportsChanges(t *testing.T) {
	project := newProject(t, map[string]string{"tests/test_a.py": sampleTests})

	_, errOut, err := execute(t, "collect", "-p", project, "--json", "collection.json")
	require.NoError(t, err)
	assert.NotContains(t, errOut, "since")

	_, errOut, err = execute(t, "collect", "-p", project, "--json", "collection.json")
	require.NoError(t, err)
	assert.Contains(t, errOut, "no changes since")

	require.NoError(t, os.WriteFile(filepath.Join(project, "tests", "test_a.py"),
		[]byte("def test_top():\n    pass\n\n\ndef test_added():\n    pass\n"), 0644))

	_, errOut, err = execute(t, "collect", "-p", project, "--json", "collection.json")
	require.NoError(t, err)
	assert.Contains(t, errOut, "+ tests/test_a.py::test_added\n")
	assert.Contains(t, errOut, "- tests/test_a.py::TestGroup\n")
	assert.Contains(t, errOut, "- tests/test_a.py::TestGroup::test_inner\n")
	assert.Contains(t, errOut, "1 added, 2 removed since")
}

func TestCollect_JSONOverwritesCorruptSnapshot(t *testing.T) {
	project := newProject(t, map[string]string{
		"tests/test_a.py": sampleTests,
		"collection.json": "{not json",
	})

	_, errOut, err := execute(t, "collect", "-p", project, "--json", "collection.json")
	require.NoError(t, err)
	assert.NotContains(t, errOut, "since")

	data, err := os.ReadFile(filepath.Join(project, "collection.json"))
	require.NoError(t, err)
	var collection domain.Collection
	require.NoError(t, json.Unmarshal(data, &collection))
	assert.Equal(t, 3, collection.Meta.TotalTests)
}

func TestDebugLog(t *testing.T) {
	project := newProject(t, map[string]string{"tests/test_a.py": sampleTests})
	logPath := filepath.Join(t.TempDir(), "debug.log")

	_, _, err := execute(t, "collect", "-p", project, "--debug-log", logPath)
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tests load 3 from 1 files")
}

func TestDebugLog_ClosedAfterFailure(t *testing.T) {
	project := newProject(t, map[string]string{"tests/test_broken.py": "def test_broken(:\n"})
	logPath := filepath.Join(t.TempDir(), "debug.log")

	cmds, _, _, err := executeWith(t, "collect", "-p", project, "--strict", "--debug-log", logPath)
	require.Error(t, err)

	f, ok := cmds.logFile.(*os.File)
	require.True(t, ok, "log file is still held after a failed command")

	require.NoError(t, cmds.Close())
	assert.Nil(t, cmds.logFile)
	_, err = f.WriteString("late\n")
	assert.ErrorIs(t, err, os.ErrClosed)
	assert.NoError(t, cmds.Close())
}

func TestDebugLog_ClosedAfterSuccess(t *testing.T) {
	project := newProject(t, map[string]string{"tests/test_a.py": sampleTests})
	logPath := filepath.Join(t.TempDir(), "debug.log")

	cmds, _, _, err := executeWith(t, "collect", "-p", project, "--debug-log", logPath)

	require.NoError(t, err)
	assert.Nil(t, cmds.logFile)
}
