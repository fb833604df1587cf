package cmd

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

// run executes the CLI in dir so that no config file from the developer's
// machine is picked up.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRenderFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.go")
	src := "package main\r\n\r\nfunc main() {}\r\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	out, err := run(t, "", "render", path, "--theme", "dracula")
	require.NoError(t, err)
	require.Equal(t, "package main\n\nfunc main() {}\n", ansi.Strip(out))
}

func TestRenderStdinWithLanguageOverride(t *testing.T) {
	out, err := run(t, `{"a": [1, true]}`+"\n", "render", "-", "--lang", "json")
	require.NoError(t, err)
	require.Equal(t, `{"a": [1, true]}`+"\n", ansi.Strip(out))
}

func TestRenderUnknownTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hi\n"), 0o644))

	_, err := run(t, "", "render", path, "--theme", "no-such-theme")
	require.ErrorContains(t, err, "unknown theme")
}

func TestRenderMissingFile(t *testing.T) {
	_, err := run(t, "", "render", filepath.Join(t.TempDir(), "missing.go"))
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestExplicitConfigMustExist(t *testing.T) {
	_, err := run(t, "", "--config", filepath.Join(t.TempDir(), "nope.yaml"), "languages")
	require.ErrorContains(t, err, "reading config")
}

func TestInvalidConfigRejected(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "livehl.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("highlight:\n  chunk_length: 0\n"), 0o644))

	_, err := run(t, "", "--config", cfgPath, "languages")
	require.ErrorContains(t, err, "chunk_length")
}

func TestLanguagesListsGrammars(t *testing.T) {
	out, err := run(t, "", "languages")
	require.NoError(t, err)
	for _, want := range []string{"go", "json", "markdown", "rust"} {
		require.Contains(t, strings.Fields(out), want)
	}
}

func TestLogFlagWritesLogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "livehl.log")
	path := filepath.Join(t.TempDir(), "x.go")
	require.NoError(t, os.WriteFile(path, []byte("package x\n"), 0o644))

	_, err := run(t, "", "render", path, "--log", logPath, "--log-level", "debug")
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "session ready")
}
