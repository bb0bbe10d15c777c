package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/TFMV/walkscan/internal/config"
	"github.com/stretchr/testify/require"
)

// execute runs a fresh root command with args, isolated from any config
// file in the real home directory.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func makeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "b", "c.txt"), []byte("c"), 0644))
	return root
}

func TestRootCommand(t *testing.T) {
	root := makeTree(t)
	output := filepath.Join(t.TempDir(), "report.txt")

	stdout, _, err := execute(t, "-d", root, "-o", output)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	require.Len(t, lines, 5)
	require.Equal(t, "Directory to be scanned/walked is: "+root, lines[0])
	require.Equal(t, "Output to file: "+output, lines[1])
	require.Empty(t, lines[2])
	require.True(t, strings.HasPrefix(lines[3], "Recursive walk       took: "))
	require.True(t, strings.HasSuffix(lines[3], " seconds."))
	require.True(t, strings.HasPrefix(lines[4], "Stack scan           took: "))

	report, err := os.ReadFile(output)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(report), "===== Try recursive walk =====\n\n"))
	require.Contains(t, string(report), "\t\tc.txt  Last Modified Date: ")
}

func TestRootCommandConfigFile(t *testing.T) {
	root := makeTree(t)
	output := filepath.Join(t.TempDir(), "from-config.txt")
	cfgFile := filepath.Join(t.TempDir(), "walkscan.yaml")
	body := "rootdir: " + root + "\noutput: " + output + "\nexclude: [a]\n"
	require.NoError(t, os.WriteFile(cfgFile, []byte(body), 0644))

	_, stderr, err := execute(t, "--config", cfgFile)
	require.NoError(t, err)
	require.Contains(t, stderr, "Using config file: "+cfgFile)

	report, err := os.ReadFile(output)
	require.NoError(t, err)
	require.Contains(t, string(report), "\t\ta - (omitted)\n")
	require.NotContains(t, string(report), "c.txt")
}

func TestRootCommandEnvironment(t *testing.T) {
	root := makeTree(t)
	output := filepath.Join(t.TempDir(), "env.txt")
	t.Setenv("WALKSCAN_ROOTDIR", root)
	t.Setenv("WALKSCAN_OUTPUT", output)

	stdout, _, err := execute(t)
	require.NoError(t, err)
	require.Contains(t, stdout, "Directory to be scanned/walked is: "+root+"\n")
	require.FileExists(t, output)
}

func TestRootCommandErrors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing root", []string{"-d", filepath.Join(dir, "missing"), "-o", filepath.Join(dir, "r1.txt")}, "recursive walk"},
		{"root is a file", []string{"-d", file, "-o", filepath.Join(dir, "r2.txt")}, "not a directory"},
		{"bad exclude", []string{"-d", dir, "-o", filepath.Join(dir, "r3.txt"), "-x", "[bad"}, "invalid exclude"},
		{"unwritable output", []string{"-d", dir, "-o", filepath.Join(dir, "no", "such", "dir.txt")}, "cannot open output file"},
		{"missing config", []string{"--config", filepath.Join(dir, "absent.yaml")}, "reading config file"},
		{"positional argument", []string{"extra"}, "unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestAnnounce(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()
	announce(&buf, cfg)
	require.Equal(t, "Directory to be scanned/walked is: .\nOutput to file: walk_vs_scan.txt\n\n", buf.String())
}
