package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWatchCommandTimeout(t *testing.T) {
	root := makeTree(t)
	output := filepath.Join(root, "report.txt")

	stdout, _, err := execute(t, "watch", "-d", root, "-o", output, "--timeout", "300ms", "--debounce", "50ms")
	require.NoError(t, err)
	require.Contains(t, stdout, "Watching "+root+" for changes...")
	require.Equal(t, 1, strings.Count(stdout, "Recursive walk       took: "), "only the initial run, since nothing changed")

	report, err := os.ReadFile(output)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(report), "===== Try recursive walk =====\n\n"))
}

func TestWatchCommandInvalidDebounce(t *testing.T) {
	root := makeTree(t)
	_, _, err := execute(t, "watch", "-d", root, "-o", filepath.Join(t.TempDir(), "r.txt"), "--debounce", "-1s")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid debounce")
}
