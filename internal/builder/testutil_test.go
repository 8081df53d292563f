package builder

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/qobs-build/nmakegen/internal/msg"
	"github.com/stretchr/testify/require"
)

// writeTree creates every slash-separated file below root with dummy content.
// Paths ending in "/" become empty directories.
func writeTree(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		if p[len(p)-1] == '/' {
			require.NoError(t, os.MkdirAll(full, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("// "+p+"\n"), 0o644))
	}
}

// noColor turns color off for the rest of the test.
func noColor(t *testing.T) {
	old := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = old })
}

// captureMsg redirects msg output into the returned buffer for the rest of the test.
func captureMsg(t *testing.T) *bytes.Buffer {
	noColor(t)
	var buf bytes.Buffer
	old := msg.Out
	msg.Out = &buf
	t.Cleanup(func() { msg.Out = old })
	return &buf
}
