package builder

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListSourceFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"src/main.cpp",
		"src/tool/calc.cpp",
		"src/tool/calc.h",
		"src/tool/common/common_tool.cpp",
		"src/component/base.cpp",
		"src/component/three.cpp",
		"src/readme.txt",
		"include/component/three.h",
		"other/ignored.cpp",
	)

	files, err := ListSourceFiles(root, "src", ".cpp")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"src/component/base.cpp",
		"src/component/three.cpp",
		"src/main.cpp",
		"src/tool/calc.cpp",
		"src/tool/common/common_tool.cpp",
	}, files)

	dirs, err := ListSourceDirectories(root, "src", ".cpp")
	require.NoError(t, err)
	assert.Equal(t, []string{"src", "src/component", "src/tool", "src/tool/common"}, dirs)
}

func TestListSourceFilesExtensionWithoutDot(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "src/a.cc", "src/b.cpp")

	files, err := ListSourceFiles(root, "src", "cc")
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.cc"}, files)
}

func TestListSourceFilesDefaultExtension(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "src/a.cc", "src/b.cpp")

	files, err := ListSourceFiles(root, "src", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"src/b.cpp"}, files)
}

func TestSourceDirectoriesDistinctAndSorted(t *testing.T) {
	root := t.TempDir()

	// N files spread over M directories, created in reverse order
	const m, perDir = 6, 3
	var paths []string
	for d := m - 1; d >= 0; d-- {
		for f := perDir - 1; f >= 0; f-- {
			paths = append(paths, fmt.Sprintf("src/d%d/f%d.cpp", d, f))
		}
	}
	writeTree(t, root, paths...)

	files, err := ListSourceFiles(root, "src", ".cpp")
	require.NoError(t, err)
	assert.Len(t, files, m*perDir)
	assert.True(t, slices.IsSorted(files))

	dirs, err := ListSourceDirectories(root, "src", ".cpp")
	require.NoError(t, err)
	assert.Len(t, dirs, m)
	assert.True(t, slices.IsSorted(dirs))
	assert.Equal(t, dirs, slices.Compact(slices.Clone(dirs)))
}

func TestListSourceFilesEmpty(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "src/")

	files, err := ListSourceFiles(root, "src", ".cpp")
	require.NoError(t, err)
	assert.Empty(t, files)

	dirs, err := ListSourceDirectories(root, "src", ".cpp")
	require.NoError(t, err)
	assert.Empty(t, dirs)
}

func TestListSourceFilesMissingSourceDir(t *testing.T) {
	root := t.TempDir()

	_, err := ListSourceFiles(root, "src", ".cpp")
	assert.ErrorIs(t, err, ErrNoSourceDir)

	require.NoError(t, os.WriteFile(filepath.Join(root, "src"), nil, 0o644))
	_, err = ListSourceDirectories(root, "src", ".cpp")
	assert.ErrorIs(t, err, ErrNoSourceDir)
}

func TestSourceDirs(t *testing.T) {
	got := SourceDirs([]string{"src/b/x.cpp", "src/a.cpp", "src/b/y.cpp", "src/b.cpp"})
	assert.Equal(t, []string{"src", "src/b"}, got)
	assert.Empty(t, SourceDirs(nil))
}

func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig(ConfigEnv{Project: "demo"})
	require.NoError(t, cfg.normalize())
	return &cfg
}

func TestScannerExclude(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "src/a.cpp", "src/third_party/z.cpp", "src/sub/a_test.cpp", "src/sub/b.cpp")

	cfg := testConfig(t)
	cfg.Scan.Exclude = []string{"src/third_party/**", "**/*_test.cpp"}
	s, err := NewScanner(root, cfg)
	require.NoError(t, err)

	files, err := s.SourceFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.cpp", "src/sub/b.cpp"}, files)
}

func TestScannerInvalidExclude(t *testing.T) {
	cfg := testConfig(t)
	cfg.Scan.Exclude = []string{"src/[a"}
	_, err := NewScanner(t.TempDir(), cfg)
	assert.Error(t, err)
}

func TestScannerGitignore(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "src/a.cpp", "src/generated/g.cpp", "src/sub/b_gen.cpp", "src/sub/b.cpp")
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"),
		[]byte("# build output\ngenerated/\n*_gen.cpp\n\n"), 0o644))

	cfg := testConfig(t)

	s, err := NewScanner(root, cfg)
	require.NoError(t, err)
	files, err := s.SourceFiles()
	require.NoError(t, err)
	assert.Len(t, files, 4, ".gitignore is only honored when enabled")

	out := captureMsg(t)
	cfg.Scan.Gitignore = true
	s, err = NewScanner(root, cfg)
	require.NoError(t, err)
	files, err = s.SourceFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.cpp", "src/sub/b.cpp"}, files)
	assert.Empty(t, out.String())
}

func TestScannerGitignoreMissing(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "src/a.cpp")

	out := captureMsg(t)
	cfg := testConfig(t)
	cfg.Scan.Gitignore = true
	s, err := NewScanner(root, cfg)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("warn: scan.gitignore is set but %s has no .gitignore\n", root), out.String())

	files, err := s.SourceFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.cpp"}, files)
}
