package builder

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-git/v6/plumbing/format/gitignore"
	"github.com/qobs-build/nmakegen/internal/msg"
)

const DefaultExt = ".cpp"

var (
	ErrNoSourceDir = errors.New("source directory not found")
)

// Scanner finds the source files of one project. All returned paths are
// slash-separated and relative to Root.
type Scanner struct {
	Root    string
	SrcDir  string
	Ext     string
	Exclude []string

	ignore gitignore.Matcher
}

func NewScanner(root string, cfg *Config) (*Scanner, error) {
	s := &Scanner{
		Root:    root,
		SrcDir:  cfg.Layout.SrcDir,
		Ext:     cfg.Scan.Ext,
		Exclude: cfg.Scan.Exclude,
	}

	for _, pat := range s.Exclude {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pat)
		}
	}

	if cfg.Scan.Gitignore {
		m, err := loadGitignore(root)
		if err != nil {
			return nil, fmt.Errorf("failed to read .gitignore: %w", err)
		}
		if m == nil {
			msg.Warn("scan.gitignore is set but %s has no .gitignore", root)
		}
		s.ignore = m
	}
	return s, nil
}

// loadGitignore reads the project root .gitignore. A missing file yields a nil matcher.
func loadGitignore(root string) (gitignore.Matcher, error) {
	f, err := os.Open(filepath.Join(root, ".gitignore"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []gitignore.Pattern
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return gitignore.NewMatcher(patterns), nil
}

func (s *Scanner) skip(rel string) bool {
	for _, pat := range s.Exclude {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	return s.ignore != nil && s.ignore.Match(strings.Split(rel, "/"), false)
}

// SourceFiles returns every file under the source root whose name ends with
// the scanner's extension, sorted.
func (s *Scanner) SourceFiles() ([]string, error) {
	ext := s.Ext
	if ext == "" {
		ext = DefaultExt
	}

	srcRoot := filepath.Join(s.Root, s.SrcDir)
	st, err := os.Stat(srcRoot)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoSourceDir, srcRoot)
	}
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNoSourceDir, srcRoot)
	}

	matches, err := doublestar.Glob(os.DirFS(srcRoot), "**/*",
		doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, fmt.Errorf("while scanning %s: %w", srcRoot, err)
	}

	files := make([]string, 0, len(matches))
	for _, match := range matches {
		if !strings.HasSuffix(path.Base(match), ext) {
			continue
		}
		rel := s.SrcDir + "/" + match
		if s.skip(rel) {
			continue
		}
		files = append(files, rel)
	}
	slices.Sort(files)
	return files, nil
}

// SourceDirs returns the distinct parent directories of files, sorted.
func SourceDirs(files []string) []string {
	dirs := make([]string, 0, len(files))
	for _, f := range files {
		dirs = append(dirs, path.Dir(f))
	}
	slices.Sort(dirs)
	return slices.Compact(dirs)
}

// ListSourceFiles lists the files ending in ext below root/srcDir.
func ListSourceFiles(root, srcDir, ext string) ([]string, error) {
	s := &Scanner{Root: root, SrcDir: srcDir, Ext: normalizeExt(ext)}
	return s.SourceFiles()
}

// ListSourceDirectories lists the directories below root/srcDir that hold at
// least one file ending in ext.
func ListSourceDirectories(root, srcDir, ext string) ([]string, error) {
	files, err := ListSourceFiles(root, srcDir, ext)
	if err != nil {
		return nil, err
	}
	return SourceDirs(files), nil
}
