package builder

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

var (
	ErrOutsideSourceRoot = errors.New("path is not inside the source root")
)

// PathMapper rewrites slash-separated, project-relative source paths into their
// object counterparts. Only the leading segment is ever replaced, so
// src/nested/src maps to obj/nested/src.
type PathMapper struct {
	SrcDir string
	ObjDir string
	ObjExt string
}

// splitRoot splits p into its first segment and the remainder after it
func splitRoot(p string) (root, rest string) {
	root, rest, _ = strings.Cut(p, "/")
	return root, rest
}

// ObjectDir maps a source directory to the directory its objects are written to.
func (m PathMapper) ObjectDir(sourceDir string) (string, error) {
	root, rest := splitRoot(sourceDir)
	if root != m.SrcDir {
		return "", fmt.Errorf("%s: %w %q", sourceDir, ErrOutsideSourceRoot, m.SrcDir)
	}
	if rest == "" {
		return m.ObjDir, nil
	}
	return m.ObjDir + "/" + rest, nil
}

// ObjectFile maps a source file to its object file.
func (m PathMapper) ObjectFile(sourceFile string) (string, error) {
	objDir, err := m.ObjectDir(path.Dir(sourceFile))
	if err != nil {
		return "", fmt.Errorf("%s: %w %q", sourceFile, ErrOutsideSourceRoot, m.SrcDir)
	}
	base := path.Base(sourceFile)
	stem := strings.TrimSuffix(base, path.Ext(base))
	return objDir + "/" + stem + m.ObjExt, nil
}
