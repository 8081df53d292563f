package gen

import (
	"fmt"
	"path/filepath"
)

// Rule pairs a source directory with the object directory its files compile into.
type Rule struct {
	SrcDir string
	ObjDir string
}

// Unit is a single source file and its object file
type Unit struct {
	Src string
	Obj string
}

// Layout holds the directory names and extensions a generator renders.
// Sep is the path separator written into the build file.
type Layout struct {
	SrcDir string
	ObjDir string
	BinDir string
	SrcExt string
	ObjExt string
	Sep    string
}

// Generator renders a single target into build-file text. Paths handed to a
// generator are slash-separated; the generator applies Layout.Sep.
type Generator interface {
	SetCompiler(cc string, cflags []string)
	SetLayout(l Layout)
	SetTarget(name string, rules []Rule, units []Unit)
	Generate() string
	BuildFile() string
}

const (
	SepNative  = "native"
	SepWindows = "windows"
	SepPosix   = "posix"
)

// Separator resolves a separator name to the separator itself.
func Separator(name string) (string, error) {
	switch name {
	case SepNative, "":
		return string(filepath.Separator), nil
	case SepWindows:
		return `\`, nil
	case SepPosix:
		return "/", nil
	default:
		return "", fmt.Errorf("unknown separator %q", name)
	}
}
