package builder

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/qobs-build/nmakegen/internal/builder/gen"
)

var (
	ErrStale = errors.New("build file is out of date")
)

const (
	GeneratorNMake = "nmake"
	GeneratorNinja = "ninja"
)

type Builder struct {
	cfg     *Config
	basedir string
}

// NewBuilderInDirectory loads the configuration of the project at path.
// configPath may be empty, see LoadConfig.
func NewBuilderInDirectory(path, configPath string) (*Builder, error) {
	var err error
	path, err = filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	cfg, err := LoadConfig(path, configPath, NewConfigEnv(path))
	if err != nil {
		return nil, err
	}
	return &Builder{cfg: cfg, basedir: path}, nil
}

// NewBuilder wraps an already loaded configuration.
func NewBuilder(basedir string, cfg *Config) *Builder {
	return &Builder{cfg: cfg, basedir: basedir}
}

func (b *Builder) Config() *Config { return b.cfg }
func (b *Builder) Dir() string     { return b.basedir }

// Plan scans the source tree and derives every object path.
func (b *Builder) Plan() (*Plan, error) {
	scanner, err := NewScanner(b.basedir, b.cfg)
	if err != nil {
		return nil, err
	}
	sources, err := scanner.SourceFiles()
	if err != nil {
		return nil, err
	}
	return NewPlan(b.cfg.Mapper(), sources)
}

func createGenerator(generator string, cfg *Config) (gen.Generator, error) {
	switch generator {
	case GeneratorNMake, "":
		return gen.NewNMakeGen(cfg.Layout.Output), nil
	case GeneratorNinja:
		return &gen.NinjaGen{}, nil
	default:
		return nil, fmt.Errorf("unknown generator %q", generator)
	}
}

// Render turns a plan into the build file text. It returns the build file name
// relative to the project root alongside the text.
func (b *Builder) Render(p *Plan, generator, sepName string) (string, string, error) {
	g, err := createGenerator(generator, b.cfg)
	if err != nil {
		return "", "", err
	}
	sep, err := gen.Separator(sepName)
	if err != nil {
		return "", "", err
	}

	g.SetCompiler(b.cfg.Compiler.Name, b.cfg.Compiler.Flags)
	g.SetLayout(gen.Layout{
		SrcDir: b.cfg.Layout.SrcDir,
		ObjDir: b.cfg.Layout.ObjDir,
		BinDir: b.cfg.Layout.BinDir,
		SrcExt: b.cfg.Scan.Ext,
		ObjExt: b.cfg.Compiler.ObjExt,
		Sep:    sep,
	})
	g.SetTarget(b.cfg.Layout.Target, p.Rules(), p.Units())

	return g.BuildFile(), g.Generate(), nil
}

type Options struct {
	Generator string
	Sep       string
	// Check compares against the existing file and never writes.
	Check bool
	// Diff fills Result.Diff.
	Diff bool
}

type Result struct {
	Path    string
	Plan    *Plan
	Changed bool
	Diff    string
}

// Generate runs the whole pipeline: scan, translate, render and write.
// With opts.Check set a stale file yields ErrStale and nothing is written.
func (b *Builder) Generate(opts Options) (*Result, error) {
	plan, err := b.Plan()
	if err != nil {
		return nil, err
	}

	name, out, err := b.Render(plan, opts.Generator, opts.Sep)
	if err != nil {
		return nil, err
	}

	res := &Result{Path: filepath.Join(b.basedir, name), Plan: plan}

	old, err := os.ReadFile(res.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	res.Changed = err != nil || string(old) != out
	if opts.Diff || opts.Check {
		res.Diff = Diff(string(old), out)
	}

	if opts.Check {
		if res.Changed {
			return res, fmt.Errorf("%s: %w", name, ErrStale)
		}
		return res, nil
	}

	if err := writeFile(res.Path, out); err != nil {
		return nil, err
	}
	return res, nil
}

// writeFile replaces path with content through a temporary file in the same
// directory, so a failed write leaves the previous file untouched.
func writeFile(path, content string) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	bufw := bufio.NewWriter(f)
	if _, err = bufw.WriteString(content); err != nil {
		return err
	}
	if err = bufw.Flush(); err != nil {
		return err
	}
	if err = f.Chmod(0o644); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}
