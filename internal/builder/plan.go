package builder

import (
	"github.com/qobs-build/nmakegen/internal/builder/gen"
)

// Plan is everything discovered and derived in one run, in render order.
type Plan struct {
	Sources    []string
	Objects    []string
	SourceDirs []string
	ObjectDirs []string
}

// NewPlan translates sorted source files into their object paths and directories.
func NewPlan(m PathMapper, sources []string) (*Plan, error) {
	p := &Plan{
		Sources:    sources,
		Objects:    make([]string, 0, len(sources)),
		SourceDirs: SourceDirs(sources),
	}

	for _, src := range sources {
		obj, err := m.ObjectFile(src)
		if err != nil {
			return nil, err
		}
		p.Objects = append(p.Objects, obj)
	}

	p.ObjectDirs = make([]string, 0, len(p.SourceDirs))
	for _, dir := range p.SourceDirs {
		obj, err := m.ObjectDir(dir)
		if err != nil {
			return nil, err
		}
		p.ObjectDirs = append(p.ObjectDirs, obj)
	}
	return p, nil
}

// Rules pairs each source directory with its object directory.
func (p *Plan) Rules() []gen.Rule {
	rules := make([]gen.Rule, len(p.SourceDirs))
	for i := range p.SourceDirs {
		rules[i] = gen.Rule{SrcDir: p.SourceDirs[i], ObjDir: p.ObjectDirs[i]}
	}
	return rules
}

// Units pairs each source file with its object file.
func (p *Plan) Units() []gen.Unit {
	units := make([]gen.Unit, len(p.Sources))
	for i := range p.Sources {
		units[i] = gen.Unit{Src: p.Sources[i], Obj: p.Objects[i]}
	}
	return units
}
