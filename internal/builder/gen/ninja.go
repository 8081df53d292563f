package gen

import (
	"strings"
)

// NinjaGen renders the same target as a build.ninja file
type NinjaGen struct {
	cc     string
	cflags []string
	layout Layout
	target string
	units  []Unit
}

func (g *NinjaGen) SetCompiler(cc string, cflags []string) {
	g.cc, g.cflags = cc, cflags
}

func (g *NinjaGen) SetLayout(l Layout) { g.layout = l }

// SetTarget ignores the rules, ninja gets one build edge per unit instead.
func (g *NinjaGen) SetTarget(name string, rules []Rule, units []Unit) {
	g.target, g.units = name, units
}

func (g *NinjaGen) BuildFile() string { return "build.ninja" }

var ninjaPathEscaper = strings.NewReplacer("$", "$$", ":", "$:", " ", "$ ")

func quote(s string) string { return ninjaPathEscaper.Replace(s) }

func (g *NinjaGen) path(p string) string { return quote(withSep(p, g.layout.Sep)) }

func (g *NinjaGen) Generate() string {
	var sb strings.Builder

	writeln(&sb, "ninja_required_version = 1.1")
	writeln(&sb, "cc = ", g.cc)
	writeln(&sb, "cflags = ", strings.Join(g.cflags, " "))
	writeln(&sb)

	// gen rules
	write(&sb,
		`rule cc
  command = $cc /nologo /c $cflags $in /Fo$out
  description = CC $out
`)
	write(&sb,
		`rule link
  command = $cc /nologo $in /Fe$out
  description = LINK $out
`)
	writeln(&sb)

	// build object files
	for _, u := range g.units {
		writeln(&sb, "build ", g.path(u.Obj), ": cc ", g.path(u.Src))
	}
	writeln(&sb)

	// link
	out := g.path(g.layout.BinDir + "/" + g.target)
	write(&sb, "build ", out, ": link")
	for _, u := range g.units {
		write(&sb, " ", g.path(u.Obj))
	}
	writeln(&sb)
	writeln(&sb, "default ", out)

	return sb.String()
}
