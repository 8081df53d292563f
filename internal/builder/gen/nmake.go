package gen

import (
	"strings"
)

// NMakeGen renders an NMAKE makefile driving cl.exe-style compilers.
type NMakeGen struct {
	output string
	cc     string
	cflags []string
	layout Layout
	target string
	rules  []Rule
	units  []Unit
}

func NewNMakeGen(output string) *NMakeGen {
	return &NMakeGen{output: output}
}

func (g *NMakeGen) SetCompiler(cc string, cflags []string) {
	g.cc, g.cflags = cc, cflags
}

func (g *NMakeGen) SetLayout(l Layout) { g.layout = l }

func (g *NMakeGen) SetTarget(name string, rules []Rule, units []Unit) {
	g.target, g.rules, g.units = name, rules, units
}

func (g *NMakeGen) BuildFile() string { return g.output }

// compileRule renders the inference rule compiling every source file in
// srcDir into a like-named object file in objDir
func (g *NMakeGen) compileRule(sb *strings.Builder, srcDir, objDir string) {
	sep := g.layout.Sep
	writeln(sb,
		"{", withSep(srcDir, sep), sep, "}", g.layout.SrcExt,
		"{", withSep(objDir, sep), sep, "}", g.layout.ObjExt, ":",
	)
	writeln(sb, "\t@echo Compiling $< $@")
	writeln(sb, "\t@if NOT EXIST $(@D) mkdir $(@D)")
	writeln(sb, `	$(CPP) /nologo /c $(CFLAGS) $< /Fo"$@"`)
}

func (g *NMakeGen) Generate() string {
	var sb strings.Builder
	sep := g.layout.Sep

	srcDirs := make([]string, len(g.rules))
	objDirs := make([]string, len(g.rules))
	for i, r := range g.rules {
		srcDirs[i], objDirs[i] = r.SrcDir, r.ObjDir
	}
	srcs := make([]string, len(g.units))
	objs := make([]string, len(g.units))
	for i, u := range g.units {
		srcs[i], objs[i] = u.Src, u.Obj
	}

	writeln(&sb, "# ", g.output)
	writeln(&sb)
	writeln(&sb, "# Compiler and flags")
	writeVar(&sb, "CPP", g.cc)
	writeVar(&sb, "CFLAGS", strings.Join(g.cflags, " "))
	writeln(&sb)
	writeln(&sb, "# Directories")
	writeVar(&sb, "SRC_DIR", g.layout.SrcDir)
	writeVar(&sb, "OBJ_DIR", g.layout.ObjDir)
	writeVar(&sb, "BIN_DIR", g.layout.BinDir)
	writeln(&sb)
	writeln(&sb, "# Output executable")
	writeVar(&sb, "TARGET", g.target)
	writeln(&sb)
	writeVar(&sb, "SRC_DIRS", joinPaths(srcDirs, sep))
	writeVar(&sb, "OBJ_DIRS", joinPaths(objDirs, sep))
	writeVar(&sb, "SRCS", joinPaths(srcs, sep))
	writeVar(&sb, "OBJS", joinPaths(objs, sep))
	writeln(&sb)
	writeln(&sb, "!MESSAGE SRCS = $(SRCS)")
	writeln(&sb, "!MESSAGE OBJS = $(OBJS)")
	writeln(&sb)

	// link
	writeln(&sb, "all: $(TARGET)")
	writeln(&sb, "$(TARGET) : $(OBJS)")
	writeln(&sb, "\t@echo Linking...")
	writeln(&sb, "\t@if NOT EXIST $(BIN_DIR) mkdir $(BIN_DIR)")
	writeln(&sb, `	$(CPP) /nologo $(OBJS) /Fe"$(BIN_DIR)`, sep, `$(TARGET)"`)
	writeln(&sb)

	for _, r := range g.rules {
		g.compileRule(&sb, r.SrcDir, r.ObjDir)
		writeln(&sb)
	}

	writeln(&sb, "# Clean up build files")
	writeln(&sb, "clean:")
	writeln(&sb, "\tdel /Q /S $(OBJ_DIR)", sep, "*", g.layout.ObjExt)
	writeln(&sb, "\tdel /Q $(BIN_DIR)", sep, "$(TARGET)")

	return sb.String()
}
