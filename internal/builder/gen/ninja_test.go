package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNinjaGenerate(t *testing.T) {
	g := &NinjaGen{}
	g.SetCompiler("cl.exe", []string{"/EHsc", "/W4"})
	g.SetLayout(Layout{SrcDir: "src", ObjDir: "obj", BinDir: "bin", SrcExt: ".cpp", ObjExt: ".obj", Sep: "/"})
	g.SetTarget("demo.exe", nestedRules, nestedUnits)

	out := g.Generate()
	assert.Equal(t, "build.ninja", g.BuildFile())
	assert.Contains(t, out, "cflags = /EHsc /W4\n")
	assert.Contains(t, out, "build obj/a.obj: cc src/a.cpp\n")
	assert.Contains(t, out, "build obj/sub/b.obj: cc src/sub/b.cpp\n")
	assert.Contains(t, out, "build bin/demo.exe: link obj/a.obj obj/sub/b.obj\n")
	assert.Contains(t, out, "default bin/demo.exe\n")
}

func TestNinjaQuotesPaths(t *testing.T) {
	g := &NinjaGen{}
	g.SetLayout(Layout{BinDir: "bin", Sep: `\`})
	g.SetTarget("my app.exe", nil, []Unit{{Src: "src/c:d.cpp", Obj: "obj/c:d.obj"}})

	out := g.Generate()
	assert.Contains(t, out, `build obj\c$:d.obj: cc src\c$:d.cpp`)
	assert.Contains(t, out, `build bin\my$ app.exe: link obj\c$:d.obj`)
}
