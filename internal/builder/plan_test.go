package builder

import (
	"testing"

	"github.com/qobs-build/nmakegen/internal/builder/gen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlan(t *testing.T) {
	p, err := NewPlan(testMapper, []string{"src/a.cpp", "src/sub/b.cpp", "src/sub/c.cpp"})
	require.NoError(t, err)

	assert.Equal(t, []string{"obj/a.obj", "obj/sub/b.obj", "obj/sub/c.obj"}, p.Objects)
	assert.Equal(t, []gen.Rule{
		{SrcDir: "src", ObjDir: "obj"},
		{SrcDir: "src/sub", ObjDir: "obj/sub"},
	}, p.Rules())
	assert.Equal(t, gen.Unit{Src: "src/sub/c.cpp", Obj: "obj/sub/c.obj"}, p.Units()[2])
}

func TestNewPlanOutsideSourceRoot(t *testing.T) {
	_, err := NewPlan(testMapper, []string{"src/a.cpp", "lib/b.cpp"})
	assert.ErrorIs(t, err, ErrOutsideSourceRoot)
}
