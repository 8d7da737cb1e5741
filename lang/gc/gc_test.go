package gc_test

import (
	"testing"

	"loxvm/lang/gc"
	"loxvm/lang/intern"
	"loxvm/lang/value"

	"github.com/stretchr/testify/require"
)

type fakeRoots struct {
	values []value.Value
}

func (f *fakeRoots) WalkGCRoots(mark func(value.Value)) {
	for _, v := range f.values {
		mark(v)
	}
}

func TestCollectSweepsUnreachableStrings(t *testing.T) {
	strings := intern.New()
	g := gc.New(strings, 1, 2, false)

	root := &fakeRoots{}
	unregister := g.Register(root)
	defer unregister()

	kept := g.InternString("kept")
	root.values = []value.Value{kept}

	g.InternString("garbage")
	require.Equal(t, 2, strings.Len())

	g.Collect()

	require.Equal(t, 1, strings.Len())
	_, ok := strings.Get("kept")
	require.True(t, ok)
	_, ok = strings.Get("garbage")
	require.False(t, ok)
}

func TestCollectTracesClosureGraph(t *testing.T) {
	strings := intern.New()
	g := gc.New(strings, 1, 2, false)

	fn := g.NewFunction()
	fn.Name = g.InternString("f")
	fn.UpvalueCount = 1

	closure := g.NewClosure(fn)
	slot := new(value.Value)
	*slot = value.Number(7)
	closure.Upvalues[0] = g.NewUpvalue(slot)

	root := &fakeRoots{values: []value.Value{closure}}
	unregister := g.Register(root)
	defer unregister()

	g.Collect()

	require.True(t, fn.Marked == false) // cleared again after sweep
	_, ok := strings.Get("f")
	require.True(t, ok)
}

func TestInternStringDeduplicates(t *testing.T) {
	g := gc.New(intern.New(), 1<<20, 2, false)
	a := g.InternString("hello")
	b := g.InternString("hello")
	require.Same(t, a, b)
}
