// Package gc implements the precise, stop-the-world, non-moving mark-sweep
// collector: tricolor marking with an explicit gray worklist, triggered by
// allocation, with a weak-reference sweep of the string intern table.
//
// There is no library in the Go ecosystem for embedding a language-specific
// precise tracing collector into a host program — Go's own garbage collector
// already owns memory management for every *value.Obj, so this package's job
// is purely to decide, using the same algorithm as a native implementation,
// when an object is no longer reachable from the language's own roots and to
// unlink it from the VM's intrusive object list so nothing in the language
// runtime can observe it again. Go's collector then reclaims the underlying
// memory on its own schedule. See DESIGN.md for the stdlib-only
// justification this implies.
package gc

import (
	"loxvm/lang/intern"
	"loxvm/lang/value"
)

// RootWalker is registered with a GC to contribute roots during a collection
// cycle. The VM registers itself for its lifetime; the compiler registers
// itself only while compiling, so code generation (which allocates function
// and string constants) cannot lose its in-progress work to a collection
// triggered by one of its own allocations.
type RootWalker interface {
	WalkGCRoots(mark func(value.Value))
}

// GC owns every heap-allocated object reachable from the language runtime.
// No other component may construct a value.Object directly or free one.
type GC struct {
	objects value.Object // head of the intrusive all-objects list

	strings *intern.Table // weak references, swept after mark+blacken

	grayStack []value.Object

	bytesAllocated int
	nextGC         int
	growFactor     int
	stress         bool

	walkers []RootWalker
}

// New creates a GC backed by strings for interning, with the given initial
// collection threshold (in approximate bytes), heap-grow factor, and
// stress-test mode (collect before every allocation).
func New(strings *intern.Table, initialThreshold, growFactor int, stress bool) *GC {
	if growFactor < 2 {
		growFactor = 2
	}
	if initialThreshold <= 0 {
		initialThreshold = 1 << 20
	}
	return &GC{
		strings:    strings,
		nextGC:     initialThreshold,
		growFactor: growFactor,
		stress:     stress,
	}
}

// Register adds w as a root source for every future collection, until the
// returned unregister func is called.
func (gc *GC) Register(w RootWalker) (unregister func()) {
	gc.walkers = append(gc.walkers, w)
	return func() {
		for i, ww := range gc.walkers {
			if ww == w {
				gc.walkers = append(gc.walkers[:i], gc.walkers[i+1:]...)
				return
			}
		}
	}
}

// BytesAllocated returns the current approximate live-object accounting.
func (gc *GC) BytesAllocated() int { return gc.bytesAllocated }

// link threads o onto the object list and accounts for its approximate size,
// collecting first if the new total would exceed the threshold (or always,
// in stress mode). This is the collector's one allocation choke point: every
// constructor in this package funnels through it, mirroring the "single
// reallocation primitive" the spec requires.
func (gc *GC) link(o value.Object, size int) {
	if gc.stress || gc.bytesAllocated+size > gc.nextGC {
		gc.Collect()
	}
	h := o.Header()
	h.Next = gc.objects
	gc.objects = o
	gc.bytesAllocated += size
}

// Collect runs one full mark-sweep cycle.
func (gc *GC) Collect() {
	gc.markRoots()
	gc.traceReferences()
	gc.sweepStrings()
	gc.sweepObjects()
	gc.nextGC = gc.bytesAllocated * gc.growFactor
	if gc.nextGC <= 0 {
		gc.nextGC = 1 << 20
	}
}

func (gc *GC) markRoots() {
	for _, w := range gc.walkers {
		w.WalkGCRoots(gc.MarkValue)
	}
}

// MarkValue marks v if it is a heap object; Nil/Bool/Number are no-ops.
func (gc *GC) MarkValue(v value.Value) {
	if v == nil {
		return
	}
	if o, ok := v.(value.Object); ok {
		gc.MarkObject(o)
	}
}

// MarkObject marks o gray (pushes it onto the worklist) unless it is already
// marked black or gray.
func (gc *GC) MarkObject(o value.Object) {
	if o == nil {
		return
	}
	h := o.Header()
	if h.Marked {
		return
	}
	h.Marked = true
	gc.grayStack = append(gc.grayStack, o)
}

func (gc *GC) traceReferences() {
	for len(gc.grayStack) > 0 {
		n := len(gc.grayStack) - 1
		o := gc.grayStack[n]
		gc.grayStack[n] = nil
		gc.grayStack = gc.grayStack[:n]
		gc.blacken(o)
	}
}

// blacken marks every value o directly references.
func (gc *GC) blacken(o value.Object) {
	switch ov := o.(type) {
	case *value.String, *value.Native:
		// no outgoing references
	case *value.Function:
		if ov.Name != nil {
			gc.MarkObject(ov.Name)
		}
		if ov.Chunk != nil {
			for _, c := range ov.Chunk.Constants {
				if v, ok := c.(value.Value); ok {
					gc.MarkValue(v)
				}
			}
		}
	case *value.Closure:
		gc.MarkObject(ov.Fn)
		for _, uv := range ov.Upvalues {
			gc.MarkObject(uv)
		}
	case *value.Upvalue:
		gc.MarkValue(ov.Closed)
	case *value.Class:
		gc.MarkObject(ov.Name)
		ov.Methods.Iter(func(_ string, c *value.Closure) bool {
			gc.MarkObject(c)
			return false
		})
	case *value.Instance:
		gc.MarkObject(ov.Class)
		ov.Fields.Iter(func(_ string, v value.Value) bool {
			gc.MarkValue(v)
			return false
		})
	case *value.BoundMethod:
		gc.MarkValue(ov.Receiver)
		gc.MarkObject(ov.Method)
	}
}

// sweepStrings removes intern-table entries whose string is unreached: the
// table holds the only weak references in the runtime.
func (gc *GC) sweepStrings() {
	var dead []string
	gc.strings.Each(func(s *value.String) {
		if !s.Marked {
			dead = append(dead, s.Chars)
		}
	})
	for _, chars := range dead {
		gc.strings.Delete(chars)
	}
}

func (gc *GC) sweepObjects() {
	var prev value.Object
	cur := gc.objects
	for cur != nil {
		h := cur.Header()
		next := h.Next
		if h.Marked {
			h.Marked = false
			prev = cur
		} else {
			if prev == nil {
				gc.objects = next
			} else {
				prev.Header().Next = next
			}
			gc.bytesAllocated -= approxSize(cur)
		}
		cur = next
	}
}
