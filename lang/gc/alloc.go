package gc

import (
	"loxvm/lang/chunk"
	"loxvm/lang/intern"
	"loxvm/lang/value"

	"github.com/dolthub/swiss"
)

// approxSize gives each object kind a rough byte cost for the allocation
// threshold accounting; it need not be exact, only monotonic with real
// memory pressure.
func approxSize(o value.Object) int {
	switch ov := o.(type) {
	case *value.String:
		return 32 + len(ov.Chars)
	case *value.Function:
		return 64
	case *value.Native:
		return 48
	case *value.Closure:
		return 32 + 8*len(ov.Upvalues)
	case *value.Upvalue:
		return 32
	case *value.Class:
		return 48
	case *value.Instance:
		return 48
	case *value.BoundMethod:
		return 32
	default:
		return 32
	}
}

// NewFunction allocates a new, initially-arity-0 Function with a fresh empty
// Chunk. The compiler fills in Arity, UpvalueCount, Name and the chunk body
// as it compiles the function's declaration.
func (gc *GC) NewFunction() *value.Function {
	fn := &value.Function{Chunk: &chunk.Chunk{}}
	fn.Type = value.ObjTypeFunction
	gc.link(fn, approxSize(fn))
	return fn
}

// NewNative wraps a host function as a callable Lox value.
func (gc *GC) NewNative(name string, fn value.NativeFn) *value.Native {
	n := &value.Native{Name: name, Fn: fn}
	n.Type = value.ObjTypeNative
	gc.link(n, approxSize(n))
	return n
}

// NewClosure allocates a Closure over fn with upvalueCount empty upvalue
// slots, to be filled in by OP_CLOSURE's operands.
func (gc *GC) NewClosure(fn *value.Function) *value.Closure {
	c := &value.Closure{Fn: fn, Upvalues: make([]*value.Upvalue, fn.UpvalueCount)}
	c.Type = value.ObjTypeClosure
	gc.link(c, approxSize(c))
	return c
}

// NewUpvalue allocates an open upvalue pointing at slot.
func (gc *GC) NewUpvalue(slot *value.Value) *value.Upvalue {
	uv := &value.Upvalue{Location: slot}
	uv.Type = value.ObjTypeUpvalue
	gc.link(uv, approxSize(uv))
	return uv
}

// NewClass allocates an empty class named name.
func (gc *GC) NewClass(name *value.String) *value.Class {
	c := &value.Class{Name: name, Methods: swiss.NewMap[string, *value.Closure](8)}
	c.Type = value.ObjTypeClass
	gc.link(c, approxSize(c))
	return c
}

// NewInstance allocates a new instance of class with no fields set.
func (gc *GC) NewInstance(class *value.Class) *value.Instance {
	i := &value.Instance{Class: class, Fields: swiss.NewMap[string, value.Value](8)}
	i.Type = value.ObjTypeInstance
	gc.link(i, approxSize(i))
	return i
}

// NewBoundMethod allocates a method bound to receiver.
func (gc *GC) NewBoundMethod(receiver value.Value, method *value.Closure) *value.BoundMethod {
	b := &value.BoundMethod{Receiver: receiver, Method: method}
	b.Type = value.ObjTypeBoundMethod
	gc.link(b, approxSize(b))
	return b
}

// InternString returns the canonical *value.String for chars, allocating and
// interning a new one only if chars has not been seen before. Callers never
// construct a value.String directly: two equal contents must share one
// object so the language's string equality stays pointer equality.
func (gc *GC) InternString(chars string) *value.String {
	if s, ok := gc.strings.Get(chars); ok {
		return s
	}
	s := &value.String{Chars: chars, Hash: intern.Hash(chars)}
	s.Type = value.ObjTypeString
	gc.link(s, approxSize(s))
	gc.strings.Put(s)
	return s
}
