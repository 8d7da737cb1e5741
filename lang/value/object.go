package value

import (
	"fmt"

	"loxvm/lang/chunk"

	"github.com/dolthub/swiss"
)

// String is an immutable, interned sequence of UTF-8 bytes. Two strings with
// equal content are always the same *String (see package intern), so string
// equality is reference equality.
type String struct {
	Obj
	Chars string
	// Hash is the string's precomputed 32-bit FNV-1a hash, set before the
	// string is inserted into the intern table.
	Hash uint32
}

func (s *String) String() string   { return s.Chars }
func (*String) TypeName() string   { return "string" }

// Function is a compiled function body: fixed arity, its upvalue count, an
// optional name, and the Chunk the compiler emitted for it.
type Function struct {
	Obj
	Arity        int
	UpvalueCount int
	Name         *String // nil for the implicit top-level script
	Chunk        *chunk.Chunk
}

func (f *Function) String() string {
	if f.Name == nil {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", f.Name.Chars)
}
func (*Function) TypeName() string { return "function" }

// NativeFn is a host-implemented callable.
type NativeFn func(args []Value) (Value, error)

// Native wraps a host function so it can be called like any other Lox
// callable.
type Native struct {
	Obj
	Name string
	Fn   NativeFn
}

func (n *Native) String() string   { return fmt.Sprintf("<native fn %s>", n.Name) }
func (*Native) TypeName() string   { return "native function" }

// Upvalue is a captured variable shared between a function and the closures
// it creates. While Location points into the VM stack the upvalue is "open"
// and aliases a live stack slot; closing it copies the slot's value into
// Closed and repoints Location there.
type Upvalue struct {
	Obj
	Location *Value
	Closed   Value
	// NextOpen chains this upvalue onto the VM's open-upvalue list, which is
	// kept in strictly descending stack-slot order. Nil once closed.
	NextOpen *Upvalue
}

func (*Upvalue) String() string   { return "upvalue" }
func (*Upvalue) TypeName() string { return "upvalue" }

// Closure binds a Function to the Upvalues its body captured.
type Closure struct {
	Obj
	Fn       *Function
	Upvalues []*Upvalue
}

func (c *Closure) String() string   { return c.Fn.String() }
func (*Closure) TypeName() string   { return "function" }

// Class is a Lox class: a name and its method table, keyed by method name.
type Class struct {
	Obj
	Name    *String
	Methods *swiss.Map[string, *Closure]
}

func (c *Class) String() string   { return c.Name.Chars }
func (*Class) TypeName() string   { return "class" }

// Instance is an instance of a Class with its own field table.
type Instance struct {
	Obj
	Class  *Class
	Fields *swiss.Map[string, Value]
}

func (i *Instance) String() string   { return fmt.Sprintf("%s instance", i.Class.Name.Chars) }
func (*Instance) TypeName() string   { return "instance" }

// BoundMethod pairs a receiver with a method Closure, produced when a method
// is looked up via a GET_PROPERTY/dot expression rather than called directly.
type BoundMethod struct {
	Obj
	Receiver Value
	Method   *Closure
}

func (b *BoundMethod) String() string   { return b.Method.String() }
func (*BoundMethod) TypeName() string   { return "function" }
