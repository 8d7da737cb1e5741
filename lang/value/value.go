// Package value implements the dynamically-typed runtime values manipulated
// by the compiler and the virtual machine: the Nil/Bool/Number/Obj tagged
// union described by the language's data model, and the heap object header
// every garbage-collected object embeds.
package value

import "fmt"

// Value is the interface implemented by every value the machine can hold on
// its stack: Nil, Bool, Number, or a heap object (any type embedding Obj).
// The concrete dynamic type of a Value is its tag; heap objects additionally
// record an ObjType in their Obj header.
type Value interface {
	// String returns the value's canonical printed form, matching the
	// language's `print` statement.
	String() string
	// TypeName returns a short, human-readable description of the value's
	// type, used in runtime error messages.
	TypeName() string
}

// Nil is the value of the `nil` literal. There is exactly one Nil value.
type Nil struct{}

func (Nil) String() string   { return "nil" }
func (Nil) TypeName() string { return "nil" }

// Bool is the type of `true` and `false`.
type Bool bool

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (Bool) TypeName() string { return "bool" }

// Number is the type of every Lox numeric value: an IEEE-754 double.
type Number float64

func (n Number) String() string { return fmt.Sprintf("%g", float64(n)) }
func (Number) TypeName() string { return "number" }

// IsTruthy reports whether v is "truthy": everything except Nil and
// Bool(false) is truthy, including the number 0 and the empty string.
func IsTruthy(v Value) bool {
	switch vv := v.(type) {
	case Nil:
		return false
	case Bool:
		return bool(vv)
	default:
		return true
	}
}

// Equal implements the language's structural equality. Numbers compare by
// IEEE == (so NaN != NaN); Nil equals Nil; Bool compares by value; every
// other value (including strings, which are interned) compares by object
// identity, which Go's interface comparison already gives for free when both
// operands share the same concrete pointer type.
func Equal(a, b Value) Bool {
	switch av := a.(type) {
	case Nil:
		_, ok := b.(Nil)
		return Bool(ok)
	case Bool:
		bv, ok := b.(Bool)
		return Bool(ok && av == bv)
	case Number:
		bv, ok := b.(Number)
		return Bool(ok && float64(av) == float64(bv))
	default:
		return Bool(a == b)
	}
}

// ObjType discriminates the heap-allocated Value variants.
type ObjType uint8

const (
	ObjTypeString ObjType = iota
	ObjTypeFunction
	ObjTypeNative
	ObjTypeClosure
	ObjTypeUpvalue
	ObjTypeClass
	ObjTypeInstance
	ObjTypeBoundMethod
)

func (t ObjType) String() string {
	switch t {
	case ObjTypeString:
		return "string"
	case ObjTypeFunction:
		return "function"
	case ObjTypeNative:
		return "native"
	case ObjTypeClosure:
		return "closure"
	case ObjTypeUpvalue:
		return "upvalue"
	case ObjTypeClass:
		return "class"
	case ObjTypeInstance:
		return "instance"
	case ObjTypeBoundMethod:
		return "bound method"
	default:
		return fmt.Sprintf("objtype(%d)", uint8(t))
	}
}

// Obj is the common header every heap object embeds: a type discriminant, a
// GC mark bit, and the intrusive next-pointer threading every live object
// onto the VM's all-objects list. The GC is the only component that walks or
// unlinks this list.
type Obj struct {
	Type ObjType
	// Marked is set by the collector's mark phase and cleared again once a
	// surviving object has been swept past; it is otherwise unused.
	Marked bool
	// Next chains this object onto the owning GC's intrusive object list,
	// most recently allocated first. Only the GC reads or writes it after
	// construction.
	Next Object
}

// Object is implemented by every heap-allocated Value: it exposes the Obj
// header so the collector can mark, chain and blacken it without a type
// switch for the common bookkeeping fields.
type Object interface {
	Value
	Header() *Obj
}

// Header returns o itself, so embedding types satisfy Object by promotion.
func (o *Obj) Header() *Obj { return o }
