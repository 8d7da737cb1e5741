package compiler_test

import (
	"testing"

	"loxvm/lang/chunk"
	"loxvm/lang/compiler"
	"loxvm/lang/gc"
	"loxvm/lang/intern"
	"loxvm/lang/value"

	"github.com/stretchr/testify/require"
)

func newGC() *gc.GC { return gc.New(intern.New(), 1<<20, 2, false) }

func TestCompileArithmeticExpression(t *testing.T) {
	fn, err := compiler.Compile(newGC(), "test", "print 1 + 2 * 3;")
	require.NoError(t, err)

	ops := opcodes(fn.Chunk)
	require.Equal(t,
		[]chunk.OpCode{chunk.OpConstant, chunk.OpConstant, chunk.OpConstant, chunk.OpMultiply, chunk.OpAdd, chunk.OpPrint, chunk.OpNil, chunk.OpReturn},
		ops,
	)
}

func TestCompileGlobalVariable(t *testing.T) {
	fn, err := compiler.Compile(newGC(), "test", "var x = 1; x = 2;")
	require.NoError(t, err)

	ops := opcodes(fn.Chunk)
	require.Contains(t, ops, chunk.OpDefineGlobal)
	require.Contains(t, ops, chunk.OpSetGlobal)
}

func TestCompileLocalsUseStackSlots(t *testing.T) {
	fn, err := compiler.Compile(newGC(), "test", "{ var a = 1; var b = 2; print a + b; }")
	require.NoError(t, err)

	ops := opcodes(fn.Chunk)
	require.Contains(t, ops, chunk.OpGetLocal)
	require.NotContains(t, ops, chunk.OpDefineGlobal)
}

func TestCompileClosureCapturesUpvalue(t *testing.T) {
	src := `
	fun outer() {
		var x = 1;
		fun inner() {
			return x;
		}
		return inner;
	}`
	fn, err := compiler.Compile(newGC(), "test", src)
	require.NoError(t, err)
	// the script's pool holds the global name "outer", then the function itself
	require.Len(t, fn.Chunk.Constants, 2)

	outerFn, ok := fn.Chunk.Constants[1].(*value.Function)
	require.True(t, ok)
	require.Equal(t, 0, outerFn.UpvalueCount)

	// outer's pool holds the number 1, then inner, which captures x
	innerFn, ok := outerFn.Chunk.Constants[1].(*value.Function)
	require.True(t, ok)
	require.Equal(t, 1, innerFn.UpvalueCount)
}

func TestCompileReportsSyntaxError(t *testing.T) {
	_, err := compiler.Compile(newGC(), "test", "var = 1;")
	require.Error(t, err)
}

func TestCompileClassWithSuperclass(t *testing.T) {
	src := `
	class A { greet() { print "hi"; } }
	class B < A { greet() { super.greet(); } }`
	fn, err := compiler.Compile(newGC(), "test", src)
	require.NoError(t, err)

	ops := opcodes(fn.Chunk)
	require.Contains(t, ops, chunk.OpInherit)

	// super.greet() is compiled into the method bodies, not the script
	var methodOps []chunk.OpCode
	for _, k := range fn.Chunk.Constants {
		if m, ok := k.(*value.Function); ok {
			methodOps = append(methodOps, opcodes(m.Chunk)...)
		}
	}
	require.Contains(t, methodOps, chunk.OpSuperInvoke)
}

func opcodes(c *chunk.Chunk) []chunk.OpCode {
	var out []chunk.OpCode
	for offset := 0; offset < len(c.Code); {
		op := chunk.OpCode(c.Code[offset])
		out = append(out, op)
		offset = nextOffset(c, offset, op)
	}
	return out
}

// nextOffset advances past op's operands without relying on Disassemble's
// string rendering, mirroring the width table in chunk.disassembleInstruction.
func nextOffset(c *chunk.Chunk, offset int, op chunk.OpCode) int {
	switch op {
	case chunk.OpConstant, chunk.OpGetGlobal, chunk.OpSetGlobal, chunk.OpDefineGlobal,
		chunk.OpGetProperty, chunk.OpSetProperty, chunk.OpGetSuper, chunk.OpClass, chunk.OpMethod,
		chunk.OpGetLocal, chunk.OpSetLocal, chunk.OpGetUpvalue, chunk.OpSetUpvalue, chunk.OpCall:
		return offset + 2
	case chunk.OpInvoke, chunk.OpSuperInvoke:
		return offset + 3
	case chunk.OpJump, chunk.OpJumpIfFalse, chunk.OpLoop:
		return offset + 3
	case chunk.OpClosure:
		idx := c.Code[offset+1]
		n := 0
		if int(idx) < len(c.Constants) {
			if fn, ok := c.Constants[idx].(*value.Function); ok {
				n = fn.UpvalueCount
			}
		}
		return offset + 2 + 2*n
	default:
		return offset + 1
	}
}
