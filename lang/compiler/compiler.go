// Package compiler implements the single-pass compiler: a Pratt parser that
// walks the token stream exactly once and emits bytecode directly into a
// chunk.Chunk, with no intermediate syntax tree. Its recursive-descent
// statement grammar and precedence-climbing expression grammar follow the
// shape of the larger module's hand-written parser, adapted here to compile
// straight to bytecode instead of building an ast.Expr/ast.Stmt tree.
package compiler

import (
	"fmt"
	gotoken "go/token"

	"loxvm/lang/chunk"
	"loxvm/lang/gc"
	"loxvm/lang/scanner"
	"loxvm/lang/token"
	"loxvm/lang/value"
)

// FunctionType distinguishes the kind of function body currently being
// compiled, since top-level code, plain functions, methods and initializers
// each need slightly different prologue/epilogue bytecode.
type FunctionType uint8

const (
	TypeFunction FunctionType = iota
	TypeScript
	TypeMethod
	TypeInitializer
)

// Local tracks one declared local variable's name and the scope depth it was
// declared at. A depth of -1 means the variable's initializer is still being
// compiled (it is not yet safe to reference its own name).
type Local struct {
	name       token.Value
	depth      int
	isCaptured bool
}

// Upvalue records how a compiled function's closure captures a variable from
// an enclosing function: either directly from the enclosing function's
// locals, or transitively through the enclosing function's own upvalues.
type Upvalue struct {
	index   byte
	isLocal bool
}

type classState struct {
	enclosing     *classState
	hasSuperclass bool
}

// Compiler holds the per-function compilation state. Compiling a nested
// function declaration pushes a new Compiler whose enclosing field chains
// back to the function that contains it, mirroring the runtime's own
// closure-capture chain.
type Compiler struct {
	p         *parser
	enclosing *Compiler

	fn     *value.Function
	fnType FunctionType

	locals     []Local
	scopeDepth int
	upvalues   []Upvalue

	class *classState
}

// parser is the single, shared scanning and error-reporting state for an
// entire Compile call; every Compiler in the enclosing chain reads from and
// reports through the same parser.
type parser struct {
	sc *scanner.Scanner

	cur, prev       token.Token
	curVal, prevVal token.Value

	hadError, panicMode bool

	report func(gotoken.Position, string)

	gc       *gc.GC
	filename string

	active *Compiler
	pinned []value.Value
}

// WalkGCRoots reports every value a collection running mid-compile must not
// reclaim: the in-progress Function object of every Compiler on the active
// chain, plus any value a constructor has pinned between allocating it and
// recording it somewhere reachable.
func (p *parser) WalkGCRoots(mark func(value.Value)) {
	for c := p.active; c != nil; c = c.enclosing {
		if c.fn != nil {
			mark(c.fn)
		}
	}
	for _, v := range p.pinned {
		mark(v)
	}
}

func (p *parser) pin(v value.Value)   { p.pinned = append(p.pinned, v) }
func (p *parser) unpin()              { p.pinned = p.pinned[:len(p.pinned)-1] }

// Compile compiles source into a top-level Function ready for the VM to
// wrap in a Closure and call. On a syntax error it returns the partially
// built function alongside a non-nil error describing every error found;
// callers must not execute the returned function when err != nil.
func Compile(g *gc.GC, filename, source string) (*value.Function, error) {
	var errs scanner.ErrorList
	p := &parser{gc: g, filename: filename}
	p.report = func(pos gotoken.Position, msg string) {
		errs = append(errs, &scanner.Error{Pos: pos, Msg: msg})
		p.hadError = true
	}

	var sc scanner.Scanner
	sc.Init(filename, []byte(source), p.report)
	p.sc = &sc

	c := newCompiler(p, nil, TypeScript)
	unregister := g.Register(p)
	defer unregister()

	p.advance()
	for !p.match(token.EOF) {
		c.declaration()
	}
	fn := c.endCompiler()

	if p.hadError {
		return fn, errs.Err()
	}
	return fn, nil
}

func newCompiler(p *parser, enclosing *Compiler, fnType FunctionType) *Compiler {
	c := &Compiler{p: p, enclosing: enclosing, fnType: fnType}
	c.fn = p.gc.NewFunction()
	if enclosing != nil {
		c.class = enclosing.class
	}
	if fnType != TypeScript {
		c.fn.Name = p.gc.InternString(p.prevVal.Raw)
	}

	// Slot 0 of every call frame is reserved: the receiver in methods and
	// initializers, or an unnamed, unusable slot for plain functions and the
	// top-level script.
	receiver := ""
	if fnType == TypeMethod || fnType == TypeInitializer {
		receiver = "this"
	}
	c.locals = append(c.locals, Local{name: token.Value{Raw: receiver}, depth: 0})

	p.active = c
	return c
}

func (c *Compiler) endCompiler() *value.Function {
	c.emitReturn()
	fn := c.fn
	fn.UpvalueCount = len(c.upvalues)
	c.p.active = c.enclosing
	return fn
}

func (c *Compiler) chunk() *chunk.Chunk { return c.fn.Chunk }

func (c *Compiler) emitByte(b byte) {
	c.chunk().Write(b, c.p.prevVal.Line())
}

func (c *Compiler) emitBytes(a, b byte) {
	c.emitByte(a)
	c.emitByte(b)
}

func (c *Compiler) emitOp(op chunk.OpCode) { c.emitByte(byte(op)) }

func (c *Compiler) emitOpByte(op chunk.OpCode, b byte) { c.emitBytes(byte(op), b) }

func (c *Compiler) emitLoop(loopStart int) {
	c.emitOp(chunk.OpLoop)
	offset := len(c.chunk().Code) - loopStart + 2
	if offset > 0xffff {
		c.p.errorAtPrev("loop body too large")
	}
	c.emitByte(byte(offset >> 8))
	c.emitByte(byte(offset & 0xff))
}

func (c *Compiler) emitJump(op chunk.OpCode) int {
	c.emitOp(op)
	c.emitByte(0xff)
	c.emitByte(0xff)
	return len(c.chunk().Code) - 2
}

func (c *Compiler) patchJump(offset int) {
	jump := len(c.chunk().Code) - offset - 2
	if jump > 0xffff {
		c.p.errorAtPrev("too much code to jump over")
	}
	c.chunk().Code[offset] = byte(jump >> 8)
	c.chunk().Code[offset+1] = byte(jump & 0xff)
}

func (c *Compiler) emitReturn() {
	if c.fnType == TypeInitializer {
		c.emitOpByte(chunk.OpGetLocal, 0)
	} else {
		c.emitOp(chunk.OpNil)
	}
	c.emitOp(chunk.OpReturn)
}

func (c *Compiler) makeConstant(v value.Value) byte {
	idx, err := c.chunk().AddConstant(v)
	if err != nil {
		c.p.errorAtPrev(err.Error())
		return 0
	}
	return byte(idx)
}

func (c *Compiler) emitConstant(v value.Value) {
	c.emitOpByte(chunk.OpConstant, c.makeConstant(v))
}

// identifierConstant interns name as a runtime string and records it as a
// constant, for every place an identifier is referenced by name at runtime
// (globals, properties, method names) rather than resolved to a stack slot.
func (c *Compiler) identifierConstant(name token.Value) byte {
	s := c.p.gc.InternString(name.Raw)
	c.p.pin(s)
	defer c.p.unpin()
	return c.makeConstant(s)
}

// --- parser-level token stream helpers ---

func (p *parser) advance() {
	p.prev, p.prevVal = p.cur, p.curVal
	for {
		p.cur = p.sc.Scan(&p.curVal)
		if p.cur != token.ILLEGAL {
			break
		}
		// the scanner already reported this through p.report
	}
}

func (p *parser) check(tok token.Token) bool { return p.cur == tok }

func (p *parser) match(tok token.Token) bool {
	if !p.check(tok) {
		return false
	}
	p.advance()
	return true
}

func (p *parser) consume(tok token.Token, msg string) {
	if p.cur == tok {
		p.advance()
		return
	}
	p.errorAtCurrent(msg)
}

func (p *parser) errorAt(tok token.Token, val token.Value, msg string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	line := val.Line()
	switch tok {
	case token.EOF:
		msg = "at end: " + msg
	case token.ILLEGAL:
	default:
		msg = fmt.Sprintf("at '%s': %s", val.Raw, msg)
	}
	p.report(gotoken.Position{Filename: p.filename, Line: line}, msg)
}

func (p *parser) errorAtCurrent(msg string) { p.errorAt(p.cur, p.curVal, msg) }
func (p *parser) errorAtPrev(msg string)    { p.errorAt(p.prev, p.prevVal, msg) }

func (p *parser) synchronize() {
	p.panicMode = false
	for p.cur != token.EOF {
		if p.prev == token.SEMI {
			return
		}
		switch p.cur {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		p.advance()
	}
}
