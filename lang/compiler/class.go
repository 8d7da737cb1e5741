package compiler

import (
	"loxvm/lang/chunk"
	"loxvm/lang/token"
)

// function compiles a function's parameter list and body into its own
// Function object (via a nested Compiler), then emits OP_CLOSURE in the
// enclosing chunk together with the (is_local, index) pair for each upvalue
// the nested function captured, for the VM to resolve at closure-creation
// time.
func (c *Compiler) function(fnType FunctionType) {
	fc := newCompiler(c.p, c, fnType)
	fc.beginScope()

	c.p.consume(token.LPAREN, "expect '(' after function name")
	if !c.p.check(token.RPAREN) {
		for {
			fc.fn.Arity++
			if fc.fn.Arity > 255 {
				c.p.errorAtCurrent("can't have more than 255 parameters")
			}
			constant := fc.parseVariable("expect parameter name")
			fc.defineVariable(constant)
			if !c.p.match(token.COMMA) {
				break
			}
		}
	}
	c.p.consume(token.RPAREN, "expect ')' after parameters")
	c.p.consume(token.LBRACE, "expect '{' before function body")
	fc.block()

	fn := fc.endCompiler()
	idx := c.makeConstant(fn)
	c.emitOpByte(chunk.OpClosure, idx)
	for _, uv := range fc.upvalues {
		local := byte(0)
		if uv.isLocal {
			local = 1
		}
		c.emitByte(local)
		c.emitByte(uv.index)
	}
}

func (c *Compiler) method() {
	c.p.consume(token.IDENT, "expect method name")
	name := c.p.prevVal
	constant := c.identifierConstant(name)

	fnType := TypeMethod
	if name.Raw == "init" {
		fnType = TypeInitializer
	}
	c.function(fnType)
	c.emitOpByte(chunk.OpMethod, constant)
}

func (c *Compiler) classDeclaration() {
	c.p.consume(token.IDENT, "expect class name")
	className := c.p.prevVal
	nameConstant := c.identifierConstant(className)
	c.declareVariable(className)

	c.emitOpByte(chunk.OpClass, nameConstant)
	c.defineVariable(nameConstant)

	cs := &classState{enclosing: c.class}
	c.class = cs

	if c.p.match(token.LT) {
		c.p.consume(token.IDENT, "expect superclass name")
		superName := c.p.prevVal
		c.namedVariable(superName, false)

		if superName.Raw == className.Raw {
			c.p.errorAtPrev("a class can't inherit from itself")
		}

		c.beginScope()
		c.addLocal(synthetic("super"))
		c.markInitialized()

		c.namedVariable(className, false)
		c.emitOp(chunk.OpInherit)
		cs.hasSuperclass = true
	}

	c.namedVariable(className, false)
	c.p.consume(token.LBRACE, "expect '{' before class body")
	for !c.p.check(token.RBRACE) && !c.p.check(token.EOF) {
		c.method()
	}
	c.p.consume(token.RBRACE, "expect '}' after class body")
	c.emitOp(chunk.OpPop)

	if cs.hasSuperclass {
		c.endScope()
	}
	c.class = cs.enclosing
}
