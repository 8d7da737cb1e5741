package compiler

import (
	"strconv"

	"loxvm/lang/chunk"
	"loxvm/lang/token"
	"loxvm/lang/value"
)

func (c *Compiler) number(canAssign bool) {
	n, err := strconv.ParseFloat(c.p.prevVal.Raw, 64)
	if err != nil {
		c.p.errorAtPrev("invalid number literal")
		return
	}
	c.emitConstant(value.Number(n))
}

// string compiles a string literal, stripping the surrounding quotes the
// scanner left in place and interning the contents.
func (c *Compiler) string(canAssign bool) {
	raw := c.p.prevVal.Raw
	s := c.p.gc.InternString(raw[1 : len(raw)-1])
	c.p.pin(s)
	c.emitConstant(s)
	c.p.unpin()
}

func (c *Compiler) literal(canAssign bool) {
	switch c.p.prev {
	case token.FALSE:
		c.emitOp(chunk.OpFalse)
	case token.NIL:
		c.emitOp(chunk.OpNil)
	case token.TRUE:
		c.emitOp(chunk.OpTrue)
	}
}

func (c *Compiler) grouping(canAssign bool) {
	c.expression()
	c.p.consume(token.RPAREN, "expect ')' after expression")
}

func (c *Compiler) unary(canAssign bool) {
	opTok := c.p.prev
	c.parsePrecedence(PrecUnary)
	switch opTok {
	case token.MINUS:
		c.emitOp(chunk.OpNegate)
	case token.BANG:
		c.emitOp(chunk.OpNot)
	}
}

func (c *Compiler) binary(canAssign bool) {
	opTok := c.p.prev
	rule := getRule(opTok)
	c.parsePrecedence(rule.prec + 1)

	switch opTok {
	case token.BANG_EQ:
		c.emitOp(chunk.OpEqual)
		c.emitOp(chunk.OpNot)
	case token.EQ_EQ:
		c.emitOp(chunk.OpEqual)
	case token.GT:
		c.emitOp(chunk.OpGreater)
	case token.GT_EQ:
		c.emitOp(chunk.OpLess)
		c.emitOp(chunk.OpNot)
	case token.LT:
		c.emitOp(chunk.OpLess)
	case token.LT_EQ:
		c.emitOp(chunk.OpGreater)
		c.emitOp(chunk.OpNot)
	case token.PLUS:
		c.emitOp(chunk.OpAdd)
	case token.MINUS:
		c.emitOp(chunk.OpSubtract)
	case token.STAR:
		c.emitOp(chunk.OpMultiply)
	case token.SLASH:
		c.emitOp(chunk.OpDivide)
	}
}

func (c *Compiler) and_(canAssign bool) {
	endJump := c.emitJump(chunk.OpJumpIfFalse)
	c.emitOp(chunk.OpPop)
	c.parsePrecedence(PrecAnd)
	c.patchJump(endJump)
}

func (c *Compiler) or_(canAssign bool) {
	elseJump := c.emitJump(chunk.OpJumpIfFalse)
	endJump := c.emitJump(chunk.OpJump)
	c.patchJump(elseJump)
	c.emitOp(chunk.OpPop)
	c.parsePrecedence(PrecOr)
	c.patchJump(endJump)
}

func (c *Compiler) argumentList() byte {
	var argc int
	if !c.p.check(token.RPAREN) {
		for {
			c.expression()
			if argc == 255 {
				c.p.errorAtPrev("can't have more than 255 arguments")
			}
			argc++
			if !c.p.match(token.COMMA) {
				break
			}
		}
	}
	c.p.consume(token.RPAREN, "expect ')' after arguments")
	return byte(argc)
}

func (c *Compiler) call(canAssign bool) {
	argc := c.argumentList()
	c.emitOpByte(chunk.OpCall, argc)
}

func (c *Compiler) dot(canAssign bool) {
	c.p.consume(token.IDENT, "expect property name after '.'")
	name := c.identifierConstant(c.p.prevVal)

	switch {
	case canAssign && c.p.match(token.EQ):
		c.expression()
		c.emitOpByte(chunk.OpSetProperty, name)
	case c.p.match(token.LPAREN):
		argc := c.argumentList()
		c.emitOpByte(chunk.OpInvoke, name)
		c.emitByte(argc)
	default:
		c.emitOpByte(chunk.OpGetProperty, name)
	}
}

func (c *Compiler) variable(canAssign bool) {
	c.namedVariable(c.p.prevVal, canAssign)
}

func (c *Compiler) this_(canAssign bool) {
	if c.class == nil {
		c.p.errorAtPrev("can't use 'this' outside of a class")
		return
	}
	c.namedVariable(c.p.prevVal, false)
}

func synthetic(name string) token.Value { return token.Value{Raw: name} }

func (c *Compiler) super_(canAssign bool) {
	switch {
	case c.class == nil:
		c.p.errorAtPrev("can't use 'super' outside of a class")
	case !c.class.hasSuperclass:
		c.p.errorAtPrev("can't use 'super' in a class with no superclass")
	}

	c.p.consume(token.DOT, "expect '.' after 'super'")
	c.p.consume(token.IDENT, "expect superclass method name")
	name := c.identifierConstant(c.p.prevVal)

	c.namedVariable(synthetic("this"), false)
	if c.p.match(token.LPAREN) {
		argc := c.argumentList()
		c.namedVariable(synthetic("super"), false)
		c.emitOpByte(chunk.OpSuperInvoke, name)
		c.emitByte(argc)
	} else {
		c.namedVariable(synthetic("super"), false)
		c.emitOpByte(chunk.OpGetSuper, name)
	}
}
