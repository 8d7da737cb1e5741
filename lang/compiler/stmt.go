package compiler

import (
	"loxvm/lang/chunk"
	"loxvm/lang/token"
)

func (c *Compiler) declaration() {
	switch {
	case c.p.match(token.CLASS):
		c.classDeclaration()
	case c.p.match(token.FUN):
		c.funDeclaration()
	case c.p.match(token.VAR):
		c.varDeclaration()
	default:
		c.statement()
	}

	if c.p.panicMode {
		c.p.synchronize()
	}
}

func (c *Compiler) funDeclaration() {
	global := c.parseVariable("expect function name")
	c.markInitialized()
	c.function(TypeFunction)
	c.defineVariable(global)
}

func (c *Compiler) varDeclaration() {
	global := c.parseVariable("expect variable name")
	if c.p.match(token.EQ) {
		c.expression()
	} else {
		c.emitOp(chunk.OpNil)
	}
	c.p.consume(token.SEMI, "expect ';' after variable declaration")
	c.defineVariable(global)
}

func (c *Compiler) statement() {
	switch {
	case c.p.match(token.PRINT):
		c.printStatement()
	case c.p.match(token.FOR):
		c.forStatement()
	case c.p.match(token.IF):
		c.ifStatement()
	case c.p.match(token.RETURN):
		c.returnStatement()
	case c.p.match(token.WHILE):
		c.whileStatement()
	case c.p.match(token.LBRACE):
		c.beginScope()
		c.block()
		c.endScope()
	default:
		c.expressionStatement()
	}
}

func (c *Compiler) printStatement() {
	c.expression()
	c.p.consume(token.SEMI, "expect ';' after value")
	c.emitOp(chunk.OpPrint)
}

func (c *Compiler) expressionStatement() {
	c.expression()
	c.p.consume(token.SEMI, "expect ';' after expression")
	c.emitOp(chunk.OpPop)
}

func (c *Compiler) block() {
	for !c.p.check(token.RBRACE) && !c.p.check(token.EOF) {
		c.declaration()
	}
	c.p.consume(token.RBRACE, "expect '}' after block")
}

func (c *Compiler) ifStatement() {
	c.p.consume(token.LPAREN, "expect '(' after 'if'")
	c.expression()
	c.p.consume(token.RPAREN, "expect ')' after condition")

	thenJump := c.emitJump(chunk.OpJumpIfFalse)
	c.emitOp(chunk.OpPop)
	c.statement()

	elseJump := c.emitJump(chunk.OpJump)
	c.patchJump(thenJump)
	c.emitOp(chunk.OpPop)

	if c.p.match(token.ELSE) {
		c.statement()
	}
	c.patchJump(elseJump)
}

func (c *Compiler) whileStatement() {
	loopStart := len(c.chunk().Code)
	c.p.consume(token.LPAREN, "expect '(' after 'while'")
	c.expression()
	c.p.consume(token.RPAREN, "expect ')' after condition")

	exitJump := c.emitJump(chunk.OpJumpIfFalse)
	c.emitOp(chunk.OpPop)
	c.statement()
	c.emitLoop(loopStart)

	c.patchJump(exitJump)
	c.emitOp(chunk.OpPop)
}

func (c *Compiler) forStatement() {
	c.beginScope()
	c.p.consume(token.LPAREN, "expect '(' after 'for'")

	switch {
	case c.p.match(token.SEMI):
		// no initializer clause
	case c.p.match(token.VAR):
		c.varDeclaration()
	default:
		c.expressionStatement()
	}

	loopStart := len(c.chunk().Code)
	exitJump := -1
	if !c.p.match(token.SEMI) {
		c.expression()
		c.p.consume(token.SEMI, "expect ';' after loop condition")
		exitJump = c.emitJump(chunk.OpJumpIfFalse)
		c.emitOp(chunk.OpPop)
	}

	if !c.p.match(token.RPAREN) {
		bodyJump := c.emitJump(chunk.OpJump)
		incrStart := len(c.chunk().Code)
		c.expression()
		c.emitOp(chunk.OpPop)
		c.p.consume(token.RPAREN, "expect ')' after for clauses")

		c.emitLoop(loopStart)
		loopStart = incrStart
		c.patchJump(bodyJump)
	}

	c.statement()
	c.emitLoop(loopStart)

	if exitJump != -1 {
		c.patchJump(exitJump)
		c.emitOp(chunk.OpPop)
	}
	c.endScope()
}

func (c *Compiler) returnStatement() {
	if c.fnType == TypeScript {
		c.p.errorAtPrev("can't return from top-level code")
	}
	if c.p.match(token.SEMI) {
		c.emitReturn()
		return
	}
	if c.fnType == TypeInitializer {
		c.p.errorAtPrev("can't return a value from an initializer")
	}
	c.expression()
	c.p.consume(token.SEMI, "expect ';' after return value")
	c.emitOp(chunk.OpReturn)
}
