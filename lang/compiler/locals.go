package compiler

import "loxvm/lang/chunk"
import "loxvm/lang/token"

func (c *Compiler) beginScope() { c.scopeDepth++ }

func (c *Compiler) endScope() {
	c.scopeDepth--
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth > c.scopeDepth {
		if c.locals[len(c.locals)-1].isCaptured {
			c.emitOp(chunk.OpCloseUpvalue)
		} else {
			c.emitOp(chunk.OpPop)
		}
		c.locals = c.locals[:len(c.locals)-1]
	}
}

func (c *Compiler) addLocal(name token.Value) {
	if len(c.locals) >= 256 {
		c.p.errorAtPrev("too many local variables in function")
		return
	}
	c.locals = append(c.locals, Local{name: name, depth: -1})
}

// declareVariable records name as a new local in the current scope, erroring
// if a local with the same name already exists in this exact scope. It is a
// no-op at global scope, where variables are resolved by name at runtime
// instead of by stack slot.
func (c *Compiler) declareVariable(name token.Value) {
	if c.scopeDepth == 0 {
		return
	}
	for i := len(c.locals) - 1; i >= 0; i-- {
		l := c.locals[i]
		if l.depth != -1 && l.depth < c.scopeDepth {
			break
		}
		if l.name.Raw == name.Raw {
			c.p.errorAtPrev("already a variable with this name in this scope")
		}
	}
	c.addLocal(name)
}

func (c *Compiler) markInitialized() {
	if c.scopeDepth == 0 {
		return
	}
	c.locals[len(c.locals)-1].depth = c.scopeDepth
}

// parseVariable consumes an identifier token, declares it as a local if
// inside a scope, and otherwise returns its name's constant-pool index for a
// later OP_DEFINE_GLOBAL.
func (c *Compiler) parseVariable(errMsg string) byte {
	c.p.consume(token.IDENT, errMsg)
	name := c.p.prevVal
	c.declareVariable(name)
	if c.scopeDepth > 0 {
		return 0
	}
	return c.identifierConstant(name)
}

func (c *Compiler) defineVariable(global byte) {
	if c.scopeDepth > 0 {
		c.markInitialized()
		return
	}
	c.emitOpByte(chunk.OpDefineGlobal, global)
}

func resolveLocal(c *Compiler, name token.Value) int {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name.Raw == name.Raw {
			if c.locals[i].depth == -1 {
				c.p.errorAtPrev("can't read local variable in its own initializer")
			}
			return i
		}
	}
	return -1
}

func resolveUpvalue(c *Compiler, name token.Value) int {
	if c.enclosing == nil {
		return -1
	}
	if local := resolveLocal(c.enclosing, name); local != -1 {
		c.enclosing.locals[local].isCaptured = true
		return addUpvalue(c, byte(local), true)
	}
	if up := resolveUpvalue(c.enclosing, name); up != -1 {
		return addUpvalue(c, byte(up), false)
	}
	return -1
}

func addUpvalue(c *Compiler, index byte, isLocal bool) int {
	for i, uv := range c.upvalues {
		if uv.index == index && uv.isLocal == isLocal {
			return i
		}
	}
	if len(c.upvalues) >= 256 {
		c.p.errorAtPrev("too many closure variables in function")
		return 0
	}
	c.upvalues = append(c.upvalues, Upvalue{index: index, isLocal: isLocal})
	c.fn.UpvalueCount = len(c.upvalues)
	return len(c.upvalues) - 1
}

// namedVariable compiles a read, or (if canAssign and followed by '=') a
// write, of the variable named name, resolving it as a local, an upvalue, or
// a global in that order.
func (c *Compiler) namedVariable(name token.Value, canAssign bool) {
	var getOp, setOp chunk.OpCode
	arg := resolveLocal(c, name)
	switch {
	case arg != -1:
		getOp, setOp = chunk.OpGetLocal, chunk.OpSetLocal
	default:
		if arg = resolveUpvalue(c, name); arg != -1 {
			getOp, setOp = chunk.OpGetUpvalue, chunk.OpSetUpvalue
		} else {
			arg = int(c.identifierConstant(name))
			getOp, setOp = chunk.OpGetGlobal, chunk.OpSetGlobal
		}
	}

	if canAssign && c.p.match(token.EQ) {
		c.expression()
		c.emitOpByte(setOp, byte(arg))
	} else {
		c.emitOpByte(getOp, byte(arg))
	}
}
