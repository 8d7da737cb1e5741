package chunk

// OpCode is a single bytecode instruction. Operand widths are fixed per
// opcode: most operands are a single byte naming an index into the chunk's
// constant pool or the current frame's locals/upvalues; JUMP/LOOP operands
// are a big-endian 16-bit offset.
type OpCode uint8

//nolint:revive
const (
	OpConstant OpCode = iota // u8 idx            -> push constants[idx]
	OpNil                    //                   -> push Nil
	OpTrue                   //                   -> push true
	OpFalse                  //                   -> push false
	OpPop                    //                   discard top

	OpGetLocal    // u8 slot
	OpSetLocal    // u8 slot
	OpGetGlobal   // u8 name-idx
	OpSetGlobal   // u8 name-idx
	OpDefineGlobal // u8 name-idx
	OpGetUpvalue  // u8 idx
	OpSetUpvalue  // u8 idx
	OpGetProperty // u8 name-idx
	OpSetProperty // u8 name-idx
	OpGetSuper    // u8 name-idx

	OpEqual
	OpGreater
	OpLess

	OpAdd
	OpSubtract
	OpMultiply
	OpDivide

	OpNot
	OpNegate

	OpPrint

	OpJump        // u16 offset, forward
	OpJumpIfFalse // u16 offset, forward, peeks (no pop)
	OpLoop        // u16 offset, backward

	OpCall        // u8 argc
	OpInvoke      // u8 name-idx, u8 argc
	OpSuperInvoke // u8 name-idx, u8 argc

	OpClosure      // u8 fn-idx, then one (u8 is_local, u8 index) pair per upvalue
	OpCloseUpvalue //
	OpReturn       //

	OpClass    // u8 name-idx
	OpInherit  //
	OpMethod   // u8 name-idx
)

var opcodeNames = [...]string{
	OpConstant:     "OP_CONSTANT",
	OpNil:          "OP_NIL",
	OpTrue:         "OP_TRUE",
	OpFalse:        "OP_FALSE",
	OpPop:          "OP_POP",
	OpGetLocal:     "OP_GET_LOCAL",
	OpSetLocal:     "OP_SET_LOCAL",
	OpGetGlobal:    "OP_GET_GLOBAL",
	OpSetGlobal:    "OP_SET_GLOBAL",
	OpDefineGlobal: "OP_DEFINE_GLOBAL",
	OpGetUpvalue:   "OP_GET_UPVALUE",
	OpSetUpvalue:   "OP_SET_UPVALUE",
	OpGetProperty:  "OP_GET_PROPERTY",
	OpSetProperty:  "OP_SET_PROPERTY",
	OpGetSuper:     "OP_GET_SUPER",
	OpEqual:        "OP_EQUAL",
	OpGreater:      "OP_GREATER",
	OpLess:         "OP_LESS",
	OpAdd:          "OP_ADD",
	OpSubtract:     "OP_SUBTRACT",
	OpMultiply:     "OP_MULTIPLY",
	OpDivide:       "OP_DIVIDE",
	OpNot:          "OP_NOT",
	OpNegate:       "OP_NEGATE",
	OpPrint:        "OP_PRINT",
	OpJump:         "OP_JUMP",
	OpJumpIfFalse:  "OP_JUMP_IF_FALSE",
	OpLoop:         "OP_LOOP",
	OpCall:         "OP_CALL",
	OpInvoke:       "OP_INVOKE",
	OpSuperInvoke:  "OP_SUPER_INVOKE",
	OpClosure:      "OP_CLOSURE",
	OpCloseUpvalue: "OP_CLOSE_UPVALUE",
	OpReturn:       "OP_RETURN",
	OpClass:        "OP_CLASS",
	OpInherit:      "OP_INHERIT",
	OpMethod:       "OP_METHOD",
}

func (op OpCode) String() string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return "OP_UNKNOWN"
}
