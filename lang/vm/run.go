package vm

import (
	"fmt"

	"loxvm/lang/chunk"
	"loxvm/lang/compiler"
	"loxvm/lang/value"
)

// Interpret compiles and runs source as a new top-level script under the
// name "<stdin>", sharing this VM's globals and heap with any program
// interpreted before it (the REPL's use case).
func (vm *VM) Interpret(source string) error {
	return vm.InterpretFile("<stdin>", source)
}

// InterpretFile is Interpret with an explicit source name, used for error
// messages when running a script file. It returns a RuntimeError for an
// uncaught runtime fault, or a plain error (a go/scanner.ErrorList) for a
// compile-time syntax error; callers distinguish the two with a type
// assertion.
func (vm *VM) InterpretFile(filename, source string) error {
	fn, err := compiler.Compile(vm.gc, filename, source)
	if err != nil {
		return err
	}

	vm.push(fn)
	closure := vm.gc.NewClosure(fn)
	vm.pop()
	vm.push(closure)
	if err := vm.call(closure, 0); err != nil {
		return err
	}

	return vm.run()
}

func (vm *VM) run() (err error) {
	defer func() {
		if r := recover(); r != nil {
			if r == errStackOverflow {
				err = vm.runtimeError("stack overflow")
				return
			}
			panic(r) // not ours: a genuine bug, surface it with a real stack trace
		}
	}()

	frame := &vm.frames[len(vm.frames)-1]
	c := frame.closure.Fn.Chunk

	readByte := func() byte {
		b := c.Code[frame.ip]
		frame.ip++
		return b
	}
	readShort := func() int {
		hi, lo := readByte(), readByte()
		return int(hi)<<8 | int(lo)
	}
	readConstant := func() value.Value {
		return c.Constants[readByte()].(value.Value)
	}
	readString := func() string {
		return readConstant().(*value.String).Chars
	}

	for {
		op := chunk.OpCode(readByte())
		switch op {
		case chunk.OpConstant:
			vm.push(readConstant())

		case chunk.OpNil:
			vm.push(value.Nil{})
		case chunk.OpTrue:
			vm.push(value.Bool(true))
		case chunk.OpFalse:
			vm.push(value.Bool(false))
		case chunk.OpPop:
			vm.pop()

		case chunk.OpGetLocal:
			vm.push(vm.stack[frame.slotsBase+int(readByte())])
		case chunk.OpSetLocal:
			vm.stack[frame.slotsBase+int(readByte())] = vm.peek(0)

		case chunk.OpGetGlobal:
			name := readString()
			v, ok := vm.globals.Get(name)
			if !ok {
				return vm.runtimeError("undefined variable '%s'", name)
			}
			vm.push(v)
		case chunk.OpDefineGlobal:
			name := readString()
			vm.globals.Put(name, vm.peek(0))
			vm.pop()
		case chunk.OpSetGlobal:
			name := readString()
			if _, ok := vm.globals.Get(name); !ok {
				return vm.runtimeError("undefined variable '%s'", name)
			}
			vm.globals.Put(name, vm.peek(0))

		case chunk.OpGetUpvalue:
			vm.push(*frame.closure.Upvalues[readByte()].Location)
		case chunk.OpSetUpvalue:
			*frame.closure.Upvalues[readByte()].Location = vm.peek(0)

		case chunk.OpGetProperty:
			inst, ok := vm.peek(0).(*value.Instance)
			if !ok {
				return vm.runtimeError("only instances have properties")
			}
			name := readString()
			if v, ok := inst.Fields.Get(name); ok {
				vm.pop()
				vm.push(v)
				break
			}
			if err := vm.bindMethod(inst.Class, name); err != nil {
				return err
			}
		case chunk.OpSetProperty:
			inst, ok := vm.peek(1).(*value.Instance)
			if !ok {
				return vm.runtimeError("only instances have fields")
			}
			name := readString()
			inst.Fields.Put(name, vm.peek(0))
			v := vm.pop()
			vm.pop()
			vm.push(v)
		case chunk.OpGetSuper:
			name := readString()
			superclass := vm.pop().(*value.Class)
			if err := vm.bindMethod(superclass, name); err != nil {
				return err
			}

		case chunk.OpEqual:
			b, a := vm.pop(), vm.pop()
			vm.push(value.Equal(a, b))
		case chunk.OpGreater:
			if err := vm.numericBinary(op); err != nil {
				return err
			}
		case chunk.OpLess:
			if err := vm.numericBinary(op); err != nil {
				return err
			}

		case chunk.OpAdd:
			if err := vm.add(); err != nil {
				return err
			}
		case chunk.OpSubtract, chunk.OpMultiply, chunk.OpDivide:
			if err := vm.numericBinary(op); err != nil {
				return err
			}

		case chunk.OpNot:
			vm.push(value.Bool(!value.IsTruthy(vm.pop())))
		case chunk.OpNegate:
			n, ok := vm.peek(0).(value.Number)
			if !ok {
				return vm.runtimeError("operand must be a number")
			}
			vm.pop()
			vm.push(-n)

		case chunk.OpPrint:
			fmt.Fprintln(vm.stdout, vm.pop().String())

		case chunk.OpJump:
			frame.ip += readShort()
		case chunk.OpJumpIfFalse:
			offset := readShort()
			if !value.IsTruthy(vm.peek(0)) {
				frame.ip += offset
			}
		case chunk.OpLoop:
			frame.ip -= readShort()

		case chunk.OpCall:
			argc := int(readByte())
			if err := vm.callValue(vm.peek(argc), argc); err != nil {
				return err
			}
			frame = &vm.frames[len(vm.frames)-1]
			c = frame.closure.Fn.Chunk

		case chunk.OpInvoke:
			name := readString()
			argc := int(readByte())
			if err := vm.invoke(name, argc); err != nil {
				return err
			}
			frame = &vm.frames[len(vm.frames)-1]
			c = frame.closure.Fn.Chunk

		case chunk.OpSuperInvoke:
			name := readString()
			argc := int(readByte())
			superclass := vm.pop().(*value.Class)
			if err := vm.invokeFromClass(superclass, name, argc); err != nil {
				return err
			}
			frame = &vm.frames[len(vm.frames)-1]
			c = frame.closure.Fn.Chunk

		case chunk.OpClosure:
			fn := readConstant().(*value.Function)
			closure := vm.gc.NewClosure(fn)
			vm.push(closure)
			for i := range closure.Upvalues {
				isLocal := readByte()
				index := readByte()
				if isLocal != 0 {
					closure.Upvalues[i] = vm.captureUpvalue(&vm.stack[frame.slotsBase+int(index)])
				} else {
					closure.Upvalues[i] = frame.closure.Upvalues[index]
				}
			}

		case chunk.OpCloseUpvalue:
			vm.closeUpvalues(&vm.stack[len(vm.stack)-1])
			vm.pop()

		case chunk.OpReturn:
			result := vm.pop()
			vm.closeUpvalues(&vm.stack[frame.slotsBase])
			vm.frames = vm.frames[:len(vm.frames)-1]
			if len(vm.frames) == 0 {
				vm.pop() // the top-level script closure itself
				return nil
			}
			vm.stack = vm.stack[:frame.slotsBase]
			vm.push(result)
			frame = &vm.frames[len(vm.frames)-1]
			c = frame.closure.Fn.Chunk

		case chunk.OpClass:
			vm.push(vm.gc.NewClass(readConstant().(*value.String)))

		case chunk.OpInherit:
			superclass, ok := vm.peek(1).(*value.Class)
			if !ok {
				return vm.runtimeError("superclass must be a class")
			}
			subclass := vm.peek(0).(*value.Class)
			superclass.Methods.Iter(func(name string, m *value.Closure) bool {
				subclass.Methods.Put(name, m)
				return false
			})
			vm.pop() // this temporary subclass reference; the superclass stays as the "super" local

		case chunk.OpMethod:
			name := readString()
			method := vm.pop().(*value.Closure)
			class := vm.peek(0).(*value.Class)
			class.Methods.Put(name, method)

		default:
			return vm.runtimeError("unknown opcode %d", op)
		}
	}
}

func (vm *VM) add() error {
	b, a := vm.peek(0), vm.peek(1)
	switch av := a.(type) {
	case value.Number:
		bv, ok := b.(value.Number)
		if !ok {
			return vm.runtimeError("operands must be two numbers or two strings")
		}
		vm.pop()
		vm.pop()
		vm.push(av + bv)
	case *value.String:
		bv, ok := b.(*value.String)
		if !ok {
			return vm.runtimeError("operands must be two numbers or two strings")
		}
		s := vm.gc.InternString(av.Chars + bv.Chars)
		vm.pop()
		vm.pop()
		vm.push(s)
	default:
		return vm.runtimeError("operands must be two numbers or two strings")
	}
	return nil
}

func (vm *VM) numericBinary(op chunk.OpCode) error {
	bv, bok := vm.peek(0).(value.Number)
	av, aok := vm.peek(1).(value.Number)
	if !aok || !bok {
		return vm.runtimeError("operands must be numbers")
	}
	vm.pop()
	vm.pop()
	switch op {
	case chunk.OpSubtract:
		vm.push(av - bv)
	case chunk.OpMultiply:
		vm.push(av * bv)
	case chunk.OpDivide:
		vm.push(av / bv)
	case chunk.OpGreater:
		vm.push(value.Bool(av > bv))
	case chunk.OpLess:
		vm.push(value.Bool(av < bv))
	}
	return nil
}
