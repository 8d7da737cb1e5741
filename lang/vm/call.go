package vm

import "loxvm/lang/value"

// call pushes a new call frame for closure, whose argc arguments are
// already sitting on top of the value stack (slot 0 of the new frame is the
// callee itself, already pushed by the caller, to double as `this` inside
// methods).
func (vm *VM) call(closure *value.Closure, argc int) error {
	if argc != closure.Fn.Arity {
		return vm.runtimeError("expected %d arguments but got %d", closure.Fn.Arity, argc)
	}
	if len(vm.frames) == cap(vm.frames) {
		return vm.runtimeError("stack overflow")
	}
	vm.frames = append(vm.frames, CallFrame{
		closure:   closure,
		slotsBase: len(vm.stack) - argc - 1,
	})
	return nil
}

// callValue dispatches a call expression's callee, which may be a closure,
// a native function, a bound method, or a class (construction).
func (vm *VM) callValue(callee value.Value, argc int) error {
	switch c := callee.(type) {
	case *value.Closure:
		return vm.call(c, argc)
	case *value.Native:
		args := append([]value.Value(nil), vm.stack[len(vm.stack)-argc:]...)
		result, err := c.Fn(args)
		if err != nil {
			return vm.runtimeError("%s", err.Error())
		}
		vm.stack = vm.stack[:len(vm.stack)-argc-1]
		vm.push(result)
		return nil
	case *value.Class:
		inst := vm.gc.NewInstance(c)
		vm.stack[len(vm.stack)-argc-1] = inst
		if initializer, ok := c.Methods.Get(vm.initString.Chars); ok {
			return vm.call(initializer, argc)
		}
		if argc != 0 {
			return vm.runtimeError("expected 0 arguments but got %d", argc)
		}
		return nil
	case *value.BoundMethod:
		vm.stack[len(vm.stack)-argc-1] = c.Receiver
		return vm.call(c.Method, argc)
	default:
		return vm.runtimeError("can only call functions and classes")
	}
}

// invoke executes the common "get property then call it" pattern in one
// step, skipping the intermediate bound-method allocation OP_GET_PROPERTY +
// OP_CALL would otherwise require.
func (vm *VM) invoke(name string, argc int) error {
	receiver := vm.peek(argc)
	inst, ok := receiver.(*value.Instance)
	if !ok {
		return vm.runtimeError("only instances have methods")
	}

	if field, ok := inst.Fields.Get(name); ok {
		vm.stack[len(vm.stack)-argc-1] = field
		return vm.callValue(field, argc)
	}
	return vm.invokeFromClass(inst.Class, name, argc)
}

func (vm *VM) invokeFromClass(class *value.Class, name string, argc int) error {
	method, ok := class.Methods.Get(name)
	if !ok {
		return vm.runtimeError("undefined property '%s'", name)
	}
	return vm.call(method, argc)
}

// bindMethod looks up name on class, and if found replaces the receiver on
// top of the stack with a BoundMethod pairing that receiver with the method
// (used by plain OP_GET_PROPERTY and OP_GET_SUPER, as opposed to invoke's
// fused get+call).
func (vm *VM) bindMethod(class *value.Class, name string) error {
	method, ok := class.Methods.Get(name)
	if !ok {
		return vm.runtimeError("undefined property '%s'", name)
	}
	bound := vm.gc.NewBoundMethod(vm.peek(0), method)
	vm.pop()
	vm.push(bound)
	return nil
}
