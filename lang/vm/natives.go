package vm

import (
	"time"

	"loxvm/lang/value"
)

func (vm *VM) defineNatives() {
	vm.defineNative("clock", func(args []value.Value) (value.Value, error) {
		return value.Number(float64(time.Now().UnixNano()) / float64(time.Second)), nil
	})
}

func (vm *VM) defineNative(name string, fn value.NativeFn) {
	// Pin the native value on the stack while the name is interned: interning
	// the name can itself trigger a collection that must not reclaim the
	// native before it lands in globals.
	n := vm.gc.NewNative(name, fn)
	vm.push(n)
	nameStr := vm.gc.InternString(name)
	vm.globals.Put(nameStr.Chars, vm.pop())
}
