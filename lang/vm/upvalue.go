package vm

import (
	"unsafe"

	"loxvm/lang/value"
)

// slotIndex recovers the stack index a slot pointer refers to. The value
// stack's backing array is allocated once, up front, to its full configured
// capacity and never reallocated (see push), so pointers into it stay valid
// for as long as the VM runs; this is the one place that relies on that
// invariant to do the pointer arithmetic clox does directly in C.
func (vm *VM) slotIndex(slot *value.Value) int {
	base := unsafe.SliceData(vm.stack[:cap(vm.stack)])
	return int(uintptr(unsafe.Pointer(slot))-uintptr(unsafe.Pointer(base))) / int(unsafe.Sizeof(value.Value(nil)))
}

// captureUpvalue returns the open upvalue for the stack slot at local,
// creating one and inserting it into the VM's open-upvalue list (kept in
// descending stack-slot order) if none exists yet. Two closures that close
// over the same local variable must share one upvalue, so later writes
// through either closure are visible to both.
func (vm *VM) captureUpvalue(local *value.Value) *value.Upvalue {
	idx := vm.slotIndex(local)

	var prev *value.Upvalue
	cur := vm.openUpvalues
	for cur != nil && vm.slotIndex(cur.Location) > idx {
		prev = cur
		cur = cur.NextOpen
	}
	if cur != nil && vm.slotIndex(cur.Location) == idx {
		return cur
	}

	created := vm.gc.NewUpvalue(local)
	created.NextOpen = cur
	if prev == nil {
		vm.openUpvalues = created
	} else {
		prev.NextOpen = created
	}
	return created
}

// closeUpvalues closes every open upvalue at or above the stack slot last
// points to, copying the slot's current value out of the stack and into the
// upvalue so it survives the stack frame's slots being reused.
func (vm *VM) closeUpvalues(last *value.Value) {
	lastIdx := vm.slotIndex(last)
	for vm.openUpvalues != nil && vm.slotIndex(vm.openUpvalues.Location) >= lastIdx {
		uv := vm.openUpvalues
		uv.Closed = *uv.Location
		uv.Location = &uv.Closed
		vm.openUpvalues = uv.NextOpen
		uv.NextOpen = nil
	}
}
