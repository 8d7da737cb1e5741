// Package vm implements the stack-based bytecode interpreter: a call-frame
// stack over a single value stack, global and per-instance hash tables
// backed by github.com/dolthub/swiss, and the runtime half of the closure
// and class machinery the compiler emits opcodes for.
package vm

import (
	"fmt"
	"io"
	"os"

	"loxvm/lang/gc"
	"loxvm/lang/intern"
	"loxvm/lang/value"

	"github.com/dolthub/swiss"
)

// Config tunes the VM and its collector. Every field can be set from the
// environment by the CLI entry point via github.com/caarlos0/env, so the
// same binary can be stress-tested for GC correctness without a rebuild.
type Config struct {
	InitialGCThreshold int  `env:"LOXVM_GC_INITIAL_THRESHOLD" envDefault:"1048576"`
	GCGrowFactor       int  `env:"LOXVM_GC_GROW_FACTOR" envDefault:"2"`
	GCStress           bool `env:"LOXVM_GC_STRESS" envDefault:"false"`
	MaxFrames          int  `env:"LOXVM_MAX_FRAMES" envDefault:"64"`
	MaxStack           int  `env:"LOXVM_MAX_STACK" envDefault:"16384"`
}

// CallFrame is one active function invocation: the closure being executed,
// its instruction pointer, and the base index into the VM's value stack
// where its locals (including the receiver/function itself, at slot 0)
// begin.
type CallFrame struct {
	closure   *value.Closure
	ip        int
	slotsBase int
}

// VM is a single Lox interpreter instance: its heap, its global namespace,
// and the value and call-frame stacks of whatever program it is running.
// A VM is not safe for concurrent use.
type VM struct {
	cfg Config

	gc      *gc.GC
	strings *intern.Table

	stack []value.Value
	frames []CallFrame

	globals *swiss.Map[string, value.Value]

	openUpvalues *value.Upvalue // head of a list in descending stack-slot order

	initString *value.String

	stdout io.Writer
	stderr io.Writer
}

// New creates a VM with its own heap and global namespace, ready to
// Interpret one or more programs (a REPL reuses one VM across lines, so
// globals persist across Interpret calls).
func New(cfg Config, stdout, stderr io.Writer) *VM {
	if cfg.MaxFrames <= 0 {
		cfg.MaxFrames = 64
	}
	if cfg.MaxStack <= 0 {
		cfg.MaxStack = 16384
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	strings := intern.New()
	g := gc.New(strings, cfg.InitialGCThreshold, cfg.GCGrowFactor, cfg.GCStress)

	vm := &VM{
		cfg: cfg,
		gc:      g,
		strings: strings,
		// The backing array is reserved up front and never reallocated: open
		// upvalues hold raw pointers into it (see
		// slotIndex in upvalue.go), which a later append-triggered reallocation
		// would silently invalidate.
		stack:   make([]value.Value, 0, cfg.MaxStack),
		frames:  make([]CallFrame, 0, cfg.MaxFrames),
		globals: swiss.NewMap[string, value.Value](64),
		stdout:  stdout,
		stderr:  stderr,
	}
	g.Register(vm)
	vm.initString = g.InternString("init")
	vm.defineNatives()
	return vm
}

// GC exposes the VM's collector so the compiler can allocate into the same
// heap while compiling a line of REPL input.
func (vm *VM) GC() *gc.GC { return vm.gc }

// WalkGCRoots marks every heap reference the VM itself holds live: the value
// stack, every active call frame's closure, the open-upvalue chain, the
// globals table, and the reserved "init" string.
func (vm *VM) WalkGCRoots(mark func(value.Value)) {
	for _, v := range vm.stack {
		mark(v)
	}
	for _, f := range vm.frames {
		mark(f.closure)
	}
	for uv := vm.openUpvalues; uv != nil; uv = uv.NextOpen {
		mark(uv)
	}
	vm.globals.Iter(func(_ string, v value.Value) bool {
		mark(v)
		return false
	})
	if vm.initString != nil {
		mark(vm.initString)
	}
}

// errStackOverflow is the value push panics with when the value stack is
// exhausted; run recovers it and reports a "stack overflow" runtime error.
var errStackOverflow = fmt.Errorf("stack overflow")

func (vm *VM) push(v value.Value) {
	if len(vm.stack) == cap(vm.stack) {
		panic(errStackOverflow)
	}
	vm.stack = append(vm.stack, v)
}

func (vm *VM) pop() value.Value {
	n := len(vm.stack) - 1
	v := vm.stack[n]
	vm.stack = vm.stack[:n]
	return v
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[len(vm.stack)-1-distance]
}

func (vm *VM) resetStack() {
	vm.stack = vm.stack[:0]
	vm.frames = vm.frames[:0]
	vm.openUpvalues = nil
}

// RuntimeError is returned by Interpret and InterpretFile when the program
// raises an uncaught runtime fault. Its Error text is the message alone;
// Trace holds the call-stack lines, deepest frame first, already formatted
// for the CLI to print after the message.
type RuntimeError struct {
	Message string
	Trace   []string
}

func (e *RuntimeError) Error() string { return e.Message }

func (vm *VM) runtimeError(format string, args ...any) *RuntimeError {
	msg := fmt.Sprintf(format, args...)

	var trace []string
	for i := len(vm.frames) - 1; i >= 0; i-- {
		f := &vm.frames[i]
		fn := f.closure.Fn
		line := 0
		if f.ip-1 >= 0 && f.ip-1 < len(fn.Chunk.Lines) {
			line = fn.Chunk.Lines[f.ip-1]
		}
		name := "script"
		if fn.Name != nil {
			name = fn.Name.Chars + "()"
		}
		trace = append(trace, fmt.Sprintf("[line %d] in %s", line, name))
	}

	vm.resetStack()
	return &RuntimeError{Message: msg, Trace: trace}
}
