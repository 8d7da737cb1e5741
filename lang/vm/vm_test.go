package vm_test

import (
	"bytes"
	"strings"
	"testing"

	"loxvm/lang/vm"

	"github.com/stretchr/testify/require"
)

func run(t *testing.T, source string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	v := vm.New(vm.Config{}, &out, &errOut)
	err := v.Interpret(source)
	return out.String(), err
}

func TestArithmeticAndPrint(t *testing.T) {
	out, err := run(t, `print 1 + 2 * 3;`)
	require.NoError(t, err)
	require.Equal(t, "7\n", out)
}

func TestStringConcatenation(t *testing.T) {
	out, err := run(t, `print "foo" + "bar";`)
	require.NoError(t, err)
	require.Equal(t, "foobar\n", out)
}

func TestGlobalsPersistAcrossDeclarationsAndAssignment(t *testing.T) {
	out, err := run(t, `
	var a = 1;
	a = a + 1;
	print a;`)
	require.NoError(t, err)
	require.Equal(t, "2\n", out)
}

func TestClosureCapturesByReference(t *testing.T) {
	out, err := run(t, `
	fun makeCounter() {
		var i = 0;
		fun count() {
			i = i + 1;
			print i;
		}
		return count;
	}
	var counter = makeCounter();
	counter();
	counter();`)
	require.NoError(t, err)
	require.Equal(t, "1\n2\n", out)
}

func TestControlFlow(t *testing.T) {
	out, err := run(t, `
	for (var i = 0; i < 3; i = i + 1) {
		if (i == 1) print "one"; else print i;
	}`)
	require.NoError(t, err)
	require.Equal(t, "0\none\n2\n", out)
}

func TestClassesAndMethods(t *testing.T) {
	out, err := run(t, `
	class Greeter {
		init(name) {
			this.name = name;
		}
		greet() {
			print "hello, " + this.name;
		}
	}
	var g = Greeter("world");
	g.greet();`)
	require.NoError(t, err)
	require.Equal(t, "hello, world\n", out)
}

func TestInheritanceAndSuper(t *testing.T) {
	out, err := run(t, `
	class A {
		speak() { print "A"; }
	}
	class B < A {
		speak() {
			super.speak();
			print "B";
		}
	}
	B().speak();`)
	require.NoError(t, err)
	require.Equal(t, "A\nB\n", out)
}

func TestRuntimeErrorUndefinedVariable(t *testing.T) {
	_, err := run(t, `print x;`)
	require.Error(t, err)
	var rerr *vm.RuntimeError
	require.ErrorAs(t, err, &rerr)
	require.Contains(t, rerr.Message, "undefined variable")
}

func TestRuntimeErrorTypeMismatch(t *testing.T) {
	_, err := run(t, `print 1 + "a";`)
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "operands must be"))
}

func TestNativeClock(t *testing.T) {
	out, err := run(t, `print clock() > 0;`)
	require.NoError(t, err)
	require.Equal(t, "true\n", out)
}
