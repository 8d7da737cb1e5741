// Package cli implements the loxvm command-line front end: flag parsing and
// dispatch via github.com/mna/mainer, in the same shape the larger module
// uses for its own command-line tool.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"loxvm/lang/vm"

	"github.com/caarlos0/env/v6"
	"github.com/mna/mainer"
)

const binName = "loxvm"

// Exit codes follow the BSD sysexits.h convention clox itself uses.
const (
	exitOK      = 0
	exitUsage   = 64
	exitDataErr = 65
	exitSoftErr = 70
	exitIOErr   = 74
)

var (
	shortUsage = fmt.Sprintf("usage: %s [script]\n", binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] [script]
       %[1]s -h|--help
       %[1]s -v|--version

With no script argument, starts a REPL that reads, compiles and runs one
line at a time, sharing variables and functions across lines. With one
script argument, compiles and runs that file, then exits.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
`, binName)
)

// Cmd is the loxvm command, parsed and run by github.com/mna/mainer.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	args []string
}

func (c *Cmd) SetArgs(args []string)          { c.args = args }
func (c *Cmd) SetFlags(_ map[string]bool)     {}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) > 1 {
		return errors.New("at most one script argument is allowed")
	}
	return nil
}

// Main parses args and runs the resulting command, returning the process
// exit code the caller should use.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{EnvVars: false, EnvPrefix: binName + "_"}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.ExitCode(exitUsage)
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.ExitCode(exitOK)
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.ExitCode(exitOK)
	}

	if len(c.args) > 1 {
		fmt.Fprint(stdio.Stderr, shortUsage)
		return mainer.ExitCode(exitUsage)
	}

	var cfg vm.Config
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid configuration: %s\n", err)
		return mainer.ExitCode(exitUsage)
	}
	machine := vm.New(cfg, stdio.Stdout, stdio.Stderr)

	_ = mainer.CancelOnSignal(context.Background(), os.Interrupt) // reserved: neither run mode is currently cancellable mid-line

	if len(c.args) == 1 {
		return mainer.ExitCode(runFile(machine, stdio.Stderr, c.args[0]))
	}
	return mainer.ExitCode(repl(machine, stdio.Stdin, stdio.Stdout, stdio.Stderr))
}

func runFile(machine *vm.VM, stderr io.Writer, path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "can't open file %q: %s\n", path, err)
		return exitIOErr
	}

	err = machine.InterpretFile(path, string(src))
	return exitCodeFor(err, stderr)
}

func repl(machine *vm.VM, stdin io.Reader, stdout, stderr io.Writer) int {
	scanner := bufio.NewScanner(stdin)
	for {
		fmt.Fprint(stdout, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(stdout)
			return exitOK
		}
		if err := machine.Interpret(scanner.Text()); err != nil {
			// the REPL reports the error to stderr and keeps going, rather than
			// exiting the way a file run does.
			exitCodeFor(err, stderr)
		}
	}
}

func exitCodeFor(err error, stderr io.Writer) int {
	if err == nil {
		return exitOK
	}
	fmt.Fprintln(stderr, err)
	var rerr *vm.RuntimeError
	if errors.As(err, &rerr) {
		for _, line := range rerr.Trace {
			fmt.Fprintln(stderr, line)
		}
		return exitSoftErr
	}
	return exitDataErr
}
