package vm_test

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"loxvm/internal/filetest"
	"loxvm/lang/vm"
)

var testUpdateGolden = flag.Bool("test.update-golden-tests", false, "update lang/vm/testdata golden files")

// TestGoldenScripts runs every script under testdata/in through a fresh VM
// and compares its captured stdout (and, for scripts that error, the
// reported message) against the matching testdata/out golden file. This is
// the suite of positive and negative scenarios the language's behavior is
// pinned against.
func TestGoldenScripts(t *testing.T) {
	inDir := filepath.Join("testdata", "in")
	outDir := filepath.Join("testdata", "out")

	for _, fi := range filetest.SourceFiles(t, inDir, ".lox") {
		fi := fi
		t.Run(fi.Name(), func(t *testing.T) {
			src, err := os.ReadFile(filepath.Join(inDir, fi.Name()))
			if err != nil {
				t.Fatal(err)
			}

			var out bytes.Buffer
			v := vm.New(vm.Config{}, &out, &bytes.Buffer{})
			runErr := v.InterpretFile(fi.Name(), string(src))

			filetest.DiffOutput(t, fi, out.String(), outDir, testUpdateGolden)

			errMsg := ""
			if runErr != nil {
				errMsg = runErr.Error() + "\n"
			}
			filetest.DiffErrors(t, fi, errMsg, outDir, testUpdateGolden)
		})
	}
}
