// Testing Strategy Design Decision:
//
// The cmd/ package contains CLI integration tests that exercise the full
// stack: command parsing -> journal service -> store/index/engine -> SQLite.
//
// The core packages (store, index, query, engine) carry their own unit
// tests for algorithmic behaviour; the tests here prove the wiring - that
// a command a user types produces the output a user sees.

package cmd

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

var (
	binaryPath string
	buildOnce  sync.Once
	buildErr   error
)

// buildBinary compiles the palimpsest binary once for all tests.
func buildBinary(t *testing.T) string {
	t.Helper()

	buildOnce.Do(func() {
		tmpDir, err := os.MkdirTemp("", "palimpsest-test-bin-*")
		if err != nil {
			buildErr = err
			return
		}

		binaryName := "palimpsest"
		if os.PathSeparator == '\\' {
			binaryName = "palimpsest.exe"
		}
		binaryPath = filepath.Join(tmpDir, binaryName)

		// Find project root (parent of cmd/)
		wd := mustGetwd()
		projectRoot := filepath.Dir(wd)

		cmd := exec.Command("go", "build", "-o", binaryPath, ".")
		cmd.Dir = projectRoot
		if out, err := cmd.CombinedOutput(); err != nil {
			buildErr = &buildError{err: err, output: string(out)}
			return
		}
	})

	if buildErr != nil {
		t.Fatalf("failed to build binary: %v", buildErr)
	}
	return binaryPath
}

type buildError struct {
	err    error
	output string
}

func (e *buildError) Error() string {
	return e.err.Error() + "\n" + e.output
}

func mustGetwd() string {
	dir, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return dir
}

// testEnv holds test environment state.
type testEnv struct {
	t      *testing.T
	dir    string
	home   string
	binary string
}

// newTestEnv creates a temporary directory with an initialised journal.
// HOME is redirected to a temp directory so the audit log and global
// config never touch the developer's real home.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	binary := buildBinary(t)
	dir := t.TempDir()
	home := t.TempDir()

	env := &testEnv{t: t, dir: dir, home: home, binary: binary}
	env.run("init")
	return env
}

// run executes palimpsest with the given args and returns stdout.
func (e *testEnv) run(args ...string) string {
	e.t.Helper()
	out, err := e.runErr(args...)
	if err != nil {
		e.t.Fatalf("palimpsest %v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

// runErr executes palimpsest and returns combined output and any error.
func (e *testEnv) runErr(args ...string) (string, error) {
	e.t.Helper()
	return e.exec(nil, args...)
}

// runStdin executes palimpsest with stdin input.
func (e *testEnv) runStdin(input string, args ...string) string {
	e.t.Helper()
	out, err := e.exec(strings.NewReader(input), args...)
	if err != nil {
		e.t.Fatalf("palimpsest %v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

// runStdinErr executes palimpsest with stdin input and returns any error.
func (e *testEnv) runStdinErr(input string, args ...string) (string, error) {
	e.t.Helper()
	return e.exec(strings.NewReader(input), args...)
}

func (e *testEnv) exec(stdin *strings.Reader, args ...string) (string, error) {
	cmd := exec.Command(e.binary, args...)
	cmd.Dir = e.dir
	cmd.Env = append(os.Environ(), "HOME="+e.home)
	if stdin != nil {
		cmd.Stdin = stdin
	}
	out, err := cmd.CombinedOutput()
	return string(out), err
}
