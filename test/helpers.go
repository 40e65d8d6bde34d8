package test

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// TestEnv sets up an isolated syrupy environment per test.
// Each test gets its own SYRUPY_HOME so a user config file never leaks in.
type TestEnv struct {
	T          *testing.T
	Home       string
	Dir        string
	SyrupyBin  string
	TestappBin string
}

// NewTestEnv creates an isolated test environment. It skips the test when
// the binaries have not been built.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	syrupyBin := filepath.Join(BinDir(), "syrupy")
	testappBin := filepath.Join(BinDir(), "testapp")
	requireFile(t, syrupyBin, "run: go build -o test/bin/syrupy ./cmd/syrupy/")
	requireFile(t, testappBin, "run: go build -o test/bin/testapp ./test/testapp/")

	return &TestEnv{
		T:          t,
		Home:       t.TempDir(),
		Dir:        t.TempDir(),
		SyrupyBin:  syrupyBin,
		TestappBin: testappBin,
	}
}

// BinDir returns the path to the test binary directory.
func BinDir() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "bin")
}

// Command prepares a syrupy invocation without starting it.
func (e *TestEnv) Command(args ...string) *exec.Cmd {
	cmd := exec.Command(e.SyrupyBin, args...)
	cmd.Env = append(os.Environ(), "SYRUPY_HOME="+e.Home)
	cmd.Dir = e.Dir
	return cmd
}

// Syrupy runs a syrupy command and returns stdout, stderr, exit code.
func (e *TestEnv) Syrupy(args ...string) (stdout, stderr string, exitCode int) {
	cmd := e.Command(args...)
	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err := cmd.Run()
	return outBuf.String(), errBuf.String(), exitCodeOf(err)
}

// MustSyrupy runs syrupy and fails the test if exit code != 0.
func (e *TestEnv) MustSyrupy(args ...string) (stdout, stderr string) {
	e.T.Helper()
	stdout, stderr, code := e.Syrupy(args...)
	if code != 0 {
		e.T.Fatalf("syrupy %v failed (exit %d):\nstdout: %s\nstderr: %s",
			args, code, stdout, stderr)
	}
	return stdout, stderr
}

// WriteConfig writes syrupy.config.json into the test home.
func (e *TestEnv) WriteConfig(config interface{}) {
	e.T.Helper()
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		e.T.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(e.Home, "syrupy.config.json"), data, 0644); err != nil {
		e.T.Fatalf("write config: %v", err)
	}
}

// Path returns name inside the test's working directory.
func (e *TestEnv) Path(name string) string { return filepath.Join(e.Dir, name) }

// ReadFile returns the content of a file in the working directory.
func (e *TestEnv) ReadFile(name string) string {
	e.T.Helper()
	data, err := os.ReadFile(e.Path(name))
	if err != nil {
		e.T.Fatalf("read %s: %v", name, err)
	}
	return string(data)
}

// Lines splits output into non-empty lines.
func Lines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

func exitCodeOf(err error) int {
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	} else if err != nil {
		return -1
	}
	return 0
}

func requireFile(t *testing.T, path, hint string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skipf("required file not found: %s\nHint: %s", path, hint)
	}
}
