//go:build !windows

package launcher

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLaunch_ExitCode(t *testing.T) {
	c, err := Launch([]string{"sh", "-c", "exit 3"}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if c.PID() <= 0 {
		t.Errorf("PID() = %d, want > 0", c.PID())
	}
	code, err := c.Wait()
	if err != nil {
		t.Fatal(err)
	}
	if code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
	if !c.Exited() {
		t.Error("Exited() should be true after Wait")
	}
}

func TestLaunch_NoShellInterpretation(t *testing.T) {
	var out bytes.Buffer
	c, err := Launch([]string{"echo", "a  b", "$HOME", "*"}, Options{Stdout: &out})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Wait(); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "a  b $HOME *\n" {
		t.Errorf("stdout = %q, want arguments passed literally", got)
	}
}

func TestLaunch_NotFound(t *testing.T) {
	_, err := Launch([]string{"definitely-not-a-real-binary-xyz"}, Options{})
	var le *LaunchError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LaunchError, got %v", err)
	}
	if le.Argv[0] != "definitely-not-a-real-binary-xyz" {
		t.Errorf("Argv = %v", le.Argv)
	}

	if _, err := Launch(nil, Options{}); !errors.As(err, &le) {
		t.Errorf("empty argv: expected *LaunchError, got %v", err)
	}
}

func TestLaunch_ExitedIsNonBlocking(t *testing.T) {
	c, err := Launch([]string{"sleep", "0.3"}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if c.Exited() {
		t.Error("child should still be running")
	}
	select {
	case <-c.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("child did not exit")
	}
	if !c.Exited() {
		t.Error("Exited() should be true once Done is closed")
	}
}

func TestLaunch_RedirectToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "child.out")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	c, err := Launch([]string{"sh", "-c", "echo out; echo err 1>&2"}, Options{Stdout: f})
	if err != nil {
		t.Fatal(err)
	}
	c.Wait()
	f.Close()

	data, _ := os.ReadFile(path)
	if string(data) != "out\n" {
		t.Errorf("file = %q, want only stdout", data)
	}
}

func TestLaunch_TypedNilFileDiscards(t *testing.T) {
	var f *os.File
	c, err := Launch([]string{"echo", "hi"}, Options{Stdout: f})
	if err != nil {
		t.Fatal(err)
	}
	if code, _ := c.Wait(); code != 0 {
		t.Errorf("exit code = %d", code)
	}
}

func TestInterrupt(t *testing.T) {
	c, err := Launch([]string{"sleep", "10"}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Interrupt(); err != nil {
		t.Fatal(err)
	}
	select {
	case <-c.Done():
	case <-time.After(5 * time.Second):
		c.Kill()
		t.Fatal("child ignored interrupt")
	}
	if err := c.Interrupt(); err != nil {
		t.Errorf("Interrupt after exit = %v", err)
	}
}
