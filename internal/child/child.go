// Package child starts a single shell command as a subprocess with its
// output captured, and offers a small API for killing it and collecting its
// exit status.
package child

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"syscall"
)

// DefaultShell is used when a Spec does not name an interpreter.
const DefaultShell = "/bin/sh"

// ErrNoShell is returned by Start when the command interpreter cannot be
// found or is not executable.
var ErrNoShell = errors.New("command interpreter not found")

// Spec describes a command to start. It is evaluated by Shell, so shell
// syntax like `cd api && make`, pipes, and redirects all work. Effectively,
// starting a Spec is equivalent to
//
//	$ cd $DIR && $ENV $SHELL -c "$TEXT" </dev/null
type Spec struct {
	Shell string
	Dir   string
	Env   map[string]string
	Text  string
}

// Child is a running (or finished) subprocess. Stdout and Stderr are the
// read ends of the child's output pipes; the caller owns them and should
// read each to EOF and then close it. Wait may be called concurrently with
// reading.
type Child struct {
	Stdout io.ReadCloser
	Stderr io.ReadCloser

	cmd *exec.Cmd
}

// Exit describes how a child terminated. Code is only meaningful when
// Signaled is false, and Signal only when it is true.
type Exit struct {
	Code     int
	Signaled bool
	Signal   syscall.Signal
}

func (e Exit) String() string {
	if e.Signaled {
		return fmt.Sprintf("killed by signal %d (%s)", int(e.Signal), e.Signal)
	}
	return fmt.Sprintf("exited with status %d", e.Code)
}

// Start launches s. The child runs in its own process group with
// stdin connected to /dev/null.
func Start(s Spec) (*Child, error) {
	shell := s.Shell
	if shell == "" {
		shell = DefaultShell
	}
	shellPath, err := exec.LookPath(shell)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoShell, err)
	}

	// We make our own pipes rather than using cmd.StdoutPipe so that
	// cmd.Wait doesn't close the read ends out from under a reader that
	// hasn't reached EOF yet.
	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		stdoutR.Close()
		stdoutW.Close()
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	cmd := exec.Command(shellPath, "-c", s.Text)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Dir = s.Dir
	cmd.Env = append(os.Environ(), environ(s.Env)...)
	cmd.Stdin = nil
	cmd.Stdout = stdoutW
	cmd.Stderr = stderrW

	err = cmd.Start()

	// The child has its own copies of the write ends now. Ours must be
	// closed or the readers would never see EOF.
	stdoutW.Close()
	stderrW.Close()

	if err != nil {
		stdoutR.Close()
		stderrR.Close()
		return nil, fmt.Errorf("start %s: %w", shellPath, err)
	}

	return &Child{
		Stdout: stdoutR,
		Stderr: stderrR,
		cmd:    cmd,
	}, nil
}

// Pid is the process id of the interpreter. Since the child leads its own
// process group, it is also the process group id.
func (c *Child) Pid() int {
	return c.cmd.Process.Pid
}

// Kill sends sig to the child's whole process group. It does not wait for
// the child to die; use Wait for that. Killing a child that has already
// exited is not an error.
func (c *Child) Kill(sig syscall.Signal) error {
	// The group outlives the interpreter while any member is alive, and
	// its id can't be reused until then, so this is safe after Wait.
	if err := syscall.Kill(-c.cmd.Process.Pid, sig); err != nil && !errors.Is(err, syscall.ESRCH) {
		return fmt.Errorf("kill %d: %w", c.cmd.Process.Pid, err)
	}
	return nil
}

// Wait blocks until the interpreter exits and reports how it exited. A
// non-zero exit status is not an error. Wait must be called exactly once.
func (c *Child) Wait() (Exit, error) {
	err := c.cmd.Wait()

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return Exit{}, fmt.Errorf("wait %d: %w", c.cmd.Process.Pid, err)
	}
	return exitFromState(c.cmd.ProcessState), nil
}

func exitFromState(state *os.ProcessState) Exit {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return Exit{Signaled: true, Signal: ws.Signal()}
	}
	return Exit{Code: state.ExitCode()}
}

func environ(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = fmt.Sprintf(`%s=%s`, k, env[k])
	}
	return out
}
