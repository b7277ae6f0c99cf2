package child_test

import (
	"io"
	"syscall"
	"testing"
	"time"

	"github.com/amonks/crunkurrent/internal/child"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run starts spec, reads both streams to EOF, and waits.
func run(t *testing.T, spec child.Spec) (string, string, child.Exit) {
	t.Helper()

	c, err := child.Start(spec)
	require.NoError(t, err)

	stdout, stderr := make(chan string), make(chan string)
	go func() { bs, _ := io.ReadAll(c.Stdout); c.Stdout.Close(); stdout <- string(bs) }()
	go func() { bs, _ := io.ReadAll(c.Stderr); c.Stderr.Close(); stderr <- string(bs) }()

	exit, err := c.Wait()
	require.NoError(t, err)
	return <-stdout, <-stderr, exit
}

func TestHappyPath(t *testing.T) {
	stdout, stderr, exit := run(t, child.Spec{Text: "echo hello\n>&2 echo world"})

	assert.Equal(t, child.Exit{Code: 0}, exit)
	assert.Equal(t, "hello\n", stdout)
	assert.Equal(t, "world\n", stderr)
}

func TestShellOperators(t *testing.T) {
	stdout, _, exit := run(t, child.Spec{Text: "cd / && pwd | tr / x"})

	assert.Equal(t, 0, exit.Code)
	assert.Equal(t, "x\n", stdout)
}

func TestDir(t *testing.T) {
	stdout, stderr, exit := run(t, child.Spec{Dir: "/", Text: "pwd"})

	assert.Equal(t, 0, exit.Code)
	assert.Equal(t, "/\n", stdout)
	assert.Equal(t, "", stderr)
}

func TestEnv(t *testing.T) {
	stdout, stderr, _ := run(t, child.Spec{
		Env:  map[string]string{"FOO": "BAR"},
		Text: "echo $FOO\n>&2 echo $PATH",
	})

	assert.Equal(t, "BAR\n", stdout)
	assert.Greater(t, len(stderr), 1)
}

func TestStdinIsEmpty(t *testing.T) {
	stdout, _, exit := run(t, child.Spec{Text: "cat; echo done"})

	assert.Equal(t, 0, exit.Code)
	assert.Equal(t, "done\n", stdout)
}

func TestExitCode(t *testing.T) {
	stdout, stderr, exit := run(t, child.Spec{Text: "exit 3"})

	assert.Equal(t, child.Exit{Code: 3}, exit)
	assert.Equal(t, "exited with status 3", exit.String())
	assert.Equal(t, "", stdout)
	assert.Equal(t, "", stderr)
}

func TestKill(t *testing.T) {
	c, err := child.Start(child.Spec{Text: "sleep 100"})
	require.NoError(t, err)
	assert.Greater(t, c.Pid(), 0)

	exits := make(chan child.Exit)
	go func() {
		io.Copy(io.Discard, c.Stdout)
		io.Copy(io.Discard, c.Stderr)
		exit, _ := c.Wait()
		exits <- exit
	}()

	// wait enough time for the script to start
	time.Sleep(10 * time.Millisecond)
	assert.NoError(t, c.Kill(syscall.SIGKILL))

	select {
	case <-time.After(time.Second):
		t.Fatalf("child did not exit after SIGKILL")
	case exit := <-exits:
		assert.True(t, exit.Signaled)
		assert.Equal(t, syscall.SIGKILL, exit.Signal)
		assert.Equal(t, "killed by signal 9 (killed)", exit.String())
	}

	// Killing an exited child is a no-op.
	assert.NoError(t, c.Kill(syscall.SIGKILL))
}

func TestKillAfterWaitReachesBackgroundJobs(t *testing.T) {
	c, err := child.Start(child.Spec{Text: "sleep 100 & echo started"})
	require.NoError(t, err)

	// The interpreter exits right away, but sleep holds both pipes open.
	exit, err := c.Wait()
	require.NoError(t, err)
	assert.Equal(t, child.Exit{Code: 0}, exit)

	eof := make(chan string)
	go func() {
		bs, _ := io.ReadAll(c.Stdout)
		io.Copy(io.Discard, c.Stderr)
		eof <- string(bs)
	}()

	assert.NoError(t, c.Kill(syscall.SIGKILL))

	select {
	case <-time.After(2 * time.Second):
		t.Fatalf("background job survived killing the group")
	case out := <-eof:
		assert.Equal(t, "started\n", out)
	}
}

func TestMissingShell(t *testing.T) {
	_, err := child.Start(child.Spec{Shell: "/definitely/not/a/shell", Text: "true"})

	assert.ErrorIs(t, err, child.ErrNoShell)
}
