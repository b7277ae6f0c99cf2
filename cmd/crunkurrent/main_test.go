package main

import (
	"flag"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/amonks/crunkurrent/config"
	"github.com/amonks/crunkurrent/supervisor"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setFlags overrides the parsed flag values for the duration of a test.
func setFlags(t *testing.T, cmds []string, configPath, only, shell, kill string) {
	t.Helper()
	oldCmds, oldConfig, oldOnly, oldShell, oldKill := fCmds, *fConfig, *fOnly, *fShell, *fKill
	t.Cleanup(func() {
		fCmds, *fConfig, *fOnly, *fShell, *fKill = oldCmds, oldConfig, oldOnly, oldShell, oldKill
	})
	fCmds, *fConfig, *fOnly, *fShell, *fKill = cmds, configPath, only, shell, kill
}

func TestCommandsFlag(t *testing.T) {
	var f commandsFlag
	require.NoError(t, f.Set("echo A"))
	require.NoError(t, f.Set("echo B"))
	assert.Equal(t, commandsFlag{"echo A", "echo B"}, f)
	assert.Equal(t, "echo A, echo B", f.String())
}

func TestLoadConfigFromFlags(t *testing.T) {
	setFlags(t, []string{"echo A", "echo B"}, "", "", "/bin/bash", "term")

	c, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, []config.Command{{CMD: "echo A"}, {CMD: "echo B"}}, c.Commands)
	opts, err := c.Options()
	require.NoError(t, err)
	assert.Equal(t, "/bin/bash", opts.Shell)
	assert.Equal(t, syscall.SIGTERM, opts.KillSignal)
}

func TestLoadConfigMergesFileAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.Filename)
	require.NoError(t, os.WriteFile(path, []byte(`
kill_signal = "INT"

[[command]]
name = "web"
cmd = "npm run dev"

[[command]]
name = "api"
cmd = "cd api && flask run"
`), 0o644))
	setFlags(t, []string{"echo extra"}, path, "web", "", "")

	c, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, []config.Command{
		{Name: "web", CMD: "npm run dev"},
		{CMD: "echo extra"},
	}, c.Commands)
	assert.Equal(t, "INT", c.KillSignal)
}

func TestLoadConfigReportsEmptyFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.Filename)
	require.NoError(t, os.WriteFile(path, []byte(`
[[command]]
name = "web"
cmd = "npm run dev"
`), 0o644))
	setFlags(t, nil, path, "api*", "", "")

	_, err := loadConfig()
	assert.ErrorIs(t, err, errNoMatch)
	assert.NotErrorIs(t, err, config.ErrNoCommands)
	assert.ErrorContains(t, err, `no commands matched: -only "api*" in `+path)
}

func TestLoadConfigReportsFilterWithoutFile(t *testing.T) {
	setFlags(t, nil, "", "web", "", "")

	_, err := loadConfig()
	assert.ErrorIs(t, err, errNoMatch)
	assert.NotErrorIs(t, err, config.ErrNoCommands)
}

func TestKillSignalUsageListsAcceptedSignals(t *testing.T) {
	usage := flag.Lookup("kill-signal").Usage
	assert.Contains(t, usage, "INT, TERM, KILL, HUP, or QUIT")
	for _, name := range config.SignalNames() {
		assert.Contains(t, usage, name)
		_, err := config.ParseSignal(name)
		assert.NoError(t, err)
	}
}

func TestOrList(t *testing.T) {
	assert.Equal(t, "", orList(nil))
	assert.Equal(t, "a", orList([]string{"a"}))
	assert.Equal(t, "a or b", orList([]string{"a", "b"}))
	assert.Equal(t, "a, b, or c", orList([]string{"a", "b", "c"}))
}

func TestLoadConfigWithNothingToRun(t *testing.T) {
	setFlags(t, nil, "", "", "", "")

	_, err := loadConfig()
	assert.ErrorIs(t, err, config.ErrNoCommands)
}

func TestLoadConfigRejectsBadSignal(t *testing.T) {
	setFlags(t, []string{"true"}, "", "", "", "USR9")

	_, err := loadConfig()
	assert.ErrorIs(t, err, config.ErrUnknownSignal)
}

func TestColorProfile(t *testing.T) {
	p, err := colorProfile("never")
	require.NoError(t, err)
	assert.Equal(t, termenv.Ascii, *p)

	p, err = colorProfile("always")
	require.NoError(t, err)
	assert.Equal(t, termenv.TrueColor, *p)

	_, err = colorProfile("sometimes")
	assert.Error(t, err)
}

func TestOptionsColorBy(t *testing.T) {
	old := *fColorBy
	t.Cleanup(func() { *fColorBy = old })
	c := config.Config{Commands: []config.Command{{CMD: "true"}}}

	*fColorBy = "index"
	opts, err := options(c)
	require.NoError(t, err)
	assert.Equal(t, supervisor.ColorByIndex, opts.ColorPolicy)

	*fColorBy = "rainbow"
	_, err = options(c)
	assert.Error(t, err)
}
