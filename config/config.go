// Package config loads crunkurrent.toml files, which let a project check in
// the set of commands it runs together.
//
//	shell = "/bin/bash"
//	kill_signal = "TERM"
//
//	[[command]]
//	name = "web"
//	cmd  = "npm run dev"
//	dir  = "frontend"
//	env  = { PORT = "3000" }
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/BurntSushi/toml"
	"github.com/amonks/crunkurrent/supervisor"
	"github.com/gobwas/glob"
)

// Filename is the config file looked for when none is given.
const Filename = "crunkurrent.toml"

var (
	ErrNoCommands    = errors.New("no commands given")
	ErrEmptyCommand  = errors.New("command has no cmd")
	ErrDuplicateName = errors.New("duplicate command name")
	ErrUnknownSignal = errors.New("unknown kill signal")
)

// Config defines the type of crunkurrent.toml files. You can load one from
// disk, or build one from flags.
type Config struct {
	Shell      string    `toml:"shell"`
	KillSignal string    `toml:"kill_signal"`
	Commands   []Command `toml:"command"`
}

type Command struct {
	Name string            `toml:"name"`
	CMD  string            `toml:"cmd"`
	Dir  string            `toml:"dir"`
	Env  map[string]string `toml:"env"`
}

// Load reads and parses the config file at path. Relative command dirs are
// resolved against the directory containing the file.
func Load(path string) (Config, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var c Config
	md, err := toml.Decode(string(bs), &c)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	base := filepath.Dir(path)
	for i, cmd := range c.Commands {
		if cmd.Dir != "" && !filepath.IsAbs(cmd.Dir) {
			c.Commands[i].Dir = filepath.Join(base, cmd.Dir)
		}
	}
	return c, nil
}

// Validate reports every problem with c at once.
func (c Config) Validate() error {
	var errs []error
	if len(c.Commands) == 0 {
		errs = append(errs, ErrNoCommands)
	}
	if c.KillSignal != "" {
		if _, err := ParseSignal(c.KillSignal); err != nil {
			errs = append(errs, err)
		}
	}
	names := map[string]bool{}
	for i, cmd := range c.Commands {
		if strings.TrimSpace(cmd.CMD) == "" {
			errs = append(errs, fmt.Errorf("command %d: %w", i+1, ErrEmptyCommand))
		}
		if cmd.Name == "" {
			continue
		}
		if names[cmd.Name] {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateName, cmd.Name))
		}
		names[cmd.Name] = true
	}
	return errors.Join(errs...)
}

// Filter keeps only the named commands matching pattern. An empty pattern
// keeps everything; a non-empty pattern never matches an unnamed command.
func (c Config) Filter(pattern string) (Config, error) {
	if pattern == "" {
		return c, nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return Config{}, fmt.Errorf("bad filter %q: %w", pattern, err)
	}
	var kept []Command
	for _, cmd := range c.Commands {
		if cmd.Name != "" && g.Match(cmd.Name) {
			kept = append(kept, cmd)
		}
	}
	c.Commands = kept
	return c, nil
}

// LaunchSpecs converts the commands, in order, into supervisor input.
func (c Config) LaunchSpecs() []supervisor.LaunchSpec {
	specs := make([]supervisor.LaunchSpec, len(c.Commands))
	for i, cmd := range c.Commands {
		specs[i] = supervisor.LaunchSpec{
			Index:   i,
			Command: cmd.CMD,
			Name:    cmd.Name,
			Dir:     cmd.Dir,
			Env:     cmd.Env,
		}
	}
	return specs
}

// Options converts the file-level settings into supervisor options.
func (c Config) Options() (supervisor.Options, error) {
	opts := supervisor.Options{Shell: c.Shell}
	if c.KillSignal != "" {
		sig, err := ParseSignal(c.KillSignal)
		if err != nil {
			return supervisor.Options{}, err
		}
		opts.KillSignal = sig
	}
	return opts, nil
}

var signals = map[string]syscall.Signal{
	"INT":  syscall.SIGINT,
	"TERM": syscall.SIGTERM,
	"KILL": syscall.SIGKILL,
	"HUP":  syscall.SIGHUP,
	"QUIT": syscall.SIGQUIT,
}

var signalNames = []string{"INT", "TERM", "KILL", "HUP", "QUIT"}

// SignalNames lists the names ParseSignal accepts, without the SIG prefix.
func SignalNames() []string {
	return append([]string(nil), signalNames...)
}

// ParseSignal accepts a signal name with or without the SIG prefix, in any
// case: "TERM", "sigterm", and "SIGTERM" are all SIGTERM.
func ParseSignal(name string) (syscall.Signal, error) {
	key := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(name)), "SIG")
	if sig, ok := signals[key]; ok {
		return sig, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSignal, name)
}
