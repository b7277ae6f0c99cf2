package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"reflect"
	"strings"

	meta "github.com/amonks/crunkurrent"
	"github.com/amonks/crunkurrent/config"
	"github.com/amonks/crunkurrent/internal/cancel"
	"github.com/amonks/crunkurrent/internal/color"
	"github.com/amonks/crunkurrent/internal/debuglog"
	"github.com/amonks/crunkurrent/internal/mutex"
	"github.com/amonks/crunkurrent/internal/styles"
	"github.com/amonks/crunkurrent/printer"
	"github.com/amonks/crunkurrent/supervisor"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Exit statuses of crunkurrent itself, as opposed to the aggregate status of
// its children.
const (
	exitUsage  = 2
	exitConfig = supervisor.LaunchFailureStatus
)

var (
	fCmds     commandsFlag
	fConfig   = flag.String("config", "", "Load commands from the given TOML file. If no -cmd is given, '"+config.Filename+"' is loaded from the working directory when it exists.")
	fOnly     = flag.String("only", "", "Only run config-file commands whose name matches the given glob, like 'web*' or '{api,worker}'.")
	fShell    = flag.String("shell", "", "Interpret commands with the given shell. Defaults to /bin/sh.")
	fKill     = flag.String("kill-signal", "", "Signal sent to every child on interrupt: "+orList(config.SignalNames())+". Defaults to KILL.")
	fColor    = flag.String("color", "auto", "When to color output. Legal values are 'auto', 'always', and 'never'.")
	fColorBy  = flag.String("color-by", "command", "How to pick each process's color. 'command' keeps colors stable when commands are reordered; 'index' follows the order of the commands.")
	fList     = flag.Bool("list", false, "Display the commands that would run and exit.")
	fDebugLog = flag.String("debug-log", "", "Write a JSON debug log of supervision events to the given file.")
	fLocks    = flag.Bool("debug-locks", false, "Include lock tracing in the debug log.")

	fVersion = flag.Bool("version", false, "Display the version and exit.")
	fHelp    = flag.Bool("help", false, "Display the help text and exit.")
	fLicense = flag.Bool("license", false, "Display the license info and exit.")
)

func init() {
	flag.Var(&fCmds, "cmd", "Command to run. Use multiple times for concurrent processes.")
}

func main() {
	flag.Parse()

	if *fVersion {
		fmt.Println(versionText())
		os.Exit(0)
	} else if *fHelp {
		fmt.Println("\n" + helpText())
		os.Exit(0)
	} else if *fLicense {
		fmt.Println("\n" + licenseText())
		os.Exit(0)
	}

	if flag.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "Unexpected arguments: %s\n", strings.Join(flag.Args(), " "))
		fmt.Fprintf(os.Stderr, "Pass each command with -cmd, like: crunkurrent -cmd %q\n", strings.Join(flag.Args(), " "))
		os.Exit(exitUsage)
	}

	c, err := loadConfig()
	if errors.Is(err, config.ErrNoCommands) && *fConfig == "" {
		fmt.Fprintln(os.Stderr, helpText())
		os.Exit(exitUsage)
	} else if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading commands:")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitConfig)
	}

	if *fList {
		fmt.Print(commandListText(c))
		os.Exit(0)
	}

	opts, err := options(c)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}

	profile, err := colorProfile(*fColor)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}

	if *fDebugLog != "" {
		l, err := debuglog.New(debuglog.Config{OutputPaths: []string{*fDebugLog}})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening debug log: %s\n", err)
			os.Exit(exitUsage)
		}
		debuglog.Set(l)
		mutex.Trace = *fLocks
		opts.Logger = l
	}

	os.Exit(run(c, opts, printer.New(os.Stdout, os.Stderr, profile)))
}

func run(c config.Config, opts supervisor.Options, p *printer.Printer) int {
	defer debuglog.L().Sync()

	canceled := cancel.NewFlag()
	b := cancel.Listen(canceled)
	defer b.Stop()

	result := supervisor.New(p, opts).Run(context.Background(), canceled, c.LaunchSpecs())
	return result.Status
}

var errNoMatch = errors.New("no commands matched")

// loadConfig combines the config file, if there is one, with commands and
// settings given as flags. Flags win.
func loadConfig() (config.Config, error) {
	var c config.Config

	path := *fConfig
	if path == "" && len(fCmds) == 0 {
		if _, err := os.Stat(config.Filename); err == nil {
			path = config.Filename
		}
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		if c, err = loaded.Filter(*fOnly); err != nil {
			return config.Config{}, err
		}
		if *fOnly != "" && len(c.Commands) == 0 {
			return config.Config{}, fmt.Errorf("%w: -only %q in %s", errNoMatch, *fOnly, path)
		}
	} else if *fOnly != "" {
		return config.Config{}, fmt.Errorf("%w: -only %q needs a config file", errNoMatch, *fOnly)
	}

	for _, cmd := range fCmds {
		c.Commands = append(c.Commands, config.Command{CMD: cmd})
	}
	if *fShell != "" {
		c.Shell = *fShell
	}
	if *fKill != "" {
		c.KillSignal = *fKill
	}

	if err := c.Validate(); err != nil {
		return config.Config{}, err
	}
	return c, nil
}

func options(c config.Config) (supervisor.Options, error) {
	opts, err := c.Options()
	if err != nil {
		return supervisor.Options{}, err
	}
	switch *fColorBy {
	case "command":
		opts.ColorPolicy = supervisor.ColorByCommand
	case "index":
		opts.ColorPolicy = supervisor.ColorByIndex
	default:
		return supervisor.Options{}, errors.New("Invalid value for flag -color-by. Legal values are 'command' and 'index'.")
	}
	return opts, nil
}

// colorProfile returns nil for "auto", which lets each output stream detect
// its own profile.
func colorProfile(when string) (*termenv.Profile, error) {
	var p termenv.Profile
	switch when {
	case "auto":
		if !term.IsTerminal(int(os.Stdout.Fd())) && !term.IsTerminal(int(os.Stderr.Fd())) {
			p = termenv.Ascii
			return &p, nil
		}
		return nil, nil
	case "always":
		p = termenv.TrueColor
		return &p, nil
	case "never":
		p = termenv.Ascii
		return &p, nil
	}
	return nil, errors.New("Invalid value for flag -color. Legal values are 'auto', 'always', and 'never'.")
}

// orList joins words as "a, b, or c".
func orList(words []string) string {
	switch len(words) {
	case 0:
		return ""
	case 1:
		return words[0]
	case 2:
		return words[0] + " or " + words[1]
	}
	return strings.Join(words[:len(words)-1], ", ") + ", or " + words[len(words)-1]
}

// commandsFlag collects every use of a repeated string flag.
type commandsFlag []string

func (f *commandsFlag) String() string {
	if f == nil {
		return ""
	}
	return strings.Join(*f, ", ")
}

func (f *commandsFlag) Set(s string) error {
	*f = append(*f, s)
	return nil
}

var headerStyle = styles.Header(lipgloss.DefaultRenderer())

func commandListText(c config.Config) string {
	b := &strings.Builder{}
	fmt.Fprintln(b, headerStyle.Render("COMMANDS"))
	for i, cmd := range c.Commands {
		col := color.Assign(cmd.CMD)
		if *fColorBy == "index" {
			col = color.ForIndex(i)
		}
		label := cmd.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i)
		}
		fmt.Fprintf(b, "  %s\n", lipgloss.NewStyle().Foreground(col).Render(label))
		fmt.Fprintf(b, "    Command: %s\n", cmd.CMD)
		if cmd.Dir != "" {
			fmt.Fprintf(b, "    Dir: %s\n", cmd.Dir)
		}
		if len(cmd.Env) != 0 {
			fmt.Fprintf(b, "    Env:\n")
			for k, v := range cmd.Env {
				fmt.Fprintf(b, "      %s=%s\n", k, v)
			}
		}
	}
	return b.String()
}

func init() {
	flag.Usage = func() {
		w := flag.CommandLine.Output()
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, usageText())
		fmt.Fprintln(w, flagText())
	}
}

// wrapWidth is the width help text is wrapped to: the terminal's, if
// stdout is one, capped so paragraphs stay readable.
func wrapWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || w > 80 {
		return 80
	}
	return w
}

func helpText() string {
	width := wrapWidth()
	b := &strings.Builder{}
	b.WriteString(wordwrap.String("Crunkurrent runs several commands at once, prefixing every line of their output with a colored process id. Ctrl-C kills them all. It exits with the largest exit status of any command.", width-2) + "\n")
	b.WriteString("\n")
	b.WriteString(usageText())
	b.WriteString("\n")
	b.WriteString(flagText())
	b.WriteString("\n")
	b.WriteString(versionText())
	return b.String()
}

func usageText() string {
	b := &strings.Builder{}
	fmt.Fprintln(b, headerStyle.Render("USAGE"))
	b.WriteString("  crunkurrent -cmd \"npm run dev\" -cmd \"cd api && flask run\"\n")
	b.WriteString("  crunkurrent [-config crunkurrent.toml] [-only <glob>]\n")
	return b.String()
}

func flagText() string {
	var b strings.Builder
	fmt.Fprintln(&b, headerStyle.Render("FLAGS"))

	width := wrapWidth()
	f := flag.CommandLine

	f.VisitAll(func(f *flag.Flag) {
		fmt.Fprintf(&b, "  -%s", f.Name) // Two spaces before -; see next two comments.
		name, usage := flag.UnquoteUsage(f)
		if len(name) > 0 {
			b.WriteString("=")
			b.WriteString(name)
		}
		// Print the default value only if it differs to the zero value
		// for this flag type.
		if isZero := isZeroValue(f, f.DefValue); !isZero {
			fmt.Fprintf(&b, " (default %q)", f.DefValue)
		}
		b.WriteString("\n")

		usage = strings.ReplaceAll(usage, "\n", "\n    \t")
		usage = wordwrap.String(usage, width-8)
		usage = indent.String(usage, 8)
		b.WriteString(usage)

		b.WriteString("\n")
	})
	return b.String()
}

// isZeroValue determines whether the string represents the zero
// value for a flag.
func isZeroValue(f *flag.Flag, value string) (ok bool) {
	// Build a zero value of the flag's Value type, and see if the
	// result of calling its String method equals the value passed in.
	// This works unless the Value type is itself an interface type.
	typ := reflect.TypeOf(f.Value)
	var z reflect.Value
	if typ.Kind() == reflect.Pointer {
		z = reflect.New(typ.Elem())
	} else {
		z = reflect.Zero(typ)
	}
	return value == z.Interface().(flag.Value).String()
}

func versionText() string {
	b := &strings.Builder{}
	fmt.Fprintln(b, headerStyle.Render("VERSION"))
	fmt.Fprintln(b, "  Version:", meta.Version)
	if meta.Revision != "unknown" {
		if meta.DirtyBuild {
			fmt.Fprintln(b, "  Dirty Build")
			fmt.Fprintln(b, "  Last commit:", meta.ReleaseDate)
		} else {
			fmt.Fprintln(b, "  Revision:", meta.Revision)
			fmt.Fprintln(b, "  Committed:", meta.ReleaseDate)
		}
	}
	return b.String()
}

func licenseText() string {
	b := &strings.Builder{}
	fmt.Fprintln(b, headerStyle.Render("LICENSE"))
	b.WriteString(indent.String(wordwrap.String(meta.License, 70), 2) + "\n")
	return b.String()
}
