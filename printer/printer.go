// Package printer renders multiplexed process output. Every line it writes
// starts with a colored, padded process identifier followed by a separator:
// "│" for lines forwarded from a child, and "├" for metadata about the child
// (start and exit notices and the like).
package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/amonks/crunkurrent/internal/mutex"
	"github.com/amonks/crunkurrent/internal/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const (
	OutputSeparator = "│"
	MetaSeparator   = "├"
)

// Key is how a process is labeled in the gutter.
type Key struct {
	ID    string
	Color lipgloss.TerminalColor
}

type Printer struct {
	mu          *mutex.Mutex
	gutterWidth int

	stdout   io.Writer
	stderr   io.Writer
	outStyle renderer
	errStyle renderer
}

type renderer struct {
	r         *lipgloss.Renderer
	log       lipgloss.Style
	error     lipgloss.Style
	separator lipgloss.Style
}

func newRenderer(w io.Writer, profile *termenv.Profile) renderer {
	r := lipgloss.NewRenderer(w)
	if profile != nil {
		r.SetColorProfile(*profile)
	}
	return renderer{
		r:         r,
		log:       styles.Log(r),
		error:     styles.Error(r),
		separator: styles.Separator(r),
	}
}

// New creates a Printer. If profile is nil, the color profile of each stream
// is detected separately, so piping stdout to a file doesn't strip colors
// from a terminal stderr.
func New(stdout, stderr io.Writer, profile *termenv.Profile) *Printer {
	return &Printer{
		mu:          mutex.New("printer"),
		gutterWidth: 8,
		stdout:      stdout,
		stderr:      stderr,
		outStyle:    newRenderer(stdout, profile),
		errStyle:    newRenderer(stderr, profile),
	}
}

// SetGutterWidth sets the minimum width identifiers are padded to.
func (p *Printer) SetGutterWidth(width int) {
	defer p.mu.Lock("SetGutterWidth").Unlock()

	p.gutterWidth = width
}

// Stdout forwards one line of a child's standard output.
func (p *Printer) Stdout(key Key, line string) {
	defer p.mu.Lock("Stdout").Unlock()

	p.write(p.stdout, p.outStyle, key, OutputSeparator, line)
}

// Stderr forwards one line of a child's standard error.
func (p *Printer) Stderr(key Key, line string) {
	defer p.mu.Lock("Stderr").Unlock()

	p.write(p.stderr, p.errStyle, key, OutputSeparator, line)
}

// Meta writes a bracketed notice about a process to stderr.
func (p *Printer) Meta(key Key, format string, args ...interface{}) {
	defer p.mu.Lock("Meta").Unlock()

	msg := p.errStyle.log.Render("[" + fmt.Sprintf(format, args...) + "]")
	p.write(p.stderr, p.errStyle, key, MetaSeparator, msg)
}

// MetaError is like Meta, but styled as a failure.
func (p *Printer) MetaError(key Key, format string, args ...interface{}) {
	defer p.mu.Lock("MetaError").Unlock()

	msg := p.errStyle.error.Render("[" + fmt.Sprintf(format, args...) + "]")
	p.write(p.stderr, p.errStyle, key, MetaSeparator, msg)
}

// Notice writes a notice that isn't about any one process to stderr.
func (p *Printer) Notice(format string, args ...interface{}) {
	defer p.mu.Lock("Notice").Unlock()

	msg := p.errStyle.log.Render("[" + fmt.Sprintf(format, args...) + "]")
	p.write(p.stderr, p.errStyle, Key{}, MetaSeparator, msg)
}

func (p *Printer) write(w io.Writer, r renderer, key Key, sep, line string) {
	if w == nil {
		panic("nil writer in printer")
	}

	id := key.ID
	if pad := p.gutterWidth - lipgloss.Width(id); pad > 0 {
		id += strings.Repeat(" ", pad)
	}
	if key.Color != nil {
		id = styles.Tag(r.r, key.Color).Render(id)
	}
	fmt.Fprintln(w, id+" "+r.separator.Render(sep)+" "+line)
}
