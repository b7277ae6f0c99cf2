package printer_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/amonks/crunkurrent/internal/ansi"
	"github.com/amonks/crunkurrent/printer"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func newTestPrinter() (*printer.Printer, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	ascii := termenv.Ascii
	return printer.New(&stdout, &stderr, &ascii), &stdout, &stderr
}

func TestStreamsGoToTheirWriters(t *testing.T) {
	p, stdout, stderr := newTestPrinter()
	key := printer.Key{ID: "1234", Color: lipgloss.Color("#FF5954")}

	p.Stdout(key, "out")
	p.Stderr(key, "err")

	assert.Equal(t, "1234     │ out\n", ansi.Strip(stdout.String()))
	assert.Equal(t, "1234     │ err\n", ansi.Strip(stderr.String()))
}

func TestMetaGoesToStderr(t *testing.T) {
	p, stdout, stderr := newTestPrinter()
	key := printer.Key{ID: "web"}

	p.Meta(key, "started '%s'", "npm run dev")
	p.MetaError(key, "failed to start: %s", "boom")
	p.Notice("interrupt received")

	assert.Equal(t, "", stdout.String())
	assert.Equal(t, strings.Join([]string{
		"web      ├ [started 'npm run dev']",
		"web      ├ [failed to start: boom]",
		"         ├ [interrupt received]",
		"",
	}, "\n"), ansi.Strip(stderr.String()))
}

func TestGutterWidth(t *testing.T) {
	p, stdout, _ := newTestPrinter()
	p.SetGutterWidth(2)

	p.Stdout(printer.Key{ID: "a"}, "x")
	p.Stdout(printer.Key{ID: "longer-than-gutter"}, "y")

	assert.Equal(t, "a  │ x\nlonger-than-gutter │ y\n", ansi.Strip(stdout.String()))
}

func TestEmptyLinesAreForwarded(t *testing.T) {
	p, stdout, _ := newTestPrinter()

	p.Stdout(printer.Key{ID: "1"}, "")

	assert.Equal(t, "1        │ \n", ansi.Strip(stdout.String()))
}
