// Package console writes operator-facing status lines and builds the diagnostic logger.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// Printer writes glyph-prefixed status lines. A nil Printer discards everything.
type Printer struct {
	w       io.Writer
	colored bool

	ok, warn, bad, info, head *color.Color
}

// New returns a Printer writing to w. Colors are used only when w is the process
// stdout or stderr and the terminal supports them.
func New(w io.Writer) *Printer {
	p := &Printer{
		w:    w,
		ok:   color.New(color.FgGreen),
		warn: color.New(color.FgYellow),
		bad:  color.New(color.FgRed),
		info: color.New(color.FgCyan),
		head: color.New(color.FgYellow, color.Bold),
	}
	if f, isFile := w.(*os.File); isFile && (f == os.Stdout || f == os.Stderr) {
		p.colored = !color.NoColor
	}
	if !p.colored {
		for _, c := range []*color.Color{p.ok, p.warn, p.bad, p.info, p.head} {
			c.DisableColor()
		}
	}
	return p
}

// Writer exposes the underlying destination, for tables rendered alongside status lines.
func (p *Printer) Writer() io.Writer {
	if p == nil {
		return io.Discard
	}
	return p.w
}

func (p *Printer) line(c *color.Color, glyph, format string, args ...any) {
	if p == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	_, _ = c.Fprintf(p.w, "%s %s\n", glyph, msg)
}

func (p *Printer) Success(format string, args ...any) {
	if p != nil {
		p.line(p.ok, "✓", format, args...)
	}
}

func (p *Printer) Warn(format string, args ...any) {
	if p != nil {
		p.line(p.warn, "⚠", format, args...)
	}
}

func (p *Printer) Error(format string, args ...any) {
	if p != nil {
		p.line(p.bad, "✗", format, args...)
	}
}

func (p *Printer) Info(format string, args ...any) {
	if p != nil {
		p.line(p.info, "ℹ", format, args...)
	}
}

// Heading prints a blank line followed by a section title.
func (p *Printer) Heading(title string) {
	if p == nil {
		return
	}
	_, _ = fmt.Fprintln(p.w)
	_, _ = p.head.Fprintf(p.w, "--- %s ---\n", title)
}

// Plain prints an unadorned line.
func (p *Printer) Plain(format string, args ...any) {
	if p == nil {
		return
	}
	_, _ = fmt.Fprintf(p.w, format+"\n", args...)
}

// NewLogger builds the diagnostics logger. Debug traces are emitted only when debug is set.
func NewLogger(w io.Writer, debug bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetLevel(logrus.InfoLevel)
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// Quiet returns a logger that drops everything; handy as a default dependency.
func Quiet() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
