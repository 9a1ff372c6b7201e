package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Color palette shared with the setup form
var (
	ColorPrimary   = lipgloss.Color("#7C3AED") // Purple - source text
	ColorSecondary = lipgloss.Color("#06B6D4") // Cyan - translation
	ColorWarning   = lipgloss.Color("#F59E0B") // Amber
	ColorMuted     = lipgloss.Color("#94A3B8") // Slate gray
)

const partialPrefix = "(parcial) "

// Printer writes user-facing output. Colors are only emitted when the
// writer is a color-capable terminal.
type Printer struct {
	mu  sync.Mutex
	w   io.Writer
	out *termenv.Output
	tty bool

	partialShown bool

	header  lipgloss.Style
	source  lipgloss.Style
	target  lipgloss.Style
	partial lipgloss.Style
	warn    lipgloss.Style
	muted   lipgloss.Style
}

func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:       w,
		out:     termenv.NewOutput(w),
		tty:     isTerminal(w),
		header:  r.NewStyle().Bold(true).Foreground(ColorPrimary),
		source:  r.NewStyle().Foreground(ColorPrimary),
		target:  r.NewStyle().Bold(true).Foreground(ColorSecondary),
		partial: r.NewStyle().Italic(true).Foreground(ColorMuted),
		warn:    r.NewStyle().Foreground(ColorWarning),
		muted:   r.NewStyle().Foreground(ColorMuted),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// Banner prints the session title followed by hint lines
func (p *Printer) Banner(title string, hints ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.endPartialLocked()
	fmt.Fprintln(p.w, p.header.Render(title))
	for _, h := range hints {
		fmt.Fprintln(p.w, p.muted.Render(h))
	}
	fmt.Fprintln(p.w)
}

// Utterance prints a source line, its translation and a blank separator
func (p *Printer) Utterance(srcTag, src, dstTag, dst string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.endPartialLocked()
	fmt.Fprintln(p.w, p.source.Render(fmt.Sprintf("[%s] %s", srcTag, src)))
	fmt.Fprintln(p.w, p.target.Render(fmt.Sprintf("[%s] %s", dstTag, dst)))
	fmt.Fprintln(p.w)
}

// Partial rewrites the current line with an in-progress hypothesis
func (p *Printer) Partial(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.tty {
		p.out.ClearLine()
	}
	fmt.Fprint(p.w, "\r"+p.partial.Render(partialPrefix+singleLine(text)))
	p.partialShown = true
}

func (p *Printer) Info(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.endPartialLocked()
	fmt.Fprintln(p.w, fmt.Sprintf(format, args...))
}

func (p *Printer) Warn(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.endPartialLocked()
	fmt.Fprintln(p.w, p.warn.Render("[aviso] "+fmt.Sprintf(format, args...)))
}

// endPartialLocked moves off an inline partial line before regular output
func (p *Printer) endPartialLocked() {
	if !p.partialShown {
		return
	}
	p.partialShown = false
	if p.tty {
		p.out.ClearLine()
		fmt.Fprint(p.w, "\r")
		return
	}
	fmt.Fprintln(p.w)
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
