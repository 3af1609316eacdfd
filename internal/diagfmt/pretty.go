// Package diagfmt renders diagnostic bags for terminals and tools.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"scopebind/internal/diag"
	"scopebind/internal/source"
)

type palette struct {
	err, warn, info, code, path, note, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		path:   color.New(color.FgWhite, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.note, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty writes each diagnostic of bag (expected to be sorted) as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// optionally followed by the source line with a ^~~~ underline and the notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPalette(opts.Color)
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	for _, d := range items {
		pos, _ := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.path.Sprint(location(fs, d.Primary.File, pos)),
			p.severity(d.Severity).Sprint(d.Severity),
			p.code.Sprint(d.Code.ID()),
			d.Message)
		if opts.Context {
			writeContext(w, fs, d.Primary, p)
		}
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			npos, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), location(fs, n.Span.File, npos), n.Msg)
			if opts.Context {
				writeContext(w, fs, n.Span, p)
			}
		}
	}
}

func location(fs *source.FileSet, id source.FileID, pos source.LineCol) string {
	path := "<unknown>"
	if f := fs.Get(id); f != nil {
		path = f.Path
	}
	return fmt.Sprintf("%s:%d:%d", path, pos.Line, pos.Col)
}

func writeContext(w io.Writer, fs *source.FileSet, sp source.Span, p palette) {
	f := fs.Get(sp.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(sp)
	line := f.Line(start.Line)
	if line == "" {
		return
	}
	pad, width := underline(line, start, end)
	num := fmt.Sprint(start.Line)
	blank := strings.Repeat(" ", len(num))
	fmt.Fprintf(w, " %s %s %s\n", p.gutter.Sprint(num), p.gutter.Sprint("|"), line)
	fmt.Fprintf(w, " %s %s %s%s\n", blank, p.gutter.Sprint("|"), strings.Repeat(" ", pad),
		p.caret.Sprint("^"+strings.Repeat("~", width-1)))
}

// underline measures, in terminal cells, the indent before the span and its
// width on the first line. Spans running past the line are cut at its end.
func underline(line string, start, end source.LineCol) (pad, width int) {
	from := min(int(start.Col)-1, len(line))
	from = max(from, 0)
	to := len(line)
	if end.Line == start.Line {
		to = min(int(end.Col)-1, len(line))
	}
	to = max(to, from)
	pad = runewidth.StringWidth(line[:from])
	width = max(runewidth.StringWidth(line[from:to]), 1)
	return pad, width
}
