package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"sil/internal/diag"
	"sil/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	noteColor    = color.New(color.FgBlue)
	gutterColor  = color.New(color.FgHiBlack)
)

// Pretty renders the bag in a human-readable form. The bag is expected
// to be sorted already. Each diagnostic prints as
//
//	<path>:<line>:<col>: <severity> <CODE>: <message>
//
// followed by the source line with an underline and by its notes.
func Pretty(w io.Writer, bag *diag.Bag, files FileSource, opts PrettyOpts) {
	for _, d := range bag.Items() {
		writeHeading(w, files, d.Primary, severityTag(d.Severity, opts.Color), d.Code.ID(), d.Message)
		if opts.ShowExcerpts {
			writeExcerpt(w, files, d.Primary, opts.Color)
		}
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			writeHeading(w, files, n.Span, severityNote(opts.Color), "", n.Msg)
			if opts.ShowExcerpts {
				writeExcerpt(w, files, n.Span, opts.Color)
			}
		}
	}
}

func severityTag(sev diag.Severity, colored bool) string {
	var c *color.Color
	switch sev {
	case diag.SevError:
		c = errorColor
	case diag.SevWarning:
		c = warningColor
	default:
		c = infoColor
	}
	if !colored {
		return sev.String()
	}
	return c.Sprint(sev.String())
}

func severityNote(colored bool) string {
	if !colored {
		return "note"
	}
	return noteColor.Sprint("note")
}

func writeHeading(w io.Writer, files FileSource, span source.Span, tag, code, msg string) {
	if path, text, ok := lookup(files, span); ok {
		start, _ := text.Resolve(span)
		fmt.Fprintf(w, "%s:%d:%d: ", path, start.Line, start.Col)
	}
	if code != "" {
		fmt.Fprintf(w, "%s %s: %s\n", tag, code, msg)
		return
	}
	fmt.Fprintf(w, "%s: %s\n", tag, msg)
}

// writeExcerpt prints the first line a span covers plus an underline:
//
//	  12 | out q : Point(bool)
//	     |         ^~~~~
func writeExcerpt(w io.Writer, files FileSource, span source.Span, colored bool) {
	_, text, ok := lookup(files, span)
	if !ok {
		return
	}
	start, end := text.Resolve(span)
	line := text.Line(start.Line)
	if line == "" && span.Len() > 0 {
		return
	}

	startCol := int(start.Col) - 1
	if startCol > len(line) {
		startCol = len(line)
	}
	endCol := len(line)
	if end.Line == start.Line && int(end.Col)-1 < endCol {
		endCol = int(end.Col) - 1
	}
	if endCol < startCol {
		endCol = startCol
	}

	gutter := fmt.Sprintf("%4d | ", start.Line)
	pad := strings.Repeat(" ", runewidth.StringWidth(line[:startCol]))
	width := runewidth.StringWidth(line[startCol:endCol])
	marker := "^"
	if width > 1 {
		marker = "^" + strings.Repeat("~", width-1)
	}

	blank := strings.Repeat(" ", len(gutter)-2) + "| "
	if colored {
		gutter = gutterColor.Sprint(gutter)
		blank = gutterColor.Sprint(blank)
		marker = errorColor.Sprint(marker)
	}
	fmt.Fprintf(w, "%s%s\n", gutter, line)
	fmt.Fprintf(w, "%s%s%s\n", blank, pad, marker)
}

func lookup(files FileSource, span source.Span) (string, *source.Text, bool) {
	if span.File == source.NoFile {
		return "", nil, false
	}
	return files.SourceFor(span.File)
}
