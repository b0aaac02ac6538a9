package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"masmlint/span"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	noteColor    = color.New(color.FgCyan)
	locColor     = color.New(color.FgBlue, color.Bold)
)

func levelColor(l Level) *color.Color {
	switch l {
	case Error:
		return errorColor
	case Warning:
		return warningColor
	default:
		return noteColor
	}
}

// Emit writes every non-cancelled diagnostic to w as a textual report.
// useColor controls whether ANSI color codes are emitted; callers decide
// this based on go-isatty so the CORE itself never probes the terminal.
func (s *Sink) Emit(sm *span.SourceMap, w io.Writer, useColor bool) error {
	for _, d := range s.Diagnostics() {
		if err := renderOne(sm, w, d, useColor); err != nil {
			return err
		}
	}
	return nil
}

func renderOne(sm *span.SourceMap, w io.Writer, d *Diagnostic, useColor bool) error {
	header := fmt.Sprintf("%s: %s", d.Level, d.Message)
	if useColor {
		header = levelColor(d.Level).Sprintf("%s", d.Level) + ": " + d.Message
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}

	labels := make([]Label, 0, 1+len(d.Secondary))
	labels = append(labels, d.Primary)
	labels = append(labels, d.Secondary...)

	for _, lbl := range labels {
		if err := renderLabel(sm, w, lbl, useColor); err != nil {
			return err
		}
	}

	if d.NoteText != nil {
		if _, err := fmt.Fprintf(w, "note: %s\n", *d.NoteText); err != nil {
			return err
		}
	}
	if d.HelpText != nil {
		if _, err := fmt.Fprintf(w, "help: %s\n", *d.HelpText); err != nil {
			return err
		}
	}
	return nil
}

func renderLabel(sm *span.SourceMap, w io.Writer, lbl Label, useColor bool) error {
	loc, ok := sm.SpanToLocation(lbl.Span)
	if !ok {
		return nil
	}
	arrow := "-->"
	if useColor {
		arrow = locColor.Sprint("-->")
	}
	if _, err := fmt.Fprintf(w, " %s %s:%d:%d\n", arrow, loc.Path, loc.Line, loc.Col); err != nil {
		return err
	}

	line, ok := sm.SpanToSnippet(lbl.Span)
	if !ok {
		return nil
	}
	if _, err := fmt.Fprintf(w, "  %s\n", line); err != nil {
		return err
	}

	caret := caretUnderline(sm, lbl.Span, line)
	prefix := "  "
	if useColor {
		caret = levelColor(Error).Sprint(caret)
	}
	if _, err := fmt.Fprintf(w, "%s%s", prefix, caret); err != nil {
		return err
	}
	if lbl.Message != "" {
		if _, err := fmt.Fprintf(w, " %s", lbl.Message); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// caretUnderline builds a caret line whose indentation and width are
// measured in display columns (not bytes), so wide CJK characters and
// zero-width runes in the source line don't throw the underline off.
func caretUnderline(sm *span.SourceMap, s span.Span, line string) string {
	f := sm.LookupSourceFile(s.Lo)
	if f == nil {
		return ""
	}
	// byte offset of the span start/end relative to the start of this line.
	loc, _ := sm.SpanToLocation(s)
	colByte := loc.Col - 1 // 0-based byte column within the line
	if colByte < 0 {
		colByte = 0
	}
	if colByte > len(line) {
		colByte = len(line)
	}
	endByte := colByte + int(s.Len())
	if endByte > len(line) {
		endByte = len(line)
	}
	if endByte < colByte {
		endByte = colByte
	}

	leadWidth := runewidth.StringWidth(line[:colByte])
	spanWidth := runewidth.StringWidth(line[colByte:endByte])
	if spanWidth < 1 {
		spanWidth = 1
	}
	return strings.Repeat(" ", leadWidth) + strings.Repeat("^", spanWidth)
}
