package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/fwojciec/typcheck"
)

// printer renders diagnostics either as one parseable line each or as
// colored source annotations. Not safe for concurrent use.
type printer struct {
	w     io.Writer
	root  string
	plain bool

	// lines caches file content split into lines, per document.
	lines map[string][]string
}

func newPrinter(w io.Writer, root string, plain bool) *printer {
	return &printer{w: w, root: root, plain: plain, lines: make(map[string][]string)}
}

func (p *printer) print(diagnostics []typcheck.Diagnostic) {
	for _, d := range diagnostics {
		if p.plain {
			p.printPlain(d)
		} else {
			p.printPretty(d)
		}
	}
}

// printPlain writes "doc line:col-line:col rule message [suggestions]".
func (p *printer) printPlain(d typcheck.Diagnostic) {
	fmt.Fprintf(p.w, "%s %d:%d-%d:%d %s %s",
		d.Doc,
		d.Range.Start.Line, d.Range.Start.Column,
		d.Range.End.Line, d.Range.End.Column,
		d.RuleID, d.Message)
	if len(d.Replacements) > 0 {
		fmt.Fprintf(p.w, " [%s]", strings.Join(d.Replacements, ", "))
	}
	fmt.Fprintln(p.w)
}

// printPretty writes the diagnostic with the offending source line and
// a caret underline.
func (p *printer) printPretty(d typcheck.Diagnostic) {
	fmt.Fprintf(p.w, "%s:%d:%d %s %s %s\n",
		d.Doc, d.Range.Start.Line+1, d.Range.Start.Column+1,
		severityColor(d.Severity).Sprint(string(d.Severity)),
		color.New(color.Bold).Sprint(d.RuleID),
		d.Message)

	if line, ok := p.line(d.Doc, d.Range.Start.Line); ok {
		width := underlineWidth(d, line)
		fmt.Fprintf(p.w, "  | %s\n", line)
		fmt.Fprintf(p.w, "  | %s%s\n",
			strings.Repeat(" ", d.Range.Start.Column),
			severityColor(d.Severity).Sprint(strings.Repeat("^", width)))
	}
	if len(d.Replacements) > 0 {
		fmt.Fprintf(p.w, "  = suggestions: %s\n", strings.Join(d.Replacements, ", "))
	}
}

// underlineWidth is the caret count in columns, clamped to the line.
func underlineWidth(d typcheck.Diagnostic, line string) int {
	end := len([]rune(line))
	if d.Range.End.Line == d.Range.Start.Line && d.Range.End.Column < end {
		end = d.Range.End.Column
	}
	width := end - d.Range.Start.Column
	if width < 1 {
		width = 1
	}
	return width
}

func (p *printer) line(doc string, n int) (string, bool) {
	lines, ok := p.lines[doc]
	if !ok {
		content, err := os.ReadFile(filepath.Join(p.root, doc))
		if err != nil {
			p.lines[doc] = nil
			return "", false
		}
		lines = strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
		p.lines[doc] = lines
	}
	if n < 0 || n >= len(lines) {
		return "", false
	}
	return lines[n], true
}

func severityColor(s typcheck.Severity) *color.Color {
	switch s {
	case typcheck.SeverityError:
		return color.New(color.FgRed, color.Bold)
	case typcheck.SeverityWarning:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}
