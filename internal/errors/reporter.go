package errors

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"emerald/internal/ast"
)

// Severity ranks a diagnostic.
type Severity string

const (
	Error   Severity = "error"
	Warning Severity = "warning"
	Note    Severity = "note"
	Help    Severity = "help"
)

// tabStop is the tab width used when lining markers up with source text.
const tabStop = 8

// spanRowLimit caps the rows printed for one span; longer spans keep their
// first and last rows around a gap.
const spanRowLimit = 6

// Diagnostic is a coded message about a span of source. Columns are rune
// offsets from 0. End is exclusive and may sit on a later row.
type Diagnostic struct {
	Severity    Severity
	Code        string
	Message     string
	Location    ast.Location
	End         ast.Location
	Suggestions []Suggestion
	Notes       []string
	Help        string
}

// Span returns where the diagnostic starts and ends. An end that does not
// come after the start covers a single column.
func (d Diagnostic) Span() (ast.Location, ast.Location) {
	if !d.Location.Before(d.End) {
		return d.Location, d.Location.WithColOffset(1)
	}
	return d.Location, d.End
}

// Suggestion is a possible fix. With a Replacement it rewrites the source
// between Location and End.
type Suggestion struct {
	Message     string
	Replacement string
	Location    ast.Location
	End         ast.Location
}

// Reporter renders diagnostics against the source they were raised on.
type Reporter struct {
	filename string
	lines    [][]rune
}

// NewReporter splits source into rows the way the tokenizer counts them.
func NewReporter(filename, source string) *Reporter {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	source = strings.ReplaceAll(source, "\r", "\n")
	parts := strings.Split(source, "\n")
	lines := make([][]rune, len(parts))
	for i, p := range parts {
		lines[i] = []rune(p)
	}
	return &Reporter{filename: filename, lines: lines}
}

// Format renders one diagnostic: the coded header, the rows it spans below
// the line that opens their block, then suggestions, notes and help.
func (r *Reporter) Format(d Diagnostic) string {
	start, end := d.Span()
	paint := severityColor(d.Severity)
	f := &frame{
		width: gutterWidth(min(end.Row, len(r.lines))),
		dim:   color.New(color.Faint).SprintFunc(),
		bold:  color.New(color.Bold).SprintFunc(),
	}

	title := string(d.Severity)
	if d.Code != "" {
		title += "[" + d.Code + "]"
	}
	fmt.Fprintf(&f.out, "%s: %s\n", paint(title), d.Message)
	fmt.Fprintf(&f.out, "%*s %s %s:%d:%d\n", f.width, "", f.dim("-->"), r.filename, start.Row, start.Column+1)

	if r.has(start.Row) {
		f.rule()
		r.context(f, start.Row)
		r.span(f, start, end, paint(marker(d.Severity)))
	}

	help := color.New(color.FgCyan).SprintFunc()
	for _, s := range d.Suggestions {
		f.footer(help("help:"), s.Message)
		if s.Replacement != "" {
			r.replacement(f, s, help)
		}
	}
	for _, note := range d.Notes {
		f.footer(color.New(color.FgBlue).Sprint("note:"), note)
	}
	if d.Help != "" {
		f.footer(color.New(color.FgGreen).Sprint("help:"), d.Help)
	}

	f.out.WriteString("\n")
	return f.out.String()
}

// FormatAll renders diagnostics in order and reports whether any of them
// is an error rather than a warning.
func (r *Reporter) FormatAll(diagnostics []Diagnostic) (string, bool) {
	var out strings.Builder
	failed := false
	for _, d := range diagnostics {
		out.WriteString(r.Format(d))
		failed = failed || d.Severity == Error
	}
	return out.String(), failed
}

func (r *Reporter) has(row int) bool {
	return row >= 1 && row <= len(r.lines)
}

func (r *Reporter) line(row int) []rune {
	if !r.has(row) {
		return nil
	}
	return r.lines[row-1]
}

// context prints the header of the block holding row, or the closest line
// of code above it at top level. A gap marks skipped rows.
func (r *Reporter) context(f *frame, row int) {
	above := r.enclosingHeader(row)
	if above == 0 {
		above = r.previousCode(row)
	}
	if above == 0 {
		return
	}
	f.row(above, expandTabs(r.line(above)), false)
	if above < row-1 {
		f.gap()
	}
}

// enclosingHeader finds the nearest line above row that is indented less
// and ends in a colon, such as a def, an if or a do clause. A less
// indented line that opens no block stops the search.
func (r *Reporter) enclosingHeader(row int) int {
	indent := indentWidth(r.line(row))
	if indent == 0 {
		return 0
	}
	for n := row - 1; n >= 1; n-- {
		code := strings.TrimSpace(stripComment(r.line(n)))
		if code == "" {
			continue
		}
		if indentWidth(r.line(n)) >= indent {
			continue
		}
		if strings.HasSuffix(code, ":") {
			return n
		}
		return 0
	}
	return 0
}

func (r *Reporter) previousCode(row int) int {
	for n := row - 1; n >= 1; n-- {
		if strings.TrimSpace(stripComment(r.line(n))) != "" {
			return n
		}
	}
	return 0
}

// span prints each row from start to end with its underline. Rows after
// the first are underlined from their first non-blank character.
func (r *Reporter) span(f *frame, start, end ast.Location, mark string) {
	last := min(end.Row, len(r.lines))
	if end.Row > start.Row && end.Column == 0 {
		last = min(end.Row-1, len(r.lines))
	}
	for n := start.Row; n <= last; n++ {
		if last-start.Row >= spanRowLimit && n == start.Row+spanRowLimit/2 {
			f.gap()
			n = last - spanRowLimit/2 + 1
		}
		line := r.line(n)
		from, to := leadingBlanks(line), len(line)
		if n == start.Row {
			from = min(start.Column, len(line))
		}
		if n == end.Row {
			to = min(end.Column, len(line))
		}
		pad := displayColumn(line, from)
		width := max(displayColumn(line, to)-pad, 1)
		f.row(n, expandTabs(line), n == start.Row)
		f.mark(strings.Repeat(" ", pad) + strings.Repeat(mark, width))
	}
}

// replacement shows the source row with the suggestion applied, or the
// replacement text alone when it does not fit on that row.
func (r *Reporter) replacement(f *frame, s Suggestion, paint func(...any) string) {
	line := r.line(s.Location.Row)
	if !r.has(s.Location.Row) || s.End.Row != s.Location.Row || strings.Contains(s.Replacement, "\n") {
		for _, text := range strings.Split(s.Replacement, "\n") {
			f.mark(paint(text))
		}
		return
	}
	from := min(s.Location.Column, len(line))
	to := max(min(s.End.Column, len(line)), from)
	f.row(s.Location.Row, expandTabs(line[:from])+paint(s.Replacement)+expandTabs(line[to:]), false)
}

// frame accumulates the gutter-aligned rows of one diagnostic.
type frame struct {
	out   strings.Builder
	width int
	dim   func(...any) string
	bold  func(...any) string
}

func (f *frame) rule() {
	fmt.Fprintf(&f.out, "%*s %s\n", f.width, "", f.dim("|"))
}

func (f *frame) gap() {
	fmt.Fprintf(&f.out, "%s\n", f.dim("..."))
}

func (f *frame) row(n int, text string, primary bool) {
	number := fmt.Sprintf("%*d", f.width, n)
	if primary {
		number = f.bold(number)
	} else {
		number = f.dim(number)
	}
	fmt.Fprintf(&f.out, "%s %s %s\n", number, f.dim("|"), text)
}

func (f *frame) mark(text string) {
	fmt.Fprintf(&f.out, "%*s %s %s\n", f.width, "", f.dim("|"), text)
}

func (f *frame) footer(label, text string) {
	fmt.Fprintf(&f.out, "%*s %s %s %s\n", f.width, "", f.dim("="), label, text)
}

func severityColor(s Severity) func(...any) string {
	switch s {
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case Note:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	case Help:
		return color.New(color.FgGreen, color.Bold).SprintFunc()
	}
	return color.New(color.FgRed, color.Bold).SprintFunc()
}

func marker(s Severity) string {
	if s == Error {
		return "^"
	}
	return "-"
}

func gutterWidth(row int) int {
	return max(len(strconv.Itoa(row)), 2)
}

// displayColumn is the terminal column where rune index col of line
// starts, with tabs advancing to the next stop and wide runes taking two.
func displayColumn(line []rune, col int) int {
	n := 0
	for _, r := range line[:min(col, len(line))] {
		if r == '\t' {
			n += tabStop - n%tabStop
			continue
		}
		n += runewidth.RuneWidth(r)
	}
	if col > len(line) {
		n += col - len(line)
	}
	return n
}

func expandTabs(line []rune) string {
	var b strings.Builder
	n := 0
	for _, r := range line {
		if r == '\t' {
			pad := tabStop - n%tabStop
			b.WriteString(strings.Repeat(" ", pad))
			n += pad
			continue
		}
		b.WriteRune(r)
		n += runewidth.RuneWidth(r)
	}
	return b.String()
}

func leadingBlanks(line []rune) int {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t' || line[i] == '\f') {
		i++
	}
	return i
}

func indentWidth(line []rune) int {
	return displayColumn(line, leadingBlanks(line))
}

// stripComment drops a trailing comment, ignoring '#' inside quotes.
func stripComment(line []rune) string {
	var quote rune
	for i := 0; i < len(line); i++ {
		switch r := line[i]; {
		case quote != 0 && r == '\\':
			i++
		case quote != 0 && r == quote:
			quote = 0
		case quote == 0 && (r == '\'' || r == '"'):
			quote = r
		case quote == 0 && r == '#':
			return string(line[:i])
		}
	}
	return string(line)
}
