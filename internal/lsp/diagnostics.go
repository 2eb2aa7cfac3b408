package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"emerald/internal/errors"
)

const diagnosticSource = "emerald"

// ConvertParseError transforms a parse failure into the diagnostic shown by
// the editor. The range covers the offending token when it is known,
// across rows for a string that spans them.
// A nil error yields an empty, non-nil list so that publishing it clears
// earlier diagnostics.
func ConvertParseError(err error, source string) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	if err == nil {
		return diagnostics
	}

	d := errors.FromError(err, source)
	start, end := d.Span()
	lines := newSourceLines(source)
	startRow, endRow := max(start.Row, 1), max(end.Row, 1)
	from := lines.utf16Col(startRow, start.Column)
	to := lines.utf16Col(endRow, end.Column)
	if endRow == startRow && to <= from {
		to = from + 1
	}

	message := d.Message
	if d.Help != "" {
		message += "\nhelp: " + d.Help
	}
	for _, s := range d.Suggestions {
		message += "\nhelp: " + s.Message
	}

	diagnostics = append(diagnostics, protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: uint32(startRow - 1), Character: from},
			End:   protocol.Position{Line: uint32(endRow - 1), Character: to},
		},
		Severity: ptrSeverity(protocol.DiagnosticSeverityError),
		Code:     &protocol.IntegerOrString{Value: d.Code},
		Source:   ptrString(diagnosticSource),
		Message:  message,
	})
	return diagnostics
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
