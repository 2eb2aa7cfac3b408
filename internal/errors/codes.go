package errors

// Error codes for the Emerald front end.
// These codes are used in diagnostics and documentation
// to provide consistent error identification across the toolchain.
//
// Error code ranges:
// E0100-E0199: Syntax errors raised by the grammar
// E0200-E0249: Lexical errors raised by the tokenizer and grammar actions
// E0250-E0299: Formatted string errors
// E0900-E0999: Reserved for tooling errors
// W0001-W0099: Warnings

const (
	// Syntax errors (E0100-E0199)

	// E0100: Input ended inside a construct
	ErrorUnexpectedEOF = "E0100"

	// E0101: A token the grammar cannot accept here
	ErrorUnexpectedToken = "E0101"

	// E0102: Tokens after the end of the input
	ErrorExtraToken = "E0102"

	// E0103: Token stream out of order
	ErrorInvalidToken = "E0103"

	// E0104: Missing or unexpected indented block
	ErrorIndentation = "E0104"

	// Lexical errors (E0200-E0249)

	// E0200: Malformed string literal
	ErrorString = "E0200"

	// E0201: Malformed escape sequence
	ErrorUnicode = "E0201"

	// E0202: Unbalanced brackets
	ErrorNesting = "E0202"

	// E0203: Dedent to an unknown level
	ErrorInconsistentDedent = "E0203"

	// E0204: Tabs and spaces mixed in indentation
	ErrorTab = "E0204"

	// E0205: Non-default parameter after a default one
	ErrorDefaultArgument = "E0205"

	// E0206: Keyword argument given twice
	ErrorDuplicateKeyword = "E0206"

	// E0207: Positional argument after keyword arguments
	ErrorPositionalArgument = "E0207"

	// E0208: Character outside the token alphabet
	ErrorUnrecognizedCharacter = "E0208"

	// E0209: Text after a line continuation
	ErrorLineContinuation = "E0209"

	// E0210: Input ended inside a literal or bracket
	ErrorLexicalEOF = "E0210"

	// E0211: Invalid assignment target and other grammar action failures
	ErrorInvalidSyntax = "E0211"

	// Formatted string errors (E0250-E0299)

	// E0250: Replacement field never closed
	ErrorFStringUnclosed = "E0250"

	// E0251: Stray closing brace
	ErrorFStringBrace = "E0251"

	// E0252: Bad conversion flag
	ErrorFStringConversion = "E0252"

	// E0253: Empty replacement field
	ErrorFStringEmpty = "E0253"

	// E0254: Brackets in a replacement field do not match
	ErrorFStringDelimiter = "E0254"

	// E0255: Replacement field does not parse
	ErrorFStringExpression = "E0255"

	// E0256: Replacement fields nested too deeply
	ErrorFStringNesting = "E0256"

	// E0257: Forbidden character or unterminated quote in a field
	ErrorFStringCharacter = "E0257"

	// Tooling errors (E0900-E0999)

	// E0900: Source could not be read
	ErrorReadSource = "E0900"

	// Warning codes

	// W0001: Tab characters in indentation
	WarningTabIndentation = "W0001"
)

// GetErrorDescription returns a human-readable description of the error code
func GetErrorDescription(code string) string {
	switch code {
	case ErrorUnexpectedEOF:
		return "Input ended before the construct was complete"
	case ErrorUnexpectedToken:
		return "Token is not valid at this position"
	case ErrorExtraToken:
		return "Tokens follow the end of the input"
	case ErrorInvalidToken:
		return "Token stream is malformed"
	case ErrorIndentation:
		return "Indented block is missing or unexpected"
	case ErrorString:
		return "String literal is malformed"
	case ErrorUnicode:
		return "Escape sequence is malformed"
	case ErrorNesting:
		return "Closing bracket has no matching opening bracket"
	case ErrorInconsistentDedent:
		return "Dedent does not match any outer indentation level"
	case ErrorTab:
		return "Tabs and spaces are mixed inconsistently"
	case ErrorDefaultArgument:
		return "Parameter without default follows a parameter with default"
	case ErrorDuplicateKeyword:
		return "Keyword argument is repeated"
	case ErrorPositionalArgument:
		return "Positional argument follows keyword argument"
	case ErrorUnrecognizedCharacter:
		return "Character cannot start a token"
	case ErrorLineContinuation:
		return "Line continuation is followed by other text"
	case ErrorLexicalEOF:
		return "Input ended inside a literal or bracket"
	case ErrorInvalidSyntax:
		return "Construct is not valid here"
	case ErrorFStringUnclosed:
		return "Replacement field is not closed"
	case ErrorFStringBrace:
		return "Single closing brace in formatted string"
	case ErrorFStringConversion:
		return "Conversion flag is invalid"
	case ErrorFStringEmpty:
		return "Replacement field is empty"
	case ErrorFStringDelimiter:
		return "Brackets inside replacement field do not match"
	case ErrorFStringExpression:
		return "Replacement field is not a valid expression"
	case ErrorFStringNesting:
		return "Replacement fields are nested too deeply"
	case ErrorFStringCharacter:
		return "Replacement field contains a forbidden character"
	case ErrorReadSource:
		return "Source file could not be read"
	case WarningTabIndentation:
		return "Indentation uses tab characters"
	default:
		return "Unknown error code"
	}
}

// IsWarning returns true if the error code represents a warning rather than an error
func IsWarning(code string) bool {
	return code != "" && code[0] == 'W'
}

// GetErrorCategory returns the category of the error based on its code
func GetErrorCategory(code string) string {
	switch {
	case code == "":
		return "Unknown"
	case code[0] == 'W':
		return "Warning"
	case code >= "E0100" && code < "E0200":
		return "Syntax"
	case code >= "E0200" && code < "E0250":
		return "Lexical"
	case code >= "E0250" && code < "E0300":
		return "Formatted String"
	case code >= "E0900" && code < "E1000":
		return "Tooling"
	default:
		return "Unknown"
	}
}
