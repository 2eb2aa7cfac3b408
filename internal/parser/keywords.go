package parser

var KEYWORDS = map[string]TokenType{
	"False":    FALSE,
	"None":     NONE,
	"True":     TRUE,
	"and":      AND,
	"as":       AS,
	"assert":   ASSERT,
	"async":    ASYNC,
	"await":    AWAIT,
	"break":    BREAK,
	"class":    CLASS,
	"continue": CONTINUE,
	"def":      DEF,
	"del":      DEL,
	"do":       DO,
	"elif":     ELIF,
	"else":     ELSE,
	"except":   EXCEPT,
	"extends":  EXTENDS,
	"finally":  FINALLY,
	"for":      FOR,
	"from":     FROM,
	"global":   GLOBAL,
	"if":       IF,
	"import":   IMPORT,
	"in":       IN,
	"is":       IS,
	"lambda":   LAMBDA,
	"nonlocal": NONLOCAL,
	"not":      NOT,
	"or":       OR,
	"pass":     PASS,
	"raise":    RAISE,
	"return":   RETURN,
	"try":      TRY,
	"while":    WHILE,
	"with":     WITH,
	"yield":    YIELD,
}

var keywordText = func() map[TokenType]string {
	m := make(map[TokenType]string, len(KEYWORDS))
	for text, tt := range KEYWORDS {
		m[tt] = text
	}
	return m
}()

type stringFlags struct {
	kind  StringKind
	raw   bool
	bytes bool
}

// string prefixes accepted before a quote, lowercased
var stringPrefixes = map[string]stringFlags{
	"r":  {StringNormal, true, false},
	"u":  {StringU, false, false},
	"f":  {StringF, false, false},
	"b":  {StringNormal, false, true},
	"rb": {StringNormal, true, true},
	"br": {StringNormal, true, true},
	"fr": {StringF, true, false},
	"rf": {StringF, true, false},
}

func lookupIdentifier(text string) TokenType {
	if t, ok := KEYWORDS[text]; ok {
		return t
	}
	return NAME
}
