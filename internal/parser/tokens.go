// Package parser reads PGN. A table-driven lexer classifies input
// bytes into tokens carrying line and column positions; a recursive
// descent parser assembles games from them, resolving every move
// through the engine against the position it was played from, so a
// parsed game is legal by construction. Strict mode fails on the
// first defect; lenient mode reproduces the legacy importer's habit
// of logging a diagnostic and skipping what it cannot use.
package parser

// TokenType classifies a lexical token.
type TokenType int

const (
	// Tokens delivered to the parser.
	EOFToken TokenType = iota
	TagToken
	StringToken
	TagEnd
	CommentToken
	NAGToken
	CheckSymbol
	MoveNumber
	SectionBreak
	RAVStart
	RAVEnd
	MoveToken
	TerminatingResult

	// Character classes used inside the lexer.
	Whitespace
	TagStart
	DoubleQuote
	CommentStart
	CommentEnd
	Annotate
	Dot
	Percent
	Escape
	Alpha
	Digit
	Star
	Dash
	EOS
	NoToken
	ErrorToken
)

// tokenTypeNames gives each token type a name fit for error messages.
var tokenTypeNames = [...]string{
	EOFToken:          "end of input",
	TagToken:          "tag name",
	StringToken:       "string",
	TagEnd:            "']'",
	CommentToken:      "comment",
	NAGToken:          "NAG",
	CheckSymbol:       "check symbol",
	MoveNumber:        "move number",
	SectionBreak:      "blank line",
	RAVStart:          "'('",
	RAVEnd:            "')'",
	MoveToken:         "move",
	TerminatingResult: "result",
	Whitespace:        "whitespace",
	TagStart:          "'['",
	DoubleQuote:       "'\"'",
	CommentStart:      "'{'",
	CommentEnd:        "'}'",
	Annotate:          "annotation",
	Dot:               "'.'",
	Percent:           "'%'",
	Escape:            "'\\'",
	Alpha:             "letter",
	Digit:             "digit",
	Star:              "'*'",
	Dash:              "'-'",
	EOS:               "end of line",
	NoToken:           "nothing",
	ErrorToken:        "error",
}

// String returns a readable name for the token type.
func (t TokenType) String() string {
	if int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return "unknown"
}

// Token is one lexical item together with where it started in the
// input. Line and Column are 1-based.
type Token struct {
	Type TokenType

	// Text carries tag names, tag values, comment bodies, normalized
	// move text, results and error descriptions, depending on Type.
	Text string

	// Num carries move numbers and NAG values.
	Num int

	Line   int
	Column int
}
