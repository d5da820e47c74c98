package parser

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Lexer tokenizes PGN input. Bytes are classified through a 256-entry
// table; tokens carry the line and column where they started. Runs of
// blank lines outside a comment collapse into a single SectionBreak
// token, which is how the parser sees the boundary between a tag
// section and movetext, and between one game and the next.
//
// In strict mode a malformed construct comes back as an ErrorToken
// describing the defect. In lenient mode the lexer logs a diagnostic
// and recovers the way the legacy importer did.
type Lexer struct {
	reader  *bufio.Reader
	opts    *Options
	line    string
	pos     int
	lineNum int

	pendingBreak bool
}

// chTab classifies input bytes.
var chTab [256]TokenType

// moveChars marks bytes that may appear inside a move token.
var moveChars [256]bool

func init() {
	initLexTables()
}

func initLexTables() {
	for i := range chTab {
		chTab[i] = ErrorToken
	}

	for _, c := range []byte{' ', '\t', '\r', '\n'} {
		chTab[c] = Whitespace
	}

	chTab['['] = TagStart
	chTab[']'] = TagEnd
	chTab['"'] = DoubleQuote
	chTab['{'] = CommentStart
	chTab['}'] = CommentEnd

	chTab['$'] = NAGToken
	chTab['!'] = Annotate
	chTab['?'] = Annotate
	chTab['+'] = CheckSymbol
	chTab['#'] = CheckSymbol
	chTab['.'] = Dot
	chTab['('] = RAVStart
	chTab[')'] = RAVEnd
	chTab['%'] = Percent
	chTab['\\'] = Escape
	chTab[0] = EOS
	chTab['*'] = Star
	chTab['-'] = Dash

	for c := byte('0'); c <= '9'; c++ {
		chTab[c] = Digit
	}

	for c := byte('A'); c <= 'Z'; c++ {
		chTab[c] = Alpha
		chTab[c+'a'-'A'] = Alpha
	}
	chTab['_'] = Alpha

	initMoveChars()
}

func initMoveChars() {
	for c := byte('a'); c <= 'h'; c++ {
		moveChars[c] = true
	}
	for c := byte('1'); c <= '8'; c++ {
		moveChars[c] = true
	}

	// Piece letters, capture and promotion markers, castling
	// spellings and the 'p' of a trailing "ep".
	for _, c := range []byte{'K', 'Q', 'R', 'N', 'B', 'x', 'X', ':', '-', '=', 'O', 'o', '0', 'p'} {
		moveChars[c] = true
	}
}

// NewLexer creates a lexer reading from r. Nil options mean strict
// mode with no diagnostics.
func NewLexer(r io.Reader, opts *Options) *Lexer {
	if opts == nil {
		opts = &Options{}
	}
	return &Lexer{reader: bufio.NewReader(r), opts: opts}
}

// LineNumber returns the line the lexer last read, 1-based.
func (l *Lexer) LineNumber() int {
	return l.lineNum
}

func (l *Lexer) logf(format string, args ...interface{}) {
	if l.opts.Log != nil {
		fmt.Fprintf(l.opts.Log, format, args...)
	}
}

// readLine loads the next input line, including its newline. It
// returns false at end of input.
func (l *Lexer) readLine() bool {
	line, err := l.reader.ReadString('\n')
	if err != nil && (err != io.EOF || len(line) == 0) {
		return false
	}
	l.line = line
	l.pos = 0
	l.lineNum++
	return true
}

func (l *Lexer) currentChar() byte {
	if l.pos >= len(l.line) {
		return 0
	}
	return l.line[l.pos]
}

func (l *Lexer) advance() {
	if l.pos < len(l.line) {
		l.pos++
	}
}

// refill loads the next non-blank line. A run of blank lines becomes
// one SectionBreak token; blank lines at end of input are swallowed.
func (l *Lexer) refill() *Token {
	for {
		if !l.readLine() {
			return &Token{Type: EOFToken, Line: l.lineNum}
		}
		if strings.TrimSpace(l.line) == "" {
			l.pendingBreak = true
			continue
		}
		break
	}
	if l.pendingBreak {
		l.pendingBreak = false
		return &Token{Type: SectionBreak, Line: l.lineNum}
	}
	return &Token{Type: NoToken}
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() *Token {
	for {
		tok := l.getNextSymbol()
		if tok.Type != NoToken {
			return tok
		}
	}
}

func (l *Lexer) getNextSymbol() *Token {
	if l.line == "" || l.pos >= len(l.line) {
		return l.refill()
	}

	ch := l.currentChar()
	symbolStart := l.pos
	startLine := l.lineNum
	l.advance()

	tok := l.scanToken(ch, symbolStart)
	if tok.Type != NoToken && tok.Line == 0 {
		tok.Line = startLine
		tok.Column = symbolStart + 1
	}
	return tok
}

func (l *Lexer) scanToken(ch byte, symbolStart int) *Token {
	switch chTab[ch] {
	case Whitespace:
		for l.pos < len(l.line) && chTab[l.currentChar()] == Whitespace {
			l.advance()
		}
		return &Token{Type: NoToken}

	case TagStart:
		return l.gatherTagName()

	case TagEnd:
		return &Token{Type: TagEnd}

	case DoubleQuote:
		return l.gatherString()

	case CommentStart:
		return l.gatherComment()

	case CommentEnd:
		if !l.opts.Lenient {
			return &Token{Type: ErrorToken, Text: "unmatched '}'"}
		}
		l.logf("Unmatched comment end on line %d.\n", l.lineNum)
		return &Token{Type: NoToken}

	case NAGToken:
		return l.gatherNAG()

	case Annotate:
		for l.pos < len(l.line) && chTab[l.currentChar()] == Annotate {
			l.advance()
		}
		text := annotationToNAG(l.line[symbolStart:l.pos])
		n, _ := strconv.Atoi(text[1:])
		return &Token{Type: NAGToken, Text: text, Num: n}

	case CheckSymbol:
		for l.pos < len(l.line) && chTab[l.currentChar()] == CheckSymbol {
			l.advance()
		}
		return &Token{Type: CheckSymbol}

	case Dot:
		for l.pos < len(l.line) && chTab[l.currentChar()] == Dot {
			l.advance()
		}
		return &Token{Type: NoToken}

	case RAVStart:
		return &Token{Type: RAVStart}

	case RAVEnd:
		return &Token{Type: RAVEnd}

	case Percent:
		// The escape convention only applies in column one; the rest
		// of such a line is discarded.
		if symbolStart == 0 {
			l.pos = len(l.line)
			return &Token{Type: NoToken}
		}
		if !l.opts.Lenient {
			return &Token{Type: ErrorToken, Text: "'%' escape not at start of line"}
		}
		l.logf("'%%' not at the start of line %d.\n", l.lineNum)
		l.pos = len(l.line)
		return &Token{Type: NoToken}

	case Escape:
		if !l.opts.Lenient {
			return &Token{Type: ErrorToken, Text: `stray '\'`}
		}
		l.logf("Stray '\\' on line %d.\n", l.lineNum)
		if l.pos < len(l.line) {
			l.advance()
		}
		return &Token{Type: NoToken}

	case Alpha:
		return l.gatherMoveText(symbolStart)

	case Digit:
		return l.gatherNumeric(ch)

	case Star:
		return &Token{Type: TerminatingResult, Text: "*"}

	case Dash:
		if l.currentChar() == '-' {
			l.advance()
			if !l.opts.Lenient {
				return &Token{Type: ErrorToken, Text: "null move"}
			}
			l.logf("Null move on line %d skipped.\n", l.lineNum)
			return &Token{Type: NoToken}
		}
		if !l.opts.Lenient {
			return &Token{Type: ErrorToken, Text: "stray '-'"}
		}
		l.logf("Single '-' not allowed on line %d.\n", l.lineNum)
		return &Token{Type: NoToken}

	case EOS:
		return l.refill()

	case ErrorToken:
		if !l.opts.Lenient {
			return &Token{Type: ErrorToken, Text: fmt.Sprintf("unknown character %q", ch)}
		}
		l.logf("Unknown character %c (0x%x) on line %d.\n", ch, ch, l.lineNum)
		for l.pos < len(l.line) && chTab[l.currentChar()] == ErrorToken {
			l.advance()
		}
		return &Token{Type: NoToken}

	default:
		return &Token{Type: NoToken}
	}
}

// gatherTagName reads the tag name following '['. The value string
// and closing ']' arrive as separate tokens.
func (l *Lexer) gatherTagName() *Token {
	for l.pos < len(l.line) && chTab[l.currentChar()] == Whitespace {
		l.advance()
	}

	start := l.pos
	for l.pos < len(l.line) {
		c := l.currentChar()
		if unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c)) || c == '_' {
			l.advance()
		} else {
			break
		}
	}

	if l.pos == start {
		if !l.opts.Lenient {
			return &Token{Type: ErrorToken, Text: "missing tag name after '['"}
		}
		l.logf("Missing tag name on line %d.\n", l.lineNum)
		return &Token{Type: NoToken}
	}
	return &Token{Type: TagToken, Text: l.line[start:l.pos]}
}

// gatherString reads a quoted tag value. Backslash escapes the next
// character. Strings do not span lines.
func (l *Lexer) gatherString() *Token {
	var sb strings.Builder
	escaped := false

	for l.pos < len(l.line) {
		c := l.currentChar()
		if c == '\n' {
			break
		}
		l.advance()

		if escaped {
			sb.WriteByte(c)
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case '"':
			return &Token{Type: StringToken, Text: sb.String()}
		default:
			sb.WriteByte(c)
		}
	}

	if !l.opts.Lenient {
		return &Token{Type: ErrorToken, Text: "unterminated string"}
	}
	l.logf("Missing closing quote on line %d.\n", l.lineNum)
	return &Token{Type: StringToken, Text: strings.TrimRight(sb.String(), "\r")}
}

// gatherComment reads a braced comment, which may span lines. Braces
// do not nest; the first '}' ends the comment.
func (l *Lexer) gatherComment() *Token {
	var sb strings.Builder

	for {
		for l.pos < len(l.line) {
			c := l.currentChar()
			l.advance()
			if c == '}' {
				return &Token{Type: CommentToken, Text: strings.TrimSpace(sb.String())}
			}
			sb.WriteByte(c)
		}
		if !l.readLine() {
			break
		}
	}

	if !l.opts.Lenient {
		return &Token{Type: ErrorToken, Text: "unterminated comment"}
	}
	l.logf("Missing end of comment.\n")
	return &Token{Type: CommentToken, Text: strings.TrimSpace(sb.String())}
}

// gatherNAG reads the digits following '$'.
func (l *Lexer) gatherNAG() *Token {
	start := l.pos
	for l.pos < len(l.line) && unicode.IsDigit(rune(l.currentChar())) {
		l.advance()
	}
	digits := l.line[start:l.pos]

	if digits == "" {
		if !l.opts.Lenient {
			return &Token{Type: ErrorToken, Text: "'$' without a glyph number"}
		}
		l.logf("NAG without a number on line %d.\n", l.lineNum)
		return &Token{Type: NoToken}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		if !l.opts.Lenient {
			return &Token{Type: ErrorToken, Text: "NAG number out of range"}
		}
		l.logf("NAG number out of range on line %d.\n", l.lineNum)
		return &Token{Type: NoToken}
	}
	return &Token{Type: NAGToken, Text: "$" + digits, Num: n}
}

// gatherMoveText reads a run of move characters starting at an
// alphabetic character and normalizes it. Whether the text resolves
// to a legal move is the parser's business; here it only has to look
// like one.
func (l *Lexer) gatherMoveText(symbolStart int) *Token {
	for l.pos < len(l.line) && moveChars[l.currentChar()] {
		l.advance()
	}
	raw := l.line[symbolStart:l.pos]
	text := normalizeMoveText(raw)

	if moveSeemsValid(text) {
		return &Token{Type: MoveToken, Text: text}
	}

	if !l.opts.Lenient {
		return &Token{Type: ErrorToken, Text: fmt.Sprintf("unknown move text %q", raw)}
	}
	l.logf("Unknown move text %s on line %d.\n", raw, l.lineNum)
	return &Token{Type: NoToken}
}

// gatherNumeric reads a token starting with a digit: a game result,
// a zero-spelled castling move, or a move number with its dots.
func (l *Lexer) gatherNumeric(initialDigit byte) *Token {
	remaining := l.line[l.pos:]

	switch initialDigit {
	case '0':
		if strings.HasPrefix(remaining, "-1") {
			l.pos += 2
			return &Token{Type: TerminatingResult, Text: "0-1"}
		}
		if strings.HasPrefix(remaining, "-0-0") {
			l.pos += 4
			return &Token{Type: MoveToken, Text: "O-O-O"}
		}
		if strings.HasPrefix(remaining, "-0") {
			l.pos += 2
			return &Token{Type: MoveToken, Text: "O-O"}
		}
	case '1':
		if strings.HasPrefix(remaining, "-0") {
			l.pos += 2
			return &Token{Type: TerminatingResult, Text: "1-0"}
		}
		if strings.HasPrefix(remaining, "/2") {
			l.pos += 2
			if strings.HasPrefix(l.line[l.pos:], "-1/2") {
				l.pos += 4
			}
			return &Token{Type: TerminatingResult, Text: "1/2-1/2"}
		}
	}

	return l.gatherMoveNumber()
}

func (l *Lexer) gatherMoveNumber() *Token {
	start := l.pos - 1
	for l.pos < len(l.line) && unicode.IsDigit(rune(l.currentChar())) {
		l.advance()
	}
	digits := l.line[start:l.pos]
	for l.pos < len(l.line) && l.currentChar() == '.' {
		l.advance()
	}
	n, _ := strconv.Atoi(digits)
	return &Token{Type: MoveNumber, Num: n}
}

// normalizeMoveText maps the move spellings found in real files onto
// the SAN forms the engine accepts: lowercase and zero castling,
// ':' and 'X' capture markers, long algebraic '-' separators and a
// trailing en passant marker.
func normalizeMoveText(text string) string {
	switch text {
	case "O-O", "o-o", "0-0":
		return "O-O"
	case "O-O-O", "o-o-o", "0-0-0":
		return "O-O-O"
	}

	var sb strings.Builder
	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case ':', 'X':
			sb.WriteByte('x')
		case '-':
			// Long algebraic separator, as in e2-e4.
		default:
			sb.WriteByte(c)
		}
	}
	out := sb.String()
	if len(out) >= 6 && strings.HasSuffix(out, "ep") {
		out = out[:len(out)-2]
	}
	return out
}

// moveSeemsValid reports whether normalized text is shaped like a
// move, before any positional resolution.
func moveSeemsValid(text string) bool {
	if text == "O-O" || text == "O-O-O" {
		return true
	}
	if len(text) < 2 {
		return false
	}
	hasFile := false
	hasRank := false
	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case c >= 'a' && c <= 'h':
			hasFile = true
		case c >= '1' && c <= '8':
			hasRank = true
		}
	}
	return hasFile && hasRank
}

// annotationToNAG converts suffix annotations like "!?" to their
// numeric glyph form.
func annotationToNAG(annotation string) string {
	switch annotation {
	case "!":
		return "$1"
	case "?":
		return "$2"
	case "!!":
		return "$3"
	case "??":
		return "$4"
	case "!?":
		return "$5"
	case "?!":
		return "$6"
	default:
		return "$0"
	}
}
