package parser

import (
	"fmt"
	"io"

	"github.com/kjmartin/chesskit/internal/chess"
	"github.com/kjmartin/chesskit/internal/engine"
	"github.com/kjmartin/chesskit/internal/errors"
)

// Options control how input defects are treated. The zero value is
// strict mode: the first defect stops the parse with an error and no
// partial game.
type Options struct {
	// Lenient recovers from defects the way the legacy importer did:
	// skip the offending fragment, log a diagnostic and carry on. It
	// also accepts a FEN tag without a SetUp tag and games that end
	// without a result.
	Lenient bool

	// Log receives lenient-mode diagnostics. Nil discards them.
	Log io.Writer

	// File names the input in errors and diagnostics.
	File string
}

// Parser reads a stream of games. Moves are resolved against the
// position they are played from as they are read, so every move in a
// returned game is legal and carries its canonical SAN.
type Parser struct {
	lexer   *Lexer
	tok     *Token
	opts    *Options
	gameNum int
}

// NewParser creates a parser over r. Nil options mean strict mode.
func NewParser(r io.Reader, opts *Options) *Parser {
	if opts == nil {
		opts = &Options{}
	}
	return &Parser{lexer: NewLexer(r, opts), opts: opts}
}

func (p *Parser) next() {
	p.tok = p.lexer.NextToken()
}

func (p *Parser) logf(format string, args ...interface{}) {
	if p.opts.Log != nil {
		fmt.Fprintf(p.opts.Log, format, args...)
	}
}

// lexError wraps an ErrorToken from the lexer. Only strict mode
// produces these; the lenient lexer recovers on its own.
func (p *Parser) lexError() error {
	return &errors.ParseError{
		Err:    fmt.Errorf("%s: %w", p.tok.Text, errors.ErrParseFailure),
		File:   p.opts.File,
		Line:   p.tok.Line,
		Column: p.tok.Column,
	}
}

func (p *Parser) syntaxError(expected string) error {
	return &errors.ParseError{
		Err:      errors.ErrParseFailure,
		File:     p.opts.File,
		Line:     p.tok.Line,
		Column:   p.tok.Column,
		Expected: expected,
		Got:      describeToken(p.tok),
	}
}

func describeToken(tok *Token) string {
	switch tok.Type {
	case MoveToken, TagToken, StringToken, TerminatingResult:
		return fmt.Sprintf("%s %q", tok.Type, tok.Text)
	default:
		return tok.Type.String()
	}
}

// ParseGame parses the next game from the input. It returns nil with
// a nil error once the input is exhausted. A failed parse returns no
// game; there are no partial results.
func (p *Parser) ParseGame() (*chess.Game, error) {
	if p.tok == nil {
		p.next()
	}

	prefix := p.skipToGameStart()
	if p.tok.Type == EOFToken {
		return nil, nil
	}
	p.gameNum++
	return p.parseOneGame(prefix)
}

// ParseAll parses every remaining game. In strict mode the first
// failure stops the stream, returning the games parsed so far along
// with the error. In lenient mode a failed game is logged and skipped
// and the stream continues.
func (p *Parser) ParseAll() ([]*chess.Game, error) {
	var games []*chess.Game
	for {
		g, err := p.ParseGame()
		if err != nil {
			if !p.opts.Lenient {
				return games, err
			}
			p.logf("Skipping game %d: %v\n", p.gameNum, err)
			p.recoverToNextGame()
			continue
		}
		if g == nil {
			return games, nil
		}
		games = append(games, g)
	}
}

// ParseOne parses exactly one game and requires the input to contain
// nothing else. In strict mode any content beyond the single game,
// such as a second blank-line-delimited section, fails the parse.
func ParseOne(r io.Reader, opts *Options) (*chess.Game, error) {
	p := NewParser(r, opts)
	g, err := p.ParseGame()
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, &errors.ParseError{
			Err:      errors.ErrParseFailure,
			File:     p.opts.File,
			Expected: "a game",
			Got:      "end of input",
		}
	}

	for p.tok.Type == SectionBreak {
		p.next()
	}
	if p.tok.Type == ErrorToken {
		return nil, p.lexError()
	}
	if p.tok.Type != EOFToken {
		if !p.opts.Lenient {
			return nil, p.syntaxError("end of input after the game")
		}
		p.logf("Ignoring content after the game on line %d.\n", p.tok.Line)
	}
	return g, nil
}

// skipToGameStart advances to the first token that can begin a game,
// collecting comments found on the way so they are not lost.
func (p *Parser) skipToGameStart() []string {
	var comments []string
	for {
		switch p.tok.Type {
		case EOFToken, TagToken, MoveToken, MoveNumber, TerminatingResult, ErrorToken:
			return comments
		case CommentToken:
			comments = append(comments, p.tok.Text)
			p.next()
		default:
			p.next()
		}
	}
}

// recoverToNextGame drops tokens until something that could start a
// new game.
func (p *Parser) recoverToNextGame() {
	for {
		switch p.tok.Type {
		case EOFToken, TagToken, SectionBreak:
			return
		default:
			p.next()
		}
	}
}

func (p *Parser) parseOneGame(prefix []string) (*chess.Game, error) {
	startLine := p.tok.Line

	var tags chess.Tags
	if err := p.parseTagSection(&tags); err != nil {
		return nil, err
	}

	// The separator between the tag section and the movetext.
	if p.tok.Type == SectionBreak {
		p.next()
	}

	pos, err := engine.StartingPosition(&tags, p.opts.Lenient)
	if err != nil {
		if !p.opts.Lenient {
			return nil, &errors.GameError{
				Err:     err,
				GameNum: p.gameNum,
				File:    p.opts.File,
				Line:    startLine,
			}
		}
		p.logf("Game %d: %v; using the standard starting position.\n", p.gameNum, err)
		pos = engine.StartPos()
	}

	g := chess.NewGame(pos)
	g.Tags = tags
	g.PrefixComments = prefix
	g.StartLine = startLine

	if err := p.parseMovetext(g); err != nil {
		return nil, err
	}
	g.EndLine = p.lexer.LineNumber()
	return g, nil
}

func (p *Parser) parseTagSection(tags *chess.Tags) error {
	for {
		switch p.tok.Type {
		case TagToken:
			if err := p.parseTagPair(tags); err != nil {
				return err
			}
		case StringToken:
			if !p.opts.Lenient {
				return p.syntaxError("tag name before the value string")
			}
			p.logf("Tag value %q without a name on line %d.\n", p.tok.Text, p.tok.Line)
			p.next()
		case ErrorToken:
			return p.lexError()
		default:
			return nil
		}
	}
}

func (p *Parser) parseTagPair(tags *chess.Tags) error {
	name := p.tok.Text
	line := p.tok.Line
	p.next()

	if p.tok.Type == ErrorToken {
		return p.lexError()
	}
	if p.tok.Type != StringToken {
		if !p.opts.Lenient {
			return p.syntaxError(fmt.Sprintf("value string for tag %q", name))
		}
		p.logf("Missing value for tag %q on line %d.\n", name, line)
		return nil
	}
	value := p.tok.Text
	p.next()

	if p.tok.Type == ErrorToken {
		return p.lexError()
	}
	if p.tok.Type != TagEnd {
		if !p.opts.Lenient {
			return p.syntaxError(fmt.Sprintf("']' to close tag %q", name))
		}
		p.logf("Missing ']' for tag %q on line %d.\n", name, line)
	} else {
		p.next()
	}

	tags.Set(name, value)
	return nil
}

// parseMovetext reads moves, annotations and variations into the
// game's tree until a result token or, leniently, until the game runs
// out some other way. An opening parenthesis rewinds to the position
// before the current move; its alternatives grow from there, and the
// matching close parenthesis restores the line that was interrupted.
func (p *Parser) parseMovetext(g *chess.Game) error {
	// Each open variation remembers the line it interrupted, so that
	// annotations after the closing ')' land on that line's last move
	// rather than inside the variation.
	type ravFrame struct {
		at        chess.Index
		lastMoved chess.Index
		moved     bool
	}

	at := g.Tree.Root()
	var stack []ravFrame
	var lastMoved chess.Index
	moved := false
	ply := 0
	result := ""

loop:
	for {
		switch p.tok.Type {
		case MoveNumber, CheckSymbol:
			// Move numbers are decorative; check marks are rederived
			// when SAN is regenerated.
			p.next()

		case MoveToken:
			ix, err := engine.PushSAN(g, at, p.tok.Text)
			if err != nil {
				if !p.opts.Lenient {
					return &errors.GameError{
						Err:      err,
						GameNum:  p.gameNum,
						PlyNum:   ply + 1,
						MoveText: p.tok.Text,
						File:     p.opts.File,
						Line:     p.tok.Line,
					}
				}
				p.logf("Game %d: dropping unplayable move %s on line %d.\n", p.gameNum, p.tok.Text, p.tok.Line)
				p.next()
				continue
			}
			at = ix
			lastMoved = ix
			moved = true
			ply++
			p.next()

		case NAGToken:
			if moved {
				g.Tree.AddNAG(lastMoved, p.tok.Num)
			}
			p.next()

		case CommentToken:
			if moved {
				g.Tree.AddComment(lastMoved, p.tok.Text)
			} else {
				g.PrefixComments = append(g.PrefixComments, p.tok.Text)
			}
			p.next()

		case RAVStart:
			prev, ok := g.Tree.Prev(at)
			if !ok {
				if !p.opts.Lenient {
					return p.syntaxError("a move before the variation")
				}
				p.logf("Game %d: variation before any move on line %d.\n", p.gameNum, p.tok.Line)
				p.next()
				p.skipVariation()
				continue
			}
			stack = append(stack, ravFrame{at: at, lastMoved: lastMoved, moved: moved})
			at = prev
			p.next()

		case RAVEnd:
			if len(stack) == 0 {
				if !p.opts.Lenient {
					return p.syntaxError("'(' to match")
				}
				p.logf("Game %d: unmatched ')' on line %d.\n", p.gameNum, p.tok.Line)
				p.next()
				continue
			}
			frame := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			at, lastMoved, moved = frame.at, frame.lastMoved, frame.moved
			p.next()

		case TerminatingResult:
			if len(stack) > 0 {
				if !p.opts.Lenient {
					return p.syntaxError("')' to close the variation")
				}
				p.logf("Game %d: result inside a variation on line %d.\n", p.gameNum, p.tok.Line)
				p.next()
				continue
			}
			result = p.tok.Text
			p.next()
			break loop

		case SectionBreak:
			if !p.opts.Lenient {
				if moved {
					return p.syntaxError("game result before the blank line")
				}
				return p.syntaxError("movetext")
			}
			p.logf("Game %d ended without a result.\n", p.gameNum)
			break loop

		case TagToken:
			if !p.opts.Lenient {
				return p.syntaxError("game result before the next game")
			}
			p.logf("Game %d ended without a result.\n", p.gameNum)
			break loop

		case EOFToken:
			if len(stack) > 0 {
				if !p.opts.Lenient {
					return p.syntaxError("')' to close the variation")
				}
				p.logf("Game %d: unterminated variation.\n", p.gameNum)
			}
			if !p.opts.Lenient {
				return p.syntaxError("game result")
			}
			p.logf("Game %d ended without a result.\n", p.gameNum)
			break loop

		case ErrorToken:
			return p.lexError()

		default:
			if !p.opts.Lenient {
				return p.syntaxError("movetext")
			}
			p.logf("Game %d: unexpected %s on line %d.\n", p.gameNum, describeToken(p.tok), p.tok.Line)
			p.next()
		}
	}

	if result != "" && (g.Tags.Result == "" || g.Tags.Result == "?") {
		g.Tags.Set("Result", result)
	}
	return nil
}

// skipVariation consumes a balanced variation body whose opening '('
// has already been consumed.
func (p *Parser) skipVariation() {
	depth := 1
	for depth > 0 {
		switch p.tok.Type {
		case RAVStart:
			depth++
		case RAVEnd:
			depth--
		case EOFToken:
			return
		}
		p.next()
	}
}
