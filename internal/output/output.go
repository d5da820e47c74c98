// Package output serializes games to PGN and JSON.
package output

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/kjmartin/chesskit/internal/chess"
	"github.com/kjmartin/chesskit/internal/config"
	"github.com/kjmartin/chesskit/internal/engine"
)

// clockAnnotationRegex matches clock annotations like [%clk H:MM:SS] or [%clk H:MM:SS.d]
var clockAnnotationRegex = regexp.MustCompile(`\[%clk\s+\d+:\d{2}:\d{2}(?:\.\d+)?\]`)

// stripClockAnnotations removes clock annotations from comment text.
func stripClockAnnotations(text string) string {
	return strings.TrimSpace(clockAnnotationRegex.ReplaceAllString(text, ""))
}

// OutputWriter handles formatted output with line length control.
type OutputWriter struct {
	w             io.Writer
	lineLength    int
	maxLineLength int
	needsSpace    bool
}

// NewOutputWriter creates a new output writer.
func NewOutputWriter(w io.Writer, maxLineLength int) *OutputWriter {
	if maxLineLength <= 0 {
		maxLineLength = 80
	}
	return &OutputWriter{
		w:             w,
		maxLineLength: maxLineLength,
	}
}

// Write writes a string, adding a space separator if needed.
func (o *OutputWriter) Write(s string) {
	if o.needsSpace && len(s) > 0 {
		// Check if we need a new line
		if o.lineLength+1+len(s) > o.maxLineLength {
			fmt.Fprintln(o.w)
			o.lineLength = 0
			o.needsSpace = false
		} else {
			fmt.Fprint(o.w, " ")
			o.lineLength++
		}
	}

	fmt.Fprint(o.w, s)
	o.lineLength += len(s)
	o.needsSpace = true
}

// WriteNoSpace writes without adding a leading space.
func (o *OutputWriter) WriteNoSpace(s string) {
	fmt.Fprint(o.w, s)
	o.lineLength += len(s)
	o.needsSpace = true
}

// NewLine starts a new line.
func (o *OutputWriter) NewLine() {
	fmt.Fprintln(o.w)
	o.lineLength = 0
	o.needsSpace = false
}

// OutputGame outputs a game in the configured format.
func OutputGame(game *chess.Game, cfg *config.Config) {
	writeGame(game, cfg, cfg.OutputFile)
}

// writeGame writes one game as PGN: tags, blank line, movetext,
// trailed by a blank line separating it from the next game.
func writeGame(game *chess.Game, cfg *config.Config, w io.Writer) {
	outputTags(game, cfg, w)

	// Blank line between tags and moves
	fmt.Fprintln(w)

	outputMoves(game, cfg, w)

	// Blank line between games
	fmt.Fprintln(w)
}

// outputTags outputs the game tags in canonical order: the seven tag
// roster and recognized supplemental tags first, then extension tags
// sorted by key.
func outputTags(game *chess.Game, cfg *config.Config, w io.Writer) {
	if cfg.Output.TagFormat == config.NoTags {
		return
	}

	for _, pair := range game.Tags.Pairs() {
		key, value := pair[0], pair[1]
		if cfg.Output.TagFormat == config.SevenTagRoster && !chess.IsSevenTagRosterTag(key) {
			continue
		}
		if value == "" {
			value = "?"
		}
		fmt.Fprintf(w, "[%s \"%s\"]\n", key, escapeTagValue(value))
	}
}

// escapeTagValue escapes special characters in tag values.
func escapeTagValue(s string) string {
	// Fast path: if no escaping needed, return original string
	if !strings.ContainsAny(s, "\\\"") {
		return s
	}
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}

// outputMoves outputs the movetext: the tree walked in emission order,
// variations parenthesized, comments braced, terminated by the result.
func outputMoves(game *chess.Game, cfg *config.Config, w io.Writer) {
	ow := NewOutputWriter(w, int(cfg.Output.MaxLineLength))

	if cfg.Output.KeepComments {
		for _, comment := range game.PrefixComments {
			outputComment(comment, cfg, ow)
		}
	}

	// A black move carries its "N..." number only after an
	// interruption: at the start of the movetext, entering or leaving
	// a variation, or following a comment. The first token after an
	// opening parenthesis attaches to it without a space.
	needNumber := true
	afterOpen := false
	varDepth := 0

	emit := func(s string) {
		if afterOpen {
			ow.WriteNoSpace(s)
			afterOpen = false
		} else {
			ow.Write(s)
		}
	}

	game.Tree.Walk(func(item chess.WalkItem) bool {
		switch item.Event {
		case chess.EnterVariation:
			varDepth++
			if !cfg.Output.KeepVariations {
				return true
			}
			ow.Write("(")
			needNumber = true
			afterOpen = true
		case chess.ExitVariation:
			varDepth--
			if !cfg.Output.KeepVariations {
				return true
			}
			ow.WriteNoSpace(")")
			needNumber = true
			afterOpen = false
		case chess.VisitMove:
			if varDepth > 0 && !cfg.Output.KeepVariations {
				return true
			}
			if cfg.Output.KeepMoveNumbers {
				if item.Index.Color == chess.White {
					emit(fmt.Sprintf("%d.", item.Index.Number))
				} else if needNumber {
					emit(fmt.Sprintf("%d...", item.Index.Number))
				}
			}
			needNumber = false

			emit(formatMove(&item.Move, cfg.Output.Format))

			if cfg.Output.KeepNAGs {
				for _, nag := range item.Move.NAGs {
					ow.Write(fmt.Sprintf("$%d", nag))
				}
			}

			if cfg.Output.KeepComments {
				for _, comment := range item.Move.Comments {
					if outputComment(comment, cfg, ow) {
						needNumber = true
					}
				}
			}

			if cfg.Output.FENComments && varDepth == 0 {
				if pos, ok := game.Tree.Position(item.Index); ok {
					ow.Write("{" + engine.FormatFEN(&pos) + "}")
					needNumber = true
				}
			}
		}
		return true
	})

	if cfg.Output.KeepResults {
		ow.Write(game.Result())
	}

	ow.NewLine()
}

// outputComment writes a comment, optionally stripping clock
// annotations. Reports whether anything was written.
func outputComment(comment string, cfg *config.Config, ow *OutputWriter) bool {
	if cfg.Output.StripClockAnnotations {
		comment = stripClockAnnotations(comment)
	}
	if comment == "" {
		return false
	}
	ow.Write("{" + comment + "}")
	return true
}

// formatMove formats a move in the specified notation.
func formatMove(move *chess.Move, format config.MoveFormat) string {
	switch format {
	case config.LALG:
		return formatLongAlgebraic(move)
	case config.UCI:
		return move.String()
	default:
		return move.SAN
	}
}

// formatLongAlgebraic formats a move in long algebraic notation:
// piece letter, origin, destination, promotion suffix. Castling keeps
// its SAN spelling.
func formatLongAlgebraic(move *chess.Move) string {
	if move.Castle {
		if move.To.File() > move.From.File() {
			return "O-O"
		}
		return "O-O-O"
	}

	var sb strings.Builder
	if letter := move.Piece.Kind().Letter(); letter != 0 {
		sb.WriteByte(letter)
	}
	sb.WriteString(move.From.String())
	sb.WriteString(move.To.String())
	if move.Promotes() {
		sb.WriteByte('=')
		sb.WriteByte(move.Promotion.Letter())
	}
	return sb.String()
}
