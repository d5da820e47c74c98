package output

import (
	"encoding/json"
	"io"

	"github.com/kjmartin/chesskit/internal/chess"
	"github.com/kjmartin/chesskit/internal/config"
	"github.com/kjmartin/chesskit/internal/engine"
)

// JSONGame represents a game in JSON format.
type JSONGame struct {
	Tags       map[string]string `json:"tags"`
	Moves      []JSONMove        `json:"moves,omitempty"`
	Result     string            `json:"result,omitempty"`
	PlyCount   int               `json:"plyCount,omitempty"`
	FinalFEN   string            `json:"finalFEN,omitempty"`
	InitialFEN string            `json:"initialFEN,omitempty"`
}

// JSONMove represents a move in JSON format.
type JSONMove struct {
	MoveNumber int          `json:"moveNumber,omitempty"`
	Color      string       `json:"color"` // "white" or "black"
	SAN        string       `json:"san"`
	UCI        string       `json:"uci,omitempty"`
	From       string       `json:"from,omitempty"`
	To         string       `json:"to,omitempty"`
	Piece      string       `json:"piece,omitempty"`
	Captured   string       `json:"captured,omitempty"`
	Promotion  string       `json:"promotion,omitempty"`
	NAGs       []int        `json:"nags,omitempty"`
	Comments   []string     `json:"comments,omitempty"`
	Variations [][]JSONMove `json:"variations,omitempty"`
	FEN        string       `json:"fen,omitempty"`
}

// JSONOutput holds multiple games for array output.
type JSONOutput struct {
	Games []*JSONGame `json:"games"`
}

// OutputGameJSON outputs a single game in JSON format.
func OutputGameJSON(game *chess.Game, cfg *config.Config) {
	jsonGame := GameToJSON(game, cfg)
	enc := json.NewEncoder(cfg.OutputFile)
	enc.SetIndent("", "  ")
	enc.Encode(jsonGame) //nolint:gosec // G104: error handled via writer
}

// OutputGamesJSON outputs multiple games as a JSON array.
func OutputGamesJSON(games []*chess.Game, cfg *config.Config, w io.Writer) {
	jsonGames := make([]*JSONGame, len(games))
	for i, game := range games {
		jsonGames[i] = GameToJSON(game, cfg)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(&JSONOutput{Games: jsonGames}) //nolint:gosec // G104: error handled via writer
}

// GameToJSON converts a chess game to JSON format.
func GameToJSON(game *chess.Game, cfg *config.Config) *JSONGame {
	jg := &JSONGame{
		Tags: tagsToMap(&game.Tags),
	}

	if game.Tags.FEN != "" {
		jg.InitialFEN = game.Tags.FEN
	}

	if first, ok := game.Tree.MainNext(game.Tree.Root()); ok {
		jg.Moves = convertLine(game.Tree, cfg, first, true, cfg.Output.FENComments)
	}
	jg.PlyCount = game.PlyCount()
	jg.Result = game.Result()

	final := game.FinalPosition()
	jg.FinalFEN = engine.FormatFEN(&final)

	return jg
}

// tagsToMap copies game tags and ensures the seven tag roster has
// values.
func tagsToMap(tags *chess.Tags) map[string]string {
	result := make(map[string]string)
	for _, pair := range tags.Pairs() {
		key, value := pair[0], pair[1]
		if value == "" {
			value = "?"
		}
		result[key] = value
	}
	return result
}

// convertLine converts one line of play to JSON moves, starting at the
// given node and following mainline continuations. Variations replacing
// a move are attached to that move; the line's first move only carries
// them when attachFirst is set, since a variation's own siblings belong
// to the caller's level.
func convertLine(t *chess.MoveTree, cfg *config.Config, first chess.Index, attachFirst, withFEN bool) []JSONMove {
	var result []JSONMove

	at := first
	attach := attachFirst
	for {
		mv, ok := t.Move(at)
		if !ok {
			break
		}
		jm := convertMove(&mv, at, cfg)

		if withFEN {
			if pos, ok := t.Position(at); ok {
				jm.FEN = engine.FormatFEN(&pos)
			}
		}

		if attach && cfg.Output.KeepVariations {
			if prev, ok := t.Prev(at); ok {
				for _, vix := range t.Variations(prev) {
					line := convertLine(t, cfg, vix, false, false)
					if len(line) > 0 {
						jm.Variations = append(jm.Variations, line)
					}
				}
			}
		}

		result = append(result, jm)

		next, ok := t.MainNext(at)
		if !ok {
			break
		}
		at = next
		attach = true
	}

	return result
}

// convertMove converts a single move to JSON format.
func convertMove(move *chess.Move, at chess.Index, cfg *config.Config) JSONMove {
	jm := JSONMove{
		Color: colorName(at.Color),
		SAN:   move.SAN,
		UCI:   move.String(),
		From:  move.From.String(),
		To:    move.To.String(),
		Piece: pieceKindName(move.Piece.Kind()),
	}

	if at.Color == chess.White {
		jm.MoveNumber = at.Number
	}

	if move.IsCapture() {
		jm.Captured = pieceKindName(move.Captured.Kind())
	}

	if move.Promotes() {
		jm.Promotion = pieceKindName(move.Promotion)
	}

	if cfg.Output.KeepNAGs && len(move.NAGs) > 0 {
		jm.NAGs = append(jm.NAGs, move.NAGs...)
	}

	if cfg.Output.KeepComments && len(move.Comments) > 0 {
		jm.Comments = append(jm.Comments, move.Comments...)
	}

	return jm
}

// colorName returns "white" or "black".
func colorName(c chess.Color) string {
	if c == chess.White {
		return "white"
	}
	return "black"
}

// pieceKindName returns the piece kind as a lowercase string.
func pieceKindName(k chess.PieceKind) string {
	switch k {
	case chess.Pawn:
		return "pawn"
	case chess.Knight:
		return "knight"
	case chess.Bishop:
		return "bishop"
	case chess.Rook:
		return "rook"
	case chess.Queen:
		return "queen"
	case chess.King:
		return "king"
	default:
		return ""
	}
}
