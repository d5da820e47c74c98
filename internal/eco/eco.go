// Package eco provides ECO (Encyclopaedia of Chess Openings)
// classification against a YAML opening book.
//
// A book is a YAML list of opening lines:
//
//	- eco: B90
//	  name: "Sicilian Defense: Najdorf Variation"
//	  moves: e4 c5 Nf3 d6 d4 cxd4 Nxd4 Nf6 Nc3 a6
//
// Moves are SAN, space separated. The fen field is optional; when
// present it must describe the position after the moves, written
// without the halfmove and fullmove counters. A Book never changes
// after loading, so lookups are safe for concurrent use.
package eco

import (
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kjmartin/chesskit/internal/chess"
	"github.com/kjmartin/chesskit/internal/engine"
	"github.com/kjmartin/chesskit/internal/errors"
)

// Entry is one opening line of a book.
type Entry struct {
	ECO   string `yaml:"eco"`
	Name  string `yaml:"name,omitempty"`
	Moves string `yaml:"moves"`
	FEN   string `yaml:"fen,omitempty"`

	plies int
}

// Book is an opening table keyed by move sequence, by position, and by
// opening name.
type Book struct {
	entries  []*Entry
	byMoves  map[string]*Entry
	byFEN    map[string]*Entry
	byName   map[string]*Entry
	maxPlies int
}

// Load reads an opening book from a YAML file.
func Load(path string) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b, err := LoadReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "book %s", path)
	}
	return b, nil
}

// LoadReader reads an opening book from r. Every entry is replayed
// from the starting position, so a book that loads contains only legal
// lines.
func LoadReader(r io.Reader) (*Book, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var entries []*Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidBook, "%v", err)
	}

	b := &Book{
		byMoves: make(map[string]*Entry, len(entries)),
		byFEN:   make(map[string]*Entry, len(entries)),
		byName:  make(map[string]*Entry, len(entries)),
	}
	for i, e := range entries {
		if err := b.add(e); err != nil {
			return nil, errors.Wrapf(err, "entry %d", i+1)
		}
	}
	return b, nil
}

func (b *Book) add(e *Entry) error {
	if e.ECO == "" {
		return errors.Wrap(errors.ErrInvalidBook, "missing eco code")
	}
	sans := strings.Fields(e.Moves)
	if len(sans) == 0 {
		return errors.Wrapf(errors.ErrInvalidBook, "%s: missing moves", e.ECO)
	}

	g := engine.NewStandardGame()
	if _, err := engine.PushLine(g, g.Tree.Root(), sans); err != nil {
		return errors.Wrapf(errors.ErrInvalidBook, "%s: %v", e.ECO, err)
	}

	// Index under the canonical SAN spelling, not the author's, so
	// lookups with engine-rendered moves match books written with
	// older notation habits.
	canonical := strings.Join(g.MainlineSAN(), " ")
	if _, ok := b.byMoves[canonical]; ok {
		return errors.Wrapf(errors.ErrInvalidBook, "%s: duplicate line %q", e.ECO, canonical)
	}

	final := g.FinalPosition()
	derived := fenKey(engine.FormatFEN(&final))
	if e.FEN != "" && fenKey(e.FEN) != derived {
		return errors.Wrapf(errors.ErrInvalidBook, "%s: fen %q does not match moves", e.ECO, e.FEN)
	}
	e.FEN = derived
	e.plies = strings.Count(canonical, " ") + 1

	b.entries = append(b.entries, e)
	b.byMoves[canonical] = e
	if b.byFEN[derived] == nil {
		// Transposing entries keep the first line for the position.
		b.byFEN[derived] = e
	}
	if e.Name != "" && b.byName[e.Name] == nil {
		b.byName[e.Name] = e
	}
	if e.plies > b.maxPlies {
		b.maxPlies = e.plies
	}
	return nil
}

// Save writes the book as YAML with every entry in canonical form.
func (b *Book) Save(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(b.entries); err != nil {
		return err
	}
	return enc.Close()
}

// Len reports the number of entries in the book.
func (b *Book) Len() int {
	return len(b.entries)
}

// Search finds the longest prefix of sans that is a book line,
// shortening one move at a time. A game that leaves the book still
// classifies by where it left. The second result is false when no
// prefix matches.
func (b *Book) Search(sans []string) (*Entry, bool) {
	n := len(sans)
	if n > b.maxPlies {
		n = b.maxPlies
	}
	key := strings.Join(sans[:n], " ")
	for key != "" {
		if e, ok := b.byMoves[key]; ok {
			return e, true
		}
		i := strings.LastIndexByte(key, ' ')
		if i < 0 {
			break
		}
		key = key[:i]
	}
	return nil, false
}

// GetByMoves finds the entry whose line is exactly sans.
func (b *Book) GetByMoves(sans []string) (*Entry, bool) {
	e, ok := b.byMoves[strings.Join(sans, " ")]
	return e, ok
}

// GetByFEN finds the entry for a position. The halfmove and fullmove
// counters of fen are ignored.
func (b *Book) GetByFEN(fen string) (*Entry, bool) {
	e, ok := b.byFEN[fenKey(fen)]
	return e, ok
}

// GetByName finds the entry with the given opening name.
func (b *Book) GetByName(name string) (*Entry, bool) {
	e, ok := b.byName[name]
	return e, ok
}

// Classify finds the deepest mainline position of g that is in the
// book. Matching is by position, so a transposed move order classifies
// the same as the book line it transposes into.
func (b *Book) Classify(g *chess.Game) (*Entry, bool) {
	line := g.Tree.Mainline()
	limit := len(line)
	if limit > b.maxPlies {
		limit = b.maxPlies
	}
	for i := limit - 1; i >= 0; i-- {
		pos, ok := g.Tree.Position(line[i])
		if !ok {
			continue
		}
		if e, ok := b.byFEN[fenKey(engine.FormatFEN(&pos))]; ok {
			return e, true
		}
	}
	return nil, false
}

// AddOpeningTags classifies g and fills its ECO and Opening tags,
// replacing any present. It reports whether a classification was
// found.
func (b *Book) AddOpeningTags(g *chess.Game) bool {
	e, ok := b.Classify(g)
	if !ok {
		return false
	}
	g.Tags.ECO = e.ECO
	if e.Name != "" {
		g.Tags.Opening = e.Name
	}
	return true
}

// fenKey drops the halfmove and fullmove counters from a FEN so that
// positions match at any clock state.
func fenKey(fen string) string {
	fields := strings.Fields(fen)
	if len(fields) > 4 {
		fields = fields[:4]
	}
	return strings.Join(fields, " ")
}
