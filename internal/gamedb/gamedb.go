// Package gamedb stores game collections in a badger database.
//
// Each stored game keeps its full PGN text plus a summary record for
// listing without a reparse. A signature index detects duplicates:
// games playing the same mainline from the same starting position.
package gamedb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/kjmartin/chesskit/internal/chess"
	"github.com/kjmartin/chesskit/internal/config"
	"github.com/kjmartin/chesskit/internal/errors"
	"github.com/kjmartin/chesskit/internal/hashing"
	"github.com/kjmartin/chesskit/internal/output"
	"github.com/kjmartin/chesskit/internal/parser"
)

var log = slog.Default().With("package", "gamedb")

const (
	gamePrefix = "game:"
	sigPrefix  = "sig:"
)

var keyNextID = []byte("meta:nextid")

// Record is the stored summary of a game. PGN holds the complete
// serialized game, annotations and variations included.
type Record struct {
	ID        uint64 `json:"id"`
	Event     string `json:"event,omitempty"`
	Date      string `json:"date,omitempty"`
	White     string `json:"white,omitempty"`
	Black     string `json:"black,omitempty"`
	Result    string `json:"result"`
	PlyCount  int    `json:"ply_count"`
	Signature string `json:"signature"`
	PGN       string `json:"pgn"`
}

// ImportStats summarizes an Import call.
type ImportStats struct {
	Stored     int
	Duplicates int
}

// DB is a game collection backed by badger.
type DB struct {
	db *badger.DB
}

// Open opens the collection at path, creating it if needed.
func Open(path string) (*DB, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "open collection %s", path)
	}
	log.Debug("opened collection", "path", path)
	return &DB{db: db}, nil
}

// Close closes the collection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Put stores a game and returns its id. A game whose signature is
// already stored wraps errors.ErrDuplicateGame and stores nothing.
func (d *DB) Put(g *chess.Game) (uint64, error) {
	return d.put(g, false)
}

func (d *DB) put(g *chess.Game, force bool) (uint64, error) {
	sig := hashing.Signature(g).Key()
	rec := Record{
		Event:     g.Tags.Event,
		Date:      g.Tags.Date,
		White:     g.Tags.White,
		Black:     g.Tags.Black,
		Result:    g.Result(),
		PlyCount:  g.PlyCount(),
		Signature: sig,
		PGN:       renderPGN(g),
	}

	var id uint64
	err := d.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(sigKey(sig))
		seen := err == nil
		if err != nil && err != badger.ErrKeyNotFound {
			return err
		}
		if seen && !force {
			return errors.Wrapf(errors.ErrDuplicateGame, "signature %s", sig)
		}

		id, err = nextID(txn)
		if err != nil {
			return err
		}
		rec.ID = id

		data, err := json.Marshal(&rec)
		if err != nil {
			return err
		}
		if err := txn.Set(gameKey(id), data); err != nil {
			return err
		}
		if !seen {
			// The index keeps the first id for a signature.
			return txn.Set(sigKey(sig), []byte(strconv.FormatUint(id, 10)))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	log.Debug("stored game", "id", id, "white", rec.White, "black", rec.Black)
	return id, nil
}

// Get returns the record with the given id. The second result is
// false when the id is not in the collection.
func (d *DB) Get(id uint64) (*Record, bool, error) {
	var rec Record
	found := false
	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gameKey(id))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil || !found {
		return nil, false, err
	}
	return &rec, true, nil
}

// Has reports whether a game with g's signature is stored.
func (d *DB) Has(g *chess.Game) (bool, error) {
	seen := false
	err := d.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(sigKey(hashing.Signature(g).Key()))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		seen = true
		return nil
	})
	return seen, err
}

// List returns every stored record in id order.
func (d *DB) List() ([]*Record, error) {
	var records []*Record
	err := d.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(gamePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var rec Record
				if err := json.Unmarshal(val, &rec); err != nil {
					return err
				}
				records = append(records, &rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return records, err
}

// Count returns the number of stored games.
func (d *DB) Count() (int, error) {
	count := 0
	err := d.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(gamePrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// Import stores games in order. When skipDuplicates is set, games
// whose signature is already stored are counted and dropped;
// otherwise they are stored like any other game.
func (d *DB) Import(games []*chess.Game, skipDuplicates bool) (ImportStats, error) {
	var stats ImportStats
	for _, g := range games {
		if skipDuplicates {
			if _, err := d.put(g, false); err != nil {
				if errors.Is(err, errors.ErrDuplicateGame) {
					stats.Duplicates++
					continue
				}
				return stats, err
			}
		} else {
			if _, err := d.put(g, true); err != nil {
				return stats, err
			}
		}
		stats.Stored++
	}
	log.Debug("import finished", "stored", stats.Stored, "duplicates", stats.Duplicates)
	return stats, nil
}

// Export writes every stored game to w, formatted per cfg. Stored
// games reparse from their PGN text, so format options apply the same
// way they do on file processing.
func (d *DB) Export(w io.Writer, cfg *config.Config) error {
	records, err := d.List()
	if err != nil {
		return err
	}

	gw := output.NewGameWriter(w, cfg)
	for _, rec := range records {
		game, err := parser.ParseOne(strings.NewReader(rec.PGN), nil)
		if err != nil {
			return errors.Wrapf(err, "stored game %d", rec.ID)
		}
		if err := gw.WriteGame(game); err != nil {
			return err
		}
	}
	return gw.Close()
}

func renderPGN(g *chess.Game) string {
	cfg := config.NewConfig()
	var buf bytes.Buffer
	cfg.SetOutput(&buf)
	output.OutputGame(g, cfg)
	return buf.String()
}

func nextID(txn *badger.Txn) (uint64, error) {
	var next uint64 = 1
	item, err := txn.Get(keyNextID)
	if err == nil {
		verr := item.Value(func(val []byte) error {
			n, perr := strconv.ParseUint(string(val), 10, 64)
			if perr != nil {
				return perr
			}
			next = n
			return nil
		})
		if verr != nil {
			return 0, verr
		}
	} else if err != badger.ErrKeyNotFound {
		return 0, err
	}
	return next, txn.Set(keyNextID, []byte(strconv.FormatUint(next+1, 10)))
}

func gameKey(id uint64) []byte {
	// Zero padding keeps key order equal to id order.
	return []byte(fmt.Sprintf("%s%020d", gamePrefix, id))
}

func sigKey(sig string) []byte {
	return []byte(sigPrefix + sig)
}
