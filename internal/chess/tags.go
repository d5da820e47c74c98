package chess

import "sort"

// Tags holds a game's PGN tag pairs as a fixed record of well-known
// fields plus an open map for extension tags. Set dispatches a key to
// its field once, at parse time; unknown keys land in Extra.
type Tags struct {
	Event  string
	Site   string
	Date   string
	Round  string
	White  string
	Black  string
	Result string

	WhiteElo    string
	BlackElo    string
	ECO         string
	Opening     string
	Annotator   string
	PlyCount    string
	TimeControl string
	Termination string
	EventDate   string
	SetUp       string
	FEN         string

	Extra map[string]string
}

// SevenTagRoster lists the seven required PGN tags in canonical order.
var SevenTagRoster = []string{
	"Event",
	"Site",
	"Date",
	"Round",
	"White",
	"Black",
	"Result",
}

// knownTagOrder is the emission order for recognized tags: the seven
// tag roster followed by the common supplemental tags.
var knownTagOrder = []string{
	"Event",
	"Site",
	"Date",
	"Round",
	"White",
	"Black",
	"Result",
	"WhiteElo",
	"BlackElo",
	"ECO",
	"Opening",
	"Annotator",
	"PlyCount",
	"TimeControl",
	"Termination",
	"EventDate",
	"SetUp",
	"FEN",
}

// IsSevenTagRosterTag reports whether the key is one of the seven
// required tags.
func IsSevenTagRosterTag(key string) bool {
	for _, t := range SevenTagRoster {
		if t == key {
			return true
		}
	}
	return false
}

func (t *Tags) field(key string) *string {
	switch key {
	case "Event":
		return &t.Event
	case "Site":
		return &t.Site
	case "Date":
		return &t.Date
	case "Round":
		return &t.Round
	case "White":
		return &t.White
	case "Black":
		return &t.Black
	case "Result":
		return &t.Result
	case "WhiteElo":
		return &t.WhiteElo
	case "BlackElo":
		return &t.BlackElo
	case "ECO":
		return &t.ECO
	case "Opening":
		return &t.Opening
	case "Annotator":
		return &t.Annotator
	case "PlyCount":
		return &t.PlyCount
	case "TimeControl":
		return &t.TimeControl
	case "Termination":
		return &t.Termination
	case "EventDate":
		return &t.EventDate
	case "SetUp":
		return &t.SetUp
	case "FEN":
		return &t.FEN
	}
	return nil
}

// Set stores a tag pair, dispatching known keys to their fields and
// the rest to Extra.
func (t *Tags) Set(key, value string) {
	if f := t.field(key); f != nil {
		*f = value
		return
	}
	if t.Extra == nil {
		t.Extra = make(map[string]string)
	}
	t.Extra[key] = value
}

// Get returns the value for a tag key and whether it is present.
// Known tags are present when non-empty.
func (t *Tags) Get(key string) (string, bool) {
	if f := t.field(key); f != nil {
		return *f, *f != ""
	}
	v, ok := t.Extra[key]
	return v, ok
}

// Has reports whether the tag key carries a value.
func (t *Tags) Has(key string) bool {
	_, ok := t.Get(key)
	return ok
}

// Pairs returns the tag pairs in canonical emission order: recognized
// tags first in fixed order (the seven tag roster always included,
// empty or not), then extension tags sorted by key.
func (t *Tags) Pairs() [][2]string {
	pairs := make([][2]string, 0, len(knownTagOrder)+len(t.Extra))
	for _, key := range knownTagOrder {
		v := *t.field(key)
		if v == "" && !IsSevenTagRosterTag(key) {
			continue
		}
		pairs = append(pairs, [2]string{key, v})
	}
	extra := make([]string, 0, len(t.Extra))
	for key := range t.Extra {
		extra = append(extra, key)
	}
	sort.Strings(extra)
	for _, key := range extra {
		pairs = append(pairs, [2]string{key, t.Extra[key]})
	}
	return pairs
}
