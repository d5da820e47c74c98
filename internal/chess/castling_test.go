package chess

import "testing"

func TestCastlingRightsString(t *testing.T) {
	tests := []struct {
		rights CastlingRights
		want   string
	}{
		{AllRights, "KQkq"},
		{NoRights, "-"},
		{WhiteKingside, "K"},
		{WhiteKingside | BlackQueenside, "Kq"},
		{BlackKingside | BlackQueenside, "kq"},
		{WhiteQueenside | BlackKingside, "Qk"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.rights.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			parsed, err := ParseCastlingRights(tt.want)
			if err != nil {
				t.Fatalf("ParseCastlingRights(%q) error: %v", tt.want, err)
			}
			if parsed != tt.rights {
				t.Errorf("ParseCastlingRights(%q) = %v, want %v", tt.want, parsed, tt.rights)
			}
		})
	}
}

func TestParseCastlingRightsRejectsMalformed(t *testing.T) {
	for _, text := range []string{"", "KK", "qK", "KQkqK", "X", "KQxq"} {
		if _, err := ParseCastlingRights(text); err == nil {
			t.Errorf("ParseCastlingRights(%q) accepted malformed field", text)
		}
	}
}

func TestCastlingRightsMonotonic(t *testing.T) {
	r := AllRights
	r = r.Clear(WhiteKingside)
	if r.Has(WhiteKingside) {
		t.Error("right still present after Clear")
	}
	// Clearing again must not re-grant anything.
	r = r.Clear(WhiteKingside)
	if r != WhiteQueenside|BlackKingside|BlackQueenside {
		t.Errorf("rights = %v after double clear, want Qkq", r)
	}
	r = r.ClearColor(Black)
	if r.Has(BlackKingside) || r.Has(BlackQueenside) {
		t.Error("black rights survive ClearColor")
	}
	if !r.Has(WhiteQueenside) {
		t.Error("ClearColor(Black) touched a white right")
	}
}
