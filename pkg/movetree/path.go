package movetree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

var (
	// ErrMalformedPath is returned when a path string contains no usable
	// move tokens.
	ErrMalformedPath = errors.New("malformed move path")

	// ErrIllegalMove is returned when a token cannot be resolved against
	// the board state it is matched at.
	ErrIllegalMove = errors.New("illegal move")
)

// FormatMoves renders SAN tokens in canonical path form: moves grouped in
// pairs numbered from 1, white move prefixed "N.", black move bare, e.g.
// "1.e4 c5 2.Nf3".
func FormatMoves(sans []string) string {
	parts := make([]string, 0, len(sans))
	for i, san := range sans {
		if i%2 == 0 {
			parts = append(parts, fmt.Sprintf("%d.%s", i/2+1, san))
		} else {
			parts = append(parts, san)
		}
	}
	return strings.Join(parts, " ")
}

// SplitMoves tokenizes a canonical path string back into bare SAN tokens,
// discarding move numbers. An input with no move tokens at all is malformed.
func SplitMoves(s string) ([]string, error) {
	var tokens []string
	for _, tok := range strings.Fields(strings.ReplaceAll(s, ".", " ")) {
		if tok == "" || isDigits(tok) {
			continue
		}
		tokens = append(tokens, tok)
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedPath, s)
	}
	return tokens, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// DecodeMoves resolves a canonical path string into Moves by walking the
// tokens forward from the starting position. Resolution can fail
// mid-sequence; callers matching filter patterns treat that as
// "never matches" rather than aborting.
func DecodeMoves(s string) ([]Move, error) {
	tokens, err := SplitMoves(s)
	if err != nil {
		return nil, err
	}
	return resolveTokens(tokens, s)
}

func resolveTokens(tokens []string, origin string) ([]Move, error) {
	pos := chess.StartingPosition()
	notation := chess.AlgebraicNotation{}
	moves := make([]Move, 0, len(tokens))
	for _, tok := range tokens {
		m, err := notation.Decode(pos, tok)
		if err != nil {
			return nil, fmt.Errorf("%w: %q in sequence %q", ErrIllegalMove, tok, origin)
		}
		moves = append(moves, Move{SAN: notation.Encode(pos, m), UCI: m.String()})
		pos = pos.Update(m)
	}
	return moves, nil
}

// PathString renders a decoded move sequence in canonical form.
func PathString(moves []Move) string {
	sans := make([]string, len(moves))
	for i, m := range moves {
		sans[i] = m.SAN
	}
	return FormatMoves(sans)
}

// HasPrefix reports whether path starts with the full pattern sequence,
// comparing by move identity.
func HasPrefix(path, pattern []Move) bool {
	if len(path) < len(pattern) {
		return false
	}
	for i := range pattern {
		if path[i].UCI != pattern[i].UCI {
			return false
		}
	}
	return true
}
