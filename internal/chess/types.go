// Package chess provides the core record types: tag pairs, plies, turns and games.
//
// Board state is not modelled here. Moves are applied by a MoveApplier
// supplied by the caller, which hands back the Ply it recorded.
package chess

// Colour represents the side that played a ply.
type Colour int

const (
	Black Colour = iota
	White
)

// String returns the string representation of a colour.
func (c Colour) String() string {
	if c == White {
		return "White"
	}
	return "Black"
}

// ColourAt returns the side that plays the ply at the given 0-based index of
// a history that starts with White.
func ColourAt(index int) Colour {
	if index%2 == 0 {
		return White
	}
	return Black
}

// Game termination markers.
const (
	WhiteWins  = "1-0"
	BlackWins  = "0-1"
	Draw       = "1/2-1/2"
	Unfinished = "*"
)

// Results lists the termination markers in the order they are stripped from
// move tokens. Draw comes first so that "1/2-1/2" is not partially consumed.
var Results = []string{Draw, WhiteWins, BlackWins}

// IsResult returns true if s is one of the termination markers.
func IsResult(s string) bool {
	switch s {
	case WhiteWins, BlackWins, Draw, Unfinished:
		return true
	default:
		return false
	}
}
