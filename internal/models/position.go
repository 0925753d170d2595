package models

import (
	"fmt"
	"strings"
)

// Position is the two-letter position code without a side.
type Position string

const (
	PositionGK Position = "GK"
	PositionDF Position = "DF"
	PositionDM Position = "DM"
	PositionMF Position = "MF"
	PositionAM Position = "AM"
	PositionFW Position = "FW"
)

// Side is the lane an outfield player is fielded on.
type Side byte

const (
	SideNone   Side = 0
	SideLeft   Side = 'L'
	SideRight  Side = 'R'
	SideCenter Side = 'C'
)

func (s Side) String() string {
	if s == SideNone {
		return ""
	}
	return string(rune(s))
}

// IsLegalSide reports whether c is one of L, R, C.
func IsLegalSide(c byte) bool {
	return c == byte(SideLeft) || c == byte(SideRight) || c == byte(SideCenter)
}

// FullPosition is a position with its side, e.g. "DFL", or just "GK".
type FullPosition struct {
	Position Position
	Side     Side
}

// ParseFullPosition splits "DML" into DM + L. "GK" has no side.
// knownPosition validates the two-letter code; pass nil to accept any code.
func ParseFullPosition(s string, knownPosition func(string) bool) (FullPosition, error) {
	if s == string(PositionGK) {
		return FullPosition{Position: PositionGK}, nil
	}
	if len(s) != 3 {
		return FullPosition{}, fmt.Errorf("illegal position %q", s)
	}
	pos, side := s[:2], s[2]
	if knownPosition != nil && !knownPosition(pos) {
		return FullPosition{}, fmt.Errorf("illegal position %q", s)
	}
	if !IsLegalSide(side) {
		return FullPosition{}, fmt.Errorf("illegal side in position %q", s)
	}
	return FullPosition{Position: Position(pos), Side: Side(side)}, nil
}

func (f FullPosition) String() string {
	if f.Position == PositionGK {
		return string(PositionGK)
	}
	return string(f.Position) + f.Side.String()
}

func (f FullPosition) IsGoalkeeper() bool {
	return f.Position == PositionGK
}

// PreferredSides holds the side-preference flags derived once from the
// roster's preferred-side string (any combination of L, R, C).
type PreferredSides struct {
	Left   bool
	Right  bool
	Center bool
}

func ParsePreferredSides(pref string) PreferredSides {
	return PreferredSides{
		Left:   strings.ContainsRune(pref, 'L'),
		Right:  strings.ContainsRune(pref, 'R'),
		Center: strings.ContainsRune(pref, 'C'),
	}
}

// Likes reports whether side is one of the preferred sides.
func (p PreferredSides) Likes(side Side) bool {
	switch side {
	case SideLeft:
		return p.Left
	case SideRight:
		return p.Right
	case SideCenter:
		return p.Center
	}
	return false
}
