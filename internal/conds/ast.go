// Package conds parses the conditional instructions a manager writes at the
// bottom of a teamsheet:
//
//	TACTIC A IF SCORE < 0, MIN >= 70
//	SUB FWC 14 FWC IF MIN = 60
//	CHANGEPOS 7 DMC IF RED DFC
//
// Parsing produces immutable values. Evaluating conditions and executing
// actions against a running match is the simulator's job, which switches
// over the closed sets of Action and Condition kinds defined here.
package conds

import (
	"fmt"
	"strconv"
	"strings"
)

// Comparison is a relational operator of MIN and SCORE conditions.
type Comparison string

const (
	Equal        Comparison = "="
	GreaterEqual Comparison = ">="
	LessEqual    Comparison = "<="
	Greater      Comparison = ">"
	Less         Comparison = "<"
)

// ParseComparison accepts the five operators plus the "=>" and "=<" aliases.
func ParseComparison(s string) (Comparison, bool) {
	switch s {
	case "=":
		return Equal, true
	case ">=", "=>":
		return GreaterEqual, true
	case "<=", "=<":
		return LessEqual, true
	case ">":
		return Greater, true
	case "<":
		return Less, true
	}
	return "", false
}

// Compare reports whether "a c b" holds.
func (c Comparison) Compare(a, b int) bool {
	switch c {
	case Equal:
		return a == b
	case GreaterEqual:
		return a >= b
	case LessEqual:
		return a <= b
	case Greater:
		return a > b
	case Less:
		return a < b
	}
	return false
}

// NoIndex is the Index of a PlayerRef that names a position.
const NoIndex = -1

// PlayerRef points at a player either directly (Index, 0-based) or through
// a full position such as "DFC" or "GK". Which player a position reference
// means is decided when the instruction is evaluated.
type PlayerRef struct {
	Index    int
	Position string
}

func IndexRef(i int) PlayerRef {
	return PlayerRef{Index: i}
}

func PositionRef(fullPos string) PlayerRef {
	return PlayerRef{Index: NoIndex, Position: fullPos}
}

func (r PlayerRef) IsPosition() bool {
	return r.Position != ""
}

func (r PlayerRef) String() string {
	if r.IsPosition() {
		return r.Position
	}
	return strconv.Itoa(r.Index + 1)
}

// Action is what a Conditional does when all its conditions hold.
// The set of implementations is closed.
type Action interface {
	fmt.Stringer
	action()
}

// ChangeTactic switches the team to Tactic.
type ChangeTactic struct {
	Tactic string
}

// Substitute brings In on for Out, fielding him on NewPosition.
type Substitute struct {
	Out         PlayerRef
	In          PlayerRef
	NewPosition string
}

// ChangePosition moves Player to NewPosition.
type ChangePosition struct {
	Player      PlayerRef
	NewPosition string
}

func (ChangeTactic) action()   {}
func (Substitute) action()     {}
func (ChangePosition) action() {}

func (a ChangeTactic) String() string {
	return "TACTIC " + a.Tactic
}

func (a Substitute) String() string {
	return fmt.Sprintf("SUB %s %s %s", a.Out, a.In, a.NewPosition)
}

func (a ChangePosition) String() string {
	return fmt.Sprintf("CHANGEPOS %s %s", a.Player, a.NewPosition)
}

// Condition is one predicate of a Conditional. The set of implementations
// is closed.
type Condition interface {
	fmt.Stringer
	condition()
}

// Minute compares the current match minute against Minute (1..90).
type Minute struct {
	Cmp    Comparison
	Minute int
}

// Score compares the owning team's goal difference against Diff.
type Score struct {
	Cmp  Comparison
	Diff int
}

// YellowCarded holds in the minute Player was booked.
type YellowCarded struct {
	Player PlayerRef
}

// RedCarded holds in the minute Player was sent off.
type RedCarded struct {
	Player PlayerRef
}

// Injured holds in the minute Player got injured.
type Injured struct {
	Player PlayerRef
}

func (Minute) condition()       {}
func (Score) condition()        {}
func (YellowCarded) condition() {}
func (RedCarded) condition()    {}
func (Injured) condition()      {}

func (c Minute) String() string       { return fmt.Sprintf("MIN %s %d", c.Cmp, c.Minute) }
func (c Score) String() string        { return fmt.Sprintf("SCORE %s %d", c.Cmp, c.Diff) }
func (c YellowCarded) String() string { return "YELLOW " + c.Player.String() }
func (c RedCarded) String() string    { return "RED " + c.Player.String() }
func (c Injured) String() string      { return "INJ " + c.Player.String() }

// Conditional is one parsed teamsheet instruction.
type Conditional struct {
	Line       int
	Text       string
	Action     Action
	Conditions []Condition
}

func (c Conditional) String() string {
	parts := make([]string, len(c.Conditions))
	for i, cond := range c.Conditions {
		parts[i] = cond.String()
	}
	return c.Action.String() + " IF " + strings.Join(parts, ", ")
}
