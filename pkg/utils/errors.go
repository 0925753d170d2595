package utils

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrSetup        = errors.New("match setup failed")
	ErrInvariant    = errors.New("match invariant violated")
)

// Common error codes
const (
	ErrCodeTactics     = "TACTICS_ERROR"
	ErrCodeTeamsheet   = "TEAMSHEET_ERROR"
	ErrCodeRoster      = "ROSTER_ERROR"
	ErrCodeConfig      = "CONFIG_ERROR"
	ErrCodeConditional = "CONDITIONAL_ERROR"
	ErrCodeInvariant   = "INVARIANT_VIOLATION"
)

// SetupError reports malformed input found before the first minute is played.
// Source, Team, Line and Token are optional and only printed when set.
type SetupError struct {
	Code    string `json:"code"`
	Source  string `json:"source,omitempty"`
	Team    string `json:"team,omitempty"`
	Line    int    `json:"line,omitempty"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message"`
}

func NewSetupError(code string, message string) *SetupError {
	return &SetupError{Code: code, Message: message}
}

// At sets the file and line the error was found on.
func (e *SetupError) At(source string, line int) *SetupError {
	e.Source = source
	e.Line = line
	return e
}

// ForTeam sets the team whose input was rejected.
func (e *SetupError) ForTeam(team string) *SetupError {
	e.Team = team
	return e
}

// WithToken sets the offending token.
func (e *SetupError) WithToken(token string) *SetupError {
	e.Token = token
	return e
}

func (e *SetupError) Error() string {
	var b strings.Builder
	b.WriteString(e.Code)
	b.WriteString(":")
	if e.Source != "" {
		fmt.Fprintf(&b, " in %s", e.Source)
	}
	if e.Team != "" {
		fmt.Fprintf(&b, " (team %s)", e.Team)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " line %d", e.Line)
	}
	if e.Source != "" || e.Team != "" || e.Line > 0 {
		b.WriteString(":")
	}
	b.WriteString(" ")
	b.WriteString(e.Message)
	if e.Token != "" {
		fmt.Fprintf(&b, " [%s]", e.Token)
	}
	return b.String()
}

func (e *SetupError) Is(target error) bool {
	return target == ErrSetup
}

// InvariantError is raised when the simulation reaches a state it cannot
// continue from without producing wrong statistics.
type InvariantError struct {
	Code    string `json:"code"`
	Team    string `json:"team,omitempty"`
	Minute  int    `json:"minute"`
	Message string `json:"message"`
}

func NewInvariantError(team string, minute int, format string, args ...interface{}) *InvariantError {
	return &InvariantError{
		Code:    ErrCodeInvariant,
		Team:    team,
		Minute:  minute,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *InvariantError) Error() string {
	if e.Team != "" {
		return fmt.Sprintf("%s: %s at minute %d - %s", e.Code, e.Team, e.Minute, e.Message)
	}
	return fmt.Sprintf("%s: minute %d - %s", e.Code, e.Minute, e.Message)
}

func (e *InvariantError) Is(target error) bool {
	return target == ErrInvariant
}
