package conds

import (
	"strconv"
	"strings"

	"github.com/stitts-dev/esms-sim/pkg/utils"
)

// Env answers the lookups the parser needs to validate references. The
// teamsheet reader implements it on top of the tactics table and the team
// being loaded.
type Env interface {
	TacticExists(tactic string) bool
	// PositionExists reports whether a two-letter outfield code is known
	PositionExists(position string) bool
	// PlayerIndex resolves a 1-based number or a name to a 0-based index
	PlayerIndex(ref string) (int, bool)
}

// SourceLine is one instruction with the line number it was read from.
type SourceLine struct {
	Num  int
	Text string
}

const keywordIF = "IF"

// ParseAll parses every line or none: the first failure is returned and no
// instructions are kept.
func ParseAll(lines []SourceLine, env Env) ([]Conditional, error) {
	out := make([]Conditional, 0, len(lines))
	for _, l := range lines {
		c, err := Parse(l.Text, l.Num, env)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Parse parses one "<action> IF <condition>[, <condition>]*" line.
func Parse(line string, lineNum int, env Env) (Conditional, error) {
	text := strings.TrimSpace(line)
	idx := keywordIndex(text, keywordIF)
	if idx < 0 {
		return Conditional{}, parseError(lineNum, "IF statement not found", "")
	}

	action, err := parseAction(strings.Fields(text[:idx]), lineNum, env)
	if err != nil {
		return Conditional{}, err
	}

	var conditions []Condition
	for _, part := range strings.Split(text[idx+len(keywordIF):], ",") {
		tokens := strings.Fields(part)
		if len(tokens) == 0 {
			return Conditional{}, parseError(lineNum, "empty condition", "")
		}
		cond, err := parseCondition(tokens, lineNum, env)
		if err != nil {
			return Conditional{}, err
		}
		conditions = append(conditions, cond)
	}

	return Conditional{
		Line:       lineNum,
		Text:       text,
		Action:     action,
		Conditions: conditions,
	}, nil
}

func parseAction(tok []string, lineNum int, env Env) (Action, error) {
	if len(tok) == 0 {
		return nil, parseError(lineNum, "badly formed condition", "")
	}

	switch tok[0] {
	case "TACTIC":
		if len(tok) != 2 {
			return nil, parseError(lineNum, "expecting TACTIC <new tactic>", "")
		}
		if !env.TacticExists(tok[1]) {
			return nil, parseError(lineNum, "invalid tactic", tok[1])
		}
		return ChangeTactic{Tactic: tok[1]}, nil

	case "SUB":
		if len(tok) != 4 {
			return nil, parseError(lineNum, "expecting SUB <position / number out> <number in> <new position>", "")
		}
		out, err := parseRef(tok[1], lineNum, env)
		if err != nil {
			return nil, err
		}
		in, err := parseRef(tok[2], lineNum, env)
		if err != nil {
			return nil, err
		}
		if !isFullPosition(tok[3], env) {
			return nil, parseError(lineNum, "invalid new position", tok[3])
		}
		return Substitute{Out: out, In: in, NewPosition: tok[3]}, nil

	case "CHANGEPOS":
		if len(tok) != 3 {
			return nil, parseError(lineNum, "expecting CHANGEPOS <position / number> <new position>", "")
		}
		ref, err := parseRef(tok[1], lineNum, env)
		if err != nil {
			return nil, err
		}
		if !isFullPosition(tok[2], env) {
			return nil, parseError(lineNum, "invalid new position", tok[2])
		}
		return ChangePosition{Player: ref, NewPosition: tok[2]}, nil
	}

	return nil, parseError(lineNum, "unknown action specified", tok[0])
}

func parseCondition(tok []string, lineNum int, env Env) (Condition, error) {
	switch tok[0] {
	case "MIN":
		if len(tok) != 3 {
			return nil, parseError(lineNum, "a sign and minute should follow MIN", "")
		}
		cmp, ok := ParseComparison(tok[1])
		if !ok {
			return nil, parseError(lineNum, "invalid sign", tok[1])
		}
		minute, err := strconv.Atoi(tok[2])
		if err != nil || minute < 1 || minute > 90 {
			return nil, parseError(lineNum, "invalid minute", tok[2])
		}
		return Minute{Cmp: cmp, Minute: minute}, nil

	case "SCORE":
		if len(tok) != 3 {
			return nil, parseError(lineNum, "a sign and score should follow SCORE", "")
		}
		cmp, ok := ParseComparison(tok[1])
		if !ok {
			return nil, parseError(lineNum, "invalid sign", tok[1])
		}
		diff, err := strconv.Atoi(tok[2])
		if err != nil {
			return nil, parseError(lineNum, "invalid score", tok[2])
		}
		return Score{Cmp: cmp, Diff: diff}, nil

	case "YELLOW", "RED", "INJ":
		if len(tok) != 2 {
			return nil, parseError(lineNum, "a player number / position should follow "+tok[0], "")
		}
		ref, err := parseRef(tok[1], lineNum, env)
		if err != nil {
			return nil, err
		}
		switch tok[0] {
		case "YELLOW":
			return YellowCarded{Player: ref}, nil
		case "RED":
			return RedCarded{Player: ref}, nil
		default:
			return Injured{Player: ref}, nil
		}
	}

	return nil, parseError(lineNum, "unknown condition specified", tok[0])
}

// parseRef reads a full position, a player number or a player name, in that
// order of precedence.
func parseRef(s string, lineNum int, env Env) (PlayerRef, error) {
	if isFullPosition(s, env) {
		return PositionRef(s), nil
	}
	if idx, ok := env.PlayerIndex(s); ok {
		return IndexRef(idx), nil
	}
	return PlayerRef{}, parseError(lineNum, "invalid player name/number", s)
}

// isFullPosition accepts "GK" or a known position code followed by L, R or C.
func isFullPosition(s string, env Env) bool {
	if s == "GK" {
		return true
	}
	if len(s) != 3 {
		return false
	}
	switch s[2] {
	case 'L', 'R', 'C':
		return env.PositionExists(s[:2])
	}
	return false
}

// keywordIndex finds word as a standalone token, so that player names
// containing the letters are not mistaken for it.
func keywordIndex(s, word string) int {
	from := 0
	for {
		i := strings.Index(s[from:], word)
		if i < 0 {
			return -1
		}
		i += from
		end := i + len(word)
		before := i == 0 || isSpace(s[i-1])
		after := end == len(s) || isSpace(s[end])
		if before && after {
			return i
		}
		from = end
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t'
}

func parseError(lineNum int, msg, token string) *utils.SetupError {
	return utils.NewSetupError(utils.ErrCodeConditional, msg).At("", lineNum).WithToken(token)
}
