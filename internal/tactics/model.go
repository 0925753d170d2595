// Package tactics holds the multiplier table that weights every player's
// skills by his position, his team's tactic and the opponent's tactic.
//
// The table is declared in a text file (tactics.dat):
//
//	TACTIC N Normal
//	TACTIC A Attacking
//	MULT   N DF TK 1.0
//	BONUS  A N FW SH 0.25
//
// A MULT line sets the base multiplier of (tactic, position, skill) against
// every opponent tactic. A BONUS line adds to the base value of one
// (tactic, opponent tactic, position, skill) combination. All MULT lines are
// applied before any BONUS line regardless of their order in the file, and a
// BONUS for a combination without a base value is ignored. After loading,
// every combination must have a value.
package tactics

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/stitts-dev/esms-sim/pkg/utils"
)

// Skill is one of the three outfield skills the table weights.
type Skill string

const (
	Tackling Skill = "TK"
	Passing  Skill = "PS"
	Shooting Skill = "SH"
)

var (
	defaultPositions = []string{"DF", "DM", "MF", "AM", "FW"}
	defaultSkills    = []Skill{Tackling, Passing, Shooting}
)

type key struct {
	tactic   string
	opponent string
	position string
	skill    Skill
}

// Combination names one cell of the table.
type Combination struct {
	Tactic   string
	Opponent string
	Position string
	Skill    Skill
}

func (c Combination) String() string {
	return fmt.Sprintf("%s %s %s %s", c.Tactic, c.Opponent, c.Position, c.Skill)
}

// MissingMultipliersError lists every combination left without a value.
type MissingMultipliersError struct {
	Missing []Combination
}

func (e *MissingMultipliersError) Error() string {
	lines := make([]string, len(e.Missing))
	for i, c := range e.Missing {
		lines[i] = c.String()
	}
	return fmt.Sprintf("%s: the following multipliers are missing:\n%s",
		utils.ErrCodeTactics, strings.Join(lines, "\n"))
}

func (e *MissingMultipliersError) Is(target error) bool {
	return target == utils.ErrSetup
}

// Model is the immutable multiplier lookup.
type Model struct {
	tactics   []string
	fullNames map[string]string
	positions []string
	skills    []Skill
	mult      map[key]float64
}

type declaration struct {
	line   int
	tokens []string
}

// LoadFile reads the tactics table from path.
func LoadFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, utils.NewSetupError(utils.ErrCodeTactics, fmt.Sprintf("failed to open tactics file: %v", err)).At(path, 0)
	}
	defer f.Close()

	return load(f, path)
}

// Load reads the tactics table from r. Lines that are not TACTIC, MULT or
// BONUS declarations are ignored, so the file may carry free-form comments.
func Load(r io.Reader) (*Model, error) {
	return load(r, "tactics")
}

func load(r io.Reader, source string) (*Model, error) {
	m := &Model{
		fullNames: make(map[string]string),
		positions: append([]string(nil), defaultPositions...),
		skills:    append([]Skill(nil), defaultSkills...),
		mult:      make(map[key]float64),
	}

	var mults, bonuses []declaration
	foundTactic := false

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 {
			continue
		}

		switch tokens[0] {
		case "TACTIC":
			foundTactic = true
			if len(tokens) < 2 || len(tokens) > 3 {
				return nil, utils.NewSetupError(utils.ErrCodeTactics, "illegal TACTIC declaration").At(source, lineNum)
			}
			name := tokens[1]
			if _, seen := m.fullNames[name]; !seen {
				m.tactics = append(m.tactics, name)
			}
			if len(tokens) == 3 {
				m.fullNames[name] = strings.ReplaceAll(tokens[2], "_", " ")
			} else {
				m.fullNames[name] = name
			}
		case "MULT":
			if !foundTactic {
				return nil, utils.NewSetupError(utils.ErrCodeTactics, "TACTIC declarations must come first").At(source, lineNum)
			}
			mults = append(mults, declaration{line: lineNum, tokens: tokens})
		case "BONUS":
			if !foundTactic {
				return nil, utils.NewSetupError(utils.ErrCodeTactics, "TACTIC declarations must come first").At(source, lineNum)
			}
			bonuses = append(bonuses, declaration{line: lineNum, tokens: tokens})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, utils.NewSetupError(utils.ErrCodeTactics, fmt.Sprintf("read error: %v", err)).At(source, lineNum)
	}

	if !foundTactic {
		return nil, utils.NewSetupError(utils.ErrCodeTactics, "no TACTIC declarations found").At(source, lineNum)
	}

	sort.Strings(m.tactics)

	for _, d := range mults {
		if err := m.applyMult(d, source); err != nil {
			return nil, err
		}
	}
	for _, d := range bonuses {
		if err := m.applyBonus(d, source); err != nil {
			return nil, err
		}
	}

	if missing := m.missing(); len(missing) > 0 {
		return nil, &MissingMultipliersError{Missing: missing}
	}

	return m, nil
}

// MULT <tactic> <pos> <skill> <multiplier>
func (m *Model) applyMult(d declaration, source string) error {
	if len(d.tokens) != 5 {
		return utils.NewSetupError(utils.ErrCodeTactics, "wrong number of arguments").At(source, d.line)
	}
	tactic, pos, skill := d.tokens[1], d.tokens[2], Skill(d.tokens[3])
	if err := m.checkNames(source, d.line, []string{tactic}, pos, skill); err != nil {
		return err
	}
	value, err := parseValue(d.tokens[4], source, d.line)
	if err != nil {
		return err
	}
	for _, opp := range m.tactics {
		m.mult[key{tactic, opp, pos, skill}] = value
	}
	return nil
}

// BONUS <tactic> <opp_tactic> <pos> <skill> <bonus>
func (m *Model) applyBonus(d declaration, source string) error {
	if len(d.tokens) != 6 {
		return utils.NewSetupError(utils.ErrCodeTactics, "wrong number of arguments").At(source, d.line)
	}
	tactic, opp, pos, skill := d.tokens[1], d.tokens[2], d.tokens[3], Skill(d.tokens[4])
	if err := m.checkNames(source, d.line, []string{tactic, opp}, pos, skill); err != nil {
		return err
	}
	value, err := parseValue(d.tokens[5], source, d.line)
	if err != nil {
		return err
	}
	k := key{tactic, opp, pos, skill}
	if base, ok := m.mult[k]; ok {
		m.mult[k] = base + value
	}
	return nil
}

func (m *Model) checkNames(source string, line int, tactics []string, pos string, skill Skill) error {
	for _, t := range tactics {
		if !m.TacticExists(t) {
			return utils.NewSetupError(utils.ErrCodeTactics, "tactic doesn't exist").At(source, line).WithToken(t)
		}
	}
	if !m.PositionExists(pos) {
		return utils.NewSetupError(utils.ErrCodeTactics, "position doesn't exist").At(source, line).WithToken(pos)
	}
	if !m.SkillExists(skill) {
		return utils.NewSetupError(utils.ErrCodeTactics, "skill doesn't exist").At(source, line).WithToken(string(skill))
	}
	return nil
}

func parseValue(s, source string, line int) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, utils.NewSetupError(utils.ErrCodeTactics, "illegal value").At(source, line).WithToken(s)
	}
	return v, nil
}

func (m *Model) missing() []Combination {
	var missing []Combination
	for _, t := range m.tactics {
		for _, opp := range m.tactics {
			for _, pos := range m.positions {
				for _, skill := range m.skills {
					if _, ok := m.mult[key{t, opp, pos, skill}]; !ok {
						missing = append(missing, Combination{t, opp, pos, skill})
					}
				}
			}
		}
	}
	return missing
}

// Multiplier returns the weight of skill for a player on position when his
// team plays tactic against opponent. All inputs must be known to the
// model; anything else is a programming error and panics.
func (m *Model) Multiplier(tactic, opponent, position string, skill Skill) float64 {
	v, ok := m.mult[key{tactic, opponent, position, skill}]
	if !ok {
		panic(fmt.Sprintf("tactics: no multiplier for %s %s %s %s", tactic, opponent, position, skill))
	}
	return v
}

func (m *Model) TacticExists(tactic string) bool {
	_, ok := m.fullNames[tactic]
	return ok
}

func (m *Model) PositionExists(position string) bool {
	for _, p := range m.positions {
		if p == position {
			return true
		}
	}
	return false
}

func (m *Model) SkillExists(skill Skill) bool {
	for _, s := range m.skills {
		if s == skill {
			return true
		}
	}
	return false
}

// FullName returns the descriptive tactic name, e.g. "Attacking" for "A".
func (m *Model) FullName(tactic string) string {
	if name, ok := m.fullNames[tactic]; ok {
		return name
	}
	return tactic
}

// Tactics returns the declared tactic codes in sorted order.
func (m *Model) Tactics() []string {
	return append([]string(nil), m.tactics...)
}

// Positions returns the outfield position codes the table covers.
func (m *Model) Positions() []string {
	return append([]string(nil), m.positions...)
}
