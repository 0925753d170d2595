// Package teamsheet reads the manager-written teamsheets and the team
// rosters, and turns them into teams ready for kick-off.
//
// A teamsheet lists, on non-blank lines:
//
//	ABC                 team abbreviation (also the roster file name)
//	N                   starting tactic
//	GK  Smith           11 starters then the substitutes, "<position> <name>"
//	...
//	PK: Jones           optional designated penalty taker
//	TACTIC A IF MIN >= 70, SCORE <= -1
//	...                 conditional instructions until the end of the file
package teamsheet

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/stitts-dev/esms-sim/internal/conds"
	"github.com/stitts-dev/esms-sim/internal/models"
	"github.com/stitts-dev/esms-sim/internal/tactics"
	"github.com/stitts-dev/esms-sim/pkg/utils"
)

const pkMarker = "PK:"

// Entry is one "<position> <name>" line of a teamsheet.
type Entry struct {
	Position string
	Name     string
	Line     int
}

// Sheet is the raw content of a teamsheet. Nothing is validated against
// the roster or the tactics table yet.
type Sheet struct {
	Source string
	Abbr   string

	Tactic     string
	TacticLine int

	Players []Entry

	PenaltyTaker string
	PKLine       int

	Conditionals []conds.SourceLine
}

// LoadFile reads the teamsheet at path. numPlayers is 11 plus the number
// of substitutes the league allows.
func LoadFile(path string, numPlayers int) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, utils.NewSetupError(utils.ErrCodeTeamsheet, fmt.Sprintf("failed to open teamsheet: %v", err)).At(path, 0)
	}
	defer f.Close()

	return Read(f, filepath.Base(path), numPlayers)
}

// Read splits a teamsheet into its sections. Blank lines are skipped but
// line numbers refer to the file.
func Read(r io.Reader, source string, numPlayers int) (*Sheet, error) {
	lines, err := nonBlankLines(r)
	if err != nil {
		return nil, utils.NewSetupError(utils.ErrCodeTeamsheet, fmt.Sprintf("read error: %v", err)).At(source, 0)
	}

	sheet := &Sheet{Source: source}
	next := func() (conds.SourceLine, bool) {
		if len(lines) == 0 {
			return conds.SourceLine{}, false
		}
		l := lines[0]
		lines = lines[1:]
		return l, true
	}

	l, ok := next()
	if !ok {
		return nil, utils.NewSetupError(utils.ErrCodeTeamsheet, "teamsheet is empty").At(source, 0)
	}
	sheet.Abbr = strings.Fields(l.Text)[0]

	l, ok = next()
	if !ok {
		return nil, sheetError(sheet, 0, "teamsheet ends before the tactic", "")
	}
	sheet.Tactic, sheet.TacticLine = strings.Fields(l.Text)[0], l.Num

	for i := 1; i <= numPlayers; i++ {
		l, ok = next()
		if !ok {
			return nil, sheetError(sheet, 0, fmt.Sprintf("teamsheet lists %d players, expected %d", i-1, numPlayers), "")
		}
		tokens := strings.Fields(l.Text)
		if tokens[0] == pkMarker {
			return nil, sheetError(sheet, l.Num, fmt.Sprintf("PK: where player %d was expected", i), "")
		}
		if len(tokens) != 2 {
			return nil, sheetError(sheet, l.Num, "expecting <position> <name>", l.Text)
		}
		sheet.Players = append(sheet.Players, Entry{Position: tokens[0], Name: tokens[1], Line: l.Num})
	}

	if len(lines) > 0 {
		if tokens := strings.Fields(lines[0].Text); len(tokens) == 2 && tokens[0] == pkMarker {
			l, _ = next()
			sheet.PenaltyTaker, sheet.PKLine = tokens[1], l.Num
		}
	}

	sheet.Conditionals = lines
	return sheet, nil
}

func nonBlankLines(r io.Reader) ([]conds.SourceLine, error) {
	var lines []conds.SourceLine
	scanner := bufio.NewScanner(r)
	num := 0
	for scanner.Scan() {
		num++
		if strings.TrimSpace(scanner.Text()) == "" {
			continue
		}
		lines = append(lines, conds.SourceLine{Num: num, Text: scanner.Text()})
	}
	return lines, scanner.Err()
}

// Build validates the sheet against the roster and the tactics table and
// creates the team. fullName is the display name, usually from league.dat.
func Build(sheet *Sheet, roster *Roster, tm *tactics.Model, fullName string) (*models.Team, error) {
	if !tm.TacticExists(sheet.Tactic) {
		return nil, sheetError(sheet, sheet.TacticLine, "invalid tactic", sheet.Tactic)
	}

	players := make([]*models.Player, 0, len(sheet.Players))
	seen := make(map[string]int, len(sheet.Players))
	for i, e := range sheet.Players {
		pos, err := models.ParseFullPosition(e.Position, tm.PositionExists)
		if err != nil {
			return nil, sheetError(sheet, e.Line, fmt.Sprintf("illegal position %s of %s", e.Position, e.Name), e.Position)
		}
		if i == 0 && !pos.IsGoalkeeper() {
			return nil, sheetError(sheet, e.Line, "the first player must be a GK", e.Position)
		}
		if first, dup := seen[e.Name]; dup {
			return nil, sheetError(sheet, e.Line, fmt.Sprintf("player is named twice (first on line %d)", first), e.Name)
		}
		seen[e.Name] = e.Line

		rp, ok := roster.Find(e.Name)
		if !ok {
			return nil, sheetError(sheet, e.Line, "player doesn't exist in the roster file", e.Name)
		}
		if rp.Injury > 0 {
			return nil, sheetError(sheet, e.Line, "player is injured", e.Name)
		}
		if rp.Suspension > 0 {
			return nil, sheetError(sheet, e.Line, "player is suspended", e.Name)
		}

		players = append(players, models.NewPlayer(
			rp.Name, pos, rp.PrefSide,
			models.Skills{Stopping: rp.Stopping, Tackling: rp.Tackling, Passing: rp.Passing, Shooting: rp.Shooting},
			rp.Aggression, rp.Stamina, rp.Fitness,
		))
	}

	team := models.NewTeam(sheet.Abbr, fullName, sheet.Tactic, players)

	if sheet.PenaltyTaker != "" {
		idx, ok := team.PlayerIndex(sheet.PenaltyTaker)
		if !ok || players[idx].Name != sheet.PenaltyTaker {
			return nil, sheetError(sheet, sheet.PKLine, "penalty kick taker not listed", sheet.PenaltyTaker)
		}
		team.PenaltyTaker = idx
	}

	cs, err := conds.ParseAll(sheet.Conditionals, env{Model: tm, team: team})
	if err != nil {
		var setupErr *utils.SetupError
		if errors.As(err, &setupErr) {
			setupErr.Source = sheet.Source
			setupErr.Team = sheet.Abbr
		}
		return nil, err
	}
	team.Conds = cs

	return team, nil
}

// env resolves conditional references against the team being built.
type env struct {
	*tactics.Model
	team *models.Team
}

func (e env) PlayerIndex(ref string) (int, bool) {
	return e.team.PlayerIndex(ref)
}

func sheetError(sheet *Sheet, line int, msg, token string) error {
	return utils.NewSetupError(utils.ErrCodeTeamsheet, msg).At(sheet.Source, line).ForTeam(sheet.Abbr).WithToken(token)
}
