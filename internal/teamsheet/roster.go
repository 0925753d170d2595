package teamsheet

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/stitts-dev/esms-sim/pkg/utils"
)

// RosterColumns is the number of whitespace separated columns per player.
const RosterColumns = 25

const rosterHeaderLines = 2

// RosterPlayer is one row of a team roster:
//
//	Name Age Nat Prs St Tk Ps Sh Sm Ag KAb TAb PAb SAb Gam Sav Ktk Kps Sht Gls Ass DP Inj Sus Fit
type RosterPlayer struct {
	Name        string `json:"name" yaml:"name"`
	Age         int    `json:"age" yaml:"age"`
	Nationality string `json:"nationality" yaml:"nationality"`
	PrefSide    string `json:"pref_side" yaml:"pref_side"`

	Stopping   int `json:"st" yaml:"st"`
	Tackling   int `json:"tk" yaml:"tk"`
	Passing    int `json:"ps" yaml:"ps"`
	Shooting   int `json:"sh" yaml:"sh"`
	Stamina    int `json:"stamina" yaml:"stamina"`
	Aggression int `json:"ag" yaml:"ag"`

	StoppingAb int `json:"st_ab" yaml:"st_ab"`
	TacklingAb int `json:"tk_ab" yaml:"tk_ab"`
	PassingAb  int `json:"ps_ab" yaml:"ps_ab"`
	ShootingAb int `json:"sh_ab" yaml:"sh_ab"`

	Games     int `json:"games" yaml:"games"`
	Saves     int `json:"saves" yaml:"saves"`
	Tackles   int `json:"tackles" yaml:"tackles"`
	KeyPasses int `json:"key_passes" yaml:"key_passes"`
	Shots     int `json:"shots" yaml:"shots"`
	Goals     int `json:"goals" yaml:"goals"`
	Assists   int `json:"assists" yaml:"assists"`
	// DP is the disciplinary points total
	DP         int `json:"dp" yaml:"dp"`
	Injury     int `json:"injury" yaml:"injury"`
	Suspension int `json:"suspension" yaml:"suspension"`
	Fitness    int `json:"fitness" yaml:"fitness"`
}

// Available reports whether the player may be named on a teamsheet.
func (p RosterPlayer) Available() bool {
	return p.Injury == 0 && p.Suspension == 0
}

// Roster is a team's full player list in file order.
type Roster struct {
	Team    string
	Players []RosterPlayer

	byName map[string]int
}

// Find returns the roster entry named name.
func (r *Roster) Find(name string) (RosterPlayer, bool) {
	i, ok := r.byName[name]
	if !ok {
		return RosterPlayer{}, false
	}
	return r.Players[i], true
}

// RosterPath is the roster file of team abbr inside workDir.
func RosterPath(workDir, abbr string) string {
	return filepath.Join(workDir, abbr+".txt")
}

// LoadRoster reads the roster of team abbr from workDir.
func LoadRoster(workDir, abbr string) (*Roster, error) {
	path := RosterPath(workDir, abbr)
	f, err := os.Open(path)
	if err != nil {
		return nil, utils.NewSetupError(utils.ErrCodeRoster, fmt.Sprintf("failed to open roster: %v", err)).At(path, 0).ForTeam(abbr)
	}
	defer f.Close()

	return ReadRoster(f, path, abbr)
}

// ReadRoster parses a roster. The first two lines are a header, blank lines
// are skipped and every other line must hold exactly RosterColumns columns.
func ReadRoster(r io.Reader, source, team string) (*Roster, error) {
	roster := &Roster{Team: team, byName: make(map[string]int)}

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if lineNum <= rosterHeaderLines {
			continue
		}

		columns := strings.Fields(scanner.Text())
		if len(columns) == 0 {
			continue
		}
		if len(columns) != RosterColumns {
			return nil, rosterError(source, team, lineNum,
				fmt.Sprintf("has %d columns (must be %d)", len(columns), RosterColumns), "")
		}

		p, err := parseRosterLine(columns)
		if err != nil {
			return nil, rosterError(source, team, lineNum, err.Error(), "")
		}
		if _, dup := roster.byName[p.Name]; dup {
			return nil, rosterError(source, team, lineNum, "duplicate player name", p.Name)
		}

		roster.byName[p.Name] = len(roster.Players)
		roster.Players = append(roster.Players, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, rosterError(source, team, lineNum, fmt.Sprintf("read error: %v", err), "")
	}

	return roster, nil
}

func parseRosterLine(columns []string) (RosterPlayer, error) {
	p := RosterPlayer{
		Name:        columns[0],
		Nationality: columns[2],
		PrefSide:    columns[3],
	}

	numeric := []struct {
		col int
		dst *int
	}{
		{1, &p.Age},
		{4, &p.Stopping}, {5, &p.Tackling}, {6, &p.Passing}, {7, &p.Shooting},
		{8, &p.Stamina}, {9, &p.Aggression},
		{10, &p.StoppingAb}, {11, &p.TacklingAb}, {12, &p.PassingAb}, {13, &p.ShootingAb},
		{14, &p.Games}, {15, &p.Saves}, {16, &p.Tackles}, {17, &p.KeyPasses},
		{18, &p.Shots}, {19, &p.Goals}, {20, &p.Assists}, {21, &p.DP},
		{22, &p.Injury}, {23, &p.Suspension}, {24, &p.Fitness},
	}
	for _, n := range numeric {
		v, err := strconv.Atoi(columns[n.col])
		if err != nil {
			return RosterPlayer{}, fmt.Errorf("column %d of %s is not a number (%q)", n.col+1, p.Name, columns[n.col])
		}
		*n.dst = v
	}

	return p, nil
}

func rosterError(source, team string, line int, msg, token string) error {
	return utils.NewSetupError(utils.ErrCodeRoster, msg).At(source, line).ForTeam(team).WithToken(token)
}
