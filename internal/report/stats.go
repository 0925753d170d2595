package report

import (
	"github.com/stitts-dev/esms-sim/internal/models"
	"github.com/stitts-dev/esms-sim/internal/simulator"
)

// TeamTotals sums the statistics columns of one team.
type TeamTotals struct {
	Saves       int `json:"saves" yaml:"saves"`
	Tackles     int `json:"tackles" yaml:"tackles"`
	KeyPasses   int `json:"key_passes" yaml:"key_passes"`
	Assists     int `json:"assists" yaml:"assists"`
	Shots       int `json:"shots" yaml:"shots"`
	Goals       int `json:"goals" yaml:"goals"`
	YellowCards int `json:"yellow_cards" yaml:"yellow_cards"`
	RedCards    int `json:"red_cards" yaml:"red_cards"`
	Injured     int `json:"injured" yaml:"injured"`
}

// Totals adds up the per-player statistics of t.
func Totals(t *models.Team) TeamTotals {
	var tot TeamTotals
	for _, p := range t.Players {
		s := p.Stats
		tot.Saves += s.Saves
		tot.Tackles += s.Tackles
		tot.KeyPasses += s.KeyPasses
		tot.Assists += s.Assists
		tot.Shots += s.Shots
		tot.Goals += s.Goals
		tot.YellowCards += s.YellowCards
		tot.RedCards += s.RedCards
		tot.Injured += boolInt(s.Injured)
	}
	return tot
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Stats prints the shot and score summary followed by one statistics
// table per team.
func (c *Commentary) Stats(res *simulator.Result) {
	home, away := res.Home, res.Away

	c.ew.printf("\n\n%-22s: %s %2d %s %d\n", "Shots off target", home.Name, home.ShotsOff, away.Name, away.ShotsOff)
	c.ew.printf("%-22s: %s %2d %s %d\n", "Shots on target", home.Name, home.ShotsOn, away.Name, away.ShotsOn)
	c.ew.printf("\n%-22s: %s %2d %s %d\n", "Score", home.Name, home.Score, away.Name, away.Score)
	if so := res.Shootout; so != nil {
		c.ew.printf("%-22s: %s %2d %s %d\n", "Penalties", home.Name, so.HomeScore, away.Name, so.AwayScore)
	}

	for _, t := range []*models.Team{home, away} {
		c.ew.printf("\n\n<<< Player statistics for %s >>>\n", t.FullName)
		c.ew.printf("\nName          Pos Prs St Tk Ps Sh Sm | Min Sav Ktk Kps Ass Sht Gls Yel Red Inj KAb TAb PAb SAb Fit")
		c.ew.printf("\n--------------------------------------------------------------------------------------------------")

		for _, p := range t.Players {
			s := p.Stats
			c.ew.printf("\n%-13s %3s %3s%3d%3d%3d%3d%3d | %3d %3d %3d %3d %3d %3d %3d %3d %3d %3d %3d %3d %3d %3d %3d",
				p.Name, p.Position, p.PrefSide,
				p.Skills.Stopping, p.Skills.Tackling, p.Skills.Passing, p.Skills.Shooting, p.Stamina,
				s.Minutes, s.Saves, s.Tackles, s.KeyPasses, s.Assists, s.Shots, s.Goals,
				s.YellowCards, s.RedCards, boolInt(s.Injured),
				p.Ability.Stopping, p.Ability.Tackling, p.Ability.Passing, p.Ability.Shooting,
				p.Fitness())
		}

		tot := Totals(t)
		c.ew.printf("\n-- Total --")
		c.ew.printf("                                %3d %3d %3d %3d %3d %3d %3d %3d %3d\n",
			tot.Saves, tot.Tackles, tot.KeyPasses, tot.Assists, tot.Shots, tot.Goals,
			tot.YellowCards, tot.RedCards, tot.Injured)
	}
}

// Snapshots prints the team-total strength samples. Nothing is printed
// when none were recorded.
func (c *Commentary) Snapshots(snaps []simulator.Snapshot) {
	if len(snaps) == 0 {
		return
	}
	c.ew.printf("\n\nTeam totals")
	c.ew.printf("\nTeam  Min        Tk       Ps       Sh")
	c.ew.printf("\n-------------------------------------")
	for _, s := range snaps {
		c.ew.printf("\n%-5s %3d    %6.2f   %6.2f   %6.2f", s.Team, s.Minute, s.Tackling, s.Passing, s.Shooting)
	}
	c.ew.printf("\n")
}
