package models

// Status is a player's activity state during a match.
type Status int

const (
	StatusUnavailable Status = iota
	StatusPlaying
	StatusBenched
)

func (s Status) String() string {
	switch s {
	case StatusUnavailable:
		return "unavailable"
	case StatusPlaying:
		return "playing"
	case StatusBenched:
		return "benched"
	default:
		return "unknown"
	}
}

// MinFatigue is the floor below which fatigue never drops.
const MinFatigue = 0.10

// Skills are the raw roster ratings.
type Skills struct {
	Stopping int `json:"st" yaml:"st"`
	Tackling int `json:"tk" yaml:"tk"`
	Passing  int `json:"ps" yaml:"ps"`
	Shooting int `json:"sh" yaml:"sh"`
}

// Contribution is a player's effective per-minute output for the three
// outfield skills.
type Contribution struct {
	Tackling float64
	Passing  float64
	Shooting float64
}

func (c *Contribution) Scale(f float64) {
	c.Tackling *= f
	c.Passing *= f
	c.Shooting *= f
}

// PlayerStats accumulates everything that happened to a player in one match.
type PlayerStats struct {
	Minutes     int  `json:"minutes" yaml:"minutes"`
	Shots       int  `json:"shots" yaml:"shots"`
	ShotsOn     int  `json:"shots_on" yaml:"shots_on"`
	ShotsOff    int  `json:"shots_off" yaml:"shots_off"`
	Goals       int  `json:"goals" yaml:"goals"`
	Saves       int  `json:"saves" yaml:"saves"`
	Conceded    int  `json:"conceded" yaml:"conceded"`
	Tackles     int  `json:"tackles" yaml:"tackles"`
	KeyPasses   int  `json:"key_passes" yaml:"key_passes"`
	Assists     int  `json:"assists" yaml:"assists"`
	Fouls       int  `json:"fouls" yaml:"fouls"`
	YellowCards int  `json:"yellow_cards" yaml:"yellow_cards"`
	RedCards    int  `json:"red_cards" yaml:"red_cards"`
	Injured     bool `json:"injured" yaml:"injured"`
}

// AbilityPoints are the skill-change accumulators handed to the updater.
type AbilityPoints struct {
	Stopping int `json:"st_ab" yaml:"st_ab"`
	Tackling int `json:"tk_ab" yaml:"tk_ab"`
	Passing  int `json:"ps_ab" yaml:"ps_ab"`
	Shooting int `json:"sh_ab" yaml:"sh_ab"`
}

// AddOutfield adds n to the three outfield accumulators.
func (a *AbilityPoints) AddOutfield(n int) {
	a.Tackling += n
	a.Passing += n
	a.Shooting += n
}

// Player is one squad member as seen by the simulation.
type Player struct {
	Name     string
	Position FullPosition
	PrefSide string
	Prefers  PreferredSides

	Skills     Skills
	Aggression int
	Stamina    int

	// NominalFatiguePerMinute is derived from stamina at setup
	NominalFatiguePerMinute float64
	// Fatigue is a multiplier in [MinFatigue, 1]
	Fatigue float64

	Status  Status
	Contrib Contribution

	Stats   PlayerStats
	Ability AbilityPoints
}

// NominalFatigueRate maps stamina (1..99) to the fatigue lost per minute:
// about 0.0031 for an average player, so roughly 30 fitness points a game.
func NominalFatigueRate(stamina int) float64 {
	normalized := float64(stamina-50) / 50.0
	return 0.0031 - normalized*0.0022
}

// NewPlayer builds a player from roster data. fitness is 0..100.
func NewPlayer(name string, pos FullPosition, prefSide string, skills Skills, aggression, stamina, fitness int) *Player {
	return &Player{
		Name:                    name,
		Position:                pos,
		PrefSide:                prefSide,
		Prefers:                 ParsePreferredSides(prefSide),
		Skills:                  skills,
		Aggression:              aggression,
		Stamina:                 stamina,
		NominalFatiguePerMinute: NominalFatigueRate(stamina),
		Fatigue:                 float64(fitness) / 100.0,
	}
}

func (p *Player) IsPlaying() bool {
	return p.Status == StatusPlaying
}

func (p *Player) IsBenched() bool {
	return p.Status == StatusBenched
}

// EffectiveAggression is the aggression counted towards team totals and
// foul selection. Players off the pitch count zero.
func (p *Player) EffectiveAggression() int {
	if !p.IsPlaying() {
		return 0
	}
	return p.Aggression
}

// SideFactor is 1 when the player is fielded on a side he prefers and
// 0.75 otherwise.
func (p *Player) SideFactor() float64 {
	if p.Prefers.Likes(p.Position.Side) {
		return 1.0
	}
	return 0.75
}

// Tire deducts a minute's fatigue, clamped to MinFatigue.
func (p *Player) Tire(amount float64) {
	p.Fatigue -= amount
	if p.Fatigue < MinFatigue {
		p.Fatigue = MinFatigue
	}
}

// DefiningSkill is the raw rating that measures a player on his position:
// stopping for keepers, tackling for DF/DM, passing for MF/AM, shooting for FW.
func (p *Player) DefiningSkill() int {
	switch p.Position.Position {
	case PositionGK:
		return p.Skills.Stopping
	case PositionDF, PositionDM:
		return p.Skills.Tackling
	case PositionMF, PositionAM:
		return p.Skills.Passing
	case PositionFW:
		return p.Skills.Shooting
	}
	return 0
}

// Fitness is the fatigue multiplier expressed as the roster's 0..100 scale.
func (p *Player) Fitness() int {
	return int(p.Fatigue * 100.0)
}
