package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/stitts-dev/esms-sim/pkg/utils"
)

// DefaultFileName is the league configuration file looked up in the work dir.
const DefaultFileName = "league.dat"

const abbrPrefix = "abbr_"

// LeagueConfig holds the tunables read from league.dat.
type LeagueConfig struct {
	// Match rules
	Substitutions  int `mapstructure:"SUBSTITUTIONS"`
	NumSubs        int `mapstructure:"NUM_SUBS"`
	HomeBonus      int `mapstructure:"HOME_BONUS"`
	TeamStatsTotal int `mapstructure:"TEAM_STATS_TOTAL"`
	Cup            int `mapstructure:"CUP"`

	// Ability points awarded per event
	AbGoal          int `mapstructure:"AB_GOAL"`
	AbAssist        int `mapstructure:"AB_ASSIST"`
	AbVictoryRandom int `mapstructure:"AB_VICTORY_RANDOM"`
	AbDefeatRandom  int `mapstructure:"AB_DEFEAT_RANDOM"`
	AbCleanSheet    int `mapstructure:"AB_CLEAN_SHEET"`
	AbKeyTackle     int `mapstructure:"AB_KTK"`
	AbKeyPass       int `mapstructure:"AB_KPS"`
	AbShotOn        int `mapstructure:"AB_SHT_ON"`
	AbShotOff       int `mapstructure:"AB_SHT_OFF"`
	AbSave          int `mapstructure:"AB_SAV"`
	AbConcede       int `mapstructure:"AB_CONCDE"`
	AbYellow        int `mapstructure:"AB_YELLOW"`
	AbRed           int `mapstructure:"AB_RED"`

	// Team abbreviation -> full name, keyed by upper-case abbreviation
	Abbreviations map[string]string `mapstructure:"-"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("properties")

	v.SetDefault("SUBSTITUTIONS", 3)
	v.SetDefault("NUM_SUBS", 7)
	v.SetDefault("HOME_BONUS", 0)
	v.SetDefault("TEAM_STATS_TOTAL", 0)
	v.SetDefault("CUP", 0)

	for _, key := range []string{
		"AB_GOAL", "AB_ASSIST", "AB_VICTORY_RANDOM", "AB_DEFEAT_RANDOM",
		"AB_CLEAN_SHEET", "AB_KTK", "AB_KPS", "AB_SHT_ON", "AB_SHT_OFF",
		"AB_SAV", "AB_CONCDE", "AB_YELLOW", "AB_RED",
	} {
		v.SetDefault(key, 0)
	}

	// ESMS_HOME_BONUS=40 overrides the file
	v.SetEnvPrefix("ESMS")
	v.AutomaticEnv()

	return v
}

// LoadConfig reads league.dat from workDir. A missing file is not an error:
// every tunable has a default.
func LoadConfig(workDir string) (*LeagueConfig, error) {
	path := filepath.Join(workDir, DefaultFileName)

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return decode(newViper(), path)
		}
		return nil, utils.NewSetupError(utils.ErrCodeConfig, fmt.Sprintf("error reading config file: %v", err)).At(path, 0)
	}
	defer f.Close()

	return Load(f, path)
}

// Load reads a league configuration from r. source is only used in errors.
func Load(r io.Reader, source string) (*LeagueConfig, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, utils.NewSetupError(utils.ErrCodeConfig, fmt.Sprintf("error reading config file: %v", err)).At(source, 0)
	}
	return decode(v, source)
}

// Defaults returns the configuration used when no league.dat exists.
func Defaults() *LeagueConfig {
	cfg, err := decode(newViper(), "")
	if err != nil {
		// defaults are static and always valid
		panic(err)
	}
	return cfg
}

func decode(v *viper.Viper, source string) (*LeagueConfig, error) {
	var config LeagueConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, utils.NewSetupError(utils.ErrCodeConfig, fmt.Sprintf("unable to decode config: %v", err)).At(source, 0)
	}

	config.Abbreviations = make(map[string]string)
	for _, key := range v.AllKeys() {
		if !strings.HasPrefix(key, abbrPrefix) {
			continue
		}
		abbr := strings.ToUpper(strings.TrimPrefix(key, abbrPrefix))
		config.Abbreviations[abbr] = strings.ReplaceAll(v.GetString(key), "_", " ")
	}

	if err := config.Validate(); err != nil {
		var setupErr *utils.SetupError
		if errors.As(err, &setupErr) {
			setupErr.Source = source
		}
		return nil, err
	}

	return &config, nil
}

// Validate checks the ranges the simulator relies on.
func (c *LeagueConfig) Validate() error {
	if c.NumSubs < 1 || c.NumSubs > 13 {
		return utils.NewSetupError(utils.ErrCodeConfig, "The number of subs specified in league.dat must be between 1 and 13").
			WithToken(fmt.Sprint(c.NumSubs))
	}
	if c.Substitutions < 0 {
		return utils.NewSetupError(utils.ErrCodeConfig, "SUBSTITUTIONS must not be negative").
			WithToken(fmt.Sprint(c.Substitutions))
	}
	if c.Cup < 0 || c.Cup > 2 {
		return utils.NewSetupError(utils.ErrCodeConfig, "CUP must be 0, 1 or 2").
			WithToken(fmt.Sprint(c.Cup))
	}
	return nil
}

// NumPlayers is the squad size listed on a teamsheet.
func (c *LeagueConfig) NumPlayers() int {
	return 11 + c.NumSubs
}

// TeamFullName returns the configured full name for a team abbreviation,
// or the abbreviation itself.
func (c *LeagueConfig) TeamFullName(abbr string) string {
	if name, ok := c.Abbreviations[strings.ToUpper(abbr)]; ok && name != "" {
		return name
	}
	return abbr
}

func (c *LeagueConfig) TeamStatsEnabled() bool {
	return c.TeamStatsTotal == 1
}
