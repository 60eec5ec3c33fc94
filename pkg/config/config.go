// Package config loads and validates the YAML curation configuration and
// resolves game selection into a uniform per-game rule list before any tree
// algorithm runs.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/openingtools/pgnc/internal/utils"
)

// VariationFilter selects variation subtrees by move prefix, with an
// optional minimum-depth guard.
type VariationFilter struct {
	Moves  string `yaml:"moves" validate:"required"`
	Reason string `yaml:"reason,omitempty"`
	Depth  int    `yaml:"depth,omitempty" validate:"omitempty,min=1"`
}

// GameConfig configures a single game of the source PGN. Index is 1-based.
type GameConfig struct {
	Index            int               `yaml:"index" validate:"required,min=1"`
	Action           string            `yaml:"action" validate:"required,oneof=include skip skip_keep_headers"`
	Name             string            `yaml:"name,omitempty"`
	RemoveVariations []VariationFilter `yaml:"remove_variations,omitempty" validate:"omitempty,dive"`
	AddVariations    []VariationFilter `yaml:"add_variations,omitempty" validate:"omitempty,dive"`
	MaxDepth         int               `yaml:"max_depth,omitempty" validate:"omitempty,min=1"`
	MinDepth         int               `yaml:"min_depth,omitempty" validate:"omitempty,min=0"`
}

// Settings are per-color curation settings.
type Settings struct {
	MinDepth           int  `yaml:"min_depth"`
	PreserveComments   bool `yaml:"preserve_comments"`
	PreserveHeaders    bool `yaml:"preserve_headers"`
	AddCurationComment bool `yaml:"add_curation_comment"`
	RemoveEmptyGames   bool `yaml:"remove_empty_games"`
}

// DefaultSettings returns the settings used when a color config has none.
func DefaultSettings() Settings {
	return Settings{
		PreserveComments:   true,
		PreserveHeaders:    true,
		AddCurationComment: true,
	}
}

// UnmarshalYAML fills in defaults for fields the config leaves out.
func (s *Settings) UnmarshalYAML(value *yaml.Node) error {
	type raw Settings
	r := raw(DefaultSettings())
	if err := value.Decode(&r); err != nil {
		return err
	}
	*s = Settings(r)
	return nil
}

// PlanComment adds or overrides a comment at a variation endpoint. Parsed
// and validated, intentionally not applied by the builder yet.
type PlanComment struct {
	Variation string `yaml:"variation" validate:"required"`
	AtMove    int    `yaml:"at_move,omitempty" validate:"omitempty,min=1"`
	Comment   string `yaml:"comment" validate:"required"`
	Replace   bool   `yaml:"replace,omitempty"`
}

// Importance tags variations by importance level. Config-model-only.
type Importance struct {
	MainLines []string `yaml:"main_lines,omitempty"`
	Important []string `yaml:"important,omitempty"`
	Sidelines []string `yaml:"sidelines,omitempty"`
	Rare      []string `yaml:"rare,omitempty"`
}

// ColorConfig configures one output repertoire. Game selection is either an
// explicit Games list, a Skip range, an Include range, or a Games list mixed
// with one shorthand (detailed entries win for their index).
type ColorConfig struct {
	Color        string        `yaml:"color" validate:"required,oneof=white black"`
	Settings     *Settings     `yaml:"settings,omitempty"`
	Games        []GameConfig  `yaml:"games,omitempty" validate:"omitempty,dive"`
	Skip         string        `yaml:"skip,omitempty"`
	Include      string        `yaml:"include,omitempty"`
	Importance   *Importance   `yaml:"importance,omitempty"`
	PlanComments []PlanComment `yaml:"plan_comments,omitempty" validate:"omitempty,dive"`
}

// EffectiveSettings returns the color's settings or the defaults.
func (c *ColorConfig) EffectiveSettings() Settings {
	if c.Settings != nil {
		return *c.Settings
	}
	return DefaultSettings()
}

// Config is a complete curation configuration.
type Config struct {
	Name        string        `yaml:"name" validate:"required"`
	Version     string        `yaml:"version,omitempty"`
	Created     string        `yaml:"created,omitempty"`
	Description string        `yaml:"description,omitempty"`
	Source      string        `yaml:"source" validate:"required"`
	Output      string        `yaml:"output" validate:"required"`
	Configs     []ColorConfig `yaml:"configs" validate:"required,min=1,dive"`
}

var validate = validator.New()

// Load reads, parses and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %s", path)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, fmt.Errorf("config file is empty: %s", path)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML syntax in %s: %w", path, err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed for %s: %w", path, err)
	}
	if err := cfg.check(); err != nil {
		return nil, fmt.Errorf("config validation failed for %s: %w", path, err)
	}
	return &cfg, nil
}

// check runs the cross-field validations the struct tags cannot express.
func (c *Config) check() error {
	if !strings.HasSuffix(c.Source, ".pgn") {
		return fmt.Errorf("source file must be a PGN file: %s", c.Source)
	}
	if _, err := os.Stat(c.Source); err != nil {
		return fmt.Errorf("source file not found: %s", c.Source)
	}
	if dir := filepath.Dir(c.Output); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return fmt.Errorf("output directory does not exist: %s", dir)
		}
	}

	seen := make(map[string]bool)
	for i := range c.Configs {
		cc := &c.Configs[i]
		if seen[cc.Color] {
			return fmt.Errorf("duplicate color configuration: %s", cc.Color)
		}
		seen[cc.Color] = true

		if len(cc.Games) == 0 && cc.Skip == "" && cc.Include == "" {
			return fmt.Errorf("color %q: must specify at least one of: 'games', 'skip' or 'include'", cc.Color)
		}
		if cc.Skip != "" && cc.Include != "" {
			return fmt.Errorf("color %q: cannot specify both 'skip' and 'include' shorthand", cc.Color)
		}
		if cc.Skip != "" {
			if _, err := utils.ParseRangeString(cc.Skip); err != nil {
				return fmt.Errorf("color %q: invalid 'skip' syntax: %w", cc.Color, err)
			}
		}
		if cc.Include != "" {
			if _, err := utils.ParseRangeString(cc.Include); err != nil {
				return fmt.Errorf("color %q: invalid 'include' syntax: %w", cc.Color, err)
			}
		}
		for _, g := range cc.Games {
			for _, f := range append(append([]VariationFilter{}, g.RemoveVariations...), g.AddVariations...) {
				if strings.TrimSpace(f.Moves) == "" {
					return fmt.Errorf("color %q, game %d: move sequence cannot be empty", cc.Color, g.Index)
				}
			}
		}
	}
	return nil
}

// ResolveGames turns a color's selection (explicit list, skip shorthand,
// include shorthand, or mixed) into one uniform, index-ordered GameConfig
// list covering the selection. Indices stay 1-based throughout.
func (c *ColorConfig) ResolveGames(totalGames int) ([]GameConfig, error) {
	if c.Skip == "" && c.Include == "" {
		return c.Games, nil
	}

	detailed := make(map[int]GameConfig, len(c.Games))
	for _, g := range c.Games {
		detailed[g.Index] = g
	}

	var selected map[int]bool
	var err error
	defaultAction := "include"
	listedAction := "skip"
	if c.Skip != "" {
		selected, err = utils.ParseRangeString(c.Skip)
	} else {
		selected, err = utils.ParseRangeString(c.Include)
		defaultAction, listedAction = "skip", "include"
	}
	if err != nil {
		return nil, err
	}

	games := make([]GameConfig, 0, totalGames)
	for i := 1; i <= totalGames; i++ {
		if g, ok := detailed[i]; ok {
			games = append(games, g)
			continue
		}
		action := defaultAction
		if selected[i] {
			action = listedAction
		}
		games = append(games, GameConfig{Index: i, Action: action})
	}
	sort.SliceStable(games, func(a, b int) bool { return games[a].Index < games[b].Index })
	return games, nil
}
