// Package config loads the program configuration from a YAML file,
// falling back to compiled-in defaults when no file is present.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/AJFrosty/YouWee/internal/rewards"
)

// Config is the full program configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Rewards RewardsConfig `yaml:"rewards"`
}

// StorageConfig names the flat files backing the stores.
type StorageConfig struct {
	InventoryFile string `yaml:"inventory_file"`
	MembersFile   string `yaml:"members_file"`
	HistoryFile   string `yaml:"history_file"`
}

// RewardsConfig tunes the rewards engine. Multipliers is keyed by weekday
// name, then by 3-letter category code.
type RewardsConfig struct {
	Multipliers    map[string]map[string]int `yaml:"multipliers"`
	TierThresholds []int                     `yaml:"tier_thresholds"`
	Perks          PerksConfig               `yaml:"perks"`
}

// PerksConfig holds the per-tier discount parameters.
type PerksConfig struct {
	ApprenticeRate     float64 `yaml:"apprentice_rate"`
	ApprenticeMinTotal float64 `yaml:"apprentice_min_total"`
	ExplorerRate       float64 `yaml:"explorer_rate"`
	ExpertMinPercent   int     `yaml:"expert_min_percent"`
	ExpertMaxPercent   int     `yaml:"expert_max_percent"`
	ExpertDivisor      int     `yaml:"expert_divisor"`
	MasterMinPercent   int     `yaml:"master_min_percent"`
	MasterMaxPercent   int     `yaml:"master_max_percent"`
	MasterDivisor      int     `yaml:"master_divisor"`
	LegendPointCost    int     `yaml:"legend_point_cost"`
}

// Default returns the store's launch configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			InventoryFile: "storage/INVENTORY.txt",
			MembersFile:   "storage/MEMBERS.txt",
			HistoryFile:   "storage/PURCHASE_HISTORY.txt",
		},
		Rewards: RewardsConfig{
			Multipliers: map[string]map[string]int{
				"Monday":    {"KIT": 2},
				"Tuesday":   {"FRU": 2, "VEG": 2},
				"Wednesday": {"TEC": 3},
				"Thursday":  {"CLO": 2, "SPT": 2},
				"Friday":    {"BEV": 3, "HOM": 2},
				"Saturday":  {"AUT": 3, "JWL": 2},
				"Sunday":    {"TOY": 3, "ART": 2},
			},
			TierThresholds: []int{500, 1000, 1500, 2000},
			Perks: PerksConfig{
				ApprenticeRate:     0.15,
				ApprenticeMinTotal: 200,
				ExplorerRate:       0.25,
				ExpertMinPercent:   25,
				ExpertMaxPercent:   40,
				ExpertDivisor:      4,
				MasterMinPercent:   40,
				MasterMaxPercent:   80,
				MasterDivisor:      3,
				LegendPointCost:    1000,
			},
		},
	}
}

// Load reads the config from path. An empty path or a missing file yields
// the default configuration.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	for day := range c.Rewards.Multipliers {
		if _, ok := weekdays[day]; !ok {
			return fmt.Errorf("config: unknown weekday %q in multipliers", day)
		}
	}
	prev := 0
	for _, limit := range c.Rewards.TierThresholds {
		if limit <= prev {
			return fmt.Errorf("config: tier thresholds must be ascending, got %v", c.Rewards.TierThresholds)
		}
		prev = limit
	}
	p := c.Rewards.Perks
	if p.ExpertDivisor < 1 || p.MasterDivisor < 1 {
		return fmt.Errorf("config: perk divisors must be at least 1")
	}
	if p.ExpertMaxPercent < p.ExpertMinPercent || p.MasterMaxPercent < p.MasterMinPercent {
		return fmt.Errorf("config: perk percent ranges must have max >= min")
	}
	return nil
}

var weekdays = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}

// EngineConfig converts the rewards section into the engine's typed form.
func (c *Config) EngineConfig() (rewards.Config, error) {
	if err := c.validate(); err != nil {
		return rewards.Config{}, err
	}

	multipliers := make(map[time.Weekday]map[string]int, len(c.Rewards.Multipliers))
	for name, table := range c.Rewards.Multipliers {
		day := weekdays[name]
		copied := make(map[string]int, len(table))
		for category, m := range table {
			copied[category] = m
		}
		multipliers[day] = copied
	}

	p := c.Rewards.Perks
	return rewards.Config{
		Multipliers: multipliers,
		Apprentice: rewards.ApprenticePerk{
			Rate:     decimal.NewFromFloat(p.ApprenticeRate),
			MinTotal: decimal.NewFromFloat(p.ApprenticeMinTotal),
		},
		Explorer: rewards.ExplorerPerk{
			Rate: decimal.NewFromFloat(p.ExplorerRate),
		},
		Expert: rewards.SamplePerk{
			MinPercent: p.ExpertMinPercent,
			MaxPercent: p.ExpertMaxPercent,
			Divisor:    p.ExpertDivisor,
		},
		Master: rewards.SamplePerk{
			MinPercent: p.MasterMinPercent,
			MaxPercent: p.MasterMaxPercent,
			Divisor:    p.MasterDivisor,
		},
		LegendPointCost: p.LegendPointCost,
	}, nil
}
