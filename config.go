package delve

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config carries the tunables a campaign ships alongside its maps: combat
// balance, AI heuristics, scheduler sizing, and logging. Everything has a
// playable default so the zero-config path works.
type Config struct {
	Seed      int64           `toml:"seed"`
	Balance   BalanceConfig   `toml:"balance"`
	AI        AIConfig        `toml:"ai"`
	Scheduler SchedulerConfig `toml:"scheduler"`
	Logging   LoggingConfig   `toml:"logging"`
}

// BalanceConfig parameterizes the built-in combat policy. Chances are
// fractions in [0,1].
type BalanceConfig struct {
	HitBase       float64 `toml:"hit_base"`
	HitPerAttack  float64 `toml:"hit_per_attack"`
	HitPerDefense float64 `toml:"hit_per_defense"`
	HitFloor      float64 `toml:"hit_floor"`
	HitCeiling    float64 `toml:"hit_ceiling"`
	MinDamage     int     `toml:"min_damage"`
}

type AIConfig struct {
	DetectionRange int     `toml:"detection_range"` // grid distance at which hostiles notice a player
	WanderChance   float64 `toml:"wander_chance"`   // per-turn chance an idle actor strolls
	FleeBelow      float64 `toml:"flee_below"`      // health fraction under which fleeing kicks in
}

type SchedulerConfig struct {
	DecisionWorkers int `toml:"decision_workers"` // parallel AI planners; 0 = one per actor
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// LoadConfig reads a TOML config, layered over defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Seed: 1,
		Balance: BalanceConfig{
			HitBase:       0.6,
			HitPerAttack:  0.02,
			HitPerDefense: 0.02,
			HitFloor:      0.1,
			HitCeiling:    0.95,
			MinDamage:     1,
		},
		AI: AIConfig{
			DetectionRange: 8,
			WanderChance:   0.3,
			FleeBelow:      0.25,
		},
		Scheduler: SchedulerConfig{
			DecisionWorkers: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// NewLogger builds a zap logger from the logging section.
func NewLogger(cfg LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
