package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server    ServerConfig    `toml:"server"`
	Loop      LoopConfig      `toml:"loop"`
	Spawn     SpawnConfig     `toml:"spawn"`
	Database  DatabaseConfig  `toml:"database"`
	Data      DataConfig      `toml:"data"`
	Scripting ScriptingConfig `toml:"scripting"`
	Journal   JournalConfig   `toml:"journal"`
	Logging   LoggingConfig   `toml:"logging"`
}

type ServerConfig struct {
	Name      string `toml:"name"`
	Topology  string `toml:"topology"` // "client" slices reclaim passes, "server" drains them
	StartTime int64  // set at boot, not from config
}

type LoopConfig struct {
	TickRate time.Duration `toml:"tick_rate"`
}

// SpawnConfig holds the per-tick time budgets. Both can be changed at
// runtime through the manager.
type SpawnConfig struct {
	SpawnBudget   time.Duration `toml:"spawn_budget"`
	DestroyBudget time.Duration `toml:"destroy_budget"`
}

type DatabaseConfig struct {
	DSN             string        `toml:"dsn"` // empty disables the journal
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
}

type DataConfig struct {
	Templates string `toml:"templates"`
	SpawnList string `toml:"spawn_list"`
}

type ScriptingConfig struct {
	Dir string `toml:"dir"` // empty disables scripting
}

type JournalConfig struct {
	FlushTicks int `toml:"flush_ticks"`
	BatchSize  int `toml:"batch_size"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse overlays TOML data on the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Server.StartTime = time.Now().Unix()
	return cfg, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Server.Topology) {
	case "", "client", "server":
	default:
		return fmt.Errorf("server.topology: unknown value %q", c.Server.Topology)
	}
	if c.Loop.TickRate <= 0 {
		return fmt.Errorf("loop.tick_rate must be positive, got %s", c.Loop.TickRate)
	}
	if c.Spawn.SpawnBudget < 0 {
		return fmt.Errorf("spawn.spawn_budget must not be negative, got %s", c.Spawn.SpawnBudget)
	}
	if c.Spawn.DestroyBudget < 0 {
		return fmt.Errorf("spawn.destroy_budget must not be negative, got %s", c.Spawn.DestroyBudget)
	}
	if c.Journal.FlushTicks <= 0 {
		return fmt.Errorf("journal.flush_ticks must be positive, got %d", c.Journal.FlushTicks)
	}
	return nil
}

func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Name:     "spawnd",
			Topology: "server",
		},
		Loop: LoopConfig{
			TickRate: 200 * time.Millisecond,
		},
		Spawn: SpawnConfig{
			SpawnBudget:   2 * time.Millisecond,
			DestroyBudget: time.Millisecond,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Data: DataConfig{
			Templates: "data/yaml/templates.yaml",
			SpawnList: "data/yaml/spawn_list.yaml",
		},
		Scripting: ScriptingConfig{
			Dir: "scripts",
		},
		Journal: JournalConfig{
			FlushTicks: 25, // 5s at the default tick rate
			BatchSize:  512,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
