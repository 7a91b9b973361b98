package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Tick        TickConfig        `toml:"tick"`
	Death       DeathConfig       `toml:"death"`
	Rates       RatesConfig       `toml:"rates"`
	Persistence PersistenceConfig `toml:"persistence"`
	Lua         LuaConfig         `toml:"lua"`
	Data        DataConfig        `toml:"data"`
	Logging     LoggingConfig     `toml:"logging"`
}

// WorldType selects the server ruleset.
type WorldType string

const (
	WorldNormal  WorldType = "normal"
	WorldDeadman WorldType = "deadman"
)

type ServerConfig struct {
	Name      string    `toml:"name"`
	ID        int       `toml:"id"`
	WorldType WorldType `toml:"world_type"` // "normal" or "deadman"
	StartTime int64     // set at boot, not from config
}

type DatabaseConfig struct {
	DSN             string        `toml:"dsn"` // empty = run without persistence
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
}

type TickConfig struct {
	Rate time.Duration `toml:"rate"`
}

// Point is a location as written in the config file.
type Point struct {
	X     int32 `toml:"x"`
	Y     int32 `toml:"y"`
	MapID int16 `toml:"map_id"`
}

type DeathConfig struct {
	RespawnRealm       Point `toml:"respawn_realm"`         // default teleport target after death
	GroupRevivalTicks  int   `toml:"group_revival_ticks"`   // delay before a full boss group revives
	GroundItemTTLTicks int   `toml:"ground_item_ttl_ticks"` // dropped loot lifetime
	PublicLootTicks    int   `toml:"public_loot_ticks"`     // ticks before loot turns visible to everyone
}

type RatesConfig struct {
	DropRate float64 `toml:"drop_rate"`
}

type PersistenceConfig struct {
	BatchIntervalTicks int `toml:"batch_interval_ticks"` // journal flush every N ticks
	JournalQueueSize   int `toml:"journal_queue_size"`
}

type LuaConfig struct {
	ScriptsDir string `toml:"scripts_dir"`
	HotReload  bool   `toml:"hot_reload"`
}

type DataConfig struct {
	NpcList    string `toml:"npc_list"`
	SpawnList  string `toml:"spawn_list"`
	BossGroups string `toml:"boss_groups"`
	DropList   string `toml:"drop_list"`
	ZoneList   string `toml:"zone_list"`
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
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Server.StartTime = time.Now().Unix()
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaults()
}

func (c *Config) validate() error {
	switch c.Server.WorldType {
	case WorldNormal, WorldDeadman:
	default:
		return fmt.Errorf("server.world_type %q: want %q or %q", c.Server.WorldType, WorldNormal, WorldDeadman)
	}
	if c.Tick.Rate <= 0 {
		return fmt.Errorf("tick.rate must be positive, got %s", c.Tick.Rate)
	}
	if c.Death.GroupRevivalTicks < 1 {
		return fmt.Errorf("death.group_revival_ticks must be at least 1, got %d", c.Death.GroupRevivalTicks)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Name:      "Reaper",
			ID:        1,
			WorldType: WorldNormal,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Tick: TickConfig{
			Rate: 600 * time.Millisecond,
		},
		Death: DeathConfig{
			RespawnRealm:       Point{X: 3222, Y: 3218, MapID: 0},
			GroupRevivalTicks:  50,
			GroundItemTTLTicks: 300, // 3 minutes at 600ms
			PublicLootTicks:    100,
		},
		Rates: RatesConfig{
			DropRate: 1.0,
		},
		Persistence: PersistenceConfig{
			BatchIntervalTicks: 100, // 1 minute at 600ms
			JournalQueueSize:   4096,
		},
		Lua: LuaConfig{
			ScriptsDir: "scripts",
			HotReload:  true,
		},
		Data: DataConfig{
			NpcList:    "data/yaml/npc_list.yaml",
			SpawnList:  "data/yaml/spawn_list.yaml",
			BossGroups: "data/yaml/boss_groups.yaml",
			DropList:   "data/yaml/drop_list.yaml",
			ZoneList:   "data/yaml/zone_list.yaml",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
