package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Game     GameConfig     `toml:"game"`
	Network  NetworkConfig  `toml:"network"`
	Spawner  SpawnerConfig  `toml:"spawner"`
	Database DatabaseConfig `toml:"database"`
	Logging  LoggingConfig  `toml:"logging"`
}

type ServerConfig struct {
	Name            string `toml:"name"`
	ID              int    `toml:"server_id"`
	Region          string `toml:"region"`
	MaxPlayerCount  int    `toml:"max_player_count"`
	ListenAddress   string `toml:"listen_address"`
	ListenPort      int    `toml:"listen_port"`
	ExternalAddress string `toml:"external_address"`
	RPCPort         int    `toml:"rpc_port"`
}

type GameConfig struct {
	MaxLevel       int           `toml:"max_level"`
	ClientTimeout  time.Duration `toml:"client_timeout"`
	LogoutDuration time.Duration `toml:"logout_duration"`
	JoinNotice     string        `toml:"join_notice"`
	DataLocation   string        `toml:"data_location"` // required
	DesiredTicks   int           `toml:"desired_ticks"`
	DeletionTime   time.Duration `toml:"deletion_time"`
	AutosaveEvery  time.Duration `toml:"autosave_interval"`
}

type NetworkConfig struct {
	InQueueSize       int `toml:"in_queue_size"`
	OutQueueSize      int `toml:"out_queue_size"`
	MaxPacketsPerTick int `toml:"max_packets_per_tick"`
}

type SpawnerConfig struct {
	Radius float64 `toml:"radius"`
	Amount int     `toml:"amount"`
}

type DatabaseConfig struct {
	Host           string `toml:"host"`
	User           string `toml:"user"`
	Password       string `toml:"password"`
	Database       string `toml:"database"`
	MaxConnections int    `toml:"max_connections"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s", d.User, d.Password, d.Host, d.Database)
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
	if cfg.Game.DataLocation == "" {
		return nil, fmt.Errorf("config %s: game.data_location is required", path)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Name:            "AgentServer",
			ID:              1,
			Region:          "eu",
			MaxPlayerCount:  500,
			ListenAddress:   "0.0.0.0",
			ListenPort:      15780,
			ExternalAddress: "127.0.0.1",
			RPCPort:         1337,
		},
		Game: GameConfig{
			MaxLevel:       110,
			ClientTimeout:  30 * time.Second,
			LogoutDuration: 2 * time.Second,
			DesiredTicks:   30,
			DeletionTime:   7 * 24 * time.Hour,
			AutosaveEvery:  60 * time.Second,
		},
		Network: NetworkConfig{
			InQueueSize:       128,
			OutQueueSize:      256,
			MaxPacketsPerTick: 32,
		},
		Spawner: SpawnerConfig{
			Radius: 100,
			Amount: 10,
		},
		Database: DatabaseConfig{
			Host:           "localhost:5432",
			User:           "agentd",
			Password:       "agentd",
			Database:       "agentd",
			MaxConnections: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
