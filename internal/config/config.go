package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Game       GameConfig
	Logging    LoggingConfig
	Dictionary DictionaryConfig
	Snapshot   SnapshotConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host string
	Port string
	Env  string // "development" or "production"
}

// GameConfig holds room lifecycle configuration
type GameConfig struct {
	HostGracePeriod        time.Duration // host reconnect window; minutes, not seconds
	ParticipantGracePeriod time.Duration // participant reconnect window; tens of seconds
	ArbitrationTimeout     time.Duration // host validation window after round end
	DictionaryTimeout      time.Duration // bounded wait for the advisory lookup pass
	MaxRoundDuration       time.Duration
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level string
}

// DictionaryConfig holds the advisory dictionary collaborator settings
type DictionaryConfig struct {
	BaseURL string // empty disables lookups; every word routes to arbitration
}

// SnapshotConfig holds the best-effort durability settings
type SnapshotConfig struct {
	RedisAddr string // empty degrades to purely in-memory operation
	TTL       time.Duration
}

// New returns a viper instance with the WORDHUNT_* environment binding and
// every default registered. The command layer binds its flags into the same
// instance.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("WORDHUNT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", "8080")
	v.SetDefault("env", "development")
	v.SetDefault("log-level", "info")
	v.SetDefault("host-grace", 5*time.Minute)
	v.SetDefault("player-grace", 45*time.Second)
	v.SetDefault("arbitration-timeout", 60*time.Second)
	v.SetDefault("dictionary-timeout", 2*time.Second)
	v.SetDefault("max-round-duration", 10*time.Minute)
	v.SetDefault("dictionary-url", "")
	v.SetDefault("redis-addr", "")
	v.SetDefault("snapshot-ttl", 30*time.Minute)

	return v
}

// Load materializes the typed configuration from a viper instance
func Load(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Host: v.GetString("host"),
			Port: v.GetString("port"),
			Env:  v.GetString("env"),
		},
		Game: GameConfig{
			HostGracePeriod:        v.GetDuration("host-grace"),
			ParticipantGracePeriod: v.GetDuration("player-grace"),
			ArbitrationTimeout:     v.GetDuration("arbitration-timeout"),
			DictionaryTimeout:      v.GetDuration("dictionary-timeout"),
			MaxRoundDuration:       v.GetDuration("max-round-duration"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("log-level"),
		},
		Dictionary: DictionaryConfig{
			BaseURL: v.GetString("dictionary-url"),
		},
		Snapshot: SnapshotConfig{
			RedisAddr: v.GetString("redis-addr"),
			TTL:       v.GetDuration("snapshot-ttl"),
		},
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// GetAddr returns the server address in host:port format
func (c *Config) GetAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}
