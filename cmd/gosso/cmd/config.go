package cmd

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// duration lets TOML fields carry Go duration strings such as "24h" or "500ms".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// serverConfig is the gosso.toml key mapping for the server command.
type serverConfig struct {
	Listen  string        `toml:"listen"`
	Cache   cacheConfig   `toml:"cache"`
	Brokers brokersConfig `toml:"brokers"`
	Cookie  cookieConfig  `toml:"cookie"`
	Audit   auditConfig   `toml:"audit"`
	Metrics metricsConfig `toml:"metrics"`
}

type cacheConfig struct {
	// Backend selects the link store: "memory", "redis", or "bolt".
	Backend string      `toml:"backend"`
	Redis   redisConfig `toml:"redis"`
	Bolt    boltConfig  `toml:"bolt"`
}

type redisConfig struct {
	Addr   string   `toml:"addr"`
	Prefix string   `toml:"prefix"`
	TTL    duration `toml:"ttl"`
}

type boltConfig struct {
	Path string `toml:"path"`
}

type brokersConfig struct {
	// Registry is the path to the broker registry TOML file.
	Registry string `toml:"registry"`
}

type cookieConfig struct {
	Name   string   `toml:"name"`
	Secret string   `toml:"secret"`
	TTL    duration `toml:"ttl"`
	Secure bool     `toml:"secure"`
}

type auditConfig struct {
	Enabled    bool   `toml:"enabled"`
	BufferSize int    `toml:"buffer_size"`
	DropIfFull bool   `toml:"drop_if_full"`
	// Log is the file audit events are appended to as JSON lines. Required
	// when audit is enabled.
	Log string `toml:"log"`
}

type metricsConfig struct {
	Enabled           bool `toml:"enabled"`
	LatencyHistograms bool `toml:"latency_histograms"`
}

func defaultServerConfig() serverConfig {
	return serverConfig{
		Listen: ":8080",
		Cache: cacheConfig{
			Backend: "memory",
			Redis: redisConfig{
				Prefix: "gosso",
				TTL:    duration{24 * time.Hour},
			},
			Bolt: boltConfig{
				Path: "./data/links.db",
			},
		},
		Cookie: cookieConfig{
			Name: "sso_session",
			TTL:  duration{24 * time.Hour},
		},
		Audit: auditConfig{
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: metricsConfig{
			Enabled: true,
		},
	}
}

// loadServerConfig reads path over the defaults; keys absent from the file
// keep their default values.
func loadServerConfig(path string) (serverConfig, error) {
	cfg := defaultServerConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return serverConfig{}, fmt.Errorf("load config %q: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return serverConfig{}, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

func (c serverConfig) validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}
	switch c.Cache.Backend {
	case "memory":
	case "redis":
		if c.Cache.Redis.Addr == "" {
			return fmt.Errorf("cache.redis.addr is required for the redis backend")
		}
	case "bolt":
		if c.Cache.Bolt.Path == "" {
			return fmt.Errorf("cache.bolt.path is required for the bolt backend")
		}
	default:
		return fmt.Errorf("unknown cache backend %q (expected memory, redis, or bolt)", c.Cache.Backend)
	}
	if c.Brokers.Registry == "" {
		return fmt.Errorf("brokers.registry is required")
	}
	if c.Cookie.Secret == "" {
		return fmt.Errorf("cookie.secret is required")
	}
	if c.Audit.Enabled && c.Audit.Log == "" {
		return fmt.Errorf("audit.log is required when audit is enabled")
	}
	return nil
}
