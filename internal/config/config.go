package config

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/vango-dev/flxrouter/internal/errors"
)

const (
	// ConfigName is the configuration file name without extension.
	ConfigName = "flxrouter"

	// EnvPrefix prefixes environment variable overrides.
	EnvPrefix = "FLXROUTER"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendS3     = "s3"
)

// Config is the complete flxrouter configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Router RouterConfig `mapstructure:"router"`
	Store  StoreConfig  `mapstructure:"store"`
	Log    LogConfig    `mapstructure:"log"`

	// configFile is the file the config was read from, if any.
	configFile string
}

// ServerConfig configures the demo server.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	Pretty          bool          `mapstructure:"pretty"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// RouterConfig configures route loading and navigation.
type RouterConfig struct {
	// RoutesFile is a YAML or JSON route file. Empty uses the built-in demo routes.
	RoutesFile string `mapstructure:"routes_file"`
	Entry      string `mapstructure:"entry"`
	UseHistory bool   `mapstructure:"use_history"`
	UseMemory  bool   `mapstructure:"use_memory"`

	// Watch reloads RoutesFile when it changes.
	Watch bool `mapstructure:"watch"`
}

// StoreConfig selects and configures the last-route store.
type StoreConfig struct {
	Backend string       `mapstructure:"backend"`
	Key     string       `mapstructure:"key"`
	Redis   RedisConfig  `mapstructure:"redis"`
	SQLite  SQLiteConfig `mapstructure:"sqlite"`
	S3      S3Config     `mapstructure:"s3"`
}

// RedisConfig configures the Redis store.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// SQLiteConfig configures the SQL store on SQLite.
type SQLiteConfig struct {
	Path  string `mapstructure:"path"`
	Table string `mapstructure:"table"`
}

// S3Config configures the S3 store.
type S3Config struct {
	Bucket   string `mapstructure:"bucket"`
	Prefix   string `mapstructure:"prefix"`
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// FlagKeys maps command-line flag names to configuration keys.
var FlagKeys = map[string]string{
	"addr":        "server.addr",
	"pretty":      "server.pretty",
	"routes":      "router.routes_file",
	"entry":       "router.entry",
	"history":     "router.use_history",
	"memory":      "router.use_memory",
	"watch":       "router.watch",
	"store":       "store.backend",
	"store-key":   "store.key",
	"redis-addr":  "store.redis.addr",
	"sqlite-path": "store.sqlite.path",
	"s3-bucket":   "store.s3.bucket",
	"log-level":   "log.level",
	"log-format":  "log.format",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.pretty", false)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("router.routes_file", "")
	v.SetDefault("router.entry", "/")
	v.SetDefault("router.use_history", true)
	v.SetDefault("router.use_memory", false)
	v.SetDefault("router.watch", false)

	v.SetDefault("store.backend", BackendMemory)
	v.SetDefault("store.key", "route")
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.prefix", "flxrouter:route:")
	v.SetDefault("store.redis.ttl", time.Duration(0))
	v.SetDefault("store.sqlite.path", "flxrouter.db")
	v.SetDefault("store.sqlite.table", "flxrouter_routes")
	v.SetDefault("store.s3.bucket", "")
	v.SetDefault("store.s3.prefix", "routes/")
	v.SetDefault("store.s3.region", "us-east-1")
	v.SetDefault("store.s3.endpoint", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Default returns the configuration with every default applied.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Load reads flxrouter.yaml (or .yml, .json) from dir if present, applies
// FLXROUTER_* environment variables and the flags of fs that were set.
// fs may be nil.
func Load(dir string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(ConfigName)
	v.AddConfigPath(dir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range FlagKeys {
			if flag := fs.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, errors.New(errors.CodeConfigInvalid).Wrap(err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.New(errors.CodeConfigInvalid).
				WithDetail("The configuration file could not be parsed.").
				Wrap(err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New(errors.CodeConfigInvalid).Wrap(err)
	}
	cfg.configFile = v.ConfigFileUsed()

	if cfg.configFile != "" && cfg.Router.RoutesFile != "" && !filepath.IsAbs(cfg.Router.RoutesFile) {
		cfg.Router.RoutesFile = filepath.Join(filepath.Dir(cfg.configFile), cfg.Router.RoutesFile)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ConfigFile returns the file the configuration was read from, or "".
func (c *Config) ConfigFile() string {
	return c.configFile
}

// Validate checks the values viper cannot check.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return errors.New(errors.CodeConfigInvalid).WithDetail(fmt.Sprintf(format, args...))
	}

	switch c.Store.Backend {
	case BackendMemory, BackendRedis, BackendSQLite:
	case BackendS3:
		if c.Store.S3.Bucket == "" {
			return invalid("store.s3.bucket is required when store.backend is %q", BackendS3)
		}
	default:
		return invalid("store.backend must be one of memory, redis, sqlite, s3; got %q", c.Store.Backend)
	}

	if c.Store.Key == "" {
		return invalid("store.key must not be empty")
	}
	if c.Router.Entry != "" && !strings.HasPrefix(c.Router.Entry, "/") {
		return invalid("router.entry must start with '/', got %q", c.Router.Entry)
	}
	if c.Router.Watch && c.Router.RoutesFile == "" {
		return invalid("router.watch needs router.routes_file")
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return invalid("%v", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return invalid("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// Logger builds the slog logger described by the log section.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
