// Package config loads runtime settings from an optional config file, a
// dotenv file and FIELDBUILDER_ prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. FIELDBUILDER_HTTP_ADDR.
const EnvPrefix = "FIELDBUILDER"

type Config struct {
	Env     string        `mapstructure:"env" validate:"oneof=development production test"`
	Log     LogConfig     `mapstructure:"log"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Store   StoreConfig   `mapstructure:"store"`
	Lookup  LookupConfig  `mapstructure:"lookup"`
	Suggest SuggestConfig `mapstructure:"suggest"`
	Theme   ThemeConfig   `mapstructure:"theme"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn warning error fatal panic"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=text json"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

type StoreConfig struct {
	Driver      string `mapstructure:"driver" validate:"oneof=memory redis postgres"`
	RedisURL    string `mapstructure:"redis_url" validate:"required_if=Driver redis"`
	PostgresDSN string `mapstructure:"postgres_dsn" validate:"required_if=Driver postgres"`
}

type LookupConfig struct {
	Endpoint  string `mapstructure:"endpoint" validate:"omitempty,url"`
	CacheSize int    `mapstructure:"cache_size" validate:"gte=0"`
}

type SuggestConfig struct {
	Model string `mapstructure:"model"`
}

type ThemeConfig struct {
	Name    string `mapstructure:"name"`
	Variant string `mapstructure:"variant"`
}

// LoadOptions points Load at optional files.
type LoadOptions struct {
	// ConfigFile is a yaml/json/toml file read by viper. Optional.
	ConfigFile string
	// EnvFile is a dotenv file loaded into the process environment before
	// overrides are read. Defaults to ".env"; a missing file is ignored.
	EnvFile string
}

func defaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.redis_url", "")
	v.SetDefault("store.postgres_dsn", "")
	v.SetDefault("lookup.endpoint", "")
	v.SetDefault("lookup.cache_size", 256)
	v.SetDefault("suggest.model", "gemini-2.0-flash")
	v.SetDefault("theme.name", "")
	v.SetDefault("theme.variant", "")
}

// Load resolves the configuration. Precedence, lowest first: defaults,
// config file, dotenv file, process environment.
func Load(opts LoadOptions) (*Config, error) {
	envFile := strings.TrimSpace(opts.EnvFile)
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load %s: %w", envFile, err)
	}

	v := viper.New()
	defaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file := strings.TrimSpace(opts.ConfigFile); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	cfg.normalise()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalise() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	c.Lookup.Endpoint = strings.TrimSpace(c.Lookup.Endpoint)
}

// Validate checks the struct tags and reports every violation.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("config: validate: %w", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("config: invalid: %s", strings.Join(msgs, ", "))
}

// Production reports whether the process runs in production.
func (c *Config) Production() bool {
	return c != nil && c.Env == "production"
}
