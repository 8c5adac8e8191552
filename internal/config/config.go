// SPDX-License-Identifier: MIT

// Package config loads lvcorr settings from defaults, ~/.lvcorr/config.yaml and LVCORR_* env.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override (LVCORR_WORKERS, LVCORR_METHOD, ...).
const EnvPrefix = "LVCORR"

// ErrUnknownKey is returned by Set for keys that are not part of Global.
var ErrUnknownKey = errors.New("config: unknown key")

var errNegative = errors.New("must be >= 0")

// Global configuration structure.
type Global struct {
	// Execution
	Workers      int     `mapstructure:"workers" yaml:"workers"`
	LogicalCores bool    `mapstructure:"logical_cores" yaml:"logical_cores"`
	RateLimit    float64 `mapstructure:"rate_limit" yaml:"rate_limit"`

	// Correlation defaults
	Method      string `mapstructure:"method" yaml:"method"`
	Self        string `mapstructure:"self" yaml:"self"`
	AdjustScope string `mapstructure:"adjust_scope" yaml:"adjust_scope"`

	// Logging
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	LogJSON  bool   `mapstructure:"log_json" yaml:"log_json"`

	// HTTP server
	ListenAddr  string   `mapstructure:"listen_addr" yaml:"listen_addr"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`

	// Data sources
	PostgresDSN    string `mapstructure:"postgres_dsn" yaml:"postgres_dsn"`
	S3Region       string `mapstructure:"s3_region" yaml:"s3_region"`
	S3Endpoint     string `mapstructure:"s3_endpoint" yaml:"s3_endpoint"`
	MinioEndpoint  string `mapstructure:"minio_endpoint" yaml:"minio_endpoint"`
	MinioAccessKey string `mapstructure:"minio_access_key" yaml:"minio_access_key"`
	MinioSecretKey string `mapstructure:"minio_secret_key" yaml:"minio_secret_key"`
	MinioSecure    bool   `mapstructure:"minio_secure" yaml:"minio_secure"`
}

// Keys lists every configuration key in display order.
func Keys() []string {
	return []string{
		"workers", "logical_cores", "rate_limit",
		"method", "self", "adjust_scope",
		"log_level", "log_json",
		"listen_addr", "cors_origins",
		"postgres_dsn", "s3_region", "s3_endpoint",
		"minio_endpoint", "minio_access_key", "minio_secret_key", "minio_secure",
	}
}

// Dir returns ~/.lvcorr.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".lvcorr"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.lvcorr/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. A missing file is not an error, so
// "config set" can create it; a malformed one is.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("workers", 0)
	v.SetDefault("logical_cores", true)
	v.SetDefault("rate_limit", 0.0)
	v.SetDefault("method", "BH")
	v.SetDefault("self", "no")
	v.SetDefault("adjust_scope", "global")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("cors_origins", []string{"*"})
	v.SetDefault("postgres_dsn", "")
	v.SetDefault("s3_region", "")
	v.SetDefault("s3_endpoint", "")
	v.SetDefault("minio_endpoint", "")
	v.SetDefault("minio_access_key", "")
	v.SetDefault("minio_secret_key", "")
	v.SetDefault("minio_secure", true)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil && !notFound(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Set assigns one key from its string form. Slice keys take comma-separated values.
func (c *Global) Set(key, val string) error {
	var err error
	switch key {
	case "workers":
		var n int
		if n, err = strconv.Atoi(val); err == nil && n < 0 {
			err = errNegative
		}
		if err == nil {
			c.Workers = n
		}
	case "logical_cores":
		c.LogicalCores, err = strconv.ParseBool(val)
	case "rate_limit":
		var f float64
		if f, err = strconv.ParseFloat(val, 64); err == nil && f < 0 {
			err = errNegative
		}
		if err == nil {
			c.RateLimit = f
		}
	case "method":
		c.Method = val
	case "self":
		c.Self = val
	case "adjust_scope":
		c.AdjustScope = val
	case "log_level":
		c.LogLevel = val
	case "log_json":
		c.LogJSON, err = strconv.ParseBool(val)
	case "listen_addr":
		c.ListenAddr = val
	case "cors_origins":
		c.CORSOrigins = splitList(val)
	case "postgres_dsn":
		c.PostgresDSN = val
	case "s3_region":
		c.S3Region = val
	case "s3_endpoint":
		c.S3Endpoint = val
	case "minio_endpoint":
		c.MinioEndpoint = val
	case "minio_access_key":
		c.MinioAccessKey = val
	case "minio_secret_key":
		c.MinioSecretKey = val
	case "minio_secure":
		c.MinioSecure, err = strconv.ParseBool(val)
	default:
		return fmt.Errorf("%q: %w", key, ErrUnknownKey)
	}
	if err != nil {
		return fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return nil
}

// Show renders the effective configuration one "key: value" line per key,
// with secrets masked.
func (c *Global) Show() string {
	var b strings.Builder
	line := func(k string, v any) { fmt.Fprintf(&b, "%s: %v\n", k, v) }
	line("workers", c.Workers)
	line("logical_cores", c.LogicalCores)
	line("rate_limit", c.RateLimit)
	line("method", c.Method)
	line("self", c.Self)
	line("adjust_scope", c.AdjustScope)
	line("log_level", c.LogLevel)
	line("log_json", c.LogJSON)
	line("listen_addr", c.ListenAddr)
	line("cors_origins", strings.Join(c.CORSOrigins, ","))
	line("postgres_dsn", mask(c.PostgresDSN))
	line("s3_region", c.S3Region)
	line("s3_endpoint", c.S3Endpoint)
	line("minio_endpoint", c.MinioEndpoint)
	line("minio_access_key", mask(c.MinioAccessKey))
	line("minio_secret_key", mask(c.MinioSecretKey))
	line("minio_secure", c.MinioSecure)
	return b.String()
}

func notFound(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.As(err, &nf) || errors.Is(err, fs.ErrNotExist)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "****" + s[len(s)-3:]
}
