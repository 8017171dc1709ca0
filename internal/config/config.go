package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jmehdipour/econnect-gateway/internal/econnect"
	"github.com/spf13/viper"
)

//go:embed defaults.yaml
var defaults []byte

const EnvPrefix = "ECONNECT"

// ---- Root ----

type Config struct {
	Log        LogConfig       `mapstructure:"log"`
	Gateway    GatewayConfig   `mapstructure:"gateway"`
	HTTP       HTTPConfig      `mapstructure:"http"`
	MySQL      DatabaseConfig  `mapstructure:"mysql"`
	ClickHouse DatabaseConfig  `mapstructure:"clickhouse"`
	Redis      RedisConfig     `mapstructure:"redis"`
	Kafka      KafkaConfig     `mapstructure:"kafka"`
	RateLimit  RateLimitConfig `mapstructure:"rate_limit"`
	Journal    JournalConfig   `mapstructure:"journal"`
	Submit     SubmitConfig    `mapstructure:"submit"`
}

// ---- Leaf structs ----

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"` // json | console
}

type GatewayConfig struct {
	Mode             string        `mapstructure:"mode"`
	Endpoint         string        `mapstructure:"endpoint"`
	StagingEndpoint  string        `mapstructure:"endpoint_staging"`
	SenderReference  string        `mapstructure:"sender_reference"`
	AccessCode       string        `mapstructure:"access_code"`
	CustomerNumber   string        `mapstructure:"customer_number"`
	CustomerUser     string        `mapstructure:"customer_user"`
	CustomerBranch   string        `mapstructure:"customer_branch"`
	Namespace        string        `mapstructure:"namespace"`
	CallTimeout      time.Duration `mapstructure:"call_timeout"`
	SkipProbe        bool          `mapstructure:"skip_probe"`
	StrictAttributes bool          `mapstructure:"strict_attributes"`
	Breaker          BreakerConfig `mapstructure:"breaker"`
}

type BreakerConfig struct {
	FailThreshold int           `mapstructure:"fail_threshold"`
	OpenFor       time.Duration `mapstructure:"open_for"`
}

type HTTPConfig struct {
	Addr    string   `mapstructure:"addr"`
	APIKeys []string `mapstructure:"api_keys"`
}

type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idletime"`
	PingTimeout     time.Duration `mapstructure:"ping_timeout"`
}

type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

type KafkaConfig struct {
	Brokers        []string `mapstructure:"brokers"`
	GroupID        string   `mapstructure:"group_id"`
	Topic          string   `mapstructure:"topic"`
	MinBytes       int      `mapstructure:"min_bytes"`
	MaxBytes       int      `mapstructure:"max_bytes"`
	CommitInterval int      `mapstructure:"commit_interval_ms"`
	BatchBytes     int64    `mapstructure:"batch_bytes"` // producer request cap, keep <= broker message.max.bytes
}

type RateLimitConfig struct {
	RPS int `mapstructure:"rps"`
}

type JournalConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Buffer    int           `mapstructure:"buffer"`
	BatchSize int           `mapstructure:"batch_size"`
	BatchWait time.Duration `mapstructure:"batch_wait"`
}

type SubmitConfig struct {
	ReleaseOnCommit bool `mapstructure:"release_on_commit"`
	Workers         int  `mapstructure:"workers"`
}

// Load reads embedded defaults, merges user YAML (if the file exists), and
// applies env overrides (ECONNECT_GATEWAY_MODE, ECONNECT_MYSQL_DSN, ...).
func Load(path string) (Config, error) {
	v := viper.New()

	// embedded defaults
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Config{}, fmt.Errorf("read defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.MergeInConfig(); err != nil {
				return Config{}, fmt.Errorf("merge %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("stat %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// GatewayConfig maps the gateway section onto the binding's own config.
func (c Config) GatewayConfig() econnect.Config {
	g := c.Gateway
	return econnect.Config{
		Mode:             g.Mode,
		Endpoint:         g.Endpoint,
		StagingEndpoint:  g.StagingEndpoint,
		SenderReference:  g.SenderReference,
		AccessCode:       g.AccessCode,
		CustomerNumber:   g.CustomerNumber,
		CustomerUser:     g.CustomerUser,
		CustomerBranch:   g.CustomerBranch,
		Namespace:        g.Namespace,
		CallTimeout:      g.CallTimeout,
		SkipProbe:        g.SkipProbe,
		StrictAttributes: g.StrictAttributes,
		Breaker: econnect.BreakerConfig{
			FailThreshold: g.Breaker.FailThreshold,
			OpenFor:       g.Breaker.OpenFor,
		},
	}
}
