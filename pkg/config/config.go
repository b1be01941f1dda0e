package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Poll struct {
		Interval time.Duration `yaml:"interval"` // full cycle cadence
		Fresh    time.Duration `yaml:"fresh"`    // regime snapshot fresh window
		Stale    time.Duration `yaml:"stale"`    // additional stale-while-revalidate window
	} `yaml:"poll"`
	Pipeline struct {
		Workers          int           `yaml:"workers"`
		QuoteBatchSize   int           `yaml:"quote_batch_size"`
		BatchConcurrency int           `yaml:"batch_concurrency"`
		RequestTimeout   time.Duration `yaml:"request_timeout"`
	} `yaml:"pipeline"`
	Feeds struct {
		RegimeGateURL string `yaml:"regime_gate_url"`
		QuoteURL      string `yaml:"quote_url"`
		QuoteWSURL    string `yaml:"quote_ws_url"`
		MacroURL      string `yaml:"macro_url"`
		LiquidityURL  string `yaml:"liquidity_url"`

		ReconnectDelay time.Duration `yaml:"reconnect_delay"`
		PingInterval   time.Duration `yaml:"ping_interval"`
	} `yaml:"feeds"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	Cache struct {
		Redis struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("REGIME_GATE_URL"); v != "" {
		c.Feeds.RegimeGateURL = v
	}
	if v := os.Getenv("QUOTE_URL"); v != "" {
		c.Feeds.QuoteURL = v
	}
	if v := os.Getenv("QUOTE_WS_URL"); v != "" {
		c.Feeds.QuoteWSURL = v
	}
	if v := os.Getenv("MACRO_URL"); v != "" {
		c.Feeds.MacroURL = v
	}
	if v := os.Getenv("LIQUIDITY_URL"); v != "" {
		c.Feeds.LiquidityURL = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
		c.Cache.Redis.Enabled = true
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Poll.Interval == 0 {
		c.Poll.Interval = time.Minute
	}
	if c.Poll.Fresh == 0 {
		c.Poll.Fresh = 2 * time.Minute
	}
	if c.Poll.Stale == 0 {
		c.Poll.Stale = 5 * time.Minute
	}
	if c.Pipeline.Workers == 0 {
		c.Pipeline.Workers = 8
	}
	if c.Pipeline.QuoteBatchSize == 0 {
		c.Pipeline.QuoteBatchSize = 20
	}
	if c.Pipeline.BatchConcurrency == 0 {
		c.Pipeline.BatchConcurrency = 4
	}
	if c.Pipeline.RequestTimeout == 0 {
		c.Pipeline.RequestTimeout = 10 * time.Second
	}
	if c.Feeds.ReconnectDelay == 0 {
		c.Feeds.ReconnectDelay = 5 * time.Second
	}
	if c.Feeds.PingInterval == 0 {
		c.Feeds.PingInterval = 30 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Feeds.RegimeGateURL == "" {
		return fmt.Errorf("feeds.regime_gate_url is required")
	}
	if c.Feeds.QuoteURL == "" {
		return fmt.Errorf("feeds.quote_url is required")
	}
	if c.Feeds.MacroURL == "" {
		return fmt.Errorf("feeds.macro_url is required")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers required when kafka is enabled")
	}
	if c.Kafka.Enabled && c.Kafka.Topic == "" {
		return fmt.Errorf("kafka.topic required when kafka is enabled")
	}
	if c.Pipeline.Workers < 1 {
		return fmt.Errorf("pipeline.workers must be positive")
	}
	return nil
}
