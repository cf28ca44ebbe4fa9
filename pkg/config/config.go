package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// Member describes one basket constituent.
type Member struct {
	Symbol     string  `yaml:"symbol"`
	Name       string  `yaml:"name"`
	Allocation float64 `yaml:"allocation"`
	Multiplier float64 `yaml:"multiplier" default:"1"`
	Color      string  `yaml:"color"`
}

// UnmarshalYAML applies tag defaults per member, so an omitted multiplier is
// 1 while an explicit 0 is kept.
func (m *Member) UnmarshalYAML(value *yaml.Node) error {
	if err := defaults.Set(m); err != nil {
		return err
	}
	type plain Member
	return value.Decode((*plain)(m))
}

// FallbackRow is a static table row used when a member has no usable series.
type FallbackRow struct {
	Symbol       string  `yaml:"symbol"`
	Name         string  `yaml:"name"`
	Price        float64 `yaml:"price"`
	Allocation   float64 `yaml:"allocation"`
	Change24h    float64 `yaml:"change_24h"`
	Prediction7d float64 `yaml:"prediction_7d"`
}

// Performer is a configured default best/worst performer.
type Performer struct {
	Symbol string  `yaml:"symbol"`
	Change float64 `yaml:"change"`
}

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		SlowThreshold   time.Duration `yaml:"slow_threshold" default:"2s"`
		CORS            bool          `yaml:"cors" default:"true"`
	} `yaml:"server"`
	Log struct {
		Level      string `yaml:"level" default:"info"`
		Format     string `yaml:"format" default:"console"`
		Output     string `yaml:"output" default:"stdout"`
		MaxSizeMB  int    `yaml:"max_size_mb" default:"10"`
		MaxBackups int    `yaml:"max_backups" default:"5"`
		MaxAgeDays int    `yaml:"max_age_days" default:"7"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Data struct {
		Source      string            `yaml:"source" default:"file"`
		Dir         string            `yaml:"dir" default:"datasets/raw"`
		FilePattern string            `yaml:"file_pattern" default:"%s_USD_2020_2025_Daily.csv"`
		BasketFile  string            `yaml:"basket_file" default:"datasets/processed/crypto_basket.csv"`
		URLs        map[string]string `yaml:"urls"`
		BasketURL   string            `yaml:"basket_url"`
		Table       string            `yaml:"table" default:"daily_prices"`
		Timeout     time.Duration     `yaml:"timeout" default:"5s"`
		Window      int               `yaml:"window" default:"90"`
	} `yaml:"data"`
	Basket struct {
		ScaleFactor     float64       `yaml:"scale_factor" default:"100"`
		Members         []Member      `yaml:"members"`
		FallbackRows    bool          `yaml:"fallback_rows"`
		Fallback        []FallbackRow `yaml:"fallback"`
		ComposeFallback bool          `yaml:"compose_fallback" default:"true"`
		DefaultBest     Performer     `yaml:"default_best"`
		DefaultWorst    Performer     `yaml:"default_worst"`
	} `yaml:"basket"`
	Predictor struct {
		Mode          string        `yaml:"mode" default:"http"`
		URL           string        `yaml:"url" default:"http://localhost:5000"`
		Path          string        `yaml:"path" default:"/api/predict"`
		Command       string        `yaml:"command" default:"python3"`
		Args          []string      `yaml:"args"`
		Timeout       time.Duration `yaml:"timeout" default:"30s"`
		Retries       int           `yaml:"retries" default:"2"`
		Horizons      []int         `yaml:"horizons"`
		CacheTTL      time.Duration `yaml:"cache_ttl" default:"10m"`
		SyntheticBase float64       `yaml:"synthetic_base" default:"4200"`
		RateCapacity  float64       `yaml:"rate_capacity" default:"5"`
		RateRefill    float64       `yaml:"rate_refill_per_sec" default:"0.5"`
	} `yaml:"predictor"`
	Refresh struct {
		Enabled bool          `yaml:"enabled" default:"true"`
		Cron    string        `yaml:"cron" default:"@every 60s"`
		Timeout time.Duration `yaml:"timeout" default:"45s"`
	} `yaml:"refresh"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr" default:"localhost:6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"basket.snapshots"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"gzip"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"100ms"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"10"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host" default:"localhost"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"cryptobasket"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout     time.Duration `yaml:"write_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
	} `yaml:"clickhouse"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML bytes on top of the tagged defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	for i := range c.Basket.Members {
		c.Basket.Members[i].Symbol = strings.ToUpper(c.Basket.Members[i].Symbol)
	}
	for i := range c.Basket.Fallback {
		c.Basket.Fallback[i].Symbol = strings.ToUpper(c.Basket.Fallback[i].Symbol)
	}
	if len(c.Predictor.Horizons) == 0 {
		c.Predictor.Horizons = []int{7, 180, 365}
	}

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

	if v := os.Getenv("DATA_SOURCE"); v != "" {
		c.Data.Source = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		c.Data.Dir = v
	}
	if v := os.Getenv("PREDICTOR_URL"); v != "" {
		c.Predictor.URL = v
	}
	if v := os.Getenv("PREDICTOR_MODE"); v != "" {
		c.Predictor.Mode = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	switch c.Data.Source {
	case "file", "http", "clickhouse":
	default:
		return fmt.Errorf("data.source must be 'file', 'http' or 'clickhouse', got '%s'", c.Data.Source)
	}
	switch c.Predictor.Mode {
	case "http", "exec", "none":
	default:
		return fmt.Errorf("predictor.mode must be 'http', 'exec' or 'none', got '%s'", c.Predictor.Mode)
	}
	if len(c.Basket.Members) == 0 {
		return fmt.Errorf("basket.members cannot be empty")
	}
	seen := make(map[string]struct{}, len(c.Basket.Members))
	for _, m := range c.Basket.Members {
		if m.Symbol == "" {
			return fmt.Errorf("basket.members: symbol is required")
		}
		if _, dup := seen[m.Symbol]; dup {
			return fmt.Errorf("basket.members: duplicate symbol %s", m.Symbol)
		}
		seen[m.Symbol] = struct{}{}
		if m.Allocation < 0 || m.Allocation > 1 || math.IsNaN(m.Allocation) {
			return fmt.Errorf("basket.members: allocation of %s must be within [0, 1]", m.Symbol)
		}
		if m.Multiplier < 0 || math.IsNaN(m.Multiplier) || math.IsInf(m.Multiplier, 0) {
			return fmt.Errorf("basket.members: multiplier of %s must be a non-negative number", m.Symbol)
		}
	}
	if c.Basket.ScaleFactor <= 0 {
		return fmt.Errorf("basket.scale_factor must be positive")
	}
	for _, h := range c.Predictor.Horizons {
		if h <= 0 {
			return fmt.Errorf("predictor.horizons must be positive, got %d", h)
		}
	}
	if c.Data.Window <= 0 {
		return fmt.Errorf("data.window must be positive")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	return nil
}
