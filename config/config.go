package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"go.uber.org/multierr"
)

type Config struct {
	Env      string      `yaml:"env" env:"ENV" env-default:"local"`
	LogLevel string      `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	HTTP     HTTPConfig  `yaml:"http"`
	Data     DataConfig  `yaml:"data"`
	Query    QueryConfig `yaml:"query"`
}

type HTTPConfig struct {
	Host            string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            int           `yaml:"port" env:"HTTP_PORT" env-default:"8000"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
	// RateLimit is requests per second for the whole process, 0 disables it.
	RateLimit float64 `yaml:"rate_limit" env:"HTTP_RATE_LIMIT" env-default:"0"`
	RateBurst int     `yaml:"rate_burst" env:"HTTP_RATE_BURST" env-default:"20"`
}

type DataConfig struct {
	// Path of the RSP csv. Ignored when URL is set.
	Path           string        `yaml:"path" env:"DATA_PATH" env-default:"data/Retail Selling Price (RSP) of Petrol and Diesel in Metro Cities.csv"`
	URL            string        `yaml:"url" env:"DATA_URL"`
	FetchTimeout   time.Duration `yaml:"fetch_timeout" env:"DATA_FETCH_TIMEOUT" env-default:"30s"`
	MaxRetryTime   time.Duration `yaml:"max_retry_time" env:"DATA_MAX_RETRY_TIME" env-default:"1m"`
	RetryInitDelay time.Duration `yaml:"retry_init_delay" env:"DATA_RETRY_INIT_DELAY" env-default:"500ms"`
}

type QueryConfig struct {
	DefaultWindow string  `yaml:"default_window" env:"QUERY_DEFAULT_WINDOW" env-default:"7d"`
	DefaultZ      float64 `yaml:"default_z" env:"QUERY_DEFAULT_Z" env-default:"2.5"`
}

func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MustLoad reads the config file given by -config or CONFIG_PATH, or only the
// environment when neither is set, and panics on any error.
func MustLoad() *Config {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := Load(fetchConfigPath())
	if err != nil {
		panic("cannot read config: " + err.Error())
	}
	return cfg
}

func Load(configPath string) (*Config, error) {
	var cfg Config

	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", configPath)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, err
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var err error

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		err = multierr.Append(err, fmt.Errorf("http.port out of range: %d", c.HTTP.Port))
	}
	if c.HTTP.ReadTimeout <= 0 || c.HTTP.WriteTimeout <= 0 || c.HTTP.ShutdownTimeout <= 0 {
		err = multierr.Append(err, errors.New("http timeouts must be positive"))
	}
	if c.HTTP.RateLimit < 0 {
		err = multierr.Append(err, fmt.Errorf("http.rate_limit is negative: %v", c.HTTP.RateLimit))
	}
	if c.HTTP.RateLimit > 0 && c.HTTP.RateBurst <= 0 {
		err = multierr.Append(err, fmt.Errorf("http.rate_burst must be positive, got %d", c.HTTP.RateBurst))
	}
	if c.Data.Path == "" && c.Data.URL == "" {
		err = multierr.Append(err, errors.New("one of data.path or data.url is required"))
	}
	if c.Data.URL != "" && !strings.HasPrefix(c.Data.URL, "http://") && !strings.HasPrefix(c.Data.URL, "https://") {
		err = multierr.Append(err, fmt.Errorf("data.url is not an http url: %s", c.Data.URL))
	}
	if !strings.HasSuffix(c.Query.DefaultWindow, "d") && !strings.HasSuffix(c.Query.DefaultWindow, "w") {
		err = multierr.Append(err, fmt.Errorf("query.default_window must end in d or w: %q", c.Query.DefaultWindow))
	}

	return err
}

func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "config path")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
