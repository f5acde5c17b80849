package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

type Config struct {
	Service   ServiceConfig
	Scheduler SchedulerConfig
	Trivia    TriviaConfig
	Redis     RedisConfig
	Logger    LoggerConfig
}

// ServiceConfig points the sync client at the remote couples service.
type ServiceConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SchedulerConfig struct {
	// Threshold is how long after the last completion a new quiz is served.
	Threshold time.Duration
}

type TriviaConfig struct {
	BaseURL   string
	APIKey    string
	WordCount int
	Timeout   time.Duration
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
	TokenTTL time.Duration
}

type LoggerConfig struct {
	Env   string
	Level string
}

const (
	DefaultServiceTimeout    = 10 * time.Second
	DefaultScheduleThreshold = 24 * time.Hour
	DefaultTriviaBaseURL     = "https://api.api-ninjas.com"
	DefaultTriviaWordCount   = 3
	DefaultTokenTTL          = 7 * 24 * time.Hour
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.timeout", DefaultServiceTimeout.String())
	v.SetDefault("scheduler.threshold", DefaultScheduleThreshold.String())
	v.SetDefault("trivia.base_url", DefaultTriviaBaseURL)
	v.SetDefault("trivia.word_count", DefaultTriviaWordCount)
	v.SetDefault("trivia.timeout", DefaultServiceTimeout.String())
	v.SetDefault("redis.token_ttl", DefaultTokenTTL.String())
	v.SetDefault("logger.env", "development")
	v.SetDefault("logger.level", "info")
}

// LoadConfig reads config.yaml from the working directory or ./config and
// applies environment overrides. A missing config file is not an error.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Add config paths based on environment
	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", absPath)
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	serviceTimeout, err := parseDuration(v, "service.timeout")
	if err != nil {
		return nil, err
	}
	threshold, err := parseDuration(v, "scheduler.threshold")
	if err != nil {
		return nil, err
	}
	triviaTimeout, err := parseDuration(v, "trivia.timeout")
	if err != nil {
		return nil, err
	}
	tokenTTL, err := parseDuration(v, "redis.token_ttl")
	if err != nil {
		return nil, err
	}

	config := &Config{
		Service: ServiceConfig{
			BaseURL: v.GetString("service.base_url"),
			Timeout: serviceTimeout,
		},
		Scheduler: SchedulerConfig{
			Threshold: threshold,
		},
		Trivia: TriviaConfig{
			BaseURL:   v.GetString("trivia.base_url"),
			APIKey:    v.GetString("trivia.api_key"),
			WordCount: v.GetInt("trivia.word_count"),
			Timeout:   triviaTimeout,
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			TokenTTL: tokenTTL,
		},
		Logger: LoggerConfig{
			Env:   v.GetString("logger.env"),
			Level: v.GetString("logger.level"),
		},
	}

	// Override with environment variables if set
	if baseURL := os.Getenv("SERVICE_BASE_URL"); baseURL != "" {
		config.Service.BaseURL = baseURL
	}
	if apiKey := os.Getenv("TRIVIA_API_KEY"); apiKey != "" {
		config.Trivia.APIKey = apiKey
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if env := os.Getenv("APP_ENV"); env != "" {
		config.Logger.Env = env
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logger.Level = level
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// parseDuration accepts "90s"-style strings as well as bare integers, which
// are taken as seconds.
func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.Get(key)
	switch raw.(type) {
	case int, int32, int64, float64:
		secs, err := cast.ToInt64E(raw)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", key, err)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := cast.ToDurationE(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// Validate checks the values the sync client cannot run without.
func (c *Config) Validate() error {
	if c.Service.BaseURL == "" {
		return errors.New("service.base_url is required")
	}
	if c.Service.Timeout <= 0 {
		return errors.New("service.timeout must be positive")
	}
	if c.Scheduler.Threshold <= 0 {
		return errors.New("scheduler.threshold must be positive")
	}
	if c.Trivia.WordCount < 0 {
		return errors.New("trivia.word_count must not be negative")
	}
	return nil
}
