package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log        Logger     `mapstructure:"logger"`
	DB         Database   `mapstructure:"database"`
	API        API        `mapstructure:"api"`
	Auth       Auth       `mapstructure:"auth"`
	Cache      Cache      `mapstructure:"cache"`
	Simulation Simulation `mapstructure:"simulation"`
	Valuation  Valuation  `mapstructure:"valuation"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port            int `mapstructure:"port"`
	RateLimitPerSec int `mapstructure:"rate_limit_per_sec"`
	RateLimitBurst  int `mapstructure:"rate_limit_burst"`
}

type Auth struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

type Simulation struct {
	InitialBalance string `mapstructure:"initial_balance"`
	StartDate      string `mapstructure:"start_date"`
}

type Valuation struct {
	CronSpec       string `mapstructure:"cron_spec"`
	MaxConcurrency int    `mapstructure:"max_concurrency"`
}

func Load() (*Config, error) {
	// .env is optional; deployments may inject env vars directly.
	_ = godotenv.Load()

	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")
	viper.SetDefault("api.port", 8080)
	viper.SetDefault("api.rate_limit_per_sec", 10)
	viper.SetDefault("api.rate_limit_burst", 30)
	viper.SetDefault("cache.default_expiration", 5*time.Minute)
	viper.SetDefault("cache.cleanup_interval", 10*time.Minute)
	viper.SetDefault("simulation.initial_balance", "10000")
	viper.SetDefault("simulation.start_date", "2024-01-02")
	viper.SetDefault("valuation.cron_spec", "0 * * * *")
	viper.SetDefault("valuation.max_concurrency", 5)

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
