package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"cw-forecast/forecast"
	"cw-forecast/models"
)

// Resources file paths
const RESOURCES_PATH_PREFIX = "resources"
const OPEN_METEO_FORECAST_RESOURCE = "open_meteo_forecast_response.json"
const OPEN_METEO_ARCHIVE_RESOURCE = "open_meteo_archive_response.json"
const SAMPLE_HISTORY_RESOURCE = "riyadh_history.csv"

type Config struct {
	App       AppConfig
	Forecast  ForecastConfig
	Cities    []CityConfig
	History   HistoryConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	OpenMeteo OpenMeteoConfig `mapstructure:"open_meteo"`
	Scheduler SchedulerConfig
	Kafka     KafkaConfig
	Minio     MinioConfig
	API       APIConfig
}

type AppConfig struct {
	Name            string        `mapstructure:"name"`
	Env             string        `mapstructure:"env"`
	LogLevel        string        `mapstructure:"log_level"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type ForecastConfig struct {
	WeekendDays []string      `mapstructure:"weekend_days"`
	ModelPath   string        `mapstructure:"model_path"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
}

type CityConfig struct {
	Name        string  `mapstructure:"name"`
	Latitude    float64 `mapstructure:"latitude"`
	Longitude   float64 `mapstructure:"longitude"`
	Timezone    string  `mapstructure:"timezone"`
	HistoryFile string  `mapstructure:"history_file"`
}

type HistoryConfig struct {
	Backend string `mapstructure:"backend"` // csv or postgres
	CSVDir  string `mapstructure:"csv_dir"`
}

type PostgresConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	User              string        `mapstructure:"user"`
	Password          string        `mapstructure:"password"`
	Database          string        `mapstructure:"database"`
	SSLMode           string        `mapstructure:"ssl_mode"`
	MaxConnections    int           `mapstructure:"max_connections"`
	ConnectionTimeout time.Duration `mapstructure:"connection_timeout"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type OpenMeteoConfig struct {
	ForecastURL string        `mapstructure:"forecast_url"`
	ArchiveURL  string        `mapstructure:"archive_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	RateLimit   float64       `mapstructure:"rate_limit"` // requests per second
	UseMock     bool          `mapstructure:"use_mock"`
}

type SchedulerConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

type KafkaConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	Brokers    []string `mapstructure:"brokers"`
	Topic      string   `mapstructure:"topic"`
	MaxRetries int      `mapstructure:"max_retries"`
}

type MinioConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

type APIConfig struct {
	RateLimit float64 `mapstructure:"rate_limit"` // requests per second
	Burst     int     `mapstructure:"burst"`
}

// Load reads config.yaml from the usual locations, if present, on top of the defaults.
// Environment variables such as APP_PORT or REDIS_HOST win over both.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/cw-forecast/")
	return load(v)
}

// LoadFile is Load with an explicit config file.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	overrideFromEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "cw-forecast")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.shutdown_timeout", "15s")

	v.SetDefault("forecast.weekend_days", []string{"friday", "saturday"})
	v.SetDefault("forecast.model_path", "artifacts/demand_model.json")
	v.SetDefault("forecast.cache_ttl", "3h")

	v.SetDefault("cities", []map[string]interface{}{
		{
			"name":         "Riyadh",
			"latitude":     24.7136,
			"longitude":    46.6753,
			"timezone":     "Asia/Riyadh",
			"history_file": "riyadh_history.csv",
		},
	})

	v.SetDefault("history.backend", "csv")
	v.SetDefault("history.csv_dir", "resources")

	v.SetDefault("postgres.host", "postgres")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "cw_user")
	v.SetDefault("postgres.password", "cw_pass")
	v.SetDefault("postgres.database", "cw_forecast")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("postgres.max_connections", 10)
	v.SetDefault("postgres.connection_timeout", "10s")

	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "redis")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.timeout", "5s")

	v.SetDefault("open_meteo.forecast_url", "https://api.open-meteo.com/v1")
	v.SetDefault("open_meteo.archive_url", "https://archive-api.open-meteo.com/v1")
	v.SetDefault("open_meteo.timeout", "10s")
	v.SetDefault("open_meteo.rate_limit", 5)
	v.SetDefault("open_meteo.use_mock", false)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.refresh_interval", "1h")
	v.SetDefault("scheduler.timeout", "2m")

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"kafka:9092"})
	v.SetDefault("kafka.topic", "demand-forecasts")
	v.SetDefault("kafka.max_retries", 3)

	v.SetDefault("minio.enabled", false)
	v.SetDefault("minio.endpoint", "minio:9000")
	v.SetDefault("minio.access_key", "minioadmin")
	v.SetDefault("minio.secret_key", "minioadmin")
	v.SetDefault("minio.bucket", "forecast-reports")
	v.SetDefault("minio.use_ssl", false)

	v.SetDefault("api.rate_limit", 20)
	v.SetDefault("api.burst", 40)
}

func overrideFromEnv(v *viper.Viper) {
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		v.Set("kafka.brokers", splitList(brokers))
	}
	if days := os.Getenv("FORECAST_WEEKEND_DAYS"); days != "" {
		v.Set("forecast.weekend_days", splitList(days))
	}
	if path := os.Getenv("MODEL_PATH"); path != "" {
		v.Set("forecast.model_path", path)
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func validateConfig(cfg *Config) error {
	if cfg.App.Port <= 0 || cfg.App.Port > 65535 {
		return fmt.Errorf("app.port %d out of range", cfg.App.Port)
	}
	if _, err := cfg.Weekend(); err != nil {
		return fmt.Errorf("forecast.weekend_days: %w", err)
	}
	if len(cfg.Cities) == 0 {
		return errors.New("at least one city is required")
	}
	seen := make(map[string]bool)
	for _, c := range cfg.Cities {
		key := strings.ToLower(c.Name)
		if key == "" {
			return errors.New("city name is required")
		}
		if seen[key] {
			return fmt.Errorf("duplicate city %q", c.Name)
		}
		seen[key] = true
		if c.Latitude < -90 || c.Latitude > 90 || c.Longitude < -180 || c.Longitude > 180 {
			return fmt.Errorf("city %q has invalid coordinates", c.Name)
		}
	}
	switch cfg.History.Backend {
	case "csv", "postgres":
	default:
		return fmt.Errorf("history.backend must be csv or postgres, got %q", cfg.History.Backend)
	}
	if cfg.OpenMeteo.RateLimit <= 0 {
		return errors.New("open_meteo.rate_limit must be positive")
	}
	if cfg.API.RateLimit <= 0 || cfg.API.Burst <= 0 {
		return errors.New("api.rate_limit and api.burst must be positive")
	}
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) == 0 {
		return errors.New("kafka.brokers is required when kafka is enabled")
	}
	if cfg.Minio.Enabled && cfg.Minio.Bucket == "" {
		return errors.New("minio.bucket is required when minio is enabled")
	}
	return nil
}

// Weekend parses forecast.weekend_days.
func (c *Config) Weekend() (forecast.WeekendSet, error) {
	if len(c.Forecast.WeekendDays) == 0 {
		return forecast.DefaultWeekend, nil
	}
	return forecast.ParseWeekendSet(c.Forecast.WeekendDays)
}

// City looks a configured city up by name, ignoring case.
func (c *Config) City(name string) (CityConfig, bool) {
	for _, city := range c.Cities {
		if strings.EqualFold(city.Name, name) {
			return city, true
		}
	}
	return CityConfig{}, false
}

// DefaultCity is the first configured city.
func (c *Config) DefaultCity() CityConfig {
	return c.Cities[0]
}

func (c CityConfig) Location() models.Location {
	return models.Location{City: c.Name, Latitude: c.Latitude, Longitude: c.Longitude, Timezone: c.Timezone}
}

func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s&pool_max_conns=%d",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode, p.MaxConnections)
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// BaseDir returns the absolute path of the project root directory
func BaseDir() string {
	if root := os.Getenv("PROJECT_ROOT"); root != "" {
		return root
	}
	wd, err := os.Getwd()
	if err != nil {
		panic("Unable to determine working directory: " + err.Error())
	}
	return wd
}

func GetResourcePath(resourceFile string) string {
	return filepath.Join(BaseDir(), RESOURCES_PATH_PREFIX, resourceFile)
}
