package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/flybeeper/flight-history/internal/flight"
	"github.com/flybeeper/flight-history/internal/travel"
)

// Config содержит конфигурацию приложения
type Config struct {
	Environment string           `yaml:"environment"`
	Server      ServerConfig     `yaml:"server"`
	Upload      UploadConfig     `yaml:"upload"`
	Detection   flight.Options   `yaml:"detection"`
	Travel      travel.Options   `yaml:"travel"`
	Monitoring  MonitoringConfig `yaml:"monitoring"`
	Log         LogConfig        `yaml:"log"`
}

// ServerConfig конфигурация HTTP сервера
type ServerConfig struct {
	Address      string        `yaml:"address"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	RateLimit    float64       `yaml:"rate_limit"` // запросов в секунду
	RateBurst    int           `yaml:"rate_burst"`
}

// UploadConfig ограничения на загружаемую историю
type UploadConfig struct {
	MaxBytes int64 `yaml:"max_bytes"`
}

// MonitoringConfig конфигурация мониторинга
type MonitoringConfig struct {
	MetricsEnabled bool `yaml:"metrics_enabled"`
}

// LogConfig конфигурация логирования
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Address:      ":8090",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
			RateLimit:    20,
			RateBurst:    40,
		},
		Upload: UploadConfig{
			MaxBytes: 512 << 20, // экспорт за много лет бывает сотни МБ
		},
		Detection: flight.DefaultOptions(),
		Travel:    travel.DefaultOptions(),
		Monitoring: MonitoringConfig{
			MetricsEnabled: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load загружает конфигурацию: значения по умолчанию, затем YAML файл
// из FLIGHT_CONFIG_FILE (если задан), затем переменные окружения
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("FLIGHT_CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFile накладывает YAML поверх текущих значений
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnv переопределяет значения из переменных окружения
func (c *Config) applyEnv() {
	c.Environment = getEnv("ENVIRONMENT", c.Environment)

	c.Server.Address = getEnv("SERVER_ADDRESS", c.Server.Address)
	c.Server.ReadTimeout = getDuration("SERVER_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getDuration("SERVER_WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.IdleTimeout = getDuration("SERVER_IDLE_TIMEOUT", c.Server.IdleTimeout)
	c.Server.RateLimit = getFloat("SERVER_RATE_LIMIT", c.Server.RateLimit)
	c.Server.RateBurst = getInt("SERVER_RATE_BURST", c.Server.RateBurst)

	c.Upload.MaxBytes = int64(getInt("UPLOAD_MAX_BYTES", int(c.Upload.MaxBytes)))

	d := &c.Detection
	d.Thresholds.AirborneMinKmh = getFloat("AIRBORNE_MIN_KMH", d.Thresholds.AirborneMinKmh)
	d.Thresholds.AirborneMaxKmh = getFloat("AIRBORNE_MAX_KMH", d.Thresholds.AirborneMaxKmh)
	d.Thresholds.GroundMaxKmh = getFloat("GROUND_MAX_KMH", d.Thresholds.GroundMaxKmh)
	d.Merge.SpeedToleranceKmh = getFloat("MERGE_SPEED_TOLERANCE_KMH", d.Merge.SpeedToleranceKmh)
	d.Merge.TimeGap = getDuration("MERGE_TIME_GAP", d.Merge.TimeGap)
	d.Filter.MinDistanceKm = getFloat("FLIGHT_MIN_DISTANCE_KM", d.Filter.MinDistanceKm)
	d.Filter.MinAvgSpeedKmh = getFloat("FLIGHT_MIN_AVG_SPEED_KMH", d.Filter.MinAvgSpeedKmh)

	c.Travel.MaxVelocityKmh = getFloat("TRAVEL_MAX_VELOCITY_KMH", c.Travel.MaxVelocityKmh)
	c.Travel.SampleEvery = getInt("TRAVEL_SAMPLE_EVERY", c.Travel.SampleEvery)

	c.Monitoring.MetricsEnabled = getBool("METRICS_ENABLED", c.Monitoring.MetricsEnabled)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("SERVER_ADDRESS is required")
	}

	if c.Server.RateLimit <= 0 || c.Server.RateBurst <= 0 {
		return fmt.Errorf("SERVER_RATE_LIMIT and SERVER_RATE_BURST must be positive")
	}

	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}

	if err := c.Detection.Thresholds.Validate(); err != nil {
		return fmt.Errorf("detection thresholds: %w", err)
	}
	if err := c.Detection.Merge.Validate(); err != nil {
		return fmt.Errorf("merge options: %w", err)
	}
	if err := c.Detection.Filter.Validate(); err != nil {
		return fmt.Errorf("flight filter: %w", err)
	}
	if err := c.Travel.Validate(); err != nil {
		return fmt.Errorf("travel options: %w", err)
	}

	return nil
}

// IsProduction проверяет, запущено ли приложение в production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Helper функции для чтения переменных окружения

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
