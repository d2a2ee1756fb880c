// AngelaMos | 2026
// config.go

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	App           AppConfig           `koanf:"app"`
	Server        ServerConfig        `koanf:"server"`
	Database      DatabaseConfig      `koanf:"database"`
	Redis         RedisConfig         `koanf:"redis"`
	Session       SessionConfig       `koanf:"session"`
	RateLimit     RateLimitConfig     `koanf:"rate_limit"`
	CORS          CORSConfig          `koanf:"cors"`
	Log           LogConfig           `koanf:"log"`
	Otel          OtelConfig          `koanf:"otel"`
	HomeAssistant HomeAssistantConfig `koanf:"homeassistant"`
	MQTT          MQTTConfig          `koanf:"mqtt"`
	Entities      EntitiesConfig      `koanf:"entities"`
	Bootstrap     BootstrapConfig     `koanf:"bootstrap"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver          string        `koanf:"driver"`
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

type RedisConfig struct {
	URL          string `koanf:"url"`
	PoolSize     int    `koanf:"pool_size"`
	MinIdleConns int    `koanf:"min_idle_conns"`
}

func (r RedisConfig) Enabled() bool {
	return r.URL != ""
}

type SessionConfig struct {
	PrivateKeyPath string `koanf:"private_key_path"`
	PublicKeyPath  string `koanf:"public_key_path"`
	Issuer         string `koanf:"issuer"`
	Audience       string `koanf:"audience"`
}

type RateLimitConfig struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
	Burst    int           `koanf:"burst"`
}

type CORSConfig struct {
	AllowedOrigins   []string `koanf:"allowed_origins"`
	AllowedMethods   []string `koanf:"allowed_methods"`
	AllowedHeaders   []string `koanf:"allowed_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           int      `koanf:"max_age"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type OtelConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate"`
}

type HomeAssistantConfig struct {
	URL          string        `koanf:"url"`
	Token        string        `koanf:"token"`
	Timeout      time.Duration `koanf:"timeout"`
	EntitiesPath string        `koanf:"entities_path"`
}

type MQTTConfig struct {
	Enabled     bool          `koanf:"enabled"`
	Broker      string        `koanf:"broker"`
	ClientID    string        `koanf:"client_id"`
	Username    string        `koanf:"username"`
	Password    string        `koanf:"password"`
	TopicPrefix string        `koanf:"topic_prefix"`
	QoS         int           `koanf:"qos"`
	Timeout     time.Duration `koanf:"timeout"`
}

type EntitiesConfig struct {
	DefaultRoomID int64 `koanf:"default_room_id"`
}

type BootstrapConfig struct {
	AdminEmail    string `koanf:"admin_email"`
	AdminPassword string `koanf:"admin_password"`
}

var (
	cfg  *Config
	once sync.Once
)

func Load(configPath string) (*Config, error) {
	var loadErr error

	once.Do(func() {
		cfg, loadErr = load(configPath)
	})

	if loadErr != nil {
		return nil, loadErr
	}

	return cfg, nil
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := k.Load(env.Provider("", ".", envKeyReplacer), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	c := &Config{}
	if err := k.Unmarshal("", c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(c); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":        "homemgmt",
		"app.version":     "1.0.0",
		"app.environment": "development",

		"server.host":             "0.0.0.0",
		"server.port":             8080,
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "15s",

		"database.driver":             DriverPostgres,
		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  "1h",
		"database.conn_max_idle_time": "30m",
		"database.auto_migrate":       true,

		"redis.pool_size":      10,
		"redis.min_idle_conns": 5,

		"session.issuer":           "homemgmt",
		"session.audience":         "homemgmt-api",
		"session.private_key_path": "keys/private.pem",
		"session.public_key_path":  "keys/public.pem",

		"rate_limit.requests": 100,
		"rate_limit.window":   "1m",
		"rate_limit.burst":    20,

		"cors.allowed_origins": []string{"http://localhost:3000"},
		"cors.allowed_methods": []string{
			"GET",
			"POST",
			"PUT",
			"DELETE",
			"OPTIONS",
		},
		"cors.allowed_headers": []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
		},
		"cors.allow_credentials": true,
		"cors.max_age":           300,

		"log.level":  "info",
		"log.format": "json",

		"otel.enabled":      false,
		"otel.insecure":     true,
		"otel.sample_rate":  0.1,
		"otel.service_name": "homemgmt",

		"homeassistant.timeout":       "10s",
		"homeassistant.entities_path": "/api/entities",

		"mqtt.enabled":      false,
		"mqtt.client_id":    "homemgmt-api",
		"mqtt.topic_prefix": "homemgmt",
		"mqtt.qos":          1,
		"mqtt.timeout":      "5s",

		"entities.default_room_id": 1,
	}

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

var envKeyMap = map[string]string{
	"DATABASE_URL":                "database.url",
	"DATABASE_DRIVER":             "database.driver",
	"DATABASE_AUTO_MIGRATE":       "database.auto_migrate",
	"REDIS_URL":                   "redis.url",
	"ENVIRONMENT":                 "app.environment",
	"HOST":                        "server.host",
	"PORT":                        "server.port",
	"LOG_LEVEL":                   "log.level",
	"LOG_FORMAT":                  "log.format",
	"SESSION_PRIVATE_KEY_PATH":    "session.private_key_path",
	"SESSION_PUBLIC_KEY_PATH":     "session.public_key_path",
	"SESSION_ISSUER":              "session.issuer",
	"SESSION_AUDIENCE":            "session.audience",
	"RATE_LIMIT_REQUESTS":         "rate_limit.requests",
	"RATE_LIMIT_WINDOW":           "rate_limit.window",
	"RATE_LIMIT_BURST":            "rate_limit.burst",
	"OTEL_ENDPOINT":               "otel.endpoint",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_SERVICE_NAME":           "otel.service_name",
	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_INSECURE":               "otel.insecure",
	"OTEL_SAMPLE_RATE":            "otel.sample_rate",
	"HOMEASSISTANT_URL":           "homeassistant.url",
	"HOMEASSISTANT_TOKEN":         "homeassistant.token",
	"HOMEASSISTANT_TIMEOUT":       "homeassistant.timeout",
	"MQTT_ENABLED":                "mqtt.enabled",
	"MQTT_BROKER":                 "mqtt.broker",
	"MQTT_CLIENT_ID":              "mqtt.client_id",
	"MQTT_USERNAME":               "mqtt.username",
	"MQTT_PASSWORD":               "mqtt.password",
	"MQTT_TOPIC_PREFIX":           "mqtt.topic_prefix",
	"MQTT_QOS":                    "mqtt.qos",
	"DEFAULT_ROOM_ID":             "entities.default_room_id",
	"BOOTSTRAP_ADMIN_EMAIL":       "bootstrap.admin_email",
	"BOOTSTRAP_ADMIN_PASSWORD":    "bootstrap.admin_password",
}

func envKeyReplacer(s string) string {
	if mapped, ok := envKeyMap[s]; ok {
		return mapped
	}
	return ""
}

func validate(c *Config) error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.Session.PrivateKeyPath == "" {
		return fmt.Errorf("SESSION_PRIVATE_KEY_PATH is required")
	}

	if c.Session.PublicKeyPath == "" {
		return fmt.Errorf("SESSION_PUBLIC_KEY_PATH is required")
	}

	if c.CORS.AllowCredentials {
		for _, origin := range c.CORS.AllowedOrigins {
			if origin == "*" {
				return fmt.Errorf(
					"CORS wildcard '*' cannot be used with AllowCredentials",
				)
			}
		}
	}

	if c.App.Environment == "production" {
		if c.Otel.Enabled && c.Otel.Insecure {
			return fmt.Errorf("OTEL_INSECURE must be false in production")
		}
		if c.Database.Driver == DriverMemory {
			return fmt.Errorf("memory database driver is not allowed in production")
		}
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive")
	}

	if c.MQTT.Enabled && c.MQTT.Broker == "" {
		return fmt.Errorf("MQTT_BROKER is required when mqtt is enabled")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt.qos must be 0, 1 or 2")
	}

	if c.Entities.DefaultRoomID <= 0 {
		return fmt.Errorf("entities.default_room_id must be positive")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
