// AngelaMos | 2026
// config_test.go

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://localhost/homemgmt")

	c, err := load("")
	require.NoError(t, err)

	assert.Equal(t, "homemgmt", c.App.Name)
	assert.Equal(t, DriverPostgres, c.Database.Driver)
	assert.True(t, c.Database.AutoMigrate)
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, 30*time.Second, c.Server.ReadTimeout)
	assert.Equal(t, int64(1), c.Entities.DefaultRoomID)
	assert.Equal(t, "/api/entities", c.HomeAssistant.EntitiesPath)
	assert.Equal(t, "homemgmt", c.MQTT.TopicPrefix)
	assert.False(t, c.Redis.Enabled())
}

func TestLoadFileThenEnv(t *testing.T) {
	t.Chdir(t.TempDir())

	path := writeConfig(t, `
database:
  driver: memory
server:
  port: 9000
entities:
  default_room_id: 7
mqtt:
  enabled: true
  broker: tcp://file-broker:1883
`)
	t.Setenv("PORT", "9100")
	t.Setenv("MQTT_BROKER", "tcp://env-broker:1883")

	c, err := load(path)
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, c.Database.Driver)
	assert.Equal(t, 9100, c.Server.Port)
	assert.Equal(t, int64(7), c.Entities.DefaultRoomID)
	assert.Equal(t, "tcp://env-broker:1883", c.MQTT.Broker)
	assert.Equal(t, "0.0.0.0:9100", c.Server.Address())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, ".env"),
		[]byte("DATABASE_DRIVER=memory\nHOMEASSISTANT_TOKEN=from-dotenv\n"),
		0o600,
	))
	t.Cleanup(func() {
		_ = os.Unsetenv("DATABASE_DRIVER")     //nolint:errcheck // test cleanup
		_ = os.Unsetenv("HOMEASSISTANT_TOKEN") //nolint:errcheck // test cleanup
	})

	c, err := load("")
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, c.Database.Driver)
	assert.Equal(t, "from-dotenv", c.HomeAssistant.Token)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			App:      AppConfig{Environment: "development"},
			Server:   ServerConfig{ReadTimeout: time.Second, WriteTimeout: time.Second},
			Database: DatabaseConfig{Driver: DriverPostgres, URL: "postgres://x"},
			Session: SessionConfig{
				PrivateKeyPath: "priv.pem",
				PublicKeyPath:  "pub.pem",
			},
			MQTT:     MQTTConfig{QoS: 1},
			Entities: EntitiesConfig{DefaultRoomID: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "postgres without url",
			mutate:  func(c *Config) { c.Database.URL = "" },
			wantErr: "DATABASE_URL is required",
		},
		{
			name: "memory without url",
			mutate: func(c *Config) {
				c.Database.Driver = DriverMemory
				c.Database.URL = ""
			},
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Database.Driver = "sqlite" },
			wantErr: "unsupported database driver",
		},
		{
			name: "memory in production",
			mutate: func(c *Config) {
				c.App.Environment = "production"
				c.Database.Driver = DriverMemory
			},
			wantErr: "not allowed in production",
		},
		{
			name: "cors wildcard with credentials",
			mutate: func(c *Config) {
				c.CORS.AllowCredentials = true
				c.CORS.AllowedOrigins = []string{"*"}
			},
			wantErr: "CORS wildcard",
		},
		{
			name:    "mqtt without broker",
			mutate:  func(c *Config) { c.MQTT.Enabled = true },
			wantErr: "MQTT_BROKER is required",
		},
		{
			name:    "mqtt qos out of range",
			mutate:  func(c *Config) { c.MQTT.QoS = 3 },
			wantErr: "mqtt.qos",
		},
		{
			name:    "non positive default room",
			mutate:  func(c *Config) { c.Entities.DefaultRoomID = 0 },
			wantErr: "default_room_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)

			err := validate(c)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
