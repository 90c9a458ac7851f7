package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Settings holds everything the face and the companion read from config.
type Settings struct {
	Clock     ClockConfig
	Transport TransportConfig
	MQTT      MQTTConfig
	Redis     RedisConfig
	Weather   WeatherConfig
	Resources ResourcesConfig
	Log       LogConfig
	Metrics   MetricsConfig
}

// ClockConfig holds the host time preference.
type ClockConfig struct {
	Format string // "24h" or "12h"
}

// TransportConfig selects the companion link.
type TransportConfig struct {
	Kind string // loopback, mqtt or redis
	ID   string // shared by both ends of the link
}

type MQTTConfig struct {
	Broker      string
	Username    string
	Password    string
	TopicPrefix string
}

type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	ChannelPrefix string
}

// WeatherConfig is used by the companion provider.
type WeatherConfig struct {
	Latitude  float64
	Longitude float64
	BaseURL   string
}

type ResourcesConfig struct {
	Dir string
}

type LogConfig struct {
	File  string
	Level string
}

type MetricsConfig struct {
	Addr string
}

const (
	TransportLoopback = "loopback"
	TransportMQTT     = "mqtt"
	TransportRedis    = "redis"
)

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper, home string) {
	v.SetDefault("clock.format", "24h")
	v.SetDefault("transport.kind", TransportLoopback)
	v.SetDefault("transport.id", "default")
	v.SetDefault("mqtt.broker", "tcp://localhost:1883")
	v.SetDefault("mqtt.topic_prefix", "watchface")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel_prefix", "watchface")
	v.SetDefault("weather.latitude", 37.7749)
	v.SetDefault("weather.longitude", -122.4194)
	v.SetDefault("log.level", "info")
	if home != "" {
		v.SetDefault("log.file", filepath.Join(home, ".watchface", "watchface.log"))
	}
}

// BindEnv makes WATCHFACE_* environment variables (and a .env file, when
// present) override config keys, e.g. WATCHFACE_MQTT_BROKER.
func BindEnv(v *viper.Viper) {
	// Load .env file if it exists (optional)
	_ = godotenv.Load()
	v.SetEnvPrefix("watchface")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads and validates settings from v.
func Load(v *viper.Viper) (Settings, error) {
	s := Settings{
		Clock: ClockConfig{Format: strings.ToLower(v.GetString("clock.format"))},
		Transport: TransportConfig{
			Kind: strings.ToLower(v.GetString("transport.kind")),
			ID:   v.GetString("transport.id"),
		},
		MQTT: MQTTConfig{
			Broker:      v.GetString("mqtt.broker"),
			Username:    v.GetString("mqtt.username"),
			Password:    v.GetString("mqtt.password"),
			TopicPrefix: v.GetString("mqtt.topic_prefix"),
		},
		Redis: RedisConfig{
			Addr:          v.GetString("redis.addr"),
			Password:      v.GetString("redis.password"),
			DB:            v.GetInt("redis.db"),
			ChannelPrefix: v.GetString("redis.channel_prefix"),
		},
		Weather: WeatherConfig{
			Latitude:  v.GetFloat64("weather.latitude"),
			Longitude: v.GetFloat64("weather.longitude"),
			BaseURL:   v.GetString("weather.base_url"),
		},
		Resources: ResourcesConfig{Dir: v.GetString("resources.dir")},
		Log: LogConfig{
			File:  v.GetString("log.file"),
			Level: v.GetString("log.level"),
		},
		Metrics: MetricsConfig{Addr: v.GetString("metrics.addr")},
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks value ranges and enumerations.
func (s Settings) Validate() error {
	switch s.Clock.Format {
	case "24h", "12h":
	default:
		return fmt.Errorf("clock.format: want 24h or 12h, got %q", s.Clock.Format)
	}
	switch s.Transport.Kind {
	case TransportLoopback, TransportMQTT, TransportRedis:
	default:
		return fmt.Errorf("transport.kind: unknown transport %q", s.Transport.Kind)
	}
	if s.Transport.ID == "" {
		return fmt.Errorf("transport.id: must not be empty")
	}
	if s.Weather.Latitude < -90 || s.Weather.Latitude > 90 {
		return fmt.Errorf("weather.latitude: %v out of range", s.Weather.Latitude)
	}
	if s.Weather.Longitude < -180 || s.Weather.Longitude > 180 {
		return fmt.Errorf("weather.longitude: %v out of range", s.Weather.Longitude)
	}
	return nil
}

// DefaultFile is the config path used when --config is not given.
func DefaultFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".watchface.yaml"), nil
}
