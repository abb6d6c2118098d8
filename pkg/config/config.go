package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// Config holds the configuration for the scene extrapolation agent
type Config struct {
	// MQTT configuration
	MQTTBroker   string
	MQTTPort     int
	MQTTUser     string
	MQTTPassword string
	MQTTClientID string

	// Redis configuration
	RedisHost     string
	RedisPort     int
	RedisPassword string
	RedisDB       int

	// Postgres configuration (activation journal, optional)
	JournalEnabled             bool
	PostgresHost               string
	PostgresPort               int
	PostgresUser               string
	PostgresPassword           string
	PostgresDB                 string
	PostgresSSLMode            string
	PostgresMaxConnections     int
	PostgresMaxIdleConnections int
	PostgresConnMaxLifetime    time.Duration

	// Service configuration
	ServiceName string
	HealthPort  int
	LogLevel    string

	// Location used for solar event calculation
	Latitude  float64
	Longitude float64
	Timezone  string

	// Scene source: "redis" reads snapshots from Redis, "file" from SceneFile
	SceneSource string
	SceneFile   string

	// Per-event scene mapping (scene ids, one per solar event)
	SceneDawnID    string
	SceneSunriseID string
	SceneNoonID    string
	SceneSunsetID  string
	SceneDuskID    string

	// Earliest allowed dusk time of day, "HH:MM:SS"
	DuskMinimumTime string

	// Nightlights (optional): when the boolean entity reads "on", the
	// nightlights scene is applied instead of extrapolating
	NightlightsBooleanID string
	NightlightsSceneID   string
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		MQTTBroker:    "localhost",
		MQTTPort:      1883,
		MQTTUser:      "",
		MQTTPassword:  "",
		MQTTClientID:  "",
		RedisHost:     "localhost",
		RedisPort:     6379,
		RedisPassword: "",
		RedisDB:       0,
		JournalEnabled:             false,
		PostgresHost:               "localhost",
		PostgresPort:               5432,
		PostgresUser:               "scenex",
		PostgresPassword:           "",
		PostgresDB:                 "scenex",
		PostgresSSLMode:            "disable",
		PostgresMaxConnections:     5,
		PostgresMaxIdleConnections: 2,
		PostgresConnMaxLifetime:    30 * time.Minute,
		ServiceName: "scene-agent",
		HealthPort:  8080,
		LogLevel:    "info",
		// Helsinki coordinates
		Latitude:  60.1695,
		Longitude: 24.9354,
		Timezone:  "Europe/Helsinki",
		SceneSource:     "redis",
		SceneFile:       "scenes.yaml",
		DuskMinimumTime: "22:00:00",
	}
}

// LoadFromEnv loads configuration from environment variables with SCENEX_ prefix
func (c *Config) LoadFromEnv() {
	// MQTT configuration
	if v := os.Getenv("SCENEX_MQTT_BROKER"); v != "" {
		c.MQTTBroker = v
	}
	if v := os.Getenv("SCENEX_MQTT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.MQTTPort = port
		}
	}
	if v := os.Getenv("SCENEX_MQTT_USER"); v != "" {
		c.MQTTUser = v
	}
	if v := os.Getenv("SCENEX_MQTT_PASSWORD"); v != "" {
		c.MQTTPassword = v
	}
	if v := os.Getenv("SCENEX_MQTT_CLIENT_ID"); v != "" {
		c.MQTTClientID = v
	}

	// Redis configuration
	if v := os.Getenv("SCENEX_REDIS_HOST"); v != "" {
		c.RedisHost = v
	}
	if v := os.Getenv("SCENEX_REDIS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.RedisPort = port
		}
	}
	if v := os.Getenv("SCENEX_REDIS_PASSWORD"); v != "" {
		c.RedisPassword = v
	}
	if v := os.Getenv("SCENEX_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.RedisDB = db
		}
	}

	// Postgres configuration
	if v := os.Getenv("SCENEX_JOURNAL_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.JournalEnabled = enabled
		}
	}
	if v := os.Getenv("SCENEX_POSTGRES_HOST"); v != "" {
		c.PostgresHost = v
	}
	if v := os.Getenv("SCENEX_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.PostgresPort = port
		}
	}
	if v := os.Getenv("SCENEX_POSTGRES_USER"); v != "" {
		c.PostgresUser = v
	}
	if v := os.Getenv("SCENEX_POSTGRES_PASSWORD"); v != "" {
		c.PostgresPassword = v
	}
	if v := os.Getenv("SCENEX_POSTGRES_DB"); v != "" {
		c.PostgresDB = v
	}
	if v := os.Getenv("SCENEX_POSTGRES_SSL_MODE"); v != "" {
		c.PostgresSSLMode = v
	}

	// Service configuration
	if v := os.Getenv("SCENEX_SERVICE_NAME"); v != "" {
		c.ServiceName = v
	}
	if v := os.Getenv("SCENEX_HEALTH_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.HealthPort = port
		}
	}
	if v := os.Getenv("SCENEX_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}

	// Location configuration
	if v := os.Getenv("SCENEX_LATITUDE"); v != "" {
		if lat, err := strconv.ParseFloat(v, 64); err == nil {
			c.Latitude = lat
		}
	}
	if v := os.Getenv("SCENEX_LONGITUDE"); v != "" {
		if lon, err := strconv.ParseFloat(v, 64); err == nil {
			c.Longitude = lon
		}
	}
	if v := os.Getenv("SCENEX_TIMEZONE"); v != "" {
		c.Timezone = v
	}

	// Scene configuration
	if v := os.Getenv("SCENEX_SCENE_SOURCE"); v != "" {
		c.SceneSource = v
	}
	if v := os.Getenv("SCENEX_SCENE_FILE"); v != "" {
		c.SceneFile = v
	}
	if v := os.Getenv("SCENEX_SCENE_DAWN"); v != "" {
		c.SceneDawnID = v
	}
	if v := os.Getenv("SCENEX_SCENE_SUNRISE"); v != "" {
		c.SceneSunriseID = v
	}
	if v := os.Getenv("SCENEX_SCENE_NOON"); v != "" {
		c.SceneNoonID = v
	}
	if v := os.Getenv("SCENEX_SCENE_SUNSET"); v != "" {
		c.SceneSunsetID = v
	}
	if v := os.Getenv("SCENEX_SCENE_DUSK"); v != "" {
		c.SceneDuskID = v
	}
	if v := os.Getenv("SCENEX_DUSK_MINIMUM_TIME"); v != "" {
		c.DuskMinimumTime = v
	}

	// Nightlights configuration
	if v := os.Getenv("SCENEX_NIGHTLIGHTS_BOOLEAN"); v != "" {
		c.NightlightsBooleanID = v
	}
	if v := os.Getenv("SCENEX_NIGHTLIGHTS_SCENE"); v != "" {
		c.NightlightsSceneID = v
	}
}

// LoadFromFlags parses command-line flags and overrides config values
func (c *Config) LoadFromFlags() {
	// MQTT flags
	pflag.StringVar(&c.MQTTBroker, "mqtt-broker", c.MQTTBroker, "MQTT broker hostname")
	pflag.IntVar(&c.MQTTPort, "mqtt-port", c.MQTTPort, "MQTT broker port")
	pflag.StringVar(&c.MQTTUser, "mqtt-user", c.MQTTUser, "MQTT username")
	pflag.StringVar(&c.MQTTPassword, "mqtt-password", c.MQTTPassword, "MQTT password")
	pflag.StringVar(&c.MQTTClientID, "mqtt-client-id", c.MQTTClientID, "MQTT client ID")

	// Redis flags
	pflag.StringVar(&c.RedisHost, "redis-host", c.RedisHost, "Redis hostname")
	pflag.IntVar(&c.RedisPort, "redis-port", c.RedisPort, "Redis port")
	pflag.StringVar(&c.RedisPassword, "redis-password", c.RedisPassword, "Redis password")
	pflag.IntVar(&c.RedisDB, "redis-db", c.RedisDB, "Redis database number")

	// Postgres flags
	pflag.BoolVar(&c.JournalEnabled, "journal-enabled", c.JournalEnabled, "Record activations to Postgres")
	pflag.StringVar(&c.PostgresHost, "postgres-host", c.PostgresHost, "Postgres hostname")
	pflag.IntVar(&c.PostgresPort, "postgres-port", c.PostgresPort, "Postgres port")
	pflag.StringVar(&c.PostgresUser, "postgres-user", c.PostgresUser, "Postgres username")
	pflag.StringVar(&c.PostgresPassword, "postgres-password", c.PostgresPassword, "Postgres password")
	pflag.StringVar(&c.PostgresDB, "postgres-db", c.PostgresDB, "Postgres database name")
	pflag.StringVar(&c.PostgresSSLMode, "postgres-ssl-mode", c.PostgresSSLMode, "Postgres SSL mode")

	// Service flags
	pflag.StringVar(&c.ServiceName, "service-name", c.ServiceName, "Service name")
	pflag.IntVar(&c.HealthPort, "health-port", c.HealthPort, "Health check HTTP port")
	pflag.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level (debug, info, warn, error)")

	// Location flags
	pflag.Float64Var(&c.Latitude, "latitude", c.Latitude, "Geographic latitude for solar event calculation")
	pflag.Float64Var(&c.Longitude, "longitude", c.Longitude, "Geographic longitude for solar event calculation")
	pflag.StringVar(&c.Timezone, "timezone", c.Timezone, "IANA timezone name")

	// Scene flags
	pflag.StringVar(&c.SceneSource, "scene-source", c.SceneSource, "Scene snapshot source (redis or file)")
	pflag.StringVar(&c.SceneFile, "scene-file", c.SceneFile, "Path to scenes YAML file (scene-source=file)")
	pflag.StringVar(&c.SceneDawnID, "scene-dawn", c.SceneDawnID, "Scene id for the dawn event")
	pflag.StringVar(&c.SceneSunriseID, "scene-sunrise", c.SceneSunriseID, "Scene id for the sunrise event")
	pflag.StringVar(&c.SceneNoonID, "scene-noon", c.SceneNoonID, "Scene id for the noon event")
	pflag.StringVar(&c.SceneSunsetID, "scene-sunset", c.SceneSunsetID, "Scene id for the sunset event")
	pflag.StringVar(&c.SceneDuskID, "scene-dusk", c.SceneDuskID, "Scene id for the dusk event")
	pflag.StringVar(&c.DuskMinimumTime, "dusk-minimum-time", c.DuskMinimumTime, "Earliest dusk time of day (HH:MM:SS)")

	// Nightlights flags
	pflag.StringVar(&c.NightlightsBooleanID, "nightlights-boolean", c.NightlightsBooleanID, "Boolean entity id gating the nightlights scene")
	pflag.StringVar(&c.NightlightsSceneID, "nightlights-scene", c.NightlightsSceneID, "Scene id applied while nightlights are active")

	pflag.Parse()
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT broker is required")
	}
	if c.MQTTPort <= 0 || c.MQTTPort > 65535 {
		return fmt.Errorf("MQTT port must be between 1 and 65535")
	}
	if c.HealthPort <= 0 || c.HealthPort > 65535 {
		return fmt.Errorf("Health port must be between 1 and 65535")
	}
	if c.ServiceName == "" {
		return fmt.Errorf("Service name is required")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude must be between -90 and 90, got %f", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude must be between -180 and 180, got %f", c.Longitude)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}

	switch c.SceneSource {
	case "redis":
		if c.RedisHost == "" {
			return fmt.Errorf("Redis host is required")
		}
		if c.RedisPort <= 0 || c.RedisPort > 65535 {
			return fmt.Errorf("Redis port must be between 1 and 65535")
		}
	case "file":
		if c.SceneFile == "" {
			return fmt.Errorf("scene file path is required when scene source is file")
		}
	default:
		return fmt.Errorf("invalid scene source: %s (must be redis or file)", c.SceneSource)
	}

	// Every solar event needs a scene mapping; a partial mapping cannot
	// produce a bracketing pair for every time of day
	required := []struct {
		event string
		id    string
	}{
		{"dawn", c.SceneDawnID},
		{"sunrise", c.SceneSunriseID},
		{"noon", c.SceneNoonID},
		{"sunset", c.SceneSunsetID},
		{"dusk", c.SceneDuskID},
	}
	for _, mapping := range required {
		if mapping.id == "" {
			return fmt.Errorf("missing scene mapping for solar event %q", mapping.event)
		}
	}

	if _, err := c.DuskMinimumSeconds(); err != nil {
		return err
	}

	if c.NightlightsBooleanID != "" && c.NightlightsSceneID == "" {
		return fmt.Errorf("nightlights scene is required when a nightlights boolean is configured")
	}

	return nil
}

// DuskMinimumSeconds parses DuskMinimumTime into seconds since midnight
func (c *Config) DuskMinimumSeconds() (int, error) {
	parts := strings.Split(c.DuskMinimumTime, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid dusk minimum time %q (expected HH:MM:SS)", c.DuskMinimumTime)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid dusk minimum time %q: %w", c.DuskMinimumTime, err)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid dusk minimum time %q: %w", c.DuskMinimumTime, err)
	}
	seconds, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, fmt.Errorf("invalid dusk minimum time %q: %w", c.DuskMinimumTime, err)
	}

	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 || seconds < 0 || seconds > 59 {
		return 0, fmt.Errorf("dusk minimum time %q out of range", c.DuskMinimumTime)
	}

	return hours*3600 + minutes*60 + seconds, nil
}

// MQTTAddress returns the full MQTT broker address
func (c *Config) MQTTAddress() string {
	return fmt.Sprintf("tcp://%s:%d", c.MQTTBroker, c.MQTTPort)
}

// RedisAddress returns the full Redis address
func (c *Config) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// PostgresConnectionString returns the Postgres DSN
func (c *Config) PostgresConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode)
}
