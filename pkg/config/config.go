// Package config provides configuration management for the bot.
// It loads environment variables and makes them available throughout the application.
package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultInternalSecret is the placeholder secret shipped in the example .env.
// The game side must be configured with the same value.
const DefaultInternalSecret = "DEFAULT_CHANGE_THIS_SECRET"

// Config holds all configuration values for the bot
type Config struct {
	// Discord
	BotToken   string `env:"DISCORD_BOT_TOKEN"`
	OwnerID    int64  `env:"BOT_OWNER_ID"`
	DevGuildID string `env:"DEV_GUILD_ID"`

	// Roblox Open Cloud
	RobloxAPIKey  string        `env:"ROBLOX_API_KEY"`
	UniverseID    string        `env:"ROBLOX_UNIVERSE_ID"`
	MessageTopic  string        `env:"ROBLOX_MESSAGE_TOPIC" envDefault:"TaurusAdminCommands"`
	DatastoreName string        `env:"ROBLOX_DATASTORE_NAME" envDefault:"TaurusGlobalBans"`
	APIBaseURL    string        `env:"ROBLOX_API_URL" envDefault:"https://apis.roblox.com"`
	UsersBaseURL  string        `env:"ROBLOX_USERS_URL" envDefault:"https://users.roblox.com"`
	HTTPTimeout   time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`

	// Security
	InternalSecret string `env:"INTERNAL_SECRET_KEY" envDefault:"DEFAULT_CHANGE_THIS_SECRET"`
	WhitelistFile  string `env:"WHITELIST_FILE" envDefault:"whitelist.json"`

	// MongoDB (audit log)
	MongoDBURL string `env:"MONGODB_URL"`
	DBName     string `env:"DB_NAME" envDefault:"TaurusBot"`

	// MQTT (command mirror)
	MQTTHost        string `env:"MQTT_HOST"`
	MQTTPort        string `env:"MQTT_PORT" envDefault:"1883"`
	MQTTUser        string `env:"MQTT_USER"`
	MQTTPassword    string `env:"MQTT_PASSWORD"`
	MQTTTopicPrefix string `env:"MQTT_TOPIC_PREFIX" envDefault:"taurus"`

	// Web Server
	Port        string `env:"PORT" envDefault:"3000"`
	WebAPIToken string `env:"WEB_API_TOKEN"`

	// Environment
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`

	// Logging
	ErrorWebhook string `env:"ERROR_WEBHOOK"`
	LogsWebhook  string `env:"LOGS_WEBHOOK"`
	LogsDir      string `env:"LOGS_DIR" envDefault:"logs"`
}

var (
	Version   = "Dev-Local"
	BuildTime = "Today"
)

// cfg holds the global configuration instance
var (
	cfg     *Config
	cfgErr  error
	cfgOnce sync.Once
)

// resetForTesting resets the configuration for testing purposes.
// This function should only be called from test code.
func resetForTesting() {
	cfg = nil
	cfgErr = nil
	cfgOnce = sync.Once{}
}

// loadConfig performs the actual configuration loading
func loadConfig() {
	// Load .env file if it exists (ignoring error if it doesn't)
	_ = godotenv.Load()

	c, err := env.ParseAs[Config]()
	if err != nil {
		cfgErr = fmt.Errorf("parse environment: %w", err)
	}
	cfg = &c
}

// Load initializes the configuration from environment variables
func Load() (*Config, error) {
	cfgOnce.Do(loadConfig)
	return cfg, cfgErr
}

// Validate reports every required value that is missing.
func (c *Config) Validate() error {
	var missing []string
	if c.BotToken == "" {
		missing = append(missing, "DISCORD_BOT_TOKEN")
	}
	if c.OwnerID == 0 {
		missing = append(missing, "BOT_OWNER_ID")
	}
	if c.RobloxAPIKey == "" {
		missing = append(missing, "ROBLOX_API_KEY")
	}
	if c.UniverseID == "" {
		missing = append(missing, "ROBLOX_UNIVERSE_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// IsProd returns true if the environment is production
func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}

// UsesDefaultSecret returns true if the internal secret was never changed.
func (c *Config) UsesDefaultSecret() bool {
	return c.InternalSecret == DefaultInternalSecret
}
