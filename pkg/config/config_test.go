package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "test-token")
	t.Setenv("BOT_OWNER_ID", "123456789012345678")
	t.Setenv("PORT", "3001")
	t.Setenv("ENVIRONMENT", "test")

	resetForTesting()

	config, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if config.BotToken != "test-token" {
		t.Errorf("BotToken = %v, want %v", config.BotToken, "test-token")
	}

	if config.OwnerID != 123456789012345678 {
		t.Errorf("OwnerID = %v, want %v", config.OwnerID, int64(123456789012345678))
	}

	if config.Port != "3001" {
		t.Errorf("Port = %v, want %v", config.Port, "3001")
	}

	if config.Environment != "test" {
		t.Errorf("Environment = %v, want %v", config.Environment, "test")
	}
}

func TestLoadRejectsNonNumericOwner(t *testing.T) {
	t.Setenv("BOT_OWNER_ID", "not-a-number")
	resetForTesting()

	if _, err := Load(); err == nil {
		t.Error("Load() should fail when BOT_OWNER_ID is not numeric")
	}
	resetForTesting()
}

func TestIsProd(t *testing.T) {
	resetForTesting()
	t.Setenv("ENVIRONMENT", "prod")
	config, _ := Load()

	if !config.IsProd() {
		t.Error("IsProd() should return true when environment is 'prod'")
	}

	resetForTesting()
	t.Setenv("ENVIRONMENT", "dev")
	config, _ = Load()

	if config.IsProd() {
		t.Error("IsProd() should return false when environment is not 'prod'")
	}
}

func TestLoadIsCached(t *testing.T) {
	resetForTesting()

	config, _ := Load()
	if config == nil {
		t.Fatal("Load() returned nil")
	}

	config2, _ := Load()
	if config != config2 {
		t.Error("Load() should return the same config on subsequent calls")
	}
}

func TestDefaultValues(t *testing.T) {
	for _, key := range []string{
		"ROBLOX_MESSAGE_TOPIC", "ROBLOX_DATASTORE_NAME", "INTERNAL_SECRET_KEY",
		"WHITELIST_FILE", "MQTT_PORT", "PORT", "ENVIRONMENT", "HTTP_TIMEOUT",
	} {
		t.Setenv(key, "")
	}

	resetForTesting()
	config, _ := Load()

	if config.MessageTopic != "TaurusAdminCommands" {
		t.Errorf("MessageTopic default = %v, want %v", config.MessageTopic, "TaurusAdminCommands")
	}

	if config.DatastoreName != "TaurusGlobalBans" {
		t.Errorf("DatastoreName default = %v, want %v", config.DatastoreName, "TaurusGlobalBans")
	}

	if config.WhitelistFile != "whitelist.json" {
		t.Errorf("WhitelistFile default = %v, want %v", config.WhitelistFile, "whitelist.json")
	}

	if config.MQTTPort != "1883" {
		t.Errorf("MQTTPort default = %v, want %v", config.MQTTPort, "1883")
	}

	if config.Port != "3000" {
		t.Errorf("Port default = %v, want %v", config.Port, "3000")
	}

	if config.HTTPTimeout != 10*time.Second {
		t.Errorf("HTTPTimeout default = %v, want %v", config.HTTPTimeout, 10*time.Second)
	}

	if !config.UsesDefaultSecret() {
		t.Error("UsesDefaultSecret() should be true when INTERNAL_SECRET_KEY is unset")
	}
}

func TestValidate(t *testing.T) {
	c := &Config{}
	err := c.Validate()
	if err == nil {
		t.Fatal("Validate() should fail on an empty config")
	}
	for _, key := range []string{"DISCORD_BOT_TOKEN", "BOT_OWNER_ID", "ROBLOX_API_KEY", "ROBLOX_UNIVERSE_ID"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("Validate() error %q should mention %s", err, key)
		}
	}

	c = &Config{BotToken: "t", OwnerID: 1, RobloxAPIKey: "k", UniverseID: "42"}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}
