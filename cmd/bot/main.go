// Package main is the entry point for the Taurus admin bridge.
// It initializes all systems and starts the Discord bot.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/PancyStudios/TaurusBotGo/internal/commands"
	"github.com/PancyStudios/TaurusBotGo/internal/events"
	"github.com/PancyStudios/TaurusBotGo/pkg/bans"
	"github.com/PancyStudios/TaurusBotGo/pkg/config"
	"github.com/PancyStudios/TaurusBotGo/pkg/database"
	"github.com/PancyStudios/TaurusBotGo/pkg/discord"
	"github.com/PancyStudios/TaurusBotGo/pkg/errors"
	"github.com/PancyStudios/TaurusBotGo/pkg/livecmd"
	"github.com/PancyStudios/TaurusBotGo/pkg/logger"
	"github.com/PancyStudios/TaurusBotGo/pkg/mqtt"
	"github.com/PancyStudios/TaurusBotGo/pkg/roblox"
	"github.com/PancyStudios/TaurusBotGo/pkg/web"
	"github.com/PancyStudios/TaurusBotGo/pkg/whitelist"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(logger.Options{
		Dir:             cfg.LogsDir,
		ErrorWebhookURL: cfg.ErrorWebhook,
		LogsWebhookURL:  cfg.LogsWebhook,
	})
	defer log.Close()

	if err := cfg.Validate(); err != nil {
		logger.Critical(err.Error(), "Main")
		log.Close()
		os.Exit(1)
	}

	logger.System(fmt.Sprintf("Starting Taurus admin bridge %s (built %s)...", config.Version, config.BuildTime), "Main")
	logger.Info(fmt.Sprintf("Working directory: %s", getCurrentDir()), "Main")

	if cfg.UsesDefaultSecret() {
		logger.Warn("INTERNAL_SECRET_KEY is still the default value. Set the same secret here and in the game.", "Main")
	}

	// Initialize error handler
	var discordClient *discord.ExtendedClient
	errHandler := errors.Init(errors.Options{
		WebhookURL: cfg.ErrorWebhook,
		OnShutdown: func() {
			if discordClient != nil {
				_ = discordClient.Stop()
			}
		},
	})
	defer errHandler.Stop()

	// Whitelist
	store := whitelist.Load(cfg.WhitelistFile, cfg.OwnerID)
	logger.Info(fmt.Sprintf("Whitelist loaded: %d users", store.Len()), "Main")

	// Roblox Open Cloud
	rbx := roblox.NewClient(roblox.Options{
		APIKey:       cfg.RobloxAPIKey,
		UniverseID:   cfg.UniverseID,
		APIBaseURL:   cfg.APIBaseURL,
		UsersBaseURL: cfg.UsersBaseURL,
		Timeout:      cfg.HTTPTimeout,
	})
	dispatcher := livecmd.NewDispatcher(rbx, cfg.MessageTopic, cfg.InternalSecret)

	var banOpts []bans.Option
	webDeps := web.Deps{Whitelist: store, Version: config.Version}

	// Initialize MQTT
	if cfg.MQTTHost != "" {
		mqttClientID := "taurusbot"
		if !cfg.IsProd() {
			mqttClientID = "taurusbot_canary"
		}

		mqttClient := mqtt.Init(
			cfg.MQTTHost,
			cfg.MQTTPort,
			cfg.MQTTUser,
			cfg.MQTTPassword,
			mqttClientID,
			cfg.MQTTTopicPrefix,
		)
		defer mqttClient.Destroy()

		dispatcher.SetMirror(mqttClient)
		banOpts = append(banOpts, bans.WithNotifier(mqttClient))
		webDeps.MQTT = mqttClient.IsConnected
	} else {
		logger.Info("MQTT_HOST not set, command mirror disabled", "Main")
	}

	banService := bans.NewService(rbx.DataStore(cfg.DatastoreName), rbx, banOpts...)

	// Initialize database
	var auditLog *database.AuditLog
	if cfg.MongoDBURL != "" {
		db, err := database.Init(cfg.MongoDBURL, cfg.DBName)
		if err != nil {
			// Continue without database- it will attempt to reconnect
			logger.Error(fmt.Sprintf("Error connecting to database: %v", err), "Main")
		}
		defer func() {
			_ = db.Disconnect()
		}()

		auditLog = database.NewAuditLog(db)
		webDeps.DB = db
		webDeps.Audit = auditLog
	} else {
		logger.Info("MONGODB_URL not set, audit log disabled", "Main")
	}

	// Initialize Discord client
	discordClient, err = discord.NewClient(cfg.BotToken, discord.NewGate(cfg.OwnerID, store))
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "Main")
		os.Exit(1)
	}
	discordClient.CommandHandler.SetGuild(cfg.DevGuildID)
	if auditLog != nil {
		discordClient.Audit = auditLog
	}
	webDeps.Bot = discordClient

	commands.RegisterAll(discordClient, commands.Deps{
		Whitelist:  store,
		Dispatcher: dispatcher,
		Bans:       banService,
	})

	events.RegisterAll(discordClient)

	// Initialize web server
	webServer := web.NewServer(web.Options{
		WebhookURL: cfg.LogsWebhook,
		Token:      cfg.WebAPIToken,
	})
	web.SetupAPIRoutes(webServer, webDeps)
	webServer.StartAsync(cfg.Port)
	defer func() {
		_ = webServer.Shutdown()
	}()

	// Start the bot
	if err := discordClient.Start(); err != nil {
		logger.Critical(fmt.Sprintf("Error starting Discord client: %v", err), "Main")
		os.Exit(1)
	}
	defer func() {
		_ = discordClient.Stop()
	}()

	logger.Success("Taurus admin bridge started!", "Main")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.System("Shutting down...", "Main")
}

// getCurrentDir returns the current working directory
func getCurrentDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "unknown"
	}
	return dir
}
