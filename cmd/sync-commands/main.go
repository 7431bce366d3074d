// Package main provides a utility to sync Discord slash commands.
// It removes stale commands from Discord and registers the current set.
//
// Usage:
//
//	sync-commands list  [--guild <id>]
//	sync-commands clean [--guild <id>]
//	sync-commands sync  [--guild <id>]
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PancyStudios/TaurusBotGo/internal/commands"
	"github.com/PancyStudios/TaurusBotGo/pkg/config"
	"github.com/PancyStudios/TaurusBotGo/pkg/discord"
	"github.com/PancyStudios/TaurusBotGo/pkg/logger"
)

var (
	guildID string
	client  *discord.ExtendedClient
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sync-commands",
		Short: "Manage the bot's Discord slash commands",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.BotToken == "" {
				return fmt.Errorf("DISCORD_BOT_TOKEN is not set")
			}

			logger.Init(logger.Options{})

			client, err = discord.NewClient(cfg.BotToken, nil)
			if err != nil {
				return fmt.Errorf("create Discord client: %w", err)
			}

			// Definitions only; handlers never run here.
			for _, c := range commands.All(commands.Deps{}) {
				client.CommandHandler.RegisterCommand(c)
			}
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&guildID, "guild", "", "Target a specific guild (leave empty for global)")

	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newCleanCmd())
	rootCmd.AddCommand(newSyncCmd())

	return rootCmd
}

func scopeName() string {
	if guildID == "" {
		return "global"
	}
	return "guild " + guildID
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the commands registered with Discord",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmds, err := client.CommandHandler.ListCommands(guildID)
			if err != nil {
				return fmt.Errorf("list commands: %w", err)
			}

			if len(cmds) == 0 {
				logger.Info(fmt.Sprintf("No commands registered (%s)", scopeName()), "SyncCommands")
				return nil
			}

			logger.Info(fmt.Sprintf("Commands found (%s): %d", scopeName(), len(cmds)), "SyncCommands")
			for i, c := range cmds {
				logger.Info(fmt.Sprintf("  %d. /%s - %s (ID: %s)", i+1, c.Name, c.Description, c.ID), "SyncCommands")
			}
			return nil
		},
	}
}

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove every command without registering new ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			return client.CommandHandler.UnregisterCommands(guildID)
		},
	}
}

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Replace the registered commands with the current set",
		RunE: func(cmd *cobra.Command, args []string) error {
			client.CommandHandler.SetGuild(guildID)
			return client.CommandHandler.RegisterCommands()
		},
	}
}
