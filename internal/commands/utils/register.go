// Package utils provides the bot administration commands: whitelist
// management and latency checks.
package utils

import (
	"github.com/PancyStudios/TaurusBotGo/pkg/discord"
	"github.com/PancyStudios/TaurusBotGo/pkg/whitelist"
)

// Commands returns the administration commands.
func Commands(store *whitelist.Store) []*discord.Command {
	return []*discord.Command{
		createWhitelistCommand(store),
		createPingCommand(),
	}
}

// RegisterUtilsCommands registers the administration commands
func RegisterUtilsCommands(client *discord.ExtendedClient, store *whitelist.Store) {
	for _, cmd := range Commands(store) {
		client.CommandHandler.RegisterCommand(cmd)
	}
}
