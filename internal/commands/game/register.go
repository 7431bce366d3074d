package game

import (
	"github.com/PancyStudios/TaurusBotGo/pkg/discord"
	"github.com/PancyStudios/TaurusBotGo/pkg/livecmd"
)

// Commands returns every live server command.
func Commands(d *livecmd.Dispatcher) []*discord.Command {
	return []*discord.Command{
		createKickCommand(d),
		createAnnounceCommand(d),
		createFlyCommand(d),
		createUnflyCommand(d),
		createServerLockCommand(d),
		createUnlockCommand(d),
		createPlayersCommand(d),
		createServerUptimeCommand(d),
	}
}

// RegisterGameCommands registers the live server commands
func RegisterGameCommands(client *discord.ExtendedClient, d *livecmd.Dispatcher) {
	for _, cmd := range Commands(d) {
		client.CommandHandler.RegisterCommand(cmd)
	}
}
