package game

import (
	"github.com/PancyStudios/TaurusBotGo/pkg/discord"
	"github.com/PancyStudios/TaurusBotGo/pkg/livecmd"
)

// createServerLockCommand creates the /serverlock command
func createServerLockCommand(d *livecmd.Dispatcher) *discord.Command {
	return discord.NewCommand("serverlock", "Lock all servers.", "game", liveHandler(d, "serverlock", nil)).
		RequiresWhitelist()
}

// createUnlockCommand creates the /unlock command
func createUnlockCommand(d *livecmd.Dispatcher) *discord.Command {
	return discord.NewCommand("unlock", "Unlock all servers.", "game", liveHandler(d, "unlock", nil)).
		RequiresWhitelist()
}
