package game

import (
	"github.com/PancyStudios/TaurusBotGo/pkg/discord"
	"github.com/PancyStudios/TaurusBotGo/pkg/livecmd"
)

func playerOnly(ctx *discord.CommandContext) (string, string) {
	return ctx.GetStringOption("player"), ""
}

// createFlyCommand creates the /fly command
func createFlyCommand(d *livecmd.Dispatcher) *discord.Command {
	return discord.NewCommand(
		"fly",
		"Make a player fly.",
		"game",
		liveHandler(d, "fly", playerOnly),
	).WithOptions(playerOption()).RequiresWhitelist()
}

// createUnflyCommand creates the /unfly command
func createUnflyCommand(d *livecmd.Dispatcher) *discord.Command {
	return discord.NewCommand(
		"unfly",
		"Stop a player from flying.",
		"game",
		liveHandler(d, "unfly", playerOnly),
	).WithOptions(playerOption()).RequiresWhitelist()
}
