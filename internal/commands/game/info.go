package game

import (
	"context"

	"github.com/PancyStudios/TaurusBotGo/internal/commands/reply"
	"github.com/PancyStudios/TaurusBotGo/pkg/discord"
	"github.com/PancyStudios/TaurusBotGo/pkg/livecmd"
)

func infoHandler(d *livecmd.Dispatcher, kind livecmd.CommandType) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		issuer := issuerOf(ctx)
		return reply.Deferred(ctx, func(c context.Context) reply.Result {
			return requestInfo(c, d, issuer, kind)
		})
	}
}

// createPlayersCommand creates the /players command
func createPlayersCommand(d *livecmd.Dispatcher) *discord.Command {
	return discord.NewCommand(
		"players",
		"Request all servers to log their current player list.",
		"game",
		infoHandler(d, livecmd.GetPlayerList),
	).RequiresWhitelist()
}

// createServerUptimeCommand creates the /serveruptime command
func createServerUptimeCommand(d *livecmd.Dispatcher) *discord.Command {
	return discord.NewCommand(
		"serveruptime",
		"Request all servers to log their uptime.",
		"game",
		infoHandler(d, livecmd.GetServerUptime),
	).RequiresWhitelist()
}
