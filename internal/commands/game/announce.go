package game

import (
	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/TaurusBotGo/pkg/discord"
	"github.com/PancyStudios/TaurusBotGo/pkg/livecmd"
)

// createAnnounceCommand creates the /announce command
func createAnnounceCommand(d *livecmd.Dispatcher) *discord.Command {
	return discord.NewCommand(
		"announce",
		"Send an announcement to all servers.",
		"game",
		liveHandler(d, "announce", func(ctx *discord.CommandContext) (string, string) {
			return "", ctx.GetStringOption("message")
		}),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "message",
			Description: "The announcement message.",
			Required:    true,
		},
	).RequiresWhitelist()
}
