package game

import (
	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/TaurusBotGo/pkg/discord"
	"github.com/PancyStudios/TaurusBotGo/pkg/livecmd"
)

// createKickCommand creates the /kick command
func createKickCommand(d *livecmd.Dispatcher) *discord.Command {
	return discord.NewCommand(
		"kick",
		"Kick a player from the game.",
		"game",
		liveHandler(d, "kick", func(ctx *discord.CommandContext) (string, string) {
			return ctx.GetStringOption("player"), ctx.GetStringOption("reason")
		}),
	).WithOptions(
		playerOption(),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "reason",
			Description: "Reason for kicking.",
			Required:    false,
		},
	).RequiresWhitelist()
}

func playerOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "player",
		Description: "Player name or @selector.",
		Required:    true,
	}
}
