package utils

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/TaurusBotGo/internal/commands/reply"
	"github.com/PancyStudios/TaurusBotGo/pkg/discord"
	"github.com/PancyStudios/TaurusBotGo/pkg/models"
)

// createPingCommand creates the /ping command
func createPingCommand() *discord.Command {
	return discord.NewCommand(
		"ping",
		"Check the bot's latency.",
		"utils",
		pingHandler,
	).RequiresWhitelist()
}

// pingHandler times the deferred acknowledgement as the API round trip.
func pingHandler(ctx *discord.CommandContext) error {
	start := time.Now()
	if err := ctx.DeferEphemeral(); err != nil {
		return err
	}
	api := time.Since(start)

	res := reply.Result{
		Embed:   pingEmbed(ctx.Session.HeartbeatLatency(), api),
		Outcome: models.OutcomeSuccess,
	}
	reply.Audit(ctx, res)
	return ctx.EditReplyEmbed(res.Embed)
}

func millis(d time.Duration) string {
	return fmt.Sprintf("%.2f ms", float64(d)/float64(time.Millisecond))
}

func pingEmbed(heartbeat, api time.Duration) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Pong! 🏓",
		Color: reply.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Bot Latency", Value: millis(heartbeat), Inline: true},
			{Name: "API Latency", Value: millis(api), Inline: true},
		},
	}
}
