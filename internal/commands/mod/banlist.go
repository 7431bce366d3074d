package mod

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/TaurusBotGo/internal/commands/reply"
	"github.com/PancyStudios/TaurusBotGo/pkg/bans"
	"github.com/PancyStudios/TaurusBotGo/pkg/discord"
	"github.com/PancyStudios/TaurusBotGo/pkg/models"
	"github.com/PancyStudios/TaurusBotGo/pkg/roblox"
)

// Discord limits.
const (
	maxFieldValue = 1024
	maxFields     = 25
)

// createBanListCommand creates the /banlist command
func createBanListCommand(svc *bans.Service) *discord.Command {
	return discord.NewCommand(
		"banlist",
		"Request the global DataStore ban list.",
		"mod",
		func(ctx *discord.CommandContext) error {
			return reply.Deferred(ctx, func(c context.Context) reply.Result {
				return banList(c, svc, time.Now())
			})
		},
	).RequiresWhitelist()
}

func banList(ctx context.Context, svc *bans.Service, now time.Time) reply.Result {
	lines, err := svc.List(ctx)
	if err != nil {
		if apiErr, ok := roblox.AsAPIError(err); ok && apiErr.Kind == roblox.KindPermissionDenied {
			return reply.APIError(err, string(apiErr.Op))
		}
		return reply.Failure("Error", fmt.Sprintf("Failed to retrieve ban list: \n```%v```", err))
	}

	return reply.Result{
		Embed:   banListEmbed(lines, now),
		Outcome: models.OutcomeSuccess,
		Detail:  fmt.Sprintf("%d entries", len(lines)),
	}
}

// banListEmbed packs lines into fields of at most 1024 characters.
func banListEmbed(lines []string, now time.Time) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     "Taurus Global Ban List",
		Color:     reply.ColorInfo,
		Timestamp: now.UTC().Format(time.RFC3339),
	}

	if len(lines) == 0 {
		embed.Description = "The DataStore ban list is empty."
		return embed
	}
	embed.Description = fmt.Sprintf("Found %d total entries.", len(lines))

	var (
		current strings.Builder
		part    = 1
	)
	flush := func() {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("Ban List (Part %d)", part),
			Value: current.String(),
		})
		current.Reset()
		part++
	}

	for _, line := range lines {
		line = reply.Truncate(line, maxFieldValue-1)
		if current.Len() > 0 && current.Len()+len(line)+2 > maxFieldValue {
			flush()
		}
		current.WriteString(line)
		current.WriteString("\n")
	}
	if current.Len() > 0 {
		flush()
	}

	if len(embed.Fields) > maxFields {
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "Error", Value: "Ban list is too large to display in a single embed."},
		}
	}
	return embed
}
