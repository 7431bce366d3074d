// Package mod provides the ban commands backed by the global ban DataStore.
// Each command is in its own file.
package mod

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/TaurusBotGo/internal/commands/reply"
	"github.com/PancyStudios/TaurusBotGo/pkg/bans"
	"github.com/PancyStudios/TaurusBotGo/pkg/discord"
	"github.com/PancyStudios/TaurusBotGo/pkg/roblox"
)

// createBanCommand creates the /ban command
func createBanCommand(svc *bans.Service) *discord.Command {
	return discord.NewCommand(
		"ban",
		"Bans a player by username. (Uses DataStore).",
		"mod",
		func(ctx *discord.CommandContext) error {
			player := ctx.GetStringOption("player")
			reason := ctx.GetStringOption("reason")
			actor := ctx.DisplayName()
			return reply.Deferred(ctx, func(c context.Context) reply.Result {
				return banByName(c, svc, player, reason, actor)
			})
		},
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "player",
			Description: "Player name. Must be exact.",
			Required:    true,
		},
		reasonOption(),
	).RequiresWhitelist()
}

// Keeps a single ban-list line well inside one embed field.
const maxReasonLength = 500

func reasonOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "reason",
		Description: "Reason for banning.",
		Required:    false,
		MaxLength:   maxReasonLength,
	}
}

func banByName(ctx context.Context, svc *bans.Service, player, reason, actor string) reply.Result {
	res, err := svc.BanByUsername(ctx, player, reason, actor)
	if err != nil {
		if errors.Is(err, bans.ErrUserNotFound) {
			out := reply.Invalid("User Not Found", fmt.Sprintf("Could not find a Roblox user named `%s`.", player))
			out.Target = player
			return out
		}
		if apiErr, ok := roblox.AsAPIError(err); ok && apiErr.Op == roblox.OpUsers {
			out := reply.Failure("Username Lookup Failed", fmt.Sprintf("An error occurred trying to find `%s`.\n```%v```", player, err))
			out.Target = player
			return out
		}
		out := reply.APIError(err, string(roblox.OpWrite))
		out.Target = player
		return out
	}
	return banned(res, actor)
}

// banned renders a successful ban.
func banned(res *bans.Result, actor string) reply.Result {
	id := strconv.FormatInt(res.UserID, 10)
	out := reply.Success(
		"User Banned (DataStore)",
		fmt.Sprintf("Successfully banned **%s** (`%s`).", res.Record.Username, id),
	)
	out.Embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Reason", Value: res.Record.Reason},
	}
	out.Embed.Footer = &discordgo.MessageEmbedFooter{Text: "Banned by " + actor}
	out.Target = id
	out.Detail = res.Record.Reason
	return out
}
