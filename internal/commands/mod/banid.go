package mod

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/TaurusBotGo/internal/commands/reply"
	"github.com/PancyStudios/TaurusBotGo/pkg/bans"
	"github.com/PancyStudios/TaurusBotGo/pkg/discord"
	"github.com/PancyStudios/TaurusBotGo/pkg/roblox"
)

// createBanIDCommand creates the /banid command
func createBanIDCommand(svc *bans.Service) *discord.Command {
	return discord.NewCommand(
		"banid",
		"Bans a player by UserId (offline) using DataStore.",
		"mod",
		func(ctx *discord.CommandContext) error {
			userID := ctx.GetStringOption("user_id")
			reason := ctx.GetStringOption("reason")
			actor := ctx.DisplayName()
			return reply.Deferred(ctx, func(c context.Context) reply.Result {
				return banByID(c, svc, userID, reason, actor)
			})
		},
	).WithOptions(
		userIDOption("Roblox UserId to ban."),
		reasonOption(),
	).RequiresWhitelist()
}

func userIDOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "user_id",
		Description: description,
		Required:    true,
	}
}

func invalidUserID(raw string) reply.Result {
	out := reply.Invalid("Invalid Input", bans.ErrInvalidUserID.Error()+".")
	out.Target = raw
	return out
}

func banByID(ctx context.Context, svc *bans.Service, rawID, reason, actor string) reply.Result {
	res, err := svc.BanByID(ctx, rawID, reason, actor)
	switch {
	case errors.Is(err, bans.ErrInvalidUserID):
		return invalidUserID(rawID)
	case err != nil:
		out := reply.APIError(err, string(roblox.OpWrite))
		out.Target = rawID
		return out
	}
	return banned(res, actor)
}
