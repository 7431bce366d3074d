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

// createUnbanCommand creates the /unban command
func createUnbanCommand(svc *bans.Service) *discord.Command {
	return discord.NewCommand(
		"unban",
		"Unban a player by UserId (removes DataStore ban).",
		"mod",
		func(ctx *discord.CommandContext) error {
			userID := ctx.GetStringOption("user_id")
			actor := ctx.DisplayName()
			return reply.Deferred(ctx, func(c context.Context) reply.Result {
				return unban(c, svc, userID, actor)
			})
		},
	).WithOptions(userIDOption("Roblox UserId to unban.")).RequiresWhitelist()
}

func unban(ctx context.Context, svc *bans.Service, rawID, actor string) reply.Result {
	res, err := svc.Unban(ctx, rawID, actor)
	switch {
	case errors.Is(err, bans.ErrInvalidUserID):
		return invalidUserID(rawID)
	case err != nil:
		out := reply.APIError(err, string(roblox.OpDelete))
		out.Target = rawID
		return out
	}

	id := strconv.FormatInt(res.UserID, 10)
	if !res.WasBanned {
		out := reply.Info("User Unbanned", fmt.Sprintf("User `%s` was not found in the ban list.", id))
		out.Target = id
		return out
	}

	out := reply.Success(
		"User Unbanned (DataStore)",
		fmt.Sprintf("Successfully unbanned **%s** (`%s`).", res.Username, id),
	)
	out.Embed.Footer = &discordgo.MessageEmbedFooter{Text: "Unbanned by " + actor}
	out.Target = id
	return out
}
