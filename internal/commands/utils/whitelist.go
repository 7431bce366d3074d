package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/TaurusBotGo/internal/commands/reply"
	"github.com/PancyStudios/TaurusBotGo/pkg/discord"
	"github.com/PancyStudios/TaurusBotGo/pkg/whitelist"
)

const whitelistTitle = "Whitelist Management"

// createWhitelistCommand creates the owner-only /whitelist command
func createWhitelistCommand(store *whitelist.Store) *discord.Command {
	return discord.NewCommand(
		"whitelist",
		"Manage the bot's authorized user list.",
		"utils",
		func(ctx *discord.CommandContext) error {
			res := manageWhitelist(store, ctx.GetStringOption("action"), ctx.GetStringOption("user_id"))
			return reply.Immediate(ctx, res)
		},
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "action",
			Description: "Add, remove, or list users.",
			Required:    true,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "add", Value: "add"},
				{Name: "remove", Value: "remove"},
				{Name: "list", Value: "list"},
			},
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "user_id",
			Description: "Discord User ID to add/remove.",
			Required:    false,
		},
	).OwnerOnly()
}

// parseDiscordID accepts only a plain run of digits.
func parseDiscordID(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil
}

func manageWhitelist(store *whitelist.Store, action, rawID string) reply.Result {
	switch action {
	case "list":
		return listWhitelist(store)
	case "add", "remove":
	default:
		return reply.Invalid(whitelistTitle, "An error occurred.")
	}

	id, ok := parseDiscordID(rawID)
	if !ok {
		return reply.Invalid(whitelistTitle, fmt.Sprintf("Invalid or missing User ID for '%s' action.", action))
	}

	var outcome whitelist.Outcome
	if action == "add" {
		outcome = store.Add(id)
	} else {
		outcome = store.Remove(id)
	}

	target := strconv.FormatInt(id, 10)
	var res reply.Result
	switch outcome {
	case whitelist.Added:
		res = reply.Success(whitelistTitle, fmt.Sprintf("User ID `%d` added to the whitelist.", id))
	case whitelist.Removed:
		res = reply.Success(whitelistTitle, fmt.Sprintf("User ID `%d` removed from the whitelist.", id))
	case whitelist.AlreadyPresent:
		res = reply.Info(whitelistTitle, fmt.Sprintf("User ID `%d` is already in the whitelist.", id))
	case whitelist.NotPresent:
		res = reply.Info(whitelistTitle, fmt.Sprintf("User ID `%d` was not found in the whitelist.", id))
	case whitelist.IsOwner:
		res = reply.Info(whitelistTitle, "The bot owner is always authorized.")
	}
	res.Target = target
	res.Detail = action + ": " + outcome.String()
	return res
}

func listWhitelist(store *whitelist.Store) reply.Result {
	ids := store.List()
	if len(ids) == 0 {
		return reply.Info(whitelistTitle, "The whitelist is currently empty.")
	}

	lines := make([]string, len(ids))
	for i, id := range ids {
		lines[i] = fmt.Sprintf("`%d`", id)
	}
	res := reply.Info("Whitelisted User IDs", strings.Join(lines, "\n"))
	res.Detail = fmt.Sprintf("%d ids", len(ids))
	return res
}
