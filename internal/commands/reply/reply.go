// Package reply holds the embed builders and the deferred-reply flow shared
// by every slash command.
package reply

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/TaurusBotGo/pkg/discord"
	"github.com/PancyStudios/TaurusBotGo/pkg/models"
	"github.com/PancyStudios/TaurusBotGo/pkg/roblox"
)

// Embed colours.
const (
	ColorSuccess = 0x00FF00
	ColorError   = 0xFF0000
	ColorInfo    = 0x00BFFF
)

// Discord rejects field values over this length.
const maxFieldValue = 1024

// Interaction tokens expire after 15 minutes.
const interactionWindow = 14 * time.Minute

// Result is what a command handler produced: the embed to show and how the
// invocation is recorded in the audit log.
type Result struct {
	Embed   *discordgo.MessageEmbed
	Outcome models.AuditOutcome
	Target  string
	Detail  string
}

// Embed builds a plain embed.
func Embed(title, description string, color int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
	}
}

// Success wraps a green embed.
func Success(title, description string) Result {
	return Result{Embed: Embed(title, description, ColorSuccess), Outcome: models.OutcomeSuccess}
}

// Info wraps a blue embed. Informational replies did not change anything.
func Info(title, description string) Result {
	return Result{Embed: Embed(title, description, ColorInfo), Outcome: models.OutcomeNoop}
}

// Failure wraps a red embed for a remote or internal failure.
func Failure(title, description string) Result {
	return Result{Embed: Embed(title, description, ColorError), Outcome: models.OutcomeFailed, Detail: description}
}

// Invalid wraps a red embed for rejected input.
func Invalid(title, description string) Result {
	return Result{Embed: Embed(title, description, ColorError), Outcome: models.OutcomeInvalid, Detail: description}
}

// Truncate shortens s to at most n bytes, ending in "..." when cut. It never
// splits a rune.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n < 3 {
		return s[:0]
	}
	cut := n - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// CodeBlock fences s, trimmed so the result fits in a field.
func CodeBlock(s string) string {
	const fence = "```\n\n```"
	return "```\n" + Truncate(s, maxFieldValue-len(fence)) + "\n```"
}

// APIError renders a Roblox failure. A 403 names the DataStore capability the
// API key is missing and how to grant it.
func APIError(err error, capability string) Result {
	apiErr, ok := roblox.AsAPIError(err)
	if ok && apiErr.Kind == roblox.KindPermissionDenied {
		embed := Embed(
			"API Key Error (403 Forbidden)",
			fmt.Sprintf("The bot's API Key does not have the **`%s`** permission for the DataStore API.", capability),
			ColorError,
		)
		embed.Fields = []*discordgo.MessageEmbedField{
			{
				Name:  "How to Fix",
				Value: fmt.Sprintf("Go to your API Key settings on the Roblox Creator Dashboard and add the **`%s`** operation to the **'DataStore'** API.", capability),
			},
			{Name: "Raw Error", Value: CodeBlock(apiErr.Detail())},
		}
		return Result{Embed: embed, Outcome: models.OutcomeFailed, Detail: err.Error()}
	}

	embed := Embed("API Request Failed", "An error occurred while contacting the Roblox API.", ColorError)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Details", Value: CodeBlock(err.Error())},
	}
	return Result{Embed: embed, Outcome: models.OutcomeFailed, Detail: err.Error()}
}

// Deferred acknowledges the interaction, runs fn and edits the reply with its
// embed. The invocation is recorded in the audit log once the reply is out.
func Deferred(ctx *discord.CommandContext, fn func(context.Context) Result) error {
	if err := ctx.DeferEphemeral(); err != nil {
		return err
	}

	c, cancel := context.WithTimeout(context.Background(), interactionWindow)
	defer cancel()

	res := fn(c)
	err := ctx.EditReplyEmbed(res.Embed)
	Audit(ctx, res)
	return err
}

// Immediate answers the interaction with the embed right away.
func Immediate(ctx *discord.CommandContext, res Result) error {
	err := ctx.ReplyEphemeralEmbed(res.Embed)
	Audit(ctx, res)
	return err
}

// Audit records res for the invoking user.
func Audit(ctx *discord.CommandContext, res Result) {
	if ctx.Client == nil {
		return
	}
	user := ctx.User()
	if user == nil {
		return
	}
	entry := models.NewAuditEntry(ctx.Interaction.ApplicationCommandData().Name, user.ID, ctx.DisplayName(), res.Outcome)
	entry.Target = res.Target
	entry.Detail = res.Detail
	ctx.Client.Record(entry)
}
