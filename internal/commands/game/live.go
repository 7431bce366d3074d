// Package game provides the live server commands relayed through the
// Messaging Service. Each command is in its own file.
package game

import (
	"context"
	"fmt"

	"github.com/PancyStudios/TaurusBotGo/internal/commands/reply"
	"github.com/PancyStudios/TaurusBotGo/pkg/discord"
	"github.com/PancyStudios/TaurusBotGo/pkg/livecmd"
)

const logsNotice = "Request sent. Results will be logged to your 'BotLogs' webhook channel."

func issuerOf(ctx *discord.CommandContext) livecmd.Issuer {
	issuer := livecmd.Issuer{DisplayName: ctx.DisplayName()}
	if user := ctx.User(); user != nil {
		issuer.ID = user.ID
	}
	return issuer
}

// sendLive publishes a RUN_COMMAND and renders the outcome.
func sendLive(ctx context.Context, d *livecmd.Dispatcher, issuer livecmd.Issuer, command, target, arguments string) reply.Result {
	text, err := d.RunCommand(ctx, issuer, command, target, arguments)
	if err != nil {
		res := reply.Failure(fmt.Sprintf("Command Failed: `:%s`", command), livecmd.FailureText(err))
		res.Target = target
		return res
	}
	res := reply.Success(fmt.Sprintf("Command Sent: `:%s`", command), text)
	res.Target = target
	return res
}

// liveHandler builds the Run func for a RUN_COMMAND. read pulls target and
// arguments from the interaction.
func liveHandler(d *livecmd.Dispatcher, command string, read func(ctx *discord.CommandContext) (target, arguments string)) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		var target, arguments string
		if read != nil {
			target, arguments = read(ctx)
		}
		issuer := issuerOf(ctx)
		return reply.Deferred(ctx, func(c context.Context) reply.Result {
			return sendLive(c, d, issuer, command, target, arguments)
		})
	}
}

// requestInfo publishes a GET_PLAYER_LIST or GET_SERVER_UPTIME request.
func requestInfo(ctx context.Context, d *livecmd.Dispatcher, issuer livecmd.Issuer, kind livecmd.CommandType) reply.Result {
	var (
		err   error
		title string
	)
	switch kind {
	case livecmd.GetPlayerList:
		_, err = d.RequestPlayerList(ctx, issuer)
		title = "Player List Requested"
	case livecmd.GetServerUptime:
		_, err = d.RequestServerUptime(ctx, issuer)
		title = "Server Uptime Requested"
	default:
		return reply.Failure("Command Failed", fmt.Sprintf("unsupported request %q", kind))
	}

	if err != nil {
		return reply.Failure("Command Failed", livecmd.FailureText(err))
	}
	return reply.Success(title, logsNotice)
}
