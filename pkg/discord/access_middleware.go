package discord

import (
	"fmt"

	"github.com/PancyStudios/TaurusBotGo/pkg/logger"
	"github.com/PancyStudios/TaurusBotGo/pkg/models"
)

// AccessMiddleware runs the gate for cmd. On denial it answers the
// interaction itself and returns false; the command must not run.
func (c *ExtendedClient) AccessMiddleware(ctx *CommandContext, cmd *Command) bool {
	user := ctx.User()
	if user == nil {
		return false
	}

	var decision Decision
	if c.Gate == nil {
		decision = Decision{Allowed: cmd.Access == AccessPublic, Reason: ReasonUnauthorized}
	} else {
		decision = c.Gate.Check(cmd.Access, user.ID)
	}
	if decision.Allowed {
		return true
	}

	if err := ctx.ReplyEphemeralEmbed(DenialEmbed(decision)); err != nil {
		logger.Error(fmt.Sprintf("Failed to send denial: %v", err), "AccessMiddleware")
	}

	logger.Warn(fmt.Sprintf("%s (%s) was denied /%s", user.Username, user.ID, cmd.Name), "AccessMiddleware")

	entry := models.NewAuditEntry(cmd.Name, user.ID, ctx.DisplayName(), models.OutcomeDenied)
	entry.Detail = decision.Reason
	c.Record(entry)
	return false
}
