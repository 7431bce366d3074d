// Package events provides a registry for organizing bot events.
// Events are organized by category (ready, gateway, guild).
package events

import (
	"github.com/PancyStudios/TaurusBotGo/pkg/discord"
	"github.com/PancyStudios/TaurusBotGo/pkg/logger"
)

// RegisterAll registers all events with the Discord client
func RegisterAll(client *discord.ExtendedClient) {
	logger.System("Registering bot events...", "Events")

	// Ready event (bot startup)
	RegisterReadyEvent(client)

	// Gateway disconnect/resume
	RegisterGatewayEvents(client)

	// Guild events (server join/leave)
	RegisterGuildEvents(client)

	logger.Success("All events registered", "Events")
}
