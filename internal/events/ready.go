// Package events provides event handlers for the bot
package events

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/TaurusBotGo/pkg/discord"
	"github.com/PancyStudios/TaurusBotGo/pkg/logger"
)

// Status shown under the bot's name.
const presence = "Taurus servers"

// RegisterReadyEvent registers the ready event handler
func RegisterReadyEvent(client *discord.ExtendedClient) {
	client.EventHandler.OnReady(func(s *discordgo.Session, r *discordgo.Ready) {
		onReady(client, s, r)
	})
}

// onReady is called when the bot successfully connects to Discord
func onReady(client *discord.ExtendedClient, s *discordgo.Session, r *discordgo.Ready) {
	logger.Info(fmt.Sprintf("Connected to %d guilds", len(r.Guilds)), "Ready")
	logger.Debug("Commands: "+client.CommandNames(), "Ready")

	if err := s.UpdateWatchStatus(0, presence); err != nil {
		logger.Error(fmt.Sprintf("Error setting status: %v", err), "Ready")
		return
	}

	logger.Debug("Status set", "Ready")
}
