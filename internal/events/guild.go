package events

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/TaurusBotGo/pkg/discord"
	"github.com/PancyStudios/TaurusBotGo/pkg/logger"
)

// RegisterGuildEvents registers all guild-related event handlers
func RegisterGuildEvents(client *discord.ExtendedClient) {
	client.EventHandler.RegisterEvent(onGuildCreate)
	client.EventHandler.RegisterEvent(onGuildDelete)
}

// onGuildCreate fires for every guild on connect; only fresh joins are logged.
func onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if g.JoinedAt.Before(time.Now().Add(-10 * time.Second)) {
		return
	}
	logger.Info(fmt.Sprintf("Added to guild: %s (ID: %s)", g.Name, g.ID), "Guild")
}

// onGuildDelete is called when the bot is removed from a server
func onGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	if g.Unavailable {
		return
	}
	logger.Info(fmt.Sprintf("Removed from guild ID: %s", g.ID), "Guild")
}
