package events

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/TaurusBotGo/pkg/discord"
	"github.com/PancyStudios/TaurusBotGo/pkg/logger"
)

// RegisterGatewayEvents logs gateway disconnects and resumes.
func RegisterGatewayEvents(client *discord.ExtendedClient) {
	client.EventHandler.OnDisconnect(onDisconnect)
	client.EventHandler.OnResumed(onResumed)
}

func onDisconnect(s *discordgo.Session, _ *discordgo.Disconnect) {
	logger.Warn(fmt.Sprintf("Shard %d disconnected.", s.ShardID), "Gateway")
}

func onResumed(s *discordgo.Session, _ *discordgo.Resumed) {
	logger.Success(fmt.Sprintf("Shard %d resumed.", s.ShardID), "Gateway")
}
