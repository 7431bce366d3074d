package mod

import (
	"github.com/PancyStudios/TaurusBotGo/pkg/bans"
	"github.com/PancyStudios/TaurusBotGo/pkg/discord"
)

// Commands returns every ban command.
func Commands(svc *bans.Service) []*discord.Command {
	return []*discord.Command{
		createBanIDCommand(svc),
		createBanCommand(svc),
		createUnbanCommand(svc),
		createBanListCommand(svc),
	}
}

// RegisterModCommands registers the ban commands
func RegisterModCommands(client *discord.ExtendedClient, svc *bans.Service) {
	for _, cmd := range Commands(svc) {
		client.CommandHandler.RegisterCommand(cmd)
	}
}
