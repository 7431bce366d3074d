// Package commands provides a registry for organizing bot commands.
// Commands are organized in subdirectories by category (utils, game, mod).
package commands

import (
	"github.com/PancyStudios/TaurusBotGo/internal/commands/game"
	"github.com/PancyStudios/TaurusBotGo/internal/commands/mod"
	"github.com/PancyStudios/TaurusBotGo/internal/commands/utils"
	"github.com/PancyStudios/TaurusBotGo/pkg/bans"
	"github.com/PancyStudios/TaurusBotGo/pkg/discord"
	"github.com/PancyStudios/TaurusBotGo/pkg/livecmd"
	"github.com/PancyStudios/TaurusBotGo/pkg/whitelist"
)

// Deps are the services the commands act on.
type Deps struct {
	Whitelist  *whitelist.Store
	Dispatcher *livecmd.Dispatcher
	Bans       *bans.Service
}

// All returns every command in registration order.
func All(deps Deps) []*discord.Command {
	var cmds []*discord.Command
	cmds = append(cmds, utils.Commands(deps.Whitelist)...)
	cmds = append(cmds, game.Commands(deps.Dispatcher)...)
	cmds = append(cmds, mod.Commands(deps.Bans)...)
	return cmds
}

// RegisterAll registers all commands with the Discord client
func RegisterAll(client *discord.ExtendedClient, deps Deps) {
	// /whitelist, /ping
	utils.RegisterUtilsCommands(client, deps.Whitelist)

	// Live server commands over the Messaging Service
	game.RegisterGameCommands(client, deps.Dispatcher)

	// DataStore bans
	mod.RegisterModCommands(client, deps.Bans)
}
