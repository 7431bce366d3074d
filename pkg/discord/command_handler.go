// Package discord provides the command handler for loading and registering commands.
package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/TaurusBotGo/pkg/logger"
)

// CommandHandler manages command loading and registration
type CommandHandler struct {
	client        *ExtendedClient
	slashCommands []*discordgo.ApplicationCommand
	guildID       string
}

// NewCommandHandler creates a new CommandHandler
func NewCommandHandler(client *ExtendedClient) *CommandHandler {
	return &CommandHandler{
		client:        client,
		slashCommands: make([]*discordgo.ApplicationCommand, 0),
	}
}

// SetGuild scopes registration to one guild. Empty means global.
func (ch *CommandHandler) SetGuild(guildID string) {
	ch.guildID = guildID
}

// RegisterCommand adds a command to the handler
func (ch *CommandHandler) RegisterCommand(cmd *Command) {
	ch.client.Commands.Set(cmd.Name, cmd)
	ch.slashCommands = append(ch.slashCommands, cmd.ToApplicationCommand())
	logger.Debug(fmt.Sprintf("Command registered: %s (%s)", cmd.Name, cmd.Access), "CommandHandler")
}

func (ch *CommandHandler) appID() (string, error) {
	s := ch.client.Session
	if s.State != nil && s.State.User != nil {
		return s.State.User.ID, nil
	}
	user, err := s.User("@me")
	if err != nil {
		return "", fmt.Errorf("resolve application id: %w", err)
	}
	return user.ID, nil
}

func scope(guildID string) string {
	if guildID == "" {
		return "global"
	}
	return "guild " + guildID
}

// RegisterCommands replaces the application's commands with the registered
// set in one bulk overwrite.
func (ch *CommandHandler) RegisterCommands() error {
	appID, err := ch.appID()
	if err != nil {
		return err
	}

	logger.Info(fmt.Sprintf("Syncing %d commands (%s)...", len(ch.slashCommands), scope(ch.guildID)), "CommandHandler")

	created, err := ch.client.Session.ApplicationCommandBulkOverwrite(appID, ch.guildID, ch.slashCommands)
	if err != nil {
		return err
	}

	logger.Success(fmt.Sprintf("Synced %d commands.", len(created)), "CommandHandler")
	return nil
}

// ListCommands returns the commands Discord currently has for guildID.
func (ch *CommandHandler) ListCommands(guildID string) ([]*discordgo.ApplicationCommand, error) {
	appID, err := ch.appID()
	if err != nil {
		return nil, err
	}
	return ch.client.Session.ApplicationCommands(appID, guildID)
}

// UnregisterCommands removes every command registered for guildID.
func (ch *CommandHandler) UnregisterCommands(guildID string) error {
	appID, err := ch.appID()
	if err != nil {
		return err
	}

	commands, err := ch.client.Session.ApplicationCommands(appID, guildID)
	if err != nil {
		return err
	}

	for _, cmd := range commands {
		if err := ch.client.Session.ApplicationCommandDelete(appID, guildID, cmd.ID); err != nil {
			logger.Error("Error deleting command "+cmd.Name+": "+err.Error(), "CommandHandler")
		}
	}

	logger.Success(fmt.Sprintf("Removed %d commands (%s).", len(commands), scope(guildID)), "CommandHandler")
	return nil
}
