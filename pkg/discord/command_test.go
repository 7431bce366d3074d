package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

// TestCommandCreation verifies that commands can be created with the builder pattern
func TestCommandCreation(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	cmd := NewCommand("kick", "Kick a player", "game", handler)

	if cmd == nil {
		t.Fatal("NewCommand returned nil")
	}

	if cmd.Name != "kick" {
		t.Errorf("Name = %v, want %v", cmd.Name, "kick")
	}

	if cmd.Category != "game" {
		t.Errorf("Category = %v, want %v", cmd.Category, "game")
	}

	if cmd.Access != AccessPublic {
		t.Errorf("Access = %v, want %v", cmd.Access, AccessPublic)
	}

	if cmd.Run == nil {
		t.Error("Run function is nil")
	}
}

func TestCommandAccessBuilders(t *testing.T) {
	handler := func(ctx *CommandContext) error { return nil }

	if got := NewCommand("fly", "", "game", handler).RequiresWhitelist().Access; got != AccessWhitelisted {
		t.Errorf("RequiresWhitelist Access = %v", got)
	}
	if got := NewCommand("whitelist", "", "admin", handler).OwnerOnly().Access; got != AccessOwner {
		t.Errorf("OwnerOnly Access = %v", got)
	}
}

// TestToApplicationCommand verifies conversion to Discord application command
func TestToApplicationCommand(t *testing.T) {
	handler := func(ctx *CommandContext) error {
		return nil
	}

	option := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "player",
		Description: "Target player",
		Required:    true,
	}

	appCmd := NewCommand("kick", "Kick a player", "game", handler).
		WithOptions(option).
		ToApplicationCommand()

	if appCmd.Name != "kick" {
		t.Errorf("ApplicationCommand Name = %v, want %v", appCmd.Name, "kick")
	}

	if appCmd.Description != "Kick a player" {
		t.Errorf("ApplicationCommand Description = %v", appCmd.Description)
	}

	if len(appCmd.Options) != 1 || appCmd.Options[0].Name != "player" {
		t.Fatalf("ApplicationCommand Options = %+v", appCmd.Options)
	}
}

func TestDisplayName(t *testing.T) {
	user := &discordgo.User{ID: "1", Username: "jdoe", GlobalName: "John"}

	tests := []struct {
		name   string
		member *discordgo.Member
		user   *discordgo.User
		want   string
	}{
		{"nickname wins", &discordgo.Member{Nick: "Johnny"}, user, "Johnny"},
		{"global name", &discordgo.Member{}, user, "John"},
		{"username", nil, &discordgo.User{Username: "jdoe"}, "jdoe"},
		{"blank nick", &discordgo.Member{Nick: "  "}, user, "John"},
		{"nobody", nil, nil, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayName(tt.member, tt.user); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommandContextOptions(t *testing.T) {
	ctx := &CommandContext{
		Interaction: &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
			Type: discordgo.InteractionApplicationCommand,
			Data: discordgo.ApplicationCommandInteractionData{
				Name: "kick",
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{Name: "player", Type: discordgo.ApplicationCommandOptionString, Value: "Builderman"},
				},
			},
			User: &discordgo.User{ID: "42", Username: "owner"},
		}},
	}

	if got := ctx.GetStringOption("player"); got != "Builderman" {
		t.Errorf("GetStringOption(player) = %q", got)
	}
	if got := ctx.GetStringOption("reason"); got != "" {
		t.Errorf("GetStringOption(reason) = %q, want empty", got)
	}
	if got := ctx.User().ID; got != "42" {
		t.Errorf("User().ID = %q", got)
	}
}

func TestCommandName(t *testing.T) {
	plain := discordgo.ApplicationCommandInteractionData{Name: "ping"}
	if got := commandName(plain); got != "ping" {
		t.Errorf("commandName = %q", got)
	}

	sub := discordgo.ApplicationCommandInteractionData{
		Name: "bans",
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "list", Type: discordgo.ApplicationCommandOptionSubCommand},
		},
	}
	if got := commandName(sub); got != "bans.list" {
		t.Errorf("commandName = %q, want bans.list", got)
	}
}
