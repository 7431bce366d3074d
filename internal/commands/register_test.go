package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PancyStudios/TaurusBotGo/pkg/bans"
	"github.com/PancyStudios/TaurusBotGo/pkg/discord"
	"github.com/PancyStudios/TaurusBotGo/pkg/livecmd"
	"github.com/PancyStudios/TaurusBotGo/pkg/roblox/robloxtest"
	"github.com/PancyStudios/TaurusBotGo/pkg/whitelist"
)

func TestAllCommands(t *testing.T) {
	srv := robloxtest.NewServer()
	defer srv.Close()
	client := srv.Client("1")

	cmds := All(Deps{
		Whitelist:  whitelist.Load(filepath.Join(t.TempDir(), "wl.json"), 1),
		Dispatcher: livecmd.NewDispatcher(client, "topic", "secret"),
		Bans:       bans.NewService(client.DataStore("bans"), client),
	})

	names := make(map[string]discord.AccessLevel)
	for _, cmd := range cmds {
		names[cmd.Name] = cmd.Access
		assert.NotEmpty(t, cmd.Description, cmd.Name)
		assert.NotNil(t, cmd.Run, cmd.Name)
	}

	assert.Len(t, names, 14)
	assert.Equal(t, discord.AccessOwner, names["whitelist"])
	for _, name := range []string{"ping", "kick", "announce", "fly", "unfly", "serverlock", "unlock", "banid", "ban", "unban", "banlist", "players", "serveruptime"} {
		assert.Equal(t, discord.AccessWhitelisted, names[name], name)
	}
}
