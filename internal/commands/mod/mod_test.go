package mod

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PancyStudios/TaurusBotGo/internal/commands/reply"
	"github.com/PancyStudios/TaurusBotGo/pkg/bans"
	"github.com/PancyStudios/TaurusBotGo/pkg/discord"
	"github.com/PancyStudios/TaurusBotGo/pkg/models"
	"github.com/PancyStudios/TaurusBotGo/pkg/roblox"
	"github.com/PancyStudios/TaurusBotGo/pkg/roblox/robloxtest"
)

func newService(t *testing.T) (*robloxtest.Server, *bans.Service) {
	t.Helper()
	srv := robloxtest.NewServer()
	t.Cleanup(srv.Close)
	client := srv.Client("555")
	return srv, bans.NewService(client.DataStore("TaurusGlobalBans"), client)
}

func fieldValue(res reply.Result, name string) string {
	for _, f := range res.Embed.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

func TestBanIDSuccess(t *testing.T) {
	srv, svc := newService(t)
	srv.AddUser(12345, "Builderman")

	res := banByID(context.Background(), svc, "12345", "exploiting", "Mod")

	assert.Equal(t, "User Banned (DataStore)", res.Embed.Title)
	assert.Equal(t, "Successfully banned **Builderman** (`12345`).", res.Embed.Description)
	assert.Equal(t, reply.ColorSuccess, res.Embed.Color)
	assert.Equal(t, "exploiting", fieldValue(res, "Reason"))
	require.NotNil(t, res.Embed.Footer)
	assert.Equal(t, "Banned by Mod", res.Embed.Footer.Text)
	assert.Equal(t, models.OutcomeSuccess, res.Outcome)

	body, ok := srv.Entry("12345")
	require.True(t, ok)
	var rec bans.Record
	require.NoError(t, json.Unmarshal(body, &rec))
	assert.Equal(t, "Mod (Discord)", rec.BannedBy)
	assert.Equal(t, "Builderman", rec.Username)
}

func TestBanIDDefaultReason(t *testing.T) {
	_, svc := newService(t)

	res := banByID(context.Background(), svc, "777", "", "Mod")

	assert.Equal(t, bans.DefaultReason, fieldValue(res, "Reason"))
	assert.Contains(t, res.Embed.Description, "**ID: 777**")
}

func TestBanIDForbidden(t *testing.T) {
	srv, svc := newService(t)
	srv.Fail(roblox.OpWrite, http.StatusForbidden, `{"message":"INSUFFICIENT_SCOPE"}`)

	res := banByID(context.Background(), svc, "12345", "", "Mod")

	assert.Equal(t, "API Key Error (403 Forbidden)", res.Embed.Title)
	assert.Contains(t, res.Embed.Description, "**`Write`**")
	assert.Contains(t, fieldValue(res, "How to Fix"), "add the **`Write`** operation")
	assert.Contains(t, fieldValue(res, "Raw Error"), "INSUFFICIENT_SCOPE")
	assert.Equal(t, models.OutcomeFailed, res.Outcome)

	_, stored := srv.Entry("12345")
	assert.False(t, stored)
}

func TestBanIDInvalid(t *testing.T) {
	srv, svc := newService(t)

	res := banByID(context.Background(), svc, "12ab", "", "Mod")

	assert.Equal(t, "Invalid Input", res.Embed.Title)
	assert.Equal(t, "UserId must be a number.", res.Embed.Description)
	assert.Equal(t, models.OutcomeInvalid, res.Outcome)
	assert.Empty(t, srv.Calls())
}

func TestBanIDServerError(t *testing.T) {
	srv, svc := newService(t)
	srv.Fail(roblox.OpWrite, http.StatusInternalServerError, "boom")

	res := banByID(context.Background(), svc, "1", "", "Mod")

	assert.Equal(t, "API Request Failed", res.Embed.Title)
	assert.Contains(t, fieldValue(res, "Details"), "500")
}

func TestBanByName(t *testing.T) {
	srv, svc := newService(t)
	srv.AddUser(156, "Builderman")

	res := banByName(context.Background(), svc, "builderman", "", "Mod")
	assert.Equal(t, "Successfully banned **Builderman** (`156`).", res.Embed.Description)

	_, ok := srv.Entry("156")
	assert.True(t, ok)
}

func TestBanByNameUnknown(t *testing.T) {
	_, svc := newService(t)

	res := banByName(context.Background(), svc, "Nobody", "", "Mod")
	assert.Equal(t, "User Not Found", res.Embed.Title)
	assert.Equal(t, "Could not find a Roblox user named `Nobody`.", res.Embed.Description)
}

func TestBanByNameLookupFailed(t *testing.T) {
	srv, svc := newService(t)
	srv.Fail(roblox.OpUsers, http.StatusServiceUnavailable, "down")

	res := banByName(context.Background(), svc, "Builderman", "", "Mod")
	assert.Equal(t, "Username Lookup Failed", res.Embed.Title)
	assert.Contains(t, res.Embed.Description, "An error occurred trying to find `Builderman`.")
}

func TestUnban(t *testing.T) {
	srv, svc := newService(t)
	srv.AddUser(9, "Target")
	srv.PutRaw("9", []byte(`{"Reason":"x"}`))

	res := unban(context.Background(), svc, "9", "Mod")
	assert.Equal(t, "User Unbanned (DataStore)", res.Embed.Title)
	assert.Equal(t, "Successfully unbanned **Target** (`9`).", res.Embed.Description)
	require.NotNil(t, res.Embed.Footer)
	assert.Equal(t, "Unbanned by Mod", res.Embed.Footer.Text)

	res = unban(context.Background(), svc, "9", "Mod")
	assert.Equal(t, "User Unbanned", res.Embed.Title)
	assert.Equal(t, "User `9` was not found in the ban list.", res.Embed.Description)
	assert.Equal(t, reply.ColorInfo, res.Embed.Color)
	assert.Equal(t, models.OutcomeNoop, res.Outcome)
}

func TestUnbanForbidden(t *testing.T) {
	srv, svc := newService(t)
	srv.Fail(roblox.OpDelete, http.StatusForbidden, "{}")

	res := unban(context.Background(), svc, "9", "Mod")
	assert.Contains(t, res.Embed.Description, "**`Delete`**")
}

func TestBanListForbiddenNamesCapability(t *testing.T) {
	srv, svc := newService(t)
	srv.PutRaw("1", []byte(`{}`))

	srv.Fail(roblox.OpListKeys, http.StatusForbidden, "{}")
	res := banList(context.Background(), svc, time.Now())
	assert.Contains(t, res.Embed.Description, "**`List Keys`**")

	srv.Heal()
	srv.Fail(roblox.OpRead, http.StatusForbidden, "{}")
	res = banList(context.Background(), svc, time.Now())
	assert.Contains(t, res.Embed.Description, "**`Read`**")
}

func TestBanListEmpty(t *testing.T) {
	_, svc := newService(t)

	res := banList(context.Background(), svc, time.Now())
	assert.Equal(t, "Taurus Global Ban List", res.Embed.Title)
	assert.Equal(t, "The DataStore ban list is empty.", res.Embed.Description)
	assert.Empty(t, res.Embed.Fields)
}

func TestBanListEntries(t *testing.T) {
	srv, svc := newService(t)
	srv.PutRaw("1", []byte(`{"Reason":"spam","BannedBy":"Mod (Discord)","Username":"A","Timestamp":0}`))
	srv.AddOrphanKey("2")

	res := banList(context.Background(), svc, time.Now())
	assert.Equal(t, "Found 2 total entries.", res.Embed.Description)
	require.Len(t, res.Embed.Fields, 1)
	assert.Equal(t, "Ban List (Part 1)", res.Embed.Fields[0].Name)
	assert.Contains(t, res.Embed.Fields[0].Value, "[???] **A** (By: Mod (Discord)) - *spam*")
	assert.Contains(t, res.Embed.Fields[0].Value, "[ERROR] Data for key `2` was not found (404).")
}

func TestBanListEmbedSplitsFields(t *testing.T) {
	line := strings.Repeat("x", 300)
	lines := make([]string, 10)
	for i := range lines {
		lines[i] = line
	}

	embed := banListEmbed(lines, time.Unix(0, 0))

	// three 301-char lines fit in 1024, the fourth does not
	require.Len(t, embed.Fields, 4)
	for i, f := range embed.Fields {
		assert.Equal(t, fmt.Sprintf("Ban List (Part %d)", i+1), f.Name)
		assert.LessOrEqual(t, len(f.Value), 1024)
	}
	assert.Equal(t, "1970-01-01T00:00:00Z", embed.Timestamp)
}

func TestBanListEmbedClipsOversizedLine(t *testing.T) {
	long := "[2024-01-02 03:04:05] `42` (Builderman) by Mod: " + strings.Repeat("r", 1100)
	lines := []string{"[2024-01-01 00:00:00] `1` (Short) by Mod: spam", long}

	embed := banListEmbed(lines, time.Unix(0, 0))

	require.Len(t, embed.Fields, 2)
	for _, f := range embed.Fields {
		assert.LessOrEqual(t, len(f.Value), maxFieldValue, f.Name)
	}
	assert.True(t, strings.HasPrefix(embed.Fields[1].Value, "[2024-01-02 03:04:05] `42` (Builderman)"))
	assert.True(t, strings.HasSuffix(embed.Fields[1].Value, "...\n"))
}

func TestReasonOptionIsCapped(t *testing.T) {
	_, svc := newService(t)
	for _, cmd := range Commands(svc) {
		for _, opt := range cmd.Options {
			if opt.Name == "reason" {
				assert.Equal(t, maxReasonLength, opt.MaxLength, cmd.Name)
			}
		}
	}
}

func TestBanListEmbedTooLarge(t *testing.T) {
	lines := make([]string, 30)
	for i := range lines {
		lines[i] = strings.Repeat("y", 1000)
	}

	embed := banListEmbed(lines, time.Now())
	require.Len(t, embed.Fields, 1)
	assert.Equal(t, "Error", embed.Fields[0].Name)
	assert.Equal(t, "Ban list is too large to display in a single embed.", embed.Fields[0].Value)
}

func TestCommandsRequireWhitelist(t *testing.T) {
	_, svc := newService(t)
	for _, cmd := range Commands(svc) {
		assert.Equal(t, discord.AccessWhitelisted, cmd.Access, cmd.Name)
	}
}
