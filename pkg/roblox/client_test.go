package roblox_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PancyStudios/TaurusBotGo/pkg/roblox"
	"github.com/PancyStudios/TaurusBotGo/pkg/roblox/robloxtest"
)

func newFake(t *testing.T) (*robloxtest.Server, *roblox.Client) {
	t.Helper()
	srv := robloxtest.NewServer()
	t.Cleanup(srv.Close)
	return srv, srv.Client("12345")
}

func TestPublishMessage(t *testing.T) {
	srv, client := newFake(t)

	err := client.PublishMessage(context.Background(), "TaurusAdminCommands", `{"command_type":"RUN_COMMAND"}`)
	require.NoError(t, err)

	msgs := srv.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "12345", msgs[0].Universe)
	assert.Equal(t, "TaurusAdminCommands", msgs[0].Topic)
	assert.Equal(t, `{"command_type":"RUN_COMMAND"}`, msgs[0].Message)
}

func TestPublishMessageBadKey(t *testing.T) {
	srv := robloxtest.NewServer()
	defer srv.Close()

	client := roblox.NewClient(roblox.Options{
		APIKey:     "wrong",
		UniverseID: "1",
		APIBaseURL: srv.URL,
	})
	err := client.PublishMessage(context.Background(), "topic", "hi")
	require.Error(t, err)

	apiErr, ok := roblox.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, roblox.KindHTTPStatus, apiErr.Kind)
	assert.Equal(t, roblox.OpPublish, apiErr.Op)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid API Key", apiErr.Message)
}

func TestDataStoreRoundTrip(t *testing.T) {
	_, client := newFake(t)
	store := client.DataStore("TaurusGlobalBans")
	ctx := context.Background()

	type record struct {
		Reason string
	}
	require.NoError(t, store.SetEntry(ctx, "42", record{Reason: "cheating"}))

	body, err := store.GetEntry(ctx, "42")
	require.NoError(t, err)
	var got record
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "cheating", got.Reason)

	require.NoError(t, store.DeleteEntry(ctx, "42"))

	_, err = store.GetEntry(ctx, "42")
	assert.True(t, roblox.IsNotFound(err))

	err = store.DeleteEntry(ctx, "42")
	assert.True(t, roblox.IsNotFound(err))
}

func TestDataStorePermissionDenied(t *testing.T) {
	srv, client := newFake(t)
	srv.Fail(roblox.OpWrite, http.StatusForbidden, `{"error":"INSUFFICIENT_SCOPE","message":"Insufficient scope: universe-datastores.objects:create"}`)

	err := client.DataStore("bans").SetEntry(context.Background(), "1", map[string]string{"a": "b"})
	require.Error(t, err)
	assert.True(t, roblox.IsPermissionDenied(err))

	apiErr, _ := roblox.AsAPIError(err)
	assert.Equal(t, roblox.OpWrite, apiErr.Op)
	assert.Equal(t, "Insufficient scope: universe-datastores.objects:create", apiErr.Detail())
}

func TestListKeysCorruptBody(t *testing.T) {
	srv, client := newFake(t)
	srv.Fail(roblox.OpListKeys, http.StatusOK, `not json`)

	_, err := client.DataStore("bans").ListKeys(context.Background(), "")
	require.Error(t, err)

	apiErr, ok := roblox.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, roblox.KindParse, apiErr.Kind)
	assert.Equal(t, roblox.OpListKeys, apiErr.Op)
}

func TestListKeysPagination(t *testing.T) {
	srv, client := newFake(t)
	srv.PageSize = 2
	for _, k := range []string{"1", "2", "3"} {
		srv.PutRaw(k, []byte(`{}`))
	}
	store := client.DataStore("bans")
	ctx := context.Background()

	page, err := store.ListKeys(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, page.Keys)
	assert.NotEmpty(t, page.NextPageCursor)

	page, err = store.ListKeys(ctx, page.NextPageCursor)
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, page.Keys)
	assert.Empty(t, page.NextPageCursor)
}

func TestResolveUsername(t *testing.T) {
	srv, client := newFake(t)
	srv.AddUser(42, "Builderman")
	ctx := context.Background()

	assert.Equal(t, "Builderman", client.ResolveUsername(ctx, 42))
	assert.Equal(t, "ID: 43", client.ResolveUsername(ctx, 43))

	srv.Fail(roblox.OpUsers, http.StatusInternalServerError, `oops`)
	assert.Equal(t, "ID: 42", client.ResolveUsername(ctx, 42))
}

func TestResolveIdentifier(t *testing.T) {
	srv, client := newFake(t)
	srv.AddUser(156, "Builderman")
	ctx := context.Background()

	user, err := client.ResolveIdentifier(ctx, "builderman")
	require.NoError(t, err)
	assert.Equal(t, int64(156), user.ID)
	assert.Equal(t, "Builderman", user.Name)

	_, err = client.ResolveIdentifier(ctx, "nobody")
	assert.True(t, roblox.IsNotFound(err))
}

func TestTransportError(t *testing.T) {
	srv := robloxtest.NewServer()
	url := srv.URL
	srv.Close()

	client := roblox.NewClient(roblox.Options{
		APIKey:     "k",
		UniverseID: "1",
		APIBaseURL: url,
		Timeout:    time.Second,
	})
	err := client.PublishMessage(context.Background(), "topic", "hi")
	require.Error(t, err)

	apiErr, ok := roblox.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, roblox.KindTransport, apiErr.Kind)
}

func TestAPIErrorMessage(t *testing.T) {
	err := &roblox.APIError{Kind: roblox.KindPermissionDenied, Op: roblox.OpRead, StatusCode: 403, Message: "nope"}
	assert.Equal(t, "roblox Read: 403 Forbidden: nope", err.Error())

	err = &roblox.APIError{Kind: roblox.KindHTTPStatus, Op: roblox.OpPublish, StatusCode: 500, Body: "boom"}
	assert.Equal(t, "roblox Publish: 500 Internal Server Error", err.Error())
	assert.Equal(t, "boom", err.Detail())
}
