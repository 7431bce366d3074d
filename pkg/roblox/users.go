package roblox

import (
	"context"
	"net/http"
	"strconv"
)

// User is a Roblox account as returned by the Users directory.
type User struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

type usersResponse struct {
	Data []User `json:"data"`
}

// UserByID looks up a single account by id.
func (c *Client) UserByID(ctx context.Context, id int64) (*User, error) {
	body, err := c.do(ctx, request{
		op:     OpUsers,
		method: http.MethodPost,
		url:    c.usersBase + "/v1/users",
		body: map[string]interface{}{
			"userIds":            []int64{id},
			"excludeBannedUsers": false,
		},
	})
	if err != nil {
		return nil, err
	}
	return firstUser(body)
}

// ResolveUsername returns the account name for id, or "ID: <id>" when the
// lookup fails for any reason.
func (c *Client) ResolveUsername(ctx context.Context, id int64) string {
	user, err := c.UserByID(ctx, id)
	if err != nil || user.Name == "" {
		return FallbackUsername(strconv.FormatInt(id, 10))
	}
	return user.Name
}

// ResolveIdentifier looks up an account by exact username. An unknown name
// yields an APIError of KindNotFound.
func (c *Client) ResolveIdentifier(ctx context.Context, username string) (*User, error) {
	body, err := c.do(ctx, request{
		op:     OpUsers,
		method: http.MethodPost,
		url:    c.usersBase + "/v1/usernames/users",
		body: map[string]interface{}{
			"usernames":          []string{username},
			"excludeBannedUsers": false,
		},
	})
	if err != nil {
		return nil, err
	}
	return firstUser(body)
}

func firstUser(body []byte) (*User, error) {
	var resp usersResponse
	if err := decode(OpUsers, body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, &APIError{Kind: KindNotFound, Op: OpUsers, StatusCode: http.StatusOK, Message: "no matching user", Body: string(body)}
	}
	return &resp.Data[0], nil
}

// FallbackUsername is the placeholder shown when a name cannot be resolved.
func FallbackUsername(key string) string {
	return "ID: " + key
}
