package roblox

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// PublishMessage posts message to a Messaging Service topic. Every running
// game server subscribed to the topic receives it; nothing is queued for
// servers that are offline.
func (c *Client) PublishMessage(ctx context.Context, topic, message string) error {
	endpoint := fmt.Sprintf("%s/messaging-service/v1/universes/%s/topics/%s",
		c.apiBase, url.PathEscape(c.universeID), url.PathEscape(topic))

	_, err := c.do(ctx, request{
		op:     OpPublish,
		method: http.MethodPost,
		url:    endpoint,
		body:   map[string]string{"message": message},
		authed: true,
	})
	return err
}
