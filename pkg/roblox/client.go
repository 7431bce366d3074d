// Package roblox is a small client for the Roblox Open Cloud endpoints the
// bridge needs: Messaging Service publish, standard DataStore entries and the
// public Users directory.
package roblox

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const (
	DefaultAPIBaseURL   = "https://apis.roblox.com"
	DefaultUsersBaseURL = "https://users.roblox.com"

	apiKeyHeader = "x-api-key"
	maxBodyBytes = 1 << 20
)

// Options configures a Client.
type Options struct {
	APIKey       string
	UniverseID   string
	APIBaseURL   string
	UsersBaseURL string
	Timeout      time.Duration
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

// Client talks to Open Cloud on behalf of one universe.
type Client struct {
	httpClient *http.Client
	apiKey     string
	universeID string
	apiBase    string
	usersBase  string
}

// NewClient creates a new Client
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	apiBase := opts.APIBaseURL
	if apiBase == "" {
		apiBase = DefaultAPIBaseURL
	}
	usersBase := opts.UsersBaseURL
	if usersBase == "" {
		usersBase = DefaultUsersBaseURL
	}

	return &Client{
		httpClient: httpClient,
		apiKey:     opts.APIKey,
		universeID: opts.UniverseID,
		apiBase:    strings.TrimRight(apiBase, "/"),
		usersBase:  strings.TrimRight(usersBase, "/"),
	}
}

// request is one Open Cloud call.
type request struct {
	op     Op
	method string
	url    string
	body   interface{}
	// rawBody is sent verbatim when set.
	rawBody []byte
	// authed adds the x-api-key header.
	authed bool
}

// do sends req and returns the body of a 2xx response. Any other outcome is
// an *APIError.
func (c *Client) do(ctx context.Context, req request) ([]byte, error) {
	var reader io.Reader
	switch {
	case req.rawBody != nil:
		reader = bytes.NewReader(req.rawBody)
	case req.body != nil:
		data, err := json.Marshal(req.body)
		if err != nil {
			return nil, &APIError{Kind: KindParse, Op: req.op, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, req.url, reader)
	if err != nil {
		return nil, &APIError{Kind: KindTransport, Op: req.op, Err: err}
	}
	if reader != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.authed {
		httpReq.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &APIError{Kind: KindTransport, Op: req.op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &APIError{Kind: KindTransport, Op: req.op, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(req.op, resp.StatusCode, body)
	}
	return body, nil
}

// decode unmarshals a successful body, tagging failures as KindParse.
func decode(op Op, body []byte, v interface{}) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &APIError{Kind: KindParse, Op: op, Body: string(body), Err: err}
	}
	return nil
}
