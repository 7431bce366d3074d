package roblox

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"
)

// KeyPage is one page of a DataStore key listing.
type KeyPage struct {
	Keys           []string
	NextPageCursor string
}

type listKeysResponse struct {
	Keys []struct {
		Key string `json:"key"`
	} `json:"keys"`
	NextPageCursor string `json:"nextPageCursor"`
}

// DataStore is a handle on one standard DataStore of the client's universe.
type DataStore struct {
	client *Client
	name   string
}

// DataStore returns a handle on the named standard DataStore.
func (c *Client) DataStore(name string) *DataStore {
	return &DataStore{client: c, name: name}
}

func (d *DataStore) baseURL() string {
	return fmt.Sprintf("%s/datastores/v1/universes/%s/standard-datastores/datastore",
		d.client.apiBase, url.PathEscape(d.client.universeID))
}

func (d *DataStore) entryURL(key string) string {
	q := url.Values{}
	q.Set("datastoreName", d.name)
	q.Set("entryKey", key)
	return d.baseURL() + "/entries/entry?" + q.Encode()
}

// SetEntry writes value as the JSON entry for key, replacing any previous one.
func (d *DataStore) SetEntry(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return &APIError{Kind: KindParse, Op: OpWrite, Err: fmt.Errorf("encode entry: %w", err)}
	}
	_, err = d.client.do(ctx, request{
		op:      OpWrite,
		method:  http.MethodPost,
		url:     d.entryURL(key),
		rawBody: data,
		authed:  true,
	})
	return err
}

// GetEntry returns the raw JSON entry stored under key.
// A missing key yields an APIError of KindNotFound.
func (d *DataStore) GetEntry(ctx context.Context, key string) ([]byte, error) {
	return d.client.do(ctx, request{
		op:     OpRead,
		method: http.MethodGet,
		url:    d.entryURL(key),
		authed: true,
	})
}

// DeleteEntry removes key. Deleting a key that does not exist yields an
// APIError of KindNotFound; callers decide whether that matters.
func (d *DataStore) DeleteEntry(ctx context.Context, key string) error {
	_, err := d.client.do(ctx, request{
		op:     OpDelete,
		method: http.MethodDelete,
		url:    d.entryURL(key),
		authed: true,
	})
	return err
}

// ListKeys returns one page of keys. Pass the previous page's
// NextPageCursor to continue; an empty cursor starts from the beginning.
func (d *DataStore) ListKeys(ctx context.Context, cursor string) (*KeyPage, error) {
	q := url.Values{}
	q.Set("datastoreName", d.name)
	if cursor != "" {
		q.Set("cursor", cursor)
	}

	body, err := d.client.do(ctx, request{
		op:     OpListKeys,
		method: http.MethodGet,
		url:    d.baseURL() + "/entries?" + q.Encode(),
		authed: true,
	})
	if err != nil {
		return nil, err
	}

	var resp listKeysResponse
	if err := decode(OpListKeys, body, &resp); err != nil {
		return nil, err
	}

	page := &KeyPage{
		Keys:           make([]string, 0, len(resp.Keys)),
		NextPageCursor: resp.NextPageCursor,
	}
	for _, k := range resp.Keys {
		page.Keys = append(page.Keys, k.Key)
	}
	return page, nil
}
