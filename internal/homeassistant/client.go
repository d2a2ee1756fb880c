// AngelaMos | 2026
// client.go

package homeassistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/carterperez-dev/homemgmt/internal/config"
	"github.com/carterperez-dev/homemgmt/internal/core"
)

const (
	defaultTimeout  = 10 * time.Second
	maxResponseSize = 4 << 20
	unknownStatus   = "unknown"
)

var ErrNotConfigured = errors.New("home assistant url not configured")

// Entity is a device as reported by the live Home Assistant API.
type Entity struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

type Client struct {
	baseURL    string
	token      string
	path       string
	httpClient *http.Client
}

func NewClient(cfg config.HomeAssistantConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		token:      cfg.Token,
		path:       cfg.EntitiesPath,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// ListEntities fetches every entity once. Any transport failure or non-2xx
// status is returned as an upstream error; nothing is retried.
func (c *Client) ListEntities(ctx context.Context) ([]Entity, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("list entities: %w: %w", core.ErrUpstream, ErrNotConfigured)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+c.path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list entities: %w: %w", core.ErrUpstream, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf(
			"list entities: %w: unexpected status %d",
			core.ErrUpstream,
			resp.StatusCode,
		)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("list entities: read body: %w: %w", core.ErrUpstream, err)
	}

	return parseEntities(body)
}

// parseEntities accepts a bare array or an object with an "entities" array.
func parseEntities(body []byte) ([]Entity, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("list entities: %w: invalid json", core.ErrUpstream)
	}

	list := gjson.ParseBytes(body)
	if list.IsObject() {
		list = list.Get("entities")
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("list entities: %w: expected an array", core.ErrUpstream)
	}

	items := list.Array()
	entities := make([]Entity, 0, len(items))
	for _, item := range items {
		status := item.Get("status")
		entity := Entity{
			Name:   item.Get("name").String(),
			Type:   item.Get("type").String(),
			Status: unknownStatus,
		}
		if status.Exists() && status.Type != gjson.Null {
			entity.Status = status.String()
		}
		entities = append(entities, entity)
	}

	return entities, nil
}
