package plex

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"net/url"

	"github.com/spf13/cast"

	"availarr/internal/logging"
)

// MachineIdentifier returns the server's machine identifier, fetching it at
// most once per process and caching the successful result. Returns "" when
// the identity endpoint is unreachable; callers fall back to server-relative
// links.
func (c *Client) MachineIdentifier(ctx context.Context) string {
	if c == nil {
		return ""
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.machineID != "" {
		return c.machineID
	}

	body, contentType, err := c.get(ctx, "/identity", nil)
	if err != nil {
		c.log().Debug("identity fetch failed", logging.Error(err))
		return ""
	}
	id := decodeMachineIdentifier(body, contentType)
	if id == "" {
		c.log().Debug("identity response missing machine identifier")
		return ""
	}
	c.machineID = id
	return id
}

func decodeMachineIdentifier(data []byte, contentType string) string {
	if isJSONContent(contentType) {
		var envelope struct {
			MediaContainer map[string]any `json:"MediaContainer"`
		}
		if err := json.Unmarshal(data, &envelope); err == nil {
			if id := cast.ToString(envelope.MediaContainer["machineIdentifier"]); id != "" {
				return id
			}
		}
	}
	var container struct {
		MachineIdentifier string `xml:"machineIdentifier,attr"`
	}
	if err := xml.Unmarshal(data, &container); err != nil {
		return ""
	}
	return container.MachineIdentifier
}

// DeepLink builds a browser URL for a library item. When the machine
// identifier is known the link goes through app.plex.tv so it works from any
// network; otherwise it falls back to the server's local web UI.
func (c *Client) DeepLink(ctx context.Context, ratingKey string) string {
	if c == nil || ratingKey == "" {
		return ""
	}
	metadataKey := "/library/metadata/" + ratingKey
	if id := c.MachineIdentifier(ctx); id != "" {
		return "https://app.plex.tv/desktop#!/server/" + id + "/details?key=" + url.QueryEscape(metadataKey)
	}
	return c.baseURL + "/web/index.html#!" + metadataKey
}
