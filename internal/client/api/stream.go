package api

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/agritrack/agritrack-cli/internal/client/models"
	"github.com/agritrack/agritrack-cli/internal/common"
)

// WatchProducts subscribes to the backend's server-sent product stream and
// invokes fn for every product the backend broadcasts. The call blocks until
// ctx is canceled or the stream closes; there is no reconnect policy here.
//
// The stream carries three kinds of lines: comment heartbeats (": heartbeat"),
// a one-off connected notice, and unnamed data events holding a product JSON
// document. Only the last kind reaches fn.
func (c *RESTClient) WatchProducts(ctx context.Context, fn func(models.Product)) error {
	endpoint := c.baseURL + "/products/stream"
	if c.token != "" {
		endpoint += "?" + url.Values{"token": {c.token}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return mapStatus(resp.StatusCode, nil)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var data strings.Builder
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case line == "":
			// Event boundary: dispatch whatever data accumulated.
			if data.Len() > 0 {
				dispatchProductEvent(data.String(), fn)
				data.Reset()
			}
		case strings.HasPrefix(line, ":"):
			// Comment / heartbeat.
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		default:
			// Field we do not consume (event:, id:, retry:).
		}
	}
	if data.Len() > 0 {
		dispatchProductEvent(data.String(), fn)
	}

	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	return nil
}

// dispatchProductEvent decodes one event payload, dropping the stream's
// "connected" notice and anything that is not a product document.
func dispatchProductEvent(payload string, fn func(models.Product)) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal([]byte(payload), &probe); err != nil {
		return
	}
	if probe.Type == "connected" {
		return
	}

	var product models.Product
	if err := json.Unmarshal([]byte(payload), &product); err != nil || product.ID == "" {
		return
	}
	fn(product)
}
