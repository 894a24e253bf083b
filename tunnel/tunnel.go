// Package tunnel asks a local tunnel agent for its public address.
package tunnel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/moyoez/photobooth-go/tool"
	"github.com/moyoez/photobooth-go/types"
)

// ErrNoTunnel is returned when the agent reports no tunnel with a public URL.
var ErrNoTunnel = errors.New("no tunnel with a public url")

// Discover fetches apiURL and returns the public URL of the first tunnel, preferring
// https tunnels when several are open.
func Discover(ctx context.Context, client *http.Client, apiURL string) (string, error) {
	if client == nil {
		client = tool.DetectHttpClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to query tunnel api: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tunnel api returned %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	var list types.TunnelListResponse
	if err := sonic.Unmarshal(body, &list); err != nil {
		return "", fmt.Errorf("failed to decode tunnel list: %w", err)
	}
	publicURL := ""
	for _, t := range list.Tunnels {
		if t.PublicURL == "" {
			continue
		}
		if t.Proto == "https" {
			publicURL = t.PublicURL
			break
		}
		if publicURL == "" {
			publicURL = t.PublicURL
		}
	}
	if publicURL == "" {
		return "", ErrNoTunnel
	}
	tool.DefaultLogger.Infof("[Tunnel] Using public url %s", publicURL)
	return publicURL, nil
}
