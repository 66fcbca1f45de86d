package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/scrawlparty/client/src/types"
)

const defaultTimeout = 10 * time.Second

// Client performs the plain request/response pulls that complement the
// duplex connection: the join-time state fallback, the read-only room
// listing, and the cheap keep-alive ping.
type Client struct {
	base    string
	http    *fasthttp.Client
	timeout time.Duration
	logger  zerolog.Logger
}

// NewClient creates an API client for the given base URL.
func NewClient(base string, logger zerolog.Logger) *Client {
	return &Client{
		base:    base,
		http:    &fasthttp.Client{Name: "scrawl-client"},
		timeout: defaultTimeout,
		logger:  logger.With().Str("component", "api").Logger(),
	}
}

// WithHTTPClient swaps the underlying fasthttp client, used by tests
// to point at an in-memory listener.
func (c *Client) WithHTTPClient(h *fasthttp.Client) *Client {
	c.http = h
	return c
}

// RoomState pulls the current snapshot of a room. Used shortly after
// joining in case the push snapshot is delayed, and after a reconnect
// to close the resubscription gap.
func (c *Client) RoomState(ctx context.Context, roomID string) (*types.GameStateSnapshot, error) {
	body, err := c.get(ctx, "/api/room/"+roomID+"/state")
	if err != nil {
		return nil, err
	}
	var snap types.GameStateSnapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("decode room state: %w", err)
	}
	return &snap, nil
}

// ListRooms pulls the public room listing for the lobby browser.
func (c *Client) ListRooms(ctx context.Context) ([]types.RoomInfo, error) {
	body, err := c.get(ctx, "/api/lobby/list")
	if err != nil {
		return nil, err
	}
	var rooms []types.RoomInfo
	if err := json.Unmarshal(body, &rooms); err != nil {
		return nil, fmt.Errorf("decode room listing: %w", err)
	}
	return rooms, nil
}

// Ping is the keep-alive side channel used to detect dead connections
// proactively.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.get(ctx, "/ping")
	return err
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.base + path)
	req.Header.SetMethod(fasthttp.MethodGet)

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	if err := c.http.DoTimeout(req, resp, timeout); err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode())
	}

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, nil
}
