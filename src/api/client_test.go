package api

import (
	"context"
	"net"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

// newTestClient serves the handler on an in-memory listener and
// returns a client wired to it.
func newTestClient(t *testing.T, handler fasthttp.RequestHandler) *Client {
	t.Helper()

	ln := fasthttputil.NewInmemoryListener()
	srv := &fasthttp.Server{Handler: handler}
	go srv.Serve(ln) //nolint:errcheck
	t.Cleanup(func() { ln.Close() })

	httpc := &fasthttp.Client{
		Dial: func(addr string) (net.Conn, error) { return ln.Dial() },
	}
	return NewClient("http://game.test", zerolog.Nop()).WithHTTPClient(httpc)
}

func TestRoomStatePullsSnapshot(t *testing.T) {
	client := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		if string(ctx.Path()) != "/api/room/482913/state" {
			ctx.SetStatusCode(fasthttp.StatusNotFound)
			return
		}
		ctx.SetContentType("application/json")
		ctx.SetBodyString(`{
			"roomId": "482913",
			"players": [{"sessionId": "S1", "username": "alice", "score": 120}],
			"currentDrawerSessionId": "S1",
			"roundTime": 60,
			"gameRunning": true
		}`)
	})

	snap, err := client.RoomState(context.Background(), "482913")
	require.NoError(t, err)

	assert.Equal(t, "482913", snap.RoomID)
	assert.Equal(t, "S1", snap.CurrentDrawerSessionID)
	assert.True(t, snap.GameRunning)
	require.Len(t, snap.Players, 1)
	assert.Equal(t, 120, snap.Players[0].Score)
}

func TestRoomStateUnknownRoom(t *testing.T) {
	client := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusNotFound)
	})

	_, err := client.RoomState(context.Background(), "000000")
	assert.Error(t, err)
}

func TestRoomStateRejectsMalformedBody(t *testing.T) {
	client := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetBodyString(`{"roomId": `)
	})

	_, err := client.RoomState(context.Background(), "482913")
	assert.Error(t, err)
}

func TestListRooms(t *testing.T) {
	client := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		if string(ctx.Path()) != "/api/lobby/list" {
			ctx.SetStatusCode(fasthttp.StatusNotFound)
			return
		}
		ctx.SetContentType("application/json")
		ctx.SetBodyString(`[
			{"roomId": "482913", "lobbyName": "friday night", "maxPlayers": 24},
			{"roomId": "771040", "lobbyName": "office", "maxPlayers": 8}
		]`)
	})

	rooms, err := client.ListRooms(context.Background())
	require.NoError(t, err)

	require.Len(t, rooms, 2)
	assert.Equal(t, "482913", rooms[0].RoomID)
	assert.Equal(t, "office", rooms[1].LobbyName)
}

func TestPing(t *testing.T) {
	client := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		if string(ctx.Path()) != "/ping" {
			ctx.SetStatusCode(fasthttp.StatusNotFound)
			return
		}
		ctx.SetBodyString("pong")
	})

	assert.NoError(t, client.Ping(context.Background()))
}
