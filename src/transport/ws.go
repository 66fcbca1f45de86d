package transport

import (
	"context"
	"time"

	"github.com/fasthttp/websocket"

	"github.com/scrawlparty/client/src/types"
)

// dialWebSocket is the production DialFunc.
func dialWebSocket(ctx context.Context, endpoint string) (types.Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
	}
	conn, resp, err := dialer.DialContext(ctx, endpoint, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	return conn, nil
}
