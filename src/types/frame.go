package types

import "encoding/json"

// Frame kinds exchanged on the duplex connection.
const (
	FrameHello       = "hello"       // client -> server, opens the handshake
	FrameWelcome     = "welcome"     // server -> client, carries the session ID
	FrameSubscribe   = "subscribe"   // client -> server, topic management
	FrameUnsubscribe = "unsubscribe" // client -> server
	FrameMessage     = "message"     // server -> client, topic payload
	FrameSend        = "send"        // client -> server, app destination payload
	FramePing        = "ping"        // heartbeat, both directions
	FramePong        = "pong"
)

// Frame is the envelope for every message on the WebSocket.
// Body stays raw until a topic handler decodes it; a malformed body
// is the handler's problem, never the transport's.
type Frame struct {
	Type      string          `json:"type"`
	Topic     string          `json:"topic,omitempty"`
	SessionID string          `json:"sessionId,omitempty"`
	Body      json.RawMessage `json:"body,omitempty"`
}

// HelloBody identifies a connecting client during the handshake.
type HelloBody struct {
	InstanceID string `json:"instanceId"`
	Username   string `json:"username,omitempty"`
}

// FrameHandler handles inbound message frames for a subscribed topic.
type FrameHandler func(Frame)

// Conn abstracts a WebSocket connection for testability.
type Conn interface {
	WriteJSON(v any) error
	ReadJSON(v any) error
	Close() error
}
