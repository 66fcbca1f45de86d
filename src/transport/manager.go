package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/scrawlparty/client/config"
	"github.com/scrawlparty/client/src/types"
)

// ErrConnectionLost is surfaced through OnFatal once every reconnect
// attempt has been exhausted. It is the only user-visible transport
// failure; everything before it is retried silently.
var ErrConnectionLost = errors.New("connection lost: retry attempts exhausted")

// ErrNotConnected is returned by Send while no connection is established.
var ErrNotConnected = errors.New("not connected")

// DialFunc establishes the raw duplex connection. Swapped out in tests.
type DialFunc func(ctx context.Context, endpoint string) (types.Conn, error)

// Pinger is the cheap keep-alive side channel. It runs concurrently to
// detect dead connections proactively and self-cancels once the
// connection is confirmed closed.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Manager owns the single duplex connection of a session: dialing,
// the welcome handshake, heartbeats, failure detection, and bounded
// exponential-backoff reconnection. All outbound traffic funnels
// through its single writer so nothing else can corrupt stream order.
type Manager struct {
	cfg        *config.EngineConfig
	dial       DialFunc
	pinger     Pinger
	logger     zerolog.Logger
	instanceID string
	username   string

	mu        sync.Mutex
	state     State
	sessionID string
	sendCh    chan types.Frame
	lastBeat  time.Time
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	onReady   func(sessionID string)
	onError   func(error)
	onFatal   func(error)
	onFrame   func(types.Frame)
	observers []func(State)
}

// Option configures a Manager.
type Option func(*Manager)

// WithDialFunc replaces the WebSocket dialer.
func WithDialFunc(d DialFunc) Option { return func(m *Manager) { m.dial = d } }

// WithPinger attaches the keep-alive side channel.
func WithPinger(p Pinger) Option { return func(m *Manager) { m.pinger = p } }

// WithUsername sets the username announced in the hello frame.
func WithUsername(name string) Option { return func(m *Manager) { m.username = name } }

// New creates a connection manager. Connect must be called to go live.
func New(cfg *config.EngineConfig, logger zerolog.Logger, opts ...Option) *Manager {
	m := &Manager{
		cfg:        cfg,
		dial:       dialWebSocket,
		logger:     logger.With().Str("component", "transport").Logger(),
		instanceID: uuid.New().String(),
		state:      Disconnected,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OnReady registers the callback fired exactly once per successful
// connection, with the session ID assigned by the server.
func (m *Manager) OnReady(cb func(sessionID string)) { m.onReady = cb }

// OnError registers the per-attempt failure callback. OnReady and
// OnError are mutually exclusive for any single attempt.
func (m *Manager) OnError(cb func(error)) { m.onError = cb }

// OnFatal registers the callback for terminal connection loss.
func (m *Manager) OnFatal(cb func(error)) { m.onFatal = cb }

// OnFrame registers the sink for inbound non-heartbeat frames.
// The router is the expected consumer.
func (m *Manager) OnFrame(cb func(types.Frame)) { m.onFrame = cb }

// OnStateChange registers a connection-state observer.
func (m *Manager) OnStateChange(cb func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, cb)
}

// State returns the current connection state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// SessionID returns the identifier assigned by the server handshake,
// or "" before the first successful connection.
func (m *Manager) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionID
}

// Connect starts the connection loop. A previous loop, including any
// pending backoff timer, is torn down first so two connection attempts
// can never run concurrently.
func (m *Manager) Connect(ctx context.Context) error {
	if err := m.cfg.Validate(); err != nil {
		return fmt.Errorf("transport config: %w", err)
	}

	m.Disconnect()

	runCtx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	m.cancel = cancel
	m.mu.Unlock()

	m.wg.Add(1)
	go m.run(runCtx)
	return nil
}

// Disconnect stops the connection loop and closes the connection.
// Safe to call at any time, including mid-backoff.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
		m.wg.Wait()
		m.setState(Disconnected)
	}
}

// Send queues a frame for the single writer. Fire-and-forget: a full
// buffer or missing connection is reported, not retried.
func (m *Manager) Send(f types.Frame) error {
	m.mu.Lock()
	ch := m.sendCh
	connected := m.state == Connected
	m.mu.Unlock()

	if !connected || ch == nil {
		return ErrNotConnected
	}
	select {
	case ch <- f:
		return nil
	default:
		return errors.New("send buffer full")
	}
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	if m.state == s {
		m.mu.Unlock()
		return
	}
	m.state = s
	observers := make([]func(State), len(m.observers))
	copy(observers, m.observers)
	m.mu.Unlock()

	m.logger.Debug().Stringer("state", s).Msg("connection state changed")
	for _, cb := range observers {
		cb(s)
	}
}

// run is the connection loop: dial, pump until the connection drops,
// reconnect with backoff. It exits on context cancellation or after
// retry exhaustion.
func (m *Manager) run(ctx context.Context) {
	defer m.wg.Done()

	first := true
	for {
		if first {
			m.setState(Connecting)
		} else {
			m.setState(Reconnecting)
		}

		conn, ok := m.connectWithBackoff(ctx)
		if !ok {
			return
		}
		first = false

		dropped := m.pump(ctx, conn)
		if !dropped {
			// Explicit disconnect.
			return
		}

		// A previously established connection dropped: delay briefly,
		// then start a fresh cycle with a reset attempt counter.
		m.logger.Warn().Msg("connection dropped, scheduling reconnect")
		select {
		case <-time.After(m.cfg.BackoffBase):
		case <-ctx.Done():
			return
		}
	}
}

// connectWithBackoff runs one full attempt cycle. Each cycle starts
// with a fresh attempt counter; exhaustion is terminal.
func (m *Manager) connectWithBackoff(ctx context.Context) (types.Conn, bool) {
	policy := newBackoffPolicy(m.cfg)

	for attempt := 0; attempt < m.cfg.MaxAttempts; attempt++ {
		conn, err := m.dialAndHandshake(ctx)
		if err == nil {
			return conn, true
		}
		if ctx.Err() != nil {
			return nil, false
		}

		m.logger.Warn().Err(err).Int("attempt", attempt).Msg("connect attempt failed")
		if m.onError != nil {
			m.onError(err)
		}

		if attempt == m.cfg.MaxAttempts-1 {
			break
		}
		delay := policy.NextBackOff()
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, false
		}
	}

	m.setState(Failed)
	m.logger.Error().Int("attempts", m.cfg.MaxAttempts).Msg("retry attempts exhausted")
	if m.onFatal != nil {
		m.onFatal(ErrConnectionLost)
	}
	return nil, false
}

// dialAndHandshake establishes the connection and completes the hello/
// welcome exchange that assigns the session identifier.
func (m *Manager) dialAndHandshake(ctx context.Context) (types.Conn, error) {
	conn, err := m.dial(ctx, m.cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", m.cfg.Endpoint, err)
	}

	hello, err := json.Marshal(types.HelloBody{InstanceID: m.instanceID, Username: m.username})
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := conn.WriteJSON(types.Frame{Type: types.FrameHello, Body: hello}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("send hello: %w", err)
	}

	welcome, err := readFrameTimeout(conn, m.cfg.HandshakeTimeout)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("handshake: %w", err)
	}
	if welcome.Type != types.FrameWelcome || welcome.SessionID == "" {
		conn.Close()
		return nil, fmt.Errorf("handshake: expected welcome frame, got %q", welcome.Type)
	}

	m.mu.Lock()
	m.sessionID = welcome.SessionID
	m.lastBeat = time.Now()
	m.mu.Unlock()

	m.logger.Info().Str("session_id", welcome.SessionID).Msg("connected")
	return conn, nil
}

// readFrameTimeout reads a single frame, bounded by the handshake
// timeout. The Conn interface carries no deadlines, so the read runs
// on its own goroutine; on timeout the connection is abandoned and
// the goroutine unblocks when the caller closes it.
func readFrameTimeout(conn types.Conn, timeout time.Duration) (types.Frame, error) {
	type result struct {
		frame types.Frame
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		var f types.Frame
		err := conn.ReadJSON(&f)
		ch <- result{f, err}
	}()

	select {
	case r := <-ch:
		return r.frame, r.err
	case <-time.After(timeout):
		return types.Frame{}, errors.New("timed out waiting for welcome")
	}
}
