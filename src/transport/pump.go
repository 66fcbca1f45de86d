package transport

import (
	"context"
	"sync"
	"time"

	"github.com/scrawlparty/client/src/types"
)

// pump drives an established connection until it drops or the context
// is cancelled. Returns true when the connection dropped and a
// reconnect cycle should follow.
func (m *Manager) pump(ctx context.Context, conn types.Conn) bool {
	sendCh := make(chan types.Frame, 256)
	m.mu.Lock()
	m.sendCh = sendCh
	m.lastBeat = time.Now()
	m.mu.Unlock()

	m.setState(Connected)
	if m.onReady != nil {
		m.onReady(m.SessionID())
	}

	done := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		m.writePump(conn, sendCh, done)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		m.monitor(conn, done)
	}()

	if m.pinger != nil && m.cfg.KeepAliveInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.keepAlive(ctx, done)
		}()
	}

	// Unblock the read loop when the caller cancels.
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	m.readPump(conn, sendCh, done)

	close(done)
	conn.Close()
	wg.Wait()

	m.mu.Lock()
	m.sendCh = nil
	m.mu.Unlock()

	return ctx.Err() == nil
}

// readPump delivers inbound frames to the registered sink. Any frame,
// heartbeat or not, counts as proof of life.
func (m *Manager) readPump(conn types.Conn, sendCh chan types.Frame, done chan struct{}) {
	for {
		var f types.Frame
		if err := conn.ReadJSON(&f); err != nil {
			select {
			case <-done:
			default:
				m.logger.Debug().Err(err).Msg("read loop ended")
			}
			return
		}

		m.mu.Lock()
		m.lastBeat = time.Now()
		m.mu.Unlock()

		switch f.Type {
		case types.FramePing:
			select {
			case sendCh <- types.Frame{Type: types.FramePong}:
			default:
			}
		case types.FramePong:
			// Heartbeat ack, nothing to deliver.
		default:
			if m.onFrame != nil {
				m.onFrame(f)
			}
		}
	}
}

// writePump is the single writer for the connection. Outbound frames
// and heartbeat pings share one goroutine so stream order is never
// corrupted by concurrent writers.
func (m *Manager) writePump(conn types.Conn, sendCh chan types.Frame, done chan struct{}) {
	ticker := time.NewTicker(m.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case f := <-sendCh:
			if err := conn.WriteJSON(f); err != nil {
				m.logger.Debug().Err(err).Msg("write failed")
				conn.Close()
				return
			}
		case <-ticker.C:
			if err := conn.WriteJSON(types.Frame{Type: types.FramePing}); err != nil {
				conn.Close()
				return
			}
		case <-done:
			return
		}
	}
}

// monitor treats heartbeat silence longer than two intervals as a
// silent disconnect and closes the connection, which unblocks the
// read loop and triggers the reconnect cycle.
func (m *Manager) monitor(conn types.Conn, done chan struct{}) {
	ticker := time.NewTicker(m.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			silent := time.Since(m.lastBeat) > 2*m.cfg.HeartbeatInterval
			m.mu.Unlock()
			if silent {
				m.logger.Warn().Msg("heartbeat silence, closing connection")
				conn.Close()
				return
			}
		case <-done:
			return
		}
	}
}

// keepAlive runs the cheap HTTP ping side channel while the connection
// is up. It self-cancels the moment the connection is confirmed closed.
func (m *Manager) keepAlive(ctx context.Context, done chan struct{}) {
	ticker := time.NewTicker(m.cfg.KeepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := m.pinger.Ping(ctx); err != nil {
				m.logger.Debug().Err(err).Msg("keep-alive ping failed")
			}
		case <-done:
			return
		case <-ctx.Done():
			return
		}
	}
}
