package session

import (
	"context"
	"errors"

	"github.com/scrawlparty/client/src/draw"
	"github.com/scrawlparty/client/src/game"
	"github.com/scrawlparty/client/src/transport"
	"github.com/scrawlparty/client/src/types"
)

// DrawStroke encodes a pixel segment against the current canvas size,
// renders it locally for responsiveness, and emits it. Non-drawers and
// degenerate canvas reads produce nothing. The history entry comes
// from the authoritative echo on the draw topic, not from here, so the
// log never holds duplicates.
func (s *Session) DrawStroke(seg draw.PixelSegment, color string, lineWidth int) error {
	if !s.game.IsDrawer() || s.game.GameOver() {
		return nil
	}
	w, h := s.canvas.Size()
	evt, err := draw.EncodeStroke(seg, w, h, color, lineWidth)
	if err != nil {
		if errors.Is(err, draw.ErrDegenerateCanvas) {
			return nil
		}
		return err
	}

	s.canvas.StrokeLine(seg.PrevX, seg.PrevY, seg.CurrX, seg.CurrY, color, float64(lineWidth))
	return s.intents.Stroke(evt)
}

// ClearCanvas wipes the canvas locally and emits the clear, drawer only.
func (s *Session) ClearCanvas() error {
	if !s.game.IsDrawer() || s.game.GameOver() {
		return nil
	}
	s.canvas.Fill(draw.White)
	return s.intents.Clear()
}

// Chat submits a guess or chat line; suppressed for the drawer.
func (s *Session) Chat(content string) error {
	return s.intents.Chat(content)
}

// StartGame asks the server to start the game in the current room.
func (s *Session) StartGame() error {
	return s.intents.StartGame()
}

// ChooseWord submits the drawer's word selection.
func (s *Session) ChooseWord(word string) error {
	return s.intents.ChooseWord(word)
}

// Resize replays the full draw history against the canvas's new pixel
// dimensions. Call whenever the container size changes.
func (s *Session) Resize() {
	s.board.Replay(s.canvas)
}

// State returns the current reconciled game view.
func (s *Session) State() game.ReconciledState {
	return s.game.View()
}

// Leaderboard returns the players ordered by descending score.
func (s *Session) Leaderboard() []types.Player {
	return s.game.Leaderboard()
}

// Messages returns a copy of the chat feed for the current room.
func (s *Session) Messages() []types.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// SessionID returns the server-assigned session identifier.
func (s *Session) SessionID() string {
	return s.transport.SessionID()
}

// ConnectionState returns the transport state for connectivity display.
func (s *Session) ConnectionState() transport.State {
	return s.transport.State()
}

// Rooms pulls the public room listing for the lobby browser.
func (s *Session) Rooms(ctx context.Context) ([]types.RoomInfo, error) {
	return s.api.ListRooms(ctx)
}

// OnChat registers the callback invoked for every inbound chat line.
func (s *Session) OnChat(cb func(types.ChatMessage)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChat = cb
}

// OnConnectionState registers a connectivity observer.
func (s *Session) OnConnectionState(cb func(transport.State)) {
	s.transport.OnStateChange(cb)
}

// OnFatal registers the callback for terminal connection loss, the
// only transport failure that is surfaced to the user.
func (s *Session) OnFatal(cb func(error)) {
	s.transport.OnFatal(cb)
}
