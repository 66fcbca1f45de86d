package intent

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/scrawlparty/client/src/game"
	"github.com/scrawlparty/client/src/types"
)

// Sender publishes a body to an app destination. The router satisfies it.
type Sender interface {
	Send(dest string, body any) error
}

// Emitter translates local user actions into outbound protocol
// messages. Every intent is role-gated against the reconciled state:
// only the drawer may draw or clear, and the drawer may never guess.
// Violations are absorbed silently, never sent. All sends are
// fire-and-forget; the authoritative echo comes back on the normal
// subscription topics.
type Emitter struct {
	sender Sender
	state  *game.Reconciler
	logger zerolog.Logger

	mu       sync.RWMutex
	roomID   string
	username string
}

// New creates an emitter bound to a sender and the reconciled state.
func New(sender Sender, state *game.Reconciler, logger zerolog.Logger) *Emitter {
	return &Emitter{
		sender: sender,
		state:  state,
		logger: logger.With().Str("component", "intent").Logger(),
	}
}

// SetRoom binds the emitter to a room and username. Called on join,
// cleared on leave.
func (e *Emitter) SetRoom(roomID, username string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.roomID = roomID
	e.username = username
}

func (e *Emitter) room() (string, string) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.roomID, e.username
}

// Join sends a join request for an existing room.
func (e *Emitter) Join(roomID, username string) error {
	return e.sender.Send(types.JoinDest(), types.JoinRequest{
		Username: username,
		RoomID:   roomID,
		Action:   types.ActionJoin,
	})
}

// Create sends a create request with the full lobby configuration.
// The configuration is validated before anything hits the wire.
func (e *Emitter) Create(roomID, username string, cfg *types.RoomConfig) error {
	if cfg == nil {
		cfg = types.DefaultRoomConfig()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return e.sender.Send(types.JoinDest(), types.JoinRequest{
		Username: username,
		RoomID:   roomID,
		Action:   types.ActionCreate,
		Config:   cfg,
	})
}

// Stroke emits one stroke segment, drawer only. Coordinates outside
// the virtual grid never reach the wire.
func (e *Emitter) Stroke(evt types.DrawEvent) error {
	roomID, _ := e.room()
	if roomID == "" || !e.canDraw() {
		e.logger.Debug().Msg("suppressing stroke: not the drawer")
		return nil
	}
	if !evt.InGrid() {
		e.logger.Warn().
			Int("prevX", evt.PrevX).Int("prevY", evt.PrevY).
			Int("currX", evt.CurrX).Int("currY", evt.CurrY).
			Msg("dropping stroke outside grid")
		return nil
	}
	evt.Type = types.DrawTypeStroke
	return e.sender.Send(types.DrawDest(roomID), evt)
}

// Clear emits a whole-canvas clear, drawer only.
func (e *Emitter) Clear() error {
	roomID, _ := e.room()
	if roomID == "" || !e.canDraw() {
		e.logger.Debug().Msg("suppressing clear: not the drawer")
		return nil
	}
	return e.sender.Send(types.DrawDest(roomID), types.DrawEvent{Type: types.DrawTypeClear})
}

// Chat emits a chat guess. The drawer cannot guess; empty input and
// input after game over are dropped.
func (e *Emitter) Chat(content string) error {
	roomID, username := e.room()
	content = strings.TrimSpace(content)
	if roomID == "" || content == "" {
		return nil
	}
	if e.state.IsDrawer() || e.state.GameOver() {
		e.logger.Debug().Msg("suppressing chat: drawer or game over")
		return nil
	}
	return e.sender.Send(types.ChatDest(roomID), types.ChatMessage{
		Type:    types.ChatTypeChat,
		Sender:  username,
		Content: content,
	})
}

// StartGame asks the server to begin the game.
func (e *Emitter) StartGame() error {
	roomID, _ := e.room()
	if roomID == "" || e.state.GameOver() {
		return nil
	}
	return e.sender.Send(types.StartDest(roomID), struct{}{})
}

// ChooseWord submits the drawer's word selection.
func (e *Emitter) ChooseWord(word string) error {
	roomID, _ := e.room()
	if roomID == "" || !e.state.IsDrawer() {
		e.logger.Debug().Msg("suppressing word choice: not the drawer")
		return nil
	}
	return e.sender.Send(types.ChooseWordDest(roomID), types.WordChoicePayload{Word: word})
}

func (e *Emitter) canDraw() bool {
	return e.state.IsDrawer() && !e.state.GameOver()
}
