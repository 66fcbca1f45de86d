package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/scrawlparty/client/config"
	"github.com/scrawlparty/client/src/api"
	"github.com/scrawlparty/client/src/draw"
	"github.com/scrawlparty/client/src/game"
	"github.com/scrawlparty/client/src/intent"
	"github.com/scrawlparty/client/src/router"
	"github.com/scrawlparty/client/src/transport"
	"github.com/scrawlparty/client/src/types"
)

// Session is the single owner of all client-side game state: one
// transport connection, the channel router on top of it, the draw
// board, the reconciled game state, and the intent emitter. The
// rendering collaborator reads views and registers callbacks; it never
// mutates anything directly.
type Session struct {
	cfg    *config.EngineConfig
	logger zerolog.Logger

	transport *transport.Manager
	router    *router.Router
	api       *api.Client
	board     *draw.Board
	game      *game.Reconciler
	intents   *intent.Emitter
	canvas    draw.Canvas

	mu        sync.Mutex
	username  string
	roomID    string
	pullTimer *time.Timer
	messages  []types.ChatMessage
	onChat    func(types.ChatMessage)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New assembles a session for one player. A nil canvas runs the
// session headless, which is how the tests and bot clients use it.
// Extra transport options are forwarded to the connection manager.
func New(cfg *config.EngineConfig, username string, canvas draw.Canvas, logger zerolog.Logger, opts ...transport.Option) *Session {
	if canvas == nil {
		canvas = nopCanvas{}
	}

	s := &Session{
		cfg:      cfg,
		logger:   logger.With().Str("component", "session").Logger(),
		canvas:   canvas,
		username: username,
	}

	apiClient := api.NewClient(cfg.APIBase, logger)
	s.api = apiClient
	transportOpts := append([]transport.Option{
		transport.WithUsername(username),
		transport.WithPinger(apiClient),
	}, opts...)
	s.transport = transport.New(cfg, logger, transportOpts...)
	s.router = router.New(s.transport, logger)
	s.board = draw.NewBoard(logger)
	s.game = game.New(logger)
	s.intents = intent.New(s.router, s.game, logger)

	s.transport.OnFrame(s.router.Dispatch)
	s.transport.OnStateChange(s.router.HandleStateChange)
	s.transport.OnReady(s.game.SetSessionID)
	// The resync hook fires on the connection loop; the pull goes to
	// the background so a slow HTTP round trip never stalls the pump.
	s.router.OnResync(func() { go s.pullState() })

	return s
}

// Start connects the session. The caller owns the context; cancelling
// it tears the connection down.
func (s *Session) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.ctx = runCtx
	s.cancel = cancel
	s.mu.Unlock()

	if err := s.transport.Connect(runCtx); err != nil {
		cancel()
		return err
	}

	// Local 1 Hz countdown between authoritative timer ticks.
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.game.TickDown()
			case <-runCtx.Done():
				return
			}
		}
	}()
	return nil
}

// Close leaves the current room and shuts the connection down.
func (s *Session) Close() {
	s.LeaveRoom()

	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.transport.Disconnect()
	s.wg.Wait()
}

// CreateRoom creates a room with the given lobby configuration and
// enters it.
func (s *Session) CreateRoom(roomID string, roomCfg *types.RoomConfig) error {
	if err := s.enterRoom(roomID); err != nil {
		return err
	}
	return s.intents.Create(roomID, s.username, roomCfg)
}

// JoinRoom joins an existing room by its code.
func (s *Session) JoinRoom(roomID string) error {
	if err := s.enterRoom(roomID); err != nil {
		return err
	}
	return s.intents.Join(roomID, s.username)
}

func (s *Session) enterRoom(roomID string) error {
	s.LeaveRoom()

	s.mu.Lock()
	s.roomID = roomID
	s.mu.Unlock()
	s.intents.SetRoom(roomID, s.username)

	s.router.Subscribe(types.DrawTopic(roomID), s.handleDrawFrame)
	s.router.Subscribe(types.ChatTopic(roomID), s.handleChatFrame)
	s.router.Subscribe(types.StateTopic(roomID), s.handleStateFrame)
	s.router.Subscribe(types.TimeTopic(roomID), s.handleTimeFrame)
	s.router.Subscribe(types.QueueDraw, s.handleDrawFrame)
	s.router.Subscribe(types.QueueErrors, s.handleChatFrame)

	// The push snapshot may land after the room screen mounts, so a
	// one-shot pull runs shortly after joining as a fallback.
	s.mu.Lock()
	s.pullTimer = time.AfterFunc(s.cfg.PullDelay, s.pullState)
	s.mu.Unlock()

	s.logger.Info().Str("room_id", roomID).Msg("entered room")
	return nil
}

// LeaveRoom tears down every room-scoped subscription and resets the
// room state. Safe to call when not in a room.
func (s *Session) LeaveRoom() {
	s.mu.Lock()
	roomID := s.roomID
	s.roomID = ""
	if s.pullTimer != nil {
		s.pullTimer.Stop()
		s.pullTimer = nil
	}
	s.messages = nil
	s.mu.Unlock()

	if roomID == "" {
		return
	}

	s.router.UnsubscribeAll()
	s.game.Reset()
	s.board.Reset()
	s.intents.SetRoom("", s.username)
	s.logger.Info().Str("room_id", roomID).Msg("left room")
}

// pullState fetches the current snapshot over HTTP. It runs after a
// join and after every reconnect-triggered resubscription; a result
// older than local state is discarded by the reconciler.
func (s *Session) pullState() {
	s.mu.Lock()
	roomID := s.roomID
	ctx := s.ctx
	s.mu.Unlock()
	if roomID == "" || ctx == nil {
		return
	}

	watermark := s.game.BeginPull()
	snap, err := s.api.RoomState(ctx, roomID)
	if err != nil {
		s.logger.Warn().Err(err).Str("room_id", roomID).Msg("state pull failed")
		return
	}
	if s.game.ApplyPulled(snap, watermark) && len(snap.DrawHistory) > 0 {
		s.board.LoadHistory(snap.DrawHistory, s.canvas)
	}
}

func (s *Session) handleDrawFrame(f types.Frame) {
	var evt types.DrawEvent
	if err := json.Unmarshal(f.Body, &evt); err != nil {
		s.logger.Warn().Err(err).Str("topic", f.Topic).Msg("dropping malformed draw event")
		return
	}
	s.board.Apply(evt, s.canvas)
}

func (s *Session) handleChatFrame(f types.Frame) {
	var msg types.ChatMessage
	if err := json.Unmarshal(f.Body, &msg); err != nil {
		s.logger.Warn().Err(err).Str("topic", f.Topic).Msg("dropping malformed chat message")
		return
	}

	s.mu.Lock()
	s.messages = append(s.messages, msg)
	onChat := s.onChat
	s.mu.Unlock()

	if onChat != nil {
		onChat(msg)
	}
}

func (s *Session) handleStateFrame(f types.Frame) {
	var snap types.GameStateSnapshot
	if err := json.Unmarshal(f.Body, &snap); err != nil {
		s.logger.Warn().Err(err).Msg("dropping malformed snapshot")
		return
	}
	// A rejected stale snapshot must not touch the board either.
	if s.game.ApplySnapshot(&snap) && len(snap.DrawHistory) > 0 {
		s.board.LoadHistory(snap.DrawHistory, s.canvas)
	}
}

func (s *Session) handleTimeFrame(f types.Frame) {
	var seconds int
	if err := json.Unmarshal(f.Body, &seconds); err != nil {
		s.logger.Warn().Err(err).Msg("dropping malformed timer tick")
		return
	}
	s.game.ApplyTimerTick(seconds)
}

// nopCanvas is the headless rendering target.
type nopCanvas struct{}

func (nopCanvas) Size() (int, int)                                   { return 0, 0 }
func (nopCanvas) StrokeLine(_, _, _, _ float64, _ string, _ float64) {}
func (nopCanvas) Fill(string)                                        {}
