package game

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/scrawlparty/client/src/types"
)

// fallbackHint is shown before the server reveals any word shape.
const fallbackHint = "_ _ _ _ _"

// Reconciler merges authoritative state snapshots with out-of-band
// timer ticks into one coherent view. Snapshots replace everything;
// timer ticks touch only the countdown, so the fast-changing field can
// never clobber the slow-changing ones or vice versa.
type Reconciler struct {
	logger zerolog.Logger

	mu        sync.RWMutex
	sessionID string
	snapshot  *types.GameStateSnapshot
	timer     int
	seq       uint64

	// roundEnded is set only by an authoritative zero tick. The local
	// countdown reaching zero never flips the phase on its own.
	roundEnded bool
}

// New creates an empty reconciler.
func New(logger zerolog.Logger) *Reconciler {
	return &Reconciler{logger: logger.With().Str("component", "game").Logger()}
}

// SetSessionID records the local session identity used for drawer and
// word-visibility decisions.
func (r *Reconciler) SetSessionID(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessionID = id
}

// ApplySnapshot installs a pushed snapshot. Snapshots without a server
// sequence number are assigned one locally in arrival order; a snapshot
// older than the recorded sequence is dropped. Returns whether it
// applied, so callers never act on a rejected snapshot's payload.
func (r *Reconciler) ApplySnapshot(s *types.GameStateSnapshot) bool {
	if s == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.apply(s)
}

// BeginPull marks the start of a one-shot state pull and returns the
// sequence watermark to hand back to ApplyPulled.
func (r *Reconciler) BeginPull() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.seq
}

// ApplyPulled installs the result of a one-shot pull, but only if no
// fresher push arrived since BeginPull. Returns whether it applied.
func (r *Reconciler) ApplyPulled(s *types.GameStateSnapshot, watermark uint64) bool {
	if s == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.seq != watermark {
		r.logger.Debug().
			Uint64("watermark", watermark).
			Uint64("seq", r.seq).
			Msg("discarding stale pull result")
		return false
	}
	return r.apply(s)
}

func (r *Reconciler) apply(s *types.GameStateSnapshot) bool {
	seq := s.Seq
	if seq == 0 {
		seq = r.seq + 1
	}
	if seq < r.seq {
		r.logger.Debug().Uint64("seq", s.Seq).Uint64("have", r.seq).Msg("dropping stale snapshot")
		return false
	}

	r.snapshot = s
	r.seq = seq

	// An absent or idle countdown leaves the prior timer untouched.
	if s.GameRunning && s.RoundTime > 0 {
		r.timer = s.RoundTime
		r.roundEnded = false
	}
	return true
}

// ApplyTimerTick installs an authoritative seconds-remaining value.
// Only the countdown changes; the rest of the snapshot stays put.
func (r *Reconciler) ApplyTimerTick(seconds int) {
	if seconds < 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timer = seconds
	r.roundEnded = seconds == 0
}

// TickDown advances the countdown locally by one second while a game
// runs. Pure UI smoothing between server ticks; any authoritative
// value overwrites it.
func (r *Reconciler) TickDown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.snapshot != nil && r.snapshot.GameRunning && r.timer > 0 {
		r.timer--
	}
}

// Seq returns the sequence number of the newest applied snapshot.
func (r *Reconciler) Seq() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.seq
}

// IsDrawer reports whether the local session holds the brush.
func (r *Reconciler) IsDrawer() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.isDrawerLocked()
}

func (r *Reconciler) isDrawerLocked() bool {
	return r.snapshot != nil &&
		r.sessionID != "" &&
		r.snapshot.CurrentDrawerSessionID == r.sessionID
}

// GameOver reports whether the room reached its terminal state. Once
// set, no input-producing action should be emitted until a new room
// or round begins.
func (r *Reconciler) GameOver() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot != nil && r.snapshot.GameOver
}

// Phase derives the current room phase from the latest snapshot.
func (r *Reconciler) Phase() Phase {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.phaseLocked()
}

func (r *Reconciler) phaseLocked() Phase {
	s := r.snapshot
	switch {
	case s == nil || (!s.GameRunning && !s.GameOver):
		return PhaseLobby
	case s.GameOver:
		return PhaseGameOver
	case r.isDrawerLocked() && len(s.WordChoices) > 0:
		return PhaseWordChoice
	case r.roundEnded:
		return PhaseRoundEnd
	default:
		return PhaseDrawing
	}
}

// ReconciledState is the read-only view handed to the rendering
// collaborator: the latest snapshot overlaid with the freshest timer.
type ReconciledState struct {
	RoomID                 string
	Players                []types.Player
	CurrentDrawerSessionID string
	IsDrawer               bool
	VisibleWord            string
	WordChoices            []string
	Timer                  int
	Round                  int
	MaxRounds              int
	Running                bool
	Over                   bool
	Phase                  Phase
	Seq                    uint64
}

// View builds the current reconciled view. The word is masked per
// viewer: the drawer sees the full word, everyone else the hint.
func (r *Reconciler) View() ReconciledState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	view := ReconciledState{
		Timer: r.timer,
		Phase: r.phaseLocked(),
		Seq:   r.seq,
	}
	s := r.snapshot
	if s == nil {
		view.VisibleWord = fallbackHint
		return view
	}

	view.RoomID = s.RoomID
	view.Players = append(view.Players, s.Players...)
	view.CurrentDrawerSessionID = s.CurrentDrawerSessionID
	view.IsDrawer = r.isDrawerLocked()
	view.WordChoices = append(view.WordChoices, s.WordChoices...)
	view.Round = s.CurrentRound
	view.MaxRounds = s.MaxRounds
	view.Running = s.GameRunning
	view.Over = s.GameOver

	if view.IsDrawer {
		view.VisibleWord = s.CurrentWord
	} else if s.HintWord != "" {
		view.VisibleWord = s.HintWord
	} else {
		view.VisibleWord = fallbackHint
	}
	return view
}

// Leaderboard returns the players ordered by descending score.
func (r *Reconciler) Leaderboard() []types.Player {
	r.mu.RLock()
	players := make([]types.Player, 0)
	if r.snapshot != nil {
		players = append(players, r.snapshot.Players...)
	}
	r.mu.RUnlock()

	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Score > players[j].Score
	})
	return players
}

// Reset drops all room state, e.g. when leaving a room.
func (r *Reconciler) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshot = nil
	r.timer = 0
	r.seq = 0
	r.roundEnded = false
}
