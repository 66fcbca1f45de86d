package draw

import (
	"github.com/rs/zerolog"

	"github.com/scrawlparty/client/src/types"
)

// Canvas is the rendering seam. The visual layer implements it; the
// protocol side never touches pixels directly, which keeps the whole
// package testable without a graphics surface.
type Canvas interface {
	// Size returns the current pixel dimensions.
	Size() (width, height int)
	// StrokeLine draws one segment in pixel coordinates.
	StrokeLine(x1, y1, x2, y2 float64, color string, lineWidth float64)
	// Fill paints the whole surface in one color.
	Fill(color string)
}

// Board owns the replayable draw history of one room and mirrors it
// onto a canvas. History is append-only during a turn and truncated
// to empty whenever a clear is applied; replaying it from an empty
// white surface reproduces the canvas deterministically.
type Board struct {
	history []types.DrawEvent
	logger  zerolog.Logger
}

// NewBoard creates an empty board.
func NewBoard(logger zerolog.Logger) *Board {
	return &Board{logger: logger.With().Str("component", "board").Logger()}
}

// Apply mutates the canvas with one event and records it. A clear
// empties the history first: last-clear-wins, so late strokes from
// before an observed clear never resurrect discarded history.
// Malformed events (coordinates outside the grid) are dropped.
func (b *Board) Apply(evt types.DrawEvent, canvas Canvas) {
	if evt.IsClear() {
		b.history = b.history[:0]
		canvas.Fill(White)
		return
	}
	if !evt.InGrid() {
		b.logger.Warn().
			Int("prevX", evt.PrevX).Int("prevY", evt.PrevY).
			Int("currX", evt.CurrX).Int("currY", evt.CurrY).
			Msg("dropping stroke outside grid")
		return
	}

	b.history = append(b.history, evt)
	b.render(evt, canvas)
}

// LoadHistory replaces the board contents wholesale, e.g. from a
// snapshot-embedded backlog on a late join, and redraws the canvas.
func (b *Board) LoadHistory(events []types.DrawEvent, canvas Canvas) {
	b.history = b.history[:0]
	for _, evt := range events {
		if evt.IsClear() {
			b.history = b.history[:0]
			continue
		}
		if evt.InGrid() {
			b.history = append(b.history, evt)
		}
	}
	b.Replay(canvas)
}

// Replay rebuilds the canvas deterministically from an empty white
// surface. Call it whenever the pixel dimensions change or after a
// rejoin delivered existing history. A degenerate canvas is ignored.
func (b *Board) Replay(canvas Canvas) {
	w, h := canvas.Size()
	if w <= 0 || h <= 0 {
		b.logger.Debug().Int("width", w).Int("height", h).Msg("skipping replay on degenerate canvas")
		return
	}

	canvas.Fill(White)
	for _, evt := range b.history {
		b.render(evt, canvas)
	}
}

// Reset empties the history without touching the canvas. Used when a
// new turn begins server-side.
func (b *Board) Reset() {
	b.history = b.history[:0]
}

// History returns a copy of the current event log.
func (b *Board) History() []types.DrawEvent {
	out := make([]types.DrawEvent, len(b.history))
	copy(out, b.history)
	return out
}

// Len returns the number of buffered events.
func (b *Board) Len() int { return len(b.history) }

func (b *Board) render(evt types.DrawEvent, canvas Canvas) {
	w, h := canvas.Size()
	seg, err := DecodeStroke(evt, w, h)
	if err != nil {
		b.logger.Debug().Err(err).Msg("skipping stroke render")
		return
	}
	canvas.StrokeLine(seg.PrevX, seg.PrevY, seg.CurrX, seg.CurrY, evt.Color, float64(evt.LineWidth))
}
