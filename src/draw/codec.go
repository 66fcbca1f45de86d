package draw

import (
	"errors"
	"math"

	"github.com/scrawlparty/client/src/types"
)

// ErrDegenerateCanvas rejects encode/decode against a zero-dimension
// canvas. Layout races can briefly report a 0x0 surface; applying it
// would corrupt the history replay, so those reads are ignored.
var ErrDegenerateCanvas = errors.New("canvas has zero dimension")

// White is the background color of an empty canvas. The eraser is an
// ordinary stroke in this color.
const White = "#FFFFFF"

// PixelSegment is a stroke segment in the pixel space of a concrete
// canvas, before normalization.
type PixelSegment struct {
	PrevX, PrevY float64
	CurrX, CurrY float64
}

// EncodeStroke maps a pixel segment onto the 0-1000 virtual grid:
// round(clamp(coord, 0, dim) / dim * 1000). Precision below 1/1000 of
// the canvas extent is not preserved; that is the accepted bound.
func EncodeStroke(seg PixelSegment, width, height int, color string, lineWidth int) (types.DrawEvent, error) {
	if width <= 0 || height <= 0 {
		return types.DrawEvent{}, ErrDegenerateCanvas
	}
	return types.DrawEvent{
		Type:      types.DrawTypeStroke,
		PrevX:     toGrid(seg.PrevX, width),
		PrevY:     toGrid(seg.PrevY, height),
		CurrX:     toGrid(seg.CurrX, width),
		CurrY:     toGrid(seg.CurrY, height),
		Color:     color,
		LineWidth: lineWidth,
	}, nil
}

// DecodeStroke is the inverse mapping, onto a canvas of the given
// pixel dimensions.
func DecodeStroke(evt types.DrawEvent, width, height int) (PixelSegment, error) {
	if width <= 0 || height <= 0 {
		return PixelSegment{}, ErrDegenerateCanvas
	}
	return PixelSegment{
		PrevX: fromGrid(evt.PrevX, width),
		PrevY: fromGrid(evt.PrevY, height),
		CurrX: fromGrid(evt.CurrX, width),
		CurrY: fromGrid(evt.CurrY, height),
	}, nil
}

func toGrid(coord float64, dim int) int {
	c := math.Max(0, math.Min(coord, float64(dim)))
	return int(math.Round(c / float64(dim) * types.GridMax))
}

func fromGrid(grid int, dim int) float64 {
	return float64(grid) / types.GridMax * float64(dim)
}
