package draw

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrawlparty/client/src/types"
)

func TestEncodeStrokeMapsToGrid(t *testing.T) {
	seg := PixelSegment{PrevX: 400, PrevY: 300, CurrX: 800, CurrY: 600}

	evt, err := EncodeStroke(seg, 800, 600, "#000000", 5)
	require.NoError(t, err)

	assert.Equal(t, types.DrawTypeStroke, evt.Type)
	assert.Equal(t, 500, evt.PrevX)
	assert.Equal(t, 500, evt.PrevY)
	assert.Equal(t, 1000, evt.CurrX)
	assert.Equal(t, 1000, evt.CurrY)
	assert.Equal(t, "#000000", evt.Color)
	assert.Equal(t, 5, evt.LineWidth)
}

func TestEncodeStrokeClampsOutOfBounds(t *testing.T) {
	seg := PixelSegment{PrevX: -50, PrevY: -1, CurrX: 900, CurrY: 601}

	evt, err := EncodeStroke(seg, 800, 600, "#000000", 3)
	require.NoError(t, err)

	assert.Equal(t, 0, evt.PrevX)
	assert.Equal(t, 0, evt.PrevY)
	assert.Equal(t, 1000, evt.CurrX)
	assert.Equal(t, 1000, evt.CurrY)
	assert.True(t, evt.InGrid())
}

func TestRoundTripWithinOnePixelBound(t *testing.T) {
	width, height := 800, 600
	segs := []PixelSegment{
		{PrevX: 0, PrevY: 0, CurrX: 799, CurrY: 599},
		{PrevX: 123.4, PrevY: 456.7, CurrX: 12.3, CurrY: 598.9},
		{PrevX: 400, PrevY: 300, CurrX: 401, CurrY: 301},
	}

	// One grid unit covers dim/1000 pixels; that is the precision bound.
	tolX := float64(width) / types.GridMax
	tolY := float64(height) / types.GridMax

	for _, seg := range segs {
		evt, err := EncodeStroke(seg, width, height, "#FF0000", 2)
		require.NoError(t, err)
		back, err := DecodeStroke(evt, width, height)
		require.NoError(t, err)

		assert.InDelta(t, seg.PrevX, back.PrevX, tolX)
		assert.InDelta(t, seg.PrevY, back.PrevY, tolY)
		assert.InDelta(t, seg.CurrX, back.CurrX, tolX)
		assert.InDelta(t, seg.CurrY, back.CurrY, tolY)
	}
}

func TestDecodeScalesAcrossResolutions(t *testing.T) {
	seg := PixelSegment{PrevX: 250, PrevY: 250, CurrX: 750, CurrY: 750}
	evt, err := EncodeStroke(seg, 1000, 1000, "#000000", 1)
	require.NoError(t, err)

	// Same grid event rendered on a half-size canvas lands at half
	// the pixel coordinates.
	back, err := DecodeStroke(evt, 500, 500)
	require.NoError(t, err)

	assert.InDelta(t, 125, back.PrevX, 0.5)
	assert.InDelta(t, 125, back.PrevY, 0.5)
	assert.InDelta(t, 375, back.CurrX, 0.5)
	assert.InDelta(t, 375, back.CurrY, 0.5)
}

func TestEncodeRejectsDegenerateCanvas(t *testing.T) {
	seg := PixelSegment{PrevX: 10, PrevY: 10, CurrX: 20, CurrY: 20}

	_, err := EncodeStroke(seg, 0, 600, "#000000", 1)
	assert.ErrorIs(t, err, ErrDegenerateCanvas)

	_, err = EncodeStroke(seg, 800, 0, "#000000", 1)
	assert.ErrorIs(t, err, ErrDegenerateCanvas)
}

func TestDecodeRejectsDegenerateCanvas(t *testing.T) {
	evt := types.DrawEvent{Type: types.DrawTypeStroke, CurrX: 500, CurrY: 500}

	_, err := DecodeStroke(evt, 0, 0)
	assert.ErrorIs(t, err, ErrDegenerateCanvas)
}

func TestEncodeRoundsToNearestGridUnit(t *testing.T) {
	// 1.4 pixels on a 1000px canvas is grid 1, 1.6 is grid 2.
	seg := PixelSegment{PrevX: 1.4, PrevY: 1.6, CurrX: 999.4, CurrY: 999.6}

	evt, err := EncodeStroke(seg, 1000, 1000, "#000000", 1)
	require.NoError(t, err)

	assert.Equal(t, 1, evt.PrevX)
	assert.Equal(t, 2, evt.PrevY)
	assert.Equal(t, 999, evt.CurrX)
	assert.Equal(t, int(math.Round(999.6)), evt.CurrY)
}
