package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawEventClassification(t *testing.T) {
	assert.True(t, DrawEvent{Type: DrawTypeClear}.IsClear())
	assert.False(t, DrawEvent{Type: DrawTypeStroke}.IsClear())
}

func TestDrawEventInGrid(t *testing.T) {
	assert.True(t, DrawEvent{PrevX: 0, PrevY: 0, CurrX: 1000, CurrY: 1000}.InGrid())
	assert.False(t, DrawEvent{PrevX: -1}.InGrid())
	assert.False(t, DrawEvent{CurrY: 1001}.InGrid())
}

func TestPlayerBySessionID(t *testing.T) {
	snap := GameStateSnapshot{
		Players: []Player{
			{SessionID: "S1", Username: "alice"},
			{SessionID: "S2", Username: "bob"},
		},
	}

	p := snap.PlayerBySessionID("S2")
	require.NotNil(t, p)
	assert.Equal(t, "bob", p.Username)

	assert.Nil(t, snap.PlayerBySessionID("S9"))
}

func TestSnapshotDecodesServerPayload(t *testing.T) {
	payload := `{
		"roomId": "482913",
		"players": [{"sessionId": "S1", "username": "alice", "score": 120}],
		"currentDrawerSessionId": "S1",
		"hintWord": "_ _ _ _",
		"roundTime": 60,
		"gameRunning": true,
		"currentRound": 2,
		"maxRounds": 4,
		"drawHistory": [{"type": "DRAW", "prevX": 1, "prevY": 2, "currX": 3, "currY": 4, "color": "#000000", "lineWidth": 5}]
	}`

	var snap GameStateSnapshot
	require.NoError(t, json.Unmarshal([]byte(payload), &snap))

	assert.Equal(t, "482913", snap.RoomID)
	assert.Equal(t, "S1", snap.CurrentDrawerSessionID)
	assert.True(t, snap.GameRunning)
	assert.Equal(t, uint64(0), snap.Seq)
	require.Len(t, snap.DrawHistory, 1)
	assert.Equal(t, 4, snap.DrawHistory[0].CurrY)
}
