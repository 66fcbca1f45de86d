package types

import "fmt"

// Join actions.
const (
	ActionCreate = "create"
	ActionJoin   = "join"
)

// RoomConfig is the lobby configuration sent when creating a room.
type RoomConfig struct {
	Language           string   `json:"language"`
	ScoringMode        string   `json:"scoringMode"`
	DrawingTime        int      `json:"drawingTime"`
	Rounds             int      `json:"rounds"`
	MaxPlayers         int      `json:"maxPlayers"`
	PlayersPerIPLimit  int      `json:"playersPerIpLimit"`
	CustomWordsPerTurn int      `json:"customWordsPerTurn"`
	CustomWords        []string `json:"customWords"`
	Private            bool     `json:"isPrivate"`
	LobbyName          string   `json:"lobbyName"`
}

// Validate checks the server-enforced ranges so a bad form never makes
// it onto the wire.
func (c *RoomConfig) Validate() error {
	if c.DrawingTime < 30 || c.DrawingTime > 300 {
		return fmt.Errorf("drawing time %d out of range [30, 300]", c.DrawingTime)
	}
	if c.Rounds < 1 || c.Rounds > 10 {
		return fmt.Errorf("rounds %d out of range [1, 10]", c.Rounds)
	}
	if c.MaxPlayers < 2 || c.MaxPlayers > 50 {
		return fmt.Errorf("max players %d out of range [2, 50]", c.MaxPlayers)
	}
	if c.PlayersPerIPLimit < 1 || c.PlayersPerIPLimit > 10 {
		return fmt.Errorf("players per IP %d out of range [1, 10]", c.PlayersPerIPLimit)
	}
	if c.CustomWordsPerTurn < 0 || c.CustomWordsPerTurn > 5 {
		return fmt.Errorf("custom words per turn %d out of range [0, 5]", c.CustomWordsPerTurn)
	}
	return nil
}

// DefaultRoomConfig mirrors the server's lobby defaults.
func DefaultRoomConfig() *RoomConfig {
	return &RoomConfig{
		Language:           "English",
		ScoringMode:        "Chill",
		DrawingTime:        120,
		Rounds:             4,
		MaxPlayers:         24,
		PlayersPerIPLimit:  2,
		CustomWordsPerTurn: 3,
		CustomWords:        []string{},
	}
}

// JoinRequest is the create-or-join message sent to app/join.
// Config is present only when Action is "create".
type JoinRequest struct {
	Username string      `json:"username"`
	RoomID   string      `json:"roomId"`
	Action   string      `json:"action"`
	Config   *RoomConfig `json:"config,omitempty"`
}

// RoomInfo is one entry of the public room listing.
type RoomInfo struct {
	RoomID      string   `json:"roomId"`
	LobbyName   string   `json:"lobbyName"`
	Players     []Player `json:"players"`
	MaxPlayers  int      `json:"maxPlayers"`
	DrawingTime int      `json:"drawingTime"`
	MaxRounds   int      `json:"maxRounds"`
}
