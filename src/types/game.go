package types

// Draw message discriminators.
const (
	DrawTypeStroke = "DRAW"
	DrawTypeClear  = "CLEAR"
)

// GridMax is the upper bound of the resolution-independent coordinate
// space. All stroke coordinates live in [0, GridMax] regardless of the
// pixel size of the canvas they were drawn on.
const GridMax = 1000

// DrawEvent is a single wire-level drawing action: either a stroke
// segment in grid coordinates or a whole-canvas clear.
type DrawEvent struct {
	Type      string `json:"type"`
	PrevX     int    `json:"prevX,omitempty"`
	PrevY     int    `json:"prevY,omitempty"`
	CurrX     int    `json:"currX,omitempty"`
	CurrY     int    `json:"currY,omitempty"`
	Color     string `json:"color,omitempty"`
	LineWidth int    `json:"lineWidth,omitempty"`
}

// IsClear reports whether the event wipes the canvas.
func (e DrawEvent) IsClear() bool { return e.Type == DrawTypeClear }

// InGrid reports whether every coordinate lies inside the virtual grid.
func (e DrawEvent) InGrid() bool {
	for _, c := range [4]int{e.PrevX, e.PrevY, e.CurrX, e.CurrY} {
		if c < 0 || c > GridMax {
			return false
		}
	}
	return true
}

// Chat message kinds.
const (
	ChatTypeChat         = "CHAT"
	ChatTypeSystem       = "SYSTEM"
	ChatTypeJoin         = "JOIN"
	ChatTypeGuessCorrect = "GUESS_CORRECT"
)

// ChatMessage is a chat or system line in a room.
type ChatMessage struct {
	Type    string `json:"type"`
	Sender  string `json:"sender,omitempty"`
	Content string `json:"content"`
}

// Player is one room member. SessionID is the stable correlation key;
// usernames are not unique.
type Player struct {
	SessionID string `json:"sessionId"`
	Username  string `json:"username"`
	Score     int    `json:"score"`
}

// GameStateSnapshot is the authoritative room state broadcast by the
// server. Seq is a monotonic sequence number used to reject stale
// one-shot pulls; when the server omits it the reconciler assigns one
// locally in arrival order.
type GameStateSnapshot struct {
	RoomID  string   `json:"roomId"`
	Players []Player `json:"players"`

	// Lobby configuration echoed back by the server.
	Language           string   `json:"language,omitempty"`
	ScoringMode        string   `json:"scoringMode,omitempty"`
	DrawingTime        int      `json:"drawingTime,omitempty"`
	MaxPlayers         int      `json:"maxPlayers,omitempty"`
	PlayersPerIPLimit  int      `json:"playersPerIpLimit,omitempty"`
	CustomWordsPerTurn int      `json:"customWordsPerTurn,omitempty"`
	CustomWords        []string `json:"customWords,omitempty"`
	Private            bool     `json:"isPrivate,omitempty"`
	LobbyName          string   `json:"lobbyName,omitempty"`

	// Turn state.
	CurrentWord            string `json:"currentWord,omitempty"` // revealed to the drawer only
	HintWord               string `json:"hintWord,omitempty"`    // masked form for everyone else
	CurrentDrawerSessionID string `json:"currentDrawerSessionId,omitempty"`
	RoundTime              int    `json:"roundTime,omitempty"`
	GameRunning            bool   `json:"gameRunning"`
	CurrentRound           int    `json:"currentRound,omitempty"`
	MaxRounds              int    `json:"maxRounds,omitempty"`
	GameOver               bool   `json:"gameOver,omitempty"`

	// Optional extras for the drawer and for late joiners.
	WordChoices []string    `json:"wordChoices,omitempty"`
	DrawHistory []DrawEvent `json:"drawHistory,omitempty"`

	Seq uint64 `json:"seq,omitempty"`
}

// PlayerBySessionID finds a room member by session ID, or nil.
func (s *GameStateSnapshot) PlayerBySessionID(sessionID string) *Player {
	for i := range s.Players {
		if s.Players[i].SessionID == sessionID {
			return &s.Players[i]
		}
	}
	return nil
}

// WordChoicePayload is the drawer's word selection.
type WordChoicePayload struct {
	Word string `json:"word"`
}
