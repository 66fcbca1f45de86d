package types

// Room-scoped broadcast topics. Each room gets four independent streams;
// ordering is guaranteed within a topic, never across topics.
const (
	topicPrefix = "room/"

	// Per-session private queues, not room-parameterized.
	QueueDraw   = "user/queue/draw"
	QueueErrors = "user/queue/errors"
)

// DrawTopic names the stroke broadcast stream of a room.
func DrawTopic(roomID string) string { return topicPrefix + roomID + "/draw" }

// ChatTopic names the chat broadcast stream of a room.
func ChatTopic(roomID string) string { return topicPrefix + roomID + "/chat" }

// StateTopic names the snapshot broadcast stream of a room.
func StateTopic(roomID string) string { return topicPrefix + roomID + "/state" }

// TimeTopic names the timer tick stream of a room.
func TimeTopic(roomID string) string { return topicPrefix + roomID + "/time" }

// JoinDest is the app destination for join/create requests.
func JoinDest() string { return "app/join" }

// DrawDest is the app destination for stroke and clear intents.
func DrawDest(roomID string) string { return "app/draw/" + roomID }

// ChatDest is the app destination for chat guesses.
func ChatDest(roomID string) string { return "app/chat/" + roomID }

// StartDest is the app destination for starting the game.
func StartDest(roomID string) string { return "app/start/" + roomID }

// ChooseWordDest is the app destination for the drawer's word choice.
func ChooseWordDest(roomID string) string { return "app/chooseWord/" + roomID }
