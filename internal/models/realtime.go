package models

// Event types carried over the realtime channel.
const (
	EventJoin  = "join"
	EventMsg   = "msg"
	EventError = "error"
)

// Event is the envelope exchanged with WebSocket clients.
//
// Client → server: {"type":"join","room":"MIT"} and
// {"type":"msg","room":"MIT","text":"hi","username":"owl"}.
// Server → client: {"type":"msg","room":"MIT","message":{...}} and
// {"type":"error","error":"..."}.
type Event struct {
	Type     string       `json:"type"`
	Room     string       `json:"room,omitempty"`
	Text     string       `json:"text,omitempty"`
	Username string       `json:"username,omitempty"`
	Message  *ChatMessage `json:"message,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// RoomBroadcast is a stored message addressed to every member of a college room.
type RoomBroadcast struct {
	Room    string      `json:"room"`
	Message ChatMessage `json:"message"`
}
