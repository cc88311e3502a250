package models

import "time"

// Event is the wire envelope carried on every relay WebSocket message,
// in both directions.
type Event struct {
	Type string      `json:"type"` // "join","joined","disconnected","content-change","sync-content","language-change","sync-language","status","error"
	Data interface{} `json:"data"`
}

// Event type names.
const (
	EventJoin           = "join"
	EventJoined         = "joined"
	EventDisconnected   = "disconnected"
	EventContentChange  = "content-change"
	EventSyncContent    = "sync-content"
	EventLanguageChange = "language-change"
	EventSyncLanguage   = "sync-language"
	EventStatus         = "status"
	EventError          = "error"
)

// JoinRequest attaches a connection to a room under a display name.
type JoinRequest struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

// RosterEntry is one room member with its registered display name.
type RosterEntry struct {
	ConnectionID string `json:"connectionId"`
	Username     string `json:"username"`
}

// JoinedEvent is delivered to every room member (including the joiner)
// after a successful join. Username and ConnectionID identify the new member.
type JoinedEvent struct {
	Clients      []RosterEntry `json:"clients"`
	Username     string        `json:"username"`
	ConnectionID string        `json:"connectionId"`
}

// DisconnectedEvent names a member that is leaving its room.
type DisconnectedEvent struct {
	ConnectionID string `json:"connectionId"`
	Username     string `json:"username"`
}

// ContentChange carries document text. RoomID is set client->server only;
// the relay strips it before fan-out.
type ContentChange struct {
	RoomID  string `json:"roomId,omitempty"`
	Content string `json:"content"`
}

// SyncContent answers a latecomer's request for the current document text.
// ConnectionID names the target connection client->server only.
type SyncContent struct {
	ConnectionID string `json:"connectionId,omitempty"`
	Content      string `json:"content"`
}

// LanguageChange carries the editor language selection.
type LanguageChange struct {
	RoomID   string `json:"roomId,omitempty"`
	Language string `json:"language"`
}

// SyncLanguage answers a latecomer's request for the current language.
type SyncLanguage struct {
	ConnectionID string `json:"connectionId,omitempty"`
	Language     string `json:"language"`
}

// Status greets a freshly connected client with its transport-assigned
// connection ID.
type Status struct {
	ConnectionID string `json:"connectionId"`
	Message      string `json:"message"`
}

// RoomStatus is the REST projection of a room's current occupancy.
type RoomStatus struct {
	ID          string        `json:"id"`
	ClientCount int           `json:"clientCount"`
	Clients     []RosterEntry `json:"clients"`
}

// Room lifecycle event types published to Redis.
const (
	RoomOpened        = "room-opened"
	RoomClosed        = "room-closed"
	ParticipantJoined = "participant-joined"
	ParticipantLeft   = "participant-left"
)

// RoomEvent is published on the relay's Redis channel whenever room
// membership changes, for consumption by other services.
type RoomEvent struct {
	Type         string    `json:"type"`
	RoomID       string    `json:"roomId"`
	ConnectionID string    `json:"connectionId,omitempty"`
	Username     string    `json:"username,omitempty"`
	InstanceID   string    `json:"instanceId"`
	Timestamp    time.Time `json:"timestamp"`
}
