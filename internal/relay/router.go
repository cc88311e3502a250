package relay

import (
	"sync"
	"time"

	"relay/internal/metrics"
	"relay/internal/models"
	"relay/internal/session"
	"relay/internal/utils"
)

// EventSink receives room lifecycle events for publication outside the
// relay. Publishing is best-effort; a failed publish never affects routing.
type EventSink interface {
	PublishRoomEvent(event models.RoomEvent) error
}

// Router processes inbound relay events and computes the outbound fan-out
// for each one. A connection moves through three states: connected (known,
// no room), joined (attached to exactly one room), departed (removed).
//
// Every handler runs to completion under one mutex, so events are applied
// one at a time in the order each connection's read loop delivers them.
type Router struct {
	log      *utils.Logger
	hub      *session.Hub
	registry *session.Registry
	events   EventSink

	mu      sync.Mutex
	clients map[string]*session.Client // connection ID -> client
	rooms   map[string]string          // connection ID -> attached room
}

func New(log *utils.Logger, hub *session.Hub, registry *session.Registry, events EventSink) *Router {
	return &Router{
		log:      log,
		hub:      hub,
		registry: registry,
		events:   events,
		clients:  make(map[string]*session.Client),
		rooms:    make(map[string]string),
	}
}

// Connect indexes a freshly upgraded connection and greets it with its
// connection ID. The name registry is untouched until the client joins.
func (rt *Router) Connect(c *session.Client) {
	rt.mu.Lock()
	rt.clients[c.ID] = c
	rt.mu.Unlock()

	metrics.ConnectionsActive.Inc()
	c.Send(models.Event{Type: models.EventStatus, Data: models.Status{
		ConnectionID: c.ID,
		Message:      "connected",
	}})
}

// Join registers the display name, attaches the connection to the room and
// unicasts the fresh roster to every member, the joiner included: the new
// client is itself a roster entry and needs its own roster render. A join
// while already attached is treated as a room switch; the old room gets a
// departure notice first.
func (rt *Router) Join(c *session.Client, req models.JoinRequest) {
	metrics.EventsRouted.WithLabelValues(models.EventJoin).Inc()

	rt.mu.Lock()
	defer rt.mu.Unlock()

	if prev, attached := rt.rooms[c.ID]; attached {
		rt.departLocked(c, prev)
	}

	rt.registry.Register(c.ID, req.Username)

	room := rt.hub.GetOrCreate(req.RoomID)
	opened := room.ClientCount() == 0
	room.Join(c)
	rt.rooms[c.ID] = req.RoomID
	metrics.RoomsActive.Set(float64(rt.hub.Len()))

	roster := rt.Roster(req.RoomID)
	joined := models.Event{Type: models.EventJoined, Data: models.JoinedEvent{
		Clients:      roster,
		Username:     req.Username,
		ConnectionID: c.ID,
	}}
	for _, member := range room.Clients() {
		member.Send(joined)
	}

	if opened {
		rt.publish(models.RoomEvent{Type: models.RoomOpened, RoomID: req.RoomID})
	}
	rt.publish(models.RoomEvent{
		Type:         models.ParticipantJoined,
		RoomID:       req.RoomID,
		ConnectionID: c.ID,
		Username:     req.Username,
	})
	rt.log.Info("client joined room", "roomId", req.RoomID, "connectionId", c.ID, "username", req.Username)
}

// ContentChange relays document text to the sender's room, excluding the
// sender: its local editor is already current, and echoing back would loop.
func (rt *Router) ContentChange(c *session.Client, change models.ContentChange) {
	metrics.EventsRouted.WithLabelValues(models.EventContentChange).Inc()

	rt.mu.Lock()
	defer rt.mu.Unlock()

	room, ok := rt.attachedRoomLocked(c)
	if !ok {
		return
	}
	room.Broadcast(c, models.Event{Type: models.EventContentChange, Data: models.ContentChange{
		Content: change.Content,
	}})
}

// LanguageChange relays the language selection to the sender's room,
// excluding the sender.
func (rt *Router) LanguageChange(c *session.Client, change models.LanguageChange) {
	metrics.EventsRouted.WithLabelValues(models.EventLanguageChange).Inc()

	rt.mu.Lock()
	defer rt.mu.Unlock()

	room, ok := rt.attachedRoomLocked(c)
	if !ok {
		return
	}
	room.Broadcast(c, models.Event{Type: models.EventLanguageChange, Data: models.LanguageChange{
		Language: change.Language,
	}})
}

// SyncContent unicasts document text to the named target connection. An
// already-departed target is a no-op.
func (rt *Router) SyncContent(c *session.Client, req models.SyncContent) {
	metrics.EventsRouted.WithLabelValues(models.EventSyncContent).Inc()

	rt.mu.Lock()
	defer rt.mu.Unlock()

	if _, attached := rt.rooms[c.ID]; !attached {
		return
	}
	target, ok := rt.clients[req.ConnectionID]
	if !ok {
		return
	}
	target.Send(models.Event{Type: models.EventSyncContent, Data: models.SyncContent{
		Content: req.Content,
	}})
}

// SyncLanguage unicasts the language selection to the named target.
func (rt *Router) SyncLanguage(c *session.Client, req models.SyncLanguage) {
	metrics.EventsRouted.WithLabelValues(models.EventSyncLanguage).Inc()

	rt.mu.Lock()
	defer rt.mu.Unlock()

	if _, attached := rt.rooms[c.ID]; !attached {
		return
	}
	target, ok := rt.clients[req.ConnectionID]
	if !ok {
		return
	}
	target.Send(models.Event{Type: models.EventSyncLanguage, Data: models.SyncLanguage{
		Language: req.Language,
	}})
}

// Disconnecting runs while the connection's room membership is still
// observable: the departure notice needs the room before the transport
// tears membership down.
func (rt *Router) Disconnecting(c *session.Client) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if roomID, attached := rt.rooms[c.ID]; attached {
		rt.departLocked(c, roomID)
	}
}

// Disconnect removes the connection from the registry and the index. Safe
// to call for a connection that never joined.
func (rt *Router) Disconnect(c *session.Client) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rt.registry.Unregister(c.ID)
	delete(rt.clients, c.ID)
	metrics.ConnectionsActive.Dec()
}

// attachedRoomLocked resolves the sender's room, dropping the event when
// the connection is not joined. Callers hold rt.mu.
func (rt *Router) attachedRoomLocked(c *session.Client) (*session.Room, bool) {
	roomID, attached := rt.rooms[c.ID]
	if !attached {
		rt.log.Warn("event dropped: connection not in a room", "connectionId", c.ID)
		return nil, false
	}
	room, ok := rt.hub.Get(roomID)
	if !ok {
		return nil, false
	}
	return room, true
}

// departLocked notifies the room that the client is leaving (excluding the
// client itself) and detaches it, deleting the room once empty. Callers
// hold rt.mu.
func (rt *Router) departLocked(c *session.Client, roomID string) {
	delete(rt.rooms, c.ID)

	room, ok := rt.hub.Get(roomID)
	if !ok {
		return
	}

	username, _ := rt.registry.Lookup(c.ID)
	room.Broadcast(c, models.Event{Type: models.EventDisconnected, Data: models.DisconnectedEvent{
		ConnectionID: c.ID,
		Username:     username,
	}})

	if left := room.Leave(c); left == 0 {
		rt.hub.Delete(roomID)
		rt.publish(models.RoomEvent{Type: models.RoomClosed, RoomID: roomID})
	}
	metrics.RoomsActive.Set(float64(rt.hub.Len()))

	rt.publish(models.RoomEvent{
		Type:         models.ParticipantLeft,
		RoomID:       roomID,
		ConnectionID: c.ID,
		Username:     username,
	})
	rt.log.Info("client left room", "roomId", roomID, "connectionId", c.ID, "username", username)
}

func (rt *Router) publish(event models.RoomEvent) {
	if rt.events == nil {
		return
	}
	event.Timestamp = time.Now()
	if err := rt.events.PublishRoomEvent(event); err != nil {
		rt.log.Warn("room event publish failed", "type", event.Type, "roomId", event.RoomID, "error", err.Error())
	}
}
