package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"relay/internal/models"
	"relay/internal/relay"
	"relay/internal/session"
	"relay/internal/utils"
)

type Handlers struct {
	log    *utils.Logger
	hub    *session.Hub
	router *relay.Router
}

func NewHandlers(log *utils.Logger, hub *session.Hub, router *relay.Router) *Handlers {
	return &Handlers{log: log, hub: hub, router: router}
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("ok"))
}

// RoomStatus reports a room's current occupancy and roster. Rooms exist
// only while non-empty, so an unknown ID is a 404.
func (h *Handlers) RoomStatus(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	room, ok := h.hub.Get(roomID)
	if !ok {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	writeJSON(w, models.RoomStatus{
		ID:          roomID,
		ClientCount: room.ClientCount(),
		Clients:     h.router.Roster(roomID),
	})
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// RelayWS upgrades the connection and runs its event loop. All routing data
// rides in the events themselves; the endpoint takes no parameters.
func (h *Handlers) RelayWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	client := session.NewClient(conn)
	h.router.Connect(client)
	defer func() {
		// Departure notice goes out while room membership is still
		// observable, then the registry entry is dropped.
		h.router.Disconnecting(client)
		h.router.Disconnect(client)
	}()

	for {
		var frame models.Event
		if err := conn.ReadJSON(&frame); err != nil {
			return
		}

		switch frame.Type {
		case models.EventJoin:
			var req models.JoinRequest
			marshal(frame.Data, &req)
			if req.RoomID == "" || req.Username == "" {
				client.Send(errFrame("join requires roomId and username"))
				continue
			}
			h.router.Join(client, req)

		case models.EventContentChange:
			var change models.ContentChange
			marshal(frame.Data, &change)
			h.router.ContentChange(client, change)

		case models.EventLanguageChange:
			var change models.LanguageChange
			marshal(frame.Data, &change)
			h.router.LanguageChange(client, change)

		case models.EventSyncContent:
			var req models.SyncContent
			marshal(frame.Data, &req)
			h.router.SyncContent(client, req)

		case models.EventSyncLanguage:
			var req models.SyncLanguage
			marshal(frame.Data, &req)
			h.router.SyncLanguage(client, req)

		default:
			client.Send(errFrame("unknown_type"))
		}
	}
}

func marshal(in any, out any) { b, _ := json.Marshal(in); _ = json.Unmarshal(b, out) }

func errFrame(msg string) models.Event { return models.Event{Type: models.EventError, Data: msg} }

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
