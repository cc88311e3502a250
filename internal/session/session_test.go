package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"relay/internal/models"
)

type frameCapture struct {
	frames []models.Event
}

func newFrameCapture() *frameCapture { return &frameCapture{} }

func (c *frameCapture) hook(event models.Event) { c.frames = append(c.frames, event) }

func (c *frameCapture) list() []models.Event {
	out := make([]models.Event, len(c.frames))
	copy(out, c.frames)
	return out
}

func TestClientIDAssignedAndUnique(t *testing.T) {
	a := NewClient(nil)
	b := NewClient(nil)
	if a.ID == "" || b.ID == "" {
		t.Fatalf("expected non-empty connection IDs")
	}
	if a.ID == b.ID {
		t.Fatalf("expected unique connection IDs, both got %s", a.ID)
	}
}

func TestClientSendWithHook(t *testing.T) {
	client := NewClient(nil)
	capture := newFrameCapture()
	client.SetSendHook(capture.hook)

	client.Send(models.Event{Type: models.EventStatus})

	got := capture.list()
	if len(got) != 1 || got[0].Type != models.EventStatus {
		t.Fatalf("expected frame captured, got %#v", got)
	}
}

func TestClientSendWithoutConnDoesNotPanic(t *testing.T) {
	client := NewClient(nil)
	client.Send(models.Event{Type: "noop"})
}

func TestClientSendWritesToConn(t *testing.T) {
	upgrader := websocket.Upgrader{}
	received := make(chan models.Event, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		var event models.Event
		if err := conn.ReadJSON(&event); err == nil {
			received <- event
		}
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	defer conn.Close()

	client := NewClient(conn)
	client.Send(models.Event{Type: models.EventStatus})

	select {
	case event := <-received:
		if event.Type != models.EventStatus {
			t.Fatalf("unexpected frame: %#v", event)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected frame to be received")
	}
}

func TestRoomJoinLeaveAndSnapshot(t *testing.T) {
	room := NewRoom("room")
	if count := room.ClientCount(); count != 0 {
		t.Fatalf("expected empty room, got %d", count)
	}

	c1 := NewClient(nil)
	c2 := NewClient(nil)
	room.Join(c1)
	room.Join(c2)
	if count := room.ClientCount(); count != 2 {
		t.Fatalf("expected 2 clients, got %d", count)
	}
	if members := room.Clients(); len(members) != 2 {
		t.Fatalf("expected 2 members in snapshot, got %d", len(members))
	}

	if left := room.Leave(c1); left != 1 {
		t.Fatalf("expected 1 client after leave, got %d", left)
	}
	if left := room.Leave(c2); left != 0 {
		t.Fatalf("expected empty room, got %d", left)
	}
}

func TestRoomBroadcastExcludesSender(t *testing.T) {
	room := NewRoom("r")
	frame := models.Event{Type: models.EventContentChange, Data: "print(1)"}

	c1 := NewClient(nil)
	cap1 := newFrameCapture()
	c1.SetSendHook(cap1.hook)
	c2 := NewClient(nil)
	cap2 := newFrameCapture()
	c2.SetSendHook(cap2.hook)
	sender := NewClient(nil)
	sender.SetSendHook(func(models.Event) { t.Fatal("sender should not receive broadcast") })

	room.Join(c1)
	room.Join(c2)
	room.Join(sender)

	room.Broadcast(sender, frame)

	if got := cap1.list(); len(got) != 1 || got[0].Type != models.EventContentChange {
		t.Fatalf("client1 missing frame: %#v", got)
	}
	if got := cap2.list(); len(got) != 1 || got[0].Type != models.EventContentChange {
		t.Fatalf("client2 missing frame: %#v", got)
	}
}

func TestHubLifecycle(t *testing.T) {
	hub := NewHub()
	roomA := hub.GetOrCreate("a")
	roomB := hub.GetOrCreate("a")
	if roomA != roomB {
		t.Fatalf("expected same room instance")
	}
	if hub.Len() != 1 {
		t.Fatalf("expected 1 room, got %d", hub.Len())
	}

	if _, ok := hub.Get("missing"); ok {
		t.Fatalf("expected missing room")
	}

	hub.Delete("a")
	if _, ok := hub.Get("a"); ok {
		t.Fatalf("expected room to be deleted")
	}
	if hub.Len() != 0 {
		t.Fatalf("expected empty hub, got %d rooms", hub.Len())
	}
}
