package events

import (
	"context"
	"encoding/json"
	"testing"

	"debate_arena/internal/room"
)

func TestSubject(t *testing.T) {
	if got := Subject("debate.rooms", "AB12CD", DebateCompleted); got != "debate.rooms.AB12CD.completed" {
		t.Fatalf("unexpected subject %q", got)
	}
}

func TestNewEvent(t *testing.T) {
	view := room.StatusView{Room: room.Snapshot{RoomKey: "AB12CD", Status: room.StatusWaiting}}
	e := New(RoomCreated, "alice", view)

	if e.RoomKey != "AB12CD" || e.Actor != "alice" || e.Type != RoomCreated {
		t.Fatalf("unexpected event %+v", e)
	}
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded map[string]any
	json.Unmarshal(data, &decoded)
	if decoded["type"] != "created" {
		t.Fatalf("expected type created, got %v", decoded["type"])
	}
}

func TestNoop(t *testing.T) {
	var p Publisher = Noop{}
	if err := p.Publish(context.Background(), Event{}); err != nil {
		t.Fatalf("noop publish failed: %v", err)
	}
}
