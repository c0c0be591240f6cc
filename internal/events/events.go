// Package events 發布房間生命週期事件，供其他服務（排行榜、通知）訂閱
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"debate_arena/internal/room"
)

type Type string

const (
	RoomCreated       Type = "created"
	PlayerJoined      Type = "joined"
	ArgumentSubmitted Type = "argument"
	DebateCompleted   Type = "completed"
	DebateAborted     Type = "aborted"
)

// Event 是一次房間狀態變化
type Event struct {
	ID         uuid.UUID        `json:"id"`
	Type       Type             `json:"type"`
	RoomKey    string           `json:"room_key"`
	Actor      string           `json:"actor"`
	OccurredAt time.Time        `json:"occurred_at"`
	Room       *room.StatusView `json:"room,omitempty"`
}

func New(typ Type, actor string, view room.StatusView) Event {
	return Event{
		ID:         uuid.New(),
		Type:       typ,
		RoomKey:    view.Room.RoomKey,
		Actor:      actor,
		OccurredAt: time.Now().UTC(),
		Room:       &view,
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Noop 丟棄所有事件
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }
