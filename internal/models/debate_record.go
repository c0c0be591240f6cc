package models

import (
	"time"

	"github.com/google/uuid"

	"debate_arena/internal/room"
)

// DebateRecord 是一場已結束辯論的存檔
type DebateRecord struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	RoomKey     string              `gorm:"index;not null" json:"room_key"`
	Topic       string              `gorm:"type:text;not null" json:"topic"`
	Player1Name string              `gorm:"index;not null" json:"player1_name"`
	Player2Name string              `gorm:"index;not null" json:"player2_name"`
	Winner      string              `gorm:"type:varchar(64)" json:"winner"`
	Arguments   map[string][]string `gorm:"serializer:json" json:"arguments"`
	Result      *room.Result        `gorm:"serializer:json" json:"result"`
	CreatedAt   time.Time           `json:"created_at"`
}

// NewDebateRecord 由完成的快照建立存檔
func NewDebateRecord(snap room.Snapshot) *DebateRecord {
	rec := &DebateRecord{
		ID:          uuid.New(),
		RoomKey:     snap.RoomKey,
		Topic:       snap.Topic,
		Player1Name: snap.Player1Name,
		Arguments:   snap.Arguments,
		Result:      snap.Result,
	}
	if snap.Player2Name != nil {
		rec.Player2Name = *snap.Player2Name
	}
	if snap.Result != nil {
		rec.Winner = snap.Result.Winner
	}
	return rec
}
