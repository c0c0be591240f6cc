package service

import (
	"time"

	"debate_arena/internal/events"
	"debate_arena/internal/repository"
	"debate_arena/internal/room"
	"debate_arena/internal/topics"
	"debate_arena/internal/utils"
)

type Services struct {
	Player *PlayerService
	Room   *RoomService
	Topic  *TopicService
}

// Deps 是組裝服務所需、不屬於資料層的元件
type Deps struct {
	Registry     *room.Registry
	Events       events.Publisher
	Topics       *topics.Generator
	Tokens       *utils.TokenIssuer
	AbortPenalty int
	JudgeTimeout time.Duration
}

func NewServices(repos *repository.Repositories, deps Deps) *Services {
	if deps.Events == nil {
		deps.Events = events.Noop{}
	}
	return &Services{
		Player: NewPlayerService(repos.Player, repos.Debate, deps.Tokens),
		Room:   NewRoomService(deps.Registry, repos.Player, repos.Debate, deps.Events, deps.AbortPenalty, deps.JudgeTimeout),
		Topic:  NewTopicService(deps.Topics),
	}
}
