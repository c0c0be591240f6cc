package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"debate_arena/internal/apperr"
	"debate_arena/internal/events"
	"debate_arena/internal/models"
	"debate_arena/internal/repository"
	"debate_arena/internal/room"
)

// SubmitResult 是提交論點的回應內容
type SubmitResult struct {
	Status       room.Status       `json:"status"`
	CurrentRound int               `json:"current_round"`
	NextTurn     string            `json:"next_turn,omitempty"`
	RoundResult  *room.RoundResult `json:"round_result"`
	FinalResult  *room.Result      `json:"final_result,omitempty"`
	Room         room.Snapshot     `json:"room"`
}

// AbortResult 是中止辯論的回應內容
type AbortResult struct {
	Status  room.Status `json:"status"`
	Message string      `json:"message"`
	Player  string      `json:"player"`
	Penalty int         `json:"penalty"`
}

// RoomService 串接房間狀態機、玩家成績、歷史存檔與事件發布
type RoomService struct {
	registry     *room.Registry
	players      repository.PlayerRepository
	debates      repository.DebateRecordRepository
	events       events.Publisher
	abortPenalty int
	judgeTimeout time.Duration
}

func NewRoomService(registry *room.Registry, players repository.PlayerRepository, debates repository.DebateRecordRepository,
	publisher events.Publisher, abortPenalty int, judgeTimeout time.Duration) *RoomService {
	return &RoomService{
		registry:     registry,
		players:      players,
		debates:      debates,
		events:       publisher,
		abortPenalty: abortPenalty,
		judgeTimeout: judgeTimeout,
	}
}

// CreateRoom 由已註冊的玩家建立房間
func (s *RoomService) CreateRoom(ctx context.Context, creator, topic string) (room.Snapshot, error) {
	if err := s.ensurePlayer(ctx, creator); err != nil {
		return room.Snapshot{}, err
	}
	sess, err := s.registry.Create(creator, topic)
	if err != nil {
		return room.Snapshot{}, err
	}

	view := room.ProjectStatus(sess)
	log.Info().Str("room", sess.Key()).Str("player", creator).Msg("room created")
	s.publish(ctx, events.RoomCreated, creator, view)
	return view.Room, nil
}

// JoinRoom 讓第二位玩家加入房間並開始辯論
func (s *RoomService) JoinRoom(ctx context.Context, key, player string) (room.Snapshot, error) {
	if err := s.ensurePlayer(ctx, player); err != nil {
		return room.Snapshot{}, err
	}
	sess, err := s.registry.Join(key, player)
	if err != nil {
		log.Debug().Err(err).Str("room", key).Str("player", player).Msg("join rejected")
		return room.Snapshot{}, err
	}

	view := room.ProjectStatus(sess)
	log.Info().Str("room", sess.Key()).Str("player", player).Msg("player joined")
	s.publish(ctx, events.PlayerJoined, player, view)
	return view.Room, nil
}

// SubmitArgument 提交論點，最後一個論點會觸發評審並結算成績
func (s *RoomService) SubmitArgument(ctx context.Context, key, player, argument string) (*SubmitResult, error) {
	sess, err := s.registry.Get(key)
	if err != nil {
		return nil, err
	}

	// 請求中斷不應讓已經開始的評審白做
	judgeCtx := context.WithoutCancel(ctx)
	if s.judgeTimeout > 0 {
		var cancel context.CancelFunc
		judgeCtx, cancel = context.WithTimeout(judgeCtx, s.judgeTimeout)
		defer cancel()
	}

	out, err := sess.Submit(judgeCtx, player, argument)
	if err != nil {
		if apperr.IsCode(err, apperr.CodeJudgeUnavailable) {
			log.Error().Err(err).Str("room", sess.Key()).Msg("judge failed, submission rolled back")
		} else {
			log.Debug().Err(err).Str("room", sess.Key()).Str("player", player).Msg("submission rejected")
		}
		return nil, err
	}

	view := out.Room
	res := &SubmitResult{
		Status:       out.Status,
		CurrentRound: out.Round,
		NextTurn:     out.NextTurn,
		RoundResult:  out.RoundResult,
		Room:         view.Room,
	}

	if out.Completed() {
		res.FinalResult = out.Result
		log.Info().Str("room", sess.Key()).Str("winner", out.Result.Winner).Msg("debate completed")
		s.settle(context.WithoutCancel(ctx), view.Room, out.Result)
		s.publish(ctx, events.DebateCompleted, player, view)
	} else {
		s.publish(ctx, events.ArgumentSubmitted, player, view)
	}
	return res, nil
}

// AbortDebate 中止辯論，進行中被中止時扣中止者的分數
func (s *RoomService) AbortDebate(ctx context.Context, key, player string) (*AbortResult, error) {
	sess, err := s.registry.Get(key)
	if err != nil {
		return nil, err
	}
	out, err := sess.Abort(player)
	if err != nil {
		log.Debug().Err(err).Str("room", sess.Key()).Str("player", player).Msg("abort rejected")
		return nil, err
	}

	res := &AbortResult{
		Status:  room.StatusAborted,
		Message: fmt.Sprintf("Debate aborted by %s.", player),
		Player:  player,
	}
	if out.PreviousStatus == room.StatusInProgress && s.abortPenalty > 0 {
		delta := models.ScoreDelta{Score: -s.abortPenalty, Games: 1, FloorZero: true}
		if err := s.players.AdjustScore(ctx, player, delta); err != nil {
			log.Error().Err(err).Str("player", player).Msg("failed to apply abort penalty")
		} else {
			res.Penalty = s.abortPenalty
			res.Message = fmt.Sprintf("Debate aborted by %s. A %d-point penalty has been applied.", player, s.abortPenalty)
		}
	}

	log.Info().Str("room", sess.Key()).Str("player", player).Str("previous", string(out.PreviousStatus)).Msg("debate aborted")
	s.publish(ctx, events.DebateAborted, player, out.Room)
	return res, nil
}

// RoomStatus 回傳房間快照與依提交順序排列的論點
func (s *RoomService) RoomStatus(key string) (room.StatusView, error) {
	sess, err := s.registry.Get(key)
	if err != nil {
		return room.StatusView{}, err
	}
	return room.ProjectStatus(sess), nil
}

// settle 更新雙方成績並存檔，失敗只記錄不回滾已完成的辯論
func (s *RoomService) settle(ctx context.Context, snap room.Snapshot, result *room.Result) {
	if snap.Player2Name == nil {
		return
	}
	p1, p2 := snap.Player1Name, *snap.Player2Name

	for player, delta := range scoreDeltas(p1, p2, result) {
		if err := s.players.AdjustScore(ctx, player, delta); err != nil {
			log.Error().Err(err).Str("room", snap.RoomKey).Str("player", player).Msg("failed to update score")
		}
	}
	if err := s.debates.Create(ctx, models.NewDebateRecord(snap)); err != nil {
		log.Error().Err(err).Str("room", snap.RoomKey).Msg("failed to archive debate")
	}
}

// scoreDeltas 勝者加上回合差，敗者扣除相同分數，平手只累計場次
func scoreDeltas(p1, p2 string, result *room.Result) map[string]models.ScoreDelta {
	if result.Winner != p1 && result.Winner != p2 {
		return map[string]models.ScoreDelta{
			p1: {Games: 1},
			p2: {Games: 1},
		}
	}
	winner, loser := p1, p2
	if result.Winner == p2 {
		winner, loser = p2, p1
	}
	diff := result.RoundsWon[winner] - result.RoundsWon[loser]
	if diff < 0 {
		diff = -diff
	}
	return map[string]models.ScoreDelta{
		winner: {Score: diff, Wins: 1, Games: 1},
		loser:  {Score: -diff, Losses: 1, Games: 1},
	}
}

func (s *RoomService) ensurePlayer(ctx context.Context, name string) error {
	name, err := ValidatePlayerName(name)
	if err != nil {
		return err
	}
	_, err = s.players.FindByUsername(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.Newf(apperr.CodeNotFound, "Player not found")
	}
	if err != nil {
		return apperr.Wrap(apperr.CodeInternal, err)
	}
	return nil
}

func (s *RoomService) publish(ctx context.Context, typ events.Type, actor string, view room.StatusView) {
	if err := s.events.Publish(ctx, events.New(typ, actor, view)); err != nil {
		log.Warn().Err(err).Str("room", view.Room.RoomKey).Str("event", string(typ)).Msg("failed to publish event")
	}
}
