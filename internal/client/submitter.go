package client

import (
	"context"
	"strings"
	"sync"

	"debate_arena/internal/apperr"
	"debate_arena/internal/room"
)

// Submitter 管理本地草稿並在送出前以最新快照做輪次檢查
// 伺服器仍會再檢查一次，這裡只是避免明顯無效的請求
type Submitter struct {
	api      RoomAPI
	key      string
	identity string
	latest   func() *room.StatusView

	mu       sync.Mutex
	draft    string
	inFlight bool
}

// NewSubmitter 建立提交控制，latest 通常是 Poller.Snapshot
func NewSubmitter(api RoomAPI, key, identity string, latest func() *room.StatusView) *Submitter {
	return &Submitter{
		api:      api,
		key:      room.NormalizeKey(key),
		identity: identity,
		latest:   latest,
	}
}

func (s *Submitter) SetDraft(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = text
}

func (s *Submitter) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// IsMyTurn 依最新快照判斷是否輪到本地玩家
func (s *Submitter) IsMyTurn() bool {
	view := s.latest()
	if view == nil {
		return false
	}
	return view.Room.Status == room.StatusInProgress && view.Room.CurrentTurn == s.identity
}

// Submit 送出草稿，成功後清空草稿
func (s *Submitter) Submit(ctx context.Context) (*SubmitResponse, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, apperr.Newf(apperr.CodeNotYourTurn, "Your argument is already being submitted")
	}
	if !s.IsMyTurn() {
		s.mu.Unlock()
		return nil, apperr.New(apperr.CodeNotYourTurn)
	}
	text := s.draft
	if strings.TrimSpace(text) == "" {
		s.mu.Unlock()
		return nil, apperr.New(apperr.CodeEmptyArgument)
	}
	s.inFlight = true
	s.mu.Unlock()

	res, err := s.api.SubmitArgument(ctx, s.key, s.identity, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if err != nil {
		return nil, err
	}
	if s.draft == text {
		s.draft = ""
	}
	return res, nil
}

func (s *Submitter) Abort(ctx context.Context) (*AbortResponse, error) {
	return s.api.AbortDebate(ctx, s.key, s.identity)
}
