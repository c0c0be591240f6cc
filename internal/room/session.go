package room

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"debate_arena/internal/apperr"
)

// Argument 是一次被接受的提交
type Argument struct {
	Player      string
	Text        string
	SubmittedAt time.Time
}

// Session 是單一房間的權威狀態。
// mutate 讓加入、提交與中止依序執行，mu 只在讀寫欄位的短暫期間持有，
// 評審執行期間讀取快照不會被擋住。
type Session struct {
	mutate sync.Mutex
	mu     sync.RWMutex

	key        string
	topic      string
	player1    string
	player2    string
	status     Status
	turn       string
	transcript []Argument
	arguments  map[string][]string
	result     *Result
	abortedBy  string

	createdAt  time.Time
	updatedAt  time.Time
	terminalAt time.Time

	rounds int
	judge  Judge
	clock  clockwork.Clock
}

// SubmitOutcome 描述一次被接受的提交，Room 與其他欄位在同一次寫入中產生
type SubmitOutcome struct {
	Status      Status
	Round       int
	NextTurn    string
	Result      *Result
	RoundResult *RoundResult
	Room        StatusView
}

// Completed 回傳這次提交是否結束了辯論
func (o *SubmitOutcome) Completed() bool {
	return o.Status == StatusCompleted
}

// AbortOutcome 描述一次中止
type AbortOutcome struct {
	PreviousStatus Status
	AbortedBy      string
	Room           StatusView
}

func newSession(key, creator, topic string, rounds int, judge Judge, clock clockwork.Clock) *Session {
	now := clock.Now()
	return &Session{
		key:       key,
		topic:     topic,
		player1:   creator,
		status:    StatusWaiting,
		arguments: map[string][]string{creator: {}},
		createdAt: now,
		updatedAt: now,
		rounds:    rounds,
		judge:     judge,
		clock:     clock,
	}
}

// Key 回傳房間代碼
func (s *Session) Key() string {
	return s.key
}

// Status 回傳目前狀態
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// View 回傳回合檢查用的狀態拷貝
func (s *Session) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view()
}

func (s *Session) view() View {
	return View{
		Status:      s.status,
		Player1:     s.player1,
		Player2:     s.player2,
		CurrentTurn: s.turn,
	}
}

func (s *Session) opponentOf(actor string) string {
	if actor == s.player1 {
		return s.player2
	}
	return s.player1
}

// join 由 Registry 呼叫，讓第二位辯手加入並開始辯論
func (s *Session) join(identity string) error {
	s.mutate.Lock()
	defer s.mutate.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player2 != "" {
		return apperr.New(apperr.CodeRoomFull)
	}
	if s.status.IsTerminal() {
		return apperr.New(apperr.CodeAlreadyTerminal)
	}
	if identity == s.player1 {
		return apperr.New(apperr.CodeSelfJoin)
	}

	now := s.clock.Now()
	s.player2 = identity
	s.arguments[identity] = []string{}
	s.status = StatusInProgress
	s.turn = s.player1
	s.updatedAt = now
	return nil
}

// Submit 在回合檢查通過後記錄 actor 的論點並交換回合。
// 兩位辯手都達到回合門檻時會呼叫評審，評審失敗則整次提交不生效。
// 提交補齊一個回合時會為該回合評分，評分不影響提交是否成功。
func (s *Session) Submit(ctx context.Context, actor, text string) (*SubmitOutcome, error) {
	out, pending, err := s.submit(ctx, actor, text)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		out.RoundResult = s.scoreRound(ctx, *pending, out.Result)
	}
	return out, nil
}

func (s *Session) submit(ctx context.Context, actor, text string) (*SubmitOutcome, *RoundInput, error) {
	s.mutate.Lock()
	defer s.mutate.Unlock()

	s.mu.RLock()
	err := CheckSubmit(s.view(), actor)
	other := s.opponentOf(actor)
	args := map[string][]string{
		actor: slices.Clone(s.arguments[actor]),
		other: slices.Clone(s.arguments[other]),
	}
	t := Transcript{RoomKey: s.key, Topic: s.topic, Player1: s.player1, Player2: s.player2}
	s.mu.RUnlock()

	if err != nil {
		return nil, nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil, apperr.New(apperr.CodeEmptyArgument)
	}
	args[actor] = append(args[actor], text)

	// 評審在 mutate 內、mu 外執行，其他變更會等待，讀取照常進行
	var result *Result
	if len(args[actor]) >= s.rounds && len(args[other]) >= s.rounds {
		t.Arguments = args
		res, err := s.judge.Judge(ctx, t)
		if err != nil {
			return nil, nil, apperr.Wrap(apperr.CodeJudgeUnavailable, err)
		}
		if res == nil {
			return nil, nil, apperr.New(apperr.CodeJudgeUnavailable)
		}
		result = res.Clone()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.transcript = append(s.transcript, Argument{Player: actor, Text: text, SubmittedAt: now})
	s.arguments[actor] = append(s.arguments[actor], text)
	s.updatedAt = now

	p1 := s.arguments[s.player1]
	p2 := s.arguments[s.player2]
	round := min(len(p1), len(p2))
	if actor == s.player1 {
		round++
	}

	var pending *RoundInput
	if len(p1) == len(p2) && len(p1) <= s.rounds {
		pending = &RoundInput{
			RoomKey:   s.key,
			Topic:     s.topic,
			Round:     len(p1),
			Rounds:    s.rounds,
			Player1:   s.player1,
			Player2:   s.player2,
			Argument1: p1[len(p1)-1],
			Argument2: p2[len(p2)-1],
		}
	}

	out := &SubmitOutcome{Status: StatusInProgress, Round: round}
	if result != nil {
		s.status = StatusCompleted
		s.result = result
		s.turn = ""
		s.terminalAt = now
		out.Status = s.status
		out.Result = result.Clone()
	} else {
		s.turn = other
		out.NextTurn = s.turn
	}
	out.Room = s.projectStatus()
	return out, pending, nil
}

// scoreRound 優先沿用最終結果中的回合分數，否則交給評審的 RoundScorer
func (s *Session) scoreRound(ctx context.Context, in RoundInput, final *Result) *RoundResult {
	rr := &RoundResult{
		Round:   in.Round,
		Player1: RoundEntry{Name: in.Player1, Argument: in.Argument1},
		Player2: RoundEntry{Name: in.Player2, Argument: in.Argument2},
	}
	if final != nil && in.Round <= len(final.Rounds) && final.Rounds[in.Round-1].Round == in.Round {
		rr.Scores = final.Rounds[in.Round-1]
		return rr
	}
	scorer, ok := s.judge.(RoundScorer)
	if !ok {
		return nil
	}
	rr.Scores = scorer.ScoreRound(ctx, in)
	return rr
}

// Abort 讓任一辯手中止辯論，中止後無法再修改
func (s *Session) Abort(actor string) (*AbortOutcome, error) {
	s.mutate.Lock()
	defer s.mutate.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := CheckAbort(s.view(), actor); err != nil {
		return nil, err
	}

	prev := s.status
	now := s.clock.Now()
	s.status = StatusAborted
	s.abortedBy = actor
	s.turn = ""
	s.updatedAt = now
	s.terminalAt = now
	return &AbortOutcome{PreviousStatus: prev, AbortedBy: actor, Room: s.projectStatus()}, nil
}

// expired 判斷房間是否已超過保留期限
func (s *Session) expired(now time.Time, terminalTTL, idleTTL time.Duration) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.status.IsTerminal() {
		return terminalTTL > 0 && now.Sub(s.terminalAt) >= terminalTTL
	}
	return idleTTL > 0 && now.Sub(s.updatedAt) >= idleTTL
}
