package room

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"debate_arena/internal/apperr"
)

// fixedJudge 總是判定第一位辯手獲勝
func fixedJudge(calls *int) Judge {
	return JudgeFunc(func(ctx context.Context, t Transcript) (*Result, error) {
		if calls != nil {
			*calls++
		}
		return &Result{
			GameID:    t.RoomKey,
			Winner:    t.Player1,
			RoundsWon: map[string]int{t.Player1: 3, t.Player2: 2},
		}, nil
	})
}

func newTestRegistry(t *testing.T, judge Judge) *Registry {
	t.Helper()
	opts := DefaultOptions()
	opts.Clock = clockwork.NewFakeClock()
	return NewRegistry(judge, opts)
}

func startDebate(t *testing.T, r *Registry) *Session {
	t.Helper()
	s, err := r.Create("alice", "Cats vs Dogs as pets")
	if err != nil {
		t.Fatalf("should be able to create room: %v", err)
	}
	if _, err := r.Join(s.Key(), "bob"); err != nil {
		t.Fatalf("should be able to join room: %v", err)
	}
	return s
}

func mustSubmit(t *testing.T, s *Session, actor, text string) *SubmitOutcome {
	t.Helper()
	out, err := s.Submit(context.Background(), actor, text)
	if err != nil {
		t.Fatalf("submit by %s should be accepted: %v", actor, err)
	}
	return out
}

func TestCreateAndJoin(t *testing.T) {
	r := newTestRegistry(t, fixedJudge(nil))

	s, err := r.Create("alice", "Cats vs Dogs as pets")
	if err != nil {
		t.Fatalf("should be able to create room: %v", err)
	}
	snap := Project(s)
	if snap.Status != StatusWaiting {
		t.Fatalf("expected status %s, got %s", StatusWaiting, snap.Status)
	}
	if snap.Player2Name != nil {
		t.Fatalf("expected no second player, got %q", *snap.Player2Name)
	}
	if snap.CurrentTurn != "" {
		t.Fatalf("expected no current turn while waiting, got %q", snap.CurrentTurn)
	}
	if len(snap.Arguments["alice"]) != 0 {
		t.Fatalf("expected no arguments while waiting, got %v", snap.Arguments)
	}

	if _, err := r.Join(s.Key(), "bob"); err != nil {
		t.Fatalf("should be able to join room: %v", err)
	}
	snap = Project(s)
	if snap.Status != StatusInProgress {
		t.Fatalf("expected status %s, got %s", StatusInProgress, snap.Status)
	}
	if snap.CurrentTurn != "alice" {
		t.Fatalf("expected alice to open the debate, got %q", snap.CurrentTurn)
	}
	if snap.Player2Name == nil || *snap.Player2Name != "bob" {
		t.Fatalf("expected bob as second player, got %v", snap.Player2Name)
	}
}

func TestFirstSubmissionFlipsTurn(t *testing.T) {
	r := newTestRegistry(t, fixedJudge(nil))
	s := startDebate(t, r)

	out := mustSubmit(t, s, "alice", "Cats are low maintenance")
	if out.Status != StatusInProgress {
		t.Fatalf("expected debate to continue, got %s", out.Status)
	}
	if out.NextTurn != "bob" {
		t.Fatalf("expected bob next, got %q", out.NextTurn)
	}
	if out.Round != 1 {
		t.Fatalf("expected round 1, got %d", out.Round)
	}

	snap := Project(s)
	if !reflect.DeepEqual(snap.Arguments["alice"], []string{"Cats are low maintenance"}) {
		t.Fatalf("unexpected arguments for alice: %v", snap.Arguments["alice"])
	}
	if snap.CurrentTurn != "bob" {
		t.Fatalf("expected current turn bob, got %q", snap.CurrentTurn)
	}
}

func TestOutOfTurnSubmissionIsRejected(t *testing.T) {
	r := newTestRegistry(t, fixedJudge(nil))
	s := startDebate(t, r)
	before := ProjectStatus(s)

	for i := 0; i < 3; i++ {
		_, err := s.Submit(context.Background(), "bob", "Dogs are loyal")
		if !apperr.IsCode(err, apperr.CodeNotYourTurn) {
			t.Fatalf("expected %s, got %v", apperr.CodeNotYourTurn, err)
		}
	}

	if after := ProjectStatus(s); !reflect.DeepEqual(before, after) {
		t.Fatalf("rejected submissions must not change state:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestSubmitValidation(t *testing.T) {
	r := newTestRegistry(t, fixedJudge(nil))
	s := startDebate(t, r)

	if _, err := s.Submit(context.Background(), "alice", "   "); !apperr.IsCode(err, apperr.CodeEmptyArgument) {
		t.Fatalf("expected %s, got %v", apperr.CodeEmptyArgument, err)
	}
	if _, err := s.Submit(context.Background(), "carol", "hello"); !apperr.IsCode(err, apperr.CodeNotAParticipant) {
		t.Fatalf("expected %s, got %v", apperr.CodeNotAParticipant, err)
	}
	if s.View().CurrentTurn != "alice" {
		t.Fatal("rejected submissions must not flip the turn")
	}

	waiting, err := r.Create("carol", "Is cereal a soup?")
	if err != nil {
		t.Fatalf("should be able to create room: %v", err)
	}
	if _, err := waiting.Submit(context.Background(), "carol", "Yes"); !apperr.IsCode(err, apperr.CodeSessionNotActive) {
		t.Fatalf("expected %s, got %v", apperr.CodeSessionNotActive, err)
	}
}

func TestTurnsAlternateUntilCompletion(t *testing.T) {
	calls := 0
	r := newTestRegistry(t, fixedJudge(&calls))
	s := startDebate(t, r)

	var last *SubmitOutcome
	for i := 1; i <= 5; i++ {
		if turn := s.View().CurrentTurn; turn != "alice" {
			t.Fatalf("round %d: expected alice, got %q", i, turn)
		}
		mustSubmit(t, s, "alice", fmt.Sprintf("alice point %d", i))
		if turn := s.View().CurrentTurn; turn != "bob" {
			t.Fatalf("round %d: expected bob, got %q", i, turn)
		}
		last = mustSubmit(t, s, "bob", fmt.Sprintf("bob point %d", i))
		if i < 5 && last.Status != StatusInProgress {
			t.Fatalf("round %d: debate ended early with %s", i, last.Status)
		}
	}

	if !last.Completed() {
		t.Fatalf("expected completion after ten arguments, got %s", last.Status)
	}
	if last.Result == nil || last.Result.Winner != "alice" {
		t.Fatalf("expected alice to win, got %+v", last.Result)
	}
	if calls != 1 {
		t.Fatalf("expected judge to be called once, got %d", calls)
	}

	view := ProjectStatus(s)
	if view.Room.Result == nil {
		t.Fatal("completed room must expose a result")
	}
	if view.Room.CurrentTurn != "" {
		t.Fatalf("completed room must not expose a turn, got %q", view.Room.CurrentTurn)
	}
	if len(view.AllArguments) != 10 {
		t.Fatalf("expected 10 merged arguments, got %d", len(view.AllArguments))
	}
	for i, entry := range view.AllArguments {
		want := "alice"
		if i%2 == 1 {
			want = "bob"
		}
		if entry.Player != want {
			t.Fatalf("argument %d: expected %s, got %s", i, want, entry.Player)
		}
	}

	// 結果在設定後不可被修改
	view.Room.Result.Winner = "mallory"
	if Project(s).Result.Winner != "alice" {
		t.Fatal("snapshot mutation leaked into session result")
	}
	for _, actor := range []string{"alice", "bob"} {
		if _, err := s.Submit(context.Background(), actor, "one more"); !apperr.IsCode(err, apperr.CodeAlreadyTerminal) {
			t.Fatalf("expected %s after completion, got %v", apperr.CodeAlreadyTerminal, err)
		}
	}
	if _, err := s.Abort("alice"); !apperr.IsCode(err, apperr.CodeAlreadyTerminal) {
		t.Fatalf("expected %s when aborting completed debate, got %v", apperr.CodeAlreadyTerminal, err)
	}
	if Project(s).Result.Winner != "alice" {
		t.Fatal("result changed after completion")
	}
}

func TestJudgeFailureLeavesStateUntouched(t *testing.T) {
	fail := true
	judge := JudgeFunc(func(ctx context.Context, t Transcript) (*Result, error) {
		if fail {
			return nil, errors.New("judge offline")
		}
		return &Result{Winner: TieWinner, RoundsWon: map[string]int{}}, nil
	})
	r := newTestRegistry(t, judge)
	s := startDebate(t, r)

	for i := 0; i < 4; i++ {
		mustSubmit(t, s, "alice", "a")
		mustSubmit(t, s, "bob", "b")
	}
	mustSubmit(t, s, "alice", "a")
	before := ProjectStatus(s)

	_, err := s.Submit(context.Background(), "bob", "closing")
	if !apperr.IsCode(err, apperr.CodeJudgeUnavailable) {
		t.Fatalf("expected %s, got %v", apperr.CodeJudgeUnavailable, err)
	}
	if after := ProjectStatus(s); !reflect.DeepEqual(before, after) {
		t.Fatal("failed judging must not apply the submission")
	}

	fail = false
	out := mustSubmit(t, s, "bob", "closing")
	if !out.Completed() || out.Result.Winner != TieWinner {
		t.Fatalf("expected tie completion on retry, got %+v", out)
	}
}

func TestAbort(t *testing.T) {
	r := newTestRegistry(t, fixedJudge(nil))
	s := startDebate(t, r)
	mustSubmit(t, s, "alice", "opening")

	if _, err := s.Abort("carol"); !apperr.IsCode(err, apperr.CodeNotAParticipant) {
		t.Fatalf("expected %s, got %v", apperr.CodeNotAParticipant, err)
	}

	out, err := s.Abort("alice")
	if err != nil {
		t.Fatalf("alice should be able to abort: %v", err)
	}
	if out.PreviousStatus != StatusInProgress {
		t.Fatalf("expected previous status %s, got %s", StatusInProgress, out.PreviousStatus)
	}

	snap := Project(s)
	if snap.Status != StatusAborted || snap.AbortedBy != "alice" {
		t.Fatalf("expected aborted by alice, got %s by %q", snap.Status, snap.AbortedBy)
	}
	if snap.Result != nil {
		t.Fatal("aborted room must not carry a result")
	}
	for _, actor := range []string{"alice", "bob"} {
		if _, err := s.Submit(context.Background(), actor, "late"); !apperr.IsCode(err, apperr.CodeAlreadyTerminal) {
			t.Fatalf("expected %s for %s, got %v", apperr.CodeAlreadyTerminal, actor, err)
		}
	}
	if _, err := s.Abort("bob"); !apperr.IsCode(err, apperr.CodeAlreadyTerminal) {
		t.Fatalf("expected %s, got %v", apperr.CodeAlreadyTerminal, err)
	}
}

func TestAbortWhileWaiting(t *testing.T) {
	r := newTestRegistry(t, fixedJudge(nil))
	s, err := r.Create("alice", "Does free will exist?")
	if err != nil {
		t.Fatalf("should be able to create room: %v", err)
	}

	out, err := s.Abort("alice")
	if err != nil {
		t.Fatalf("creator should be able to abort a waiting room: %v", err)
	}
	if out.PreviousStatus != StatusWaiting {
		t.Fatalf("expected previous status %s, got %s", StatusWaiting, out.PreviousStatus)
	}
	if _, err := r.Join(s.Key(), "bob"); !apperr.IsCode(err, apperr.CodeAlreadyTerminal) {
		t.Fatalf("expected %s when joining aborted room, got %v", apperr.CodeAlreadyTerminal, err)
	}
}

func TestConcurrentSubmissionsAcceptOnlyOne(t *testing.T) {
	r := newTestRegistry(t, fixedJudge(nil))
	s := startDebate(t, r)

	const attempts = 16
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := s.Submit(context.Background(), "alice", fmt.Sprintf("attempt %d", i)); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			} else if !apperr.IsCode(err, apperr.CodeNotYourTurn) {
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if accepted != 1 {
		t.Fatalf("expected exactly one accepted submission, got %d", accepted)
	}
	if n := len(Project(s).Arguments["alice"]); n != 1 {
		t.Fatalf("expected one argument recorded, got %d", n)
	}
}

func TestReadsDoNotWaitForJudge(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	judge := JudgeFunc(func(ctx context.Context, t Transcript) (*Result, error) {
		close(entered)
		<-release
		return &Result{Winner: t.Player2, RoundsWon: map[string]int{t.Player1: 0, t.Player2: 5}}, nil
	})
	r := newTestRegistry(t, judge)
	s := startDebate(t, r)
	for i := 0; i < 4; i++ {
		mustSubmit(t, s, "alice", "a")
		mustSubmit(t, s, "bob", "b")
	}
	mustSubmit(t, s, "alice", "a")

	submitted := make(chan *SubmitOutcome, 1)
	go func() {
		out, err := s.Submit(context.Background(), "bob", "closing")
		if err != nil {
			t.Errorf("closing submission should be accepted: %v", err)
		}
		submitted <- out
	}()
	<-entered

	read := make(chan StatusView, 1)
	go func() { read <- ProjectStatus(s) }()
	select {
	case view := <-read:
		if view.Room.Status != StatusInProgress || view.Room.CurrentTurn != "bob" {
			t.Fatalf("expected in-progress view with bob to move, got %s / %q", view.Room.Status, view.Room.CurrentTurn)
		}
		if len(view.AllArguments) != 9 {
			t.Fatalf("pending submission must not be visible, got %d arguments", len(view.AllArguments))
		}
	case <-time.After(time.Second):
		t.Fatal("room status read waited for the judge")
	}

	aborted := make(chan error, 1)
	go func() {
		_, err := s.Abort("alice")
		aborted <- err
	}()

	close(release)
	out := <-submitted
	if out == nil || !out.Completed() {
		t.Fatalf("expected completion, got %+v", out)
	}
	if err := <-aborted; !apperr.IsCode(err, apperr.CodeAlreadyTerminal) {
		t.Fatalf("abort queued behind judging should see the completed debate, got %v", err)
	}
	if Project(s).Result.Winner != "bob" {
		t.Fatal("expected bob to win")
	}
}

// scoringJudge 的回合評分判給第一位辯手，最終結果判給第二位辯手
type scoringJudge struct {
	rounds int
}

func (j *scoringJudge) Judge(ctx context.Context, t Transcript) (*Result, error) {
	n := len(t.Arguments[t.Player1])
	res := &Result{Winner: t.Player2, RoundsWon: map[string]int{t.Player1: 0, t.Player2: n}}
	for i := 1; i <= n; i++ {
		res.Rounds = append(res.Rounds, RoundScore{
			Round:       i,
			Scores:      map[string]Score{t.Player1: {Logic: 1}, t.Player2: {Logic: 9}},
			RoundWinner: t.Player2,
		})
	}
	return res, nil
}

func (j *scoringJudge) ScoreRound(ctx context.Context, in RoundInput) RoundScore {
	j.rounds++
	return RoundScore{
		Round:       in.Round,
		Scores:      map[string]Score{in.Player1: {Logic: 8}, in.Player2: {Logic: 2}},
		RoundWinner: in.Player1,
	}
}

func TestRoundResults(t *testing.T) {
	judge := &scoringJudge{}
	opts := DefaultOptions()
	opts.Clock = clockwork.NewFakeClock()
	opts.RoundsPerPlayer = 2
	s := startDebate(t, NewRegistry(judge, opts))

	if out := mustSubmit(t, s, "alice", "first alice"); out.RoundResult != nil {
		t.Fatalf("half a round must not be scored, got %+v", out.RoundResult)
	}

	out := mustSubmit(t, s, "bob", "first bob")
	rr := out.RoundResult
	if rr == nil {
		t.Fatal("expected a round result once both players submitted")
	}
	if rr.Round != 1 || rr.Player1 != (RoundEntry{Name: "alice", Argument: "first alice"}) ||
		rr.Player2 != (RoundEntry{Name: "bob", Argument: "first bob"}) {
		t.Fatalf("unexpected round result %+v", rr)
	}
	if rr.Scores.RoundWinner != "alice" || rr.Scores.Scores["alice"].Logic != 8 {
		t.Fatalf("expected scorer output, got %+v", rr.Scores)
	}
	if out.Room.Room.CurrentTurn != "alice" || len(out.Room.AllArguments) != 2 {
		t.Fatalf("outcome view does not match the submission: %+v", out.Room)
	}

	mustSubmit(t, s, "alice", "second alice")
	out = mustSubmit(t, s, "bob", "second bob")
	if !out.Completed() {
		t.Fatalf("expected completion, got %s", out.Status)
	}
	if out.RoundResult == nil || out.RoundResult.Round != 2 || out.RoundResult.Scores.RoundWinner != "bob" {
		t.Fatalf("final round should reuse the verdict scores, got %+v", out.RoundResult)
	}
	if judge.rounds != 1 {
		t.Fatalf("expected one separate round scoring, got %d", judge.rounds)
	}
	if out.Room.Room.Status != StatusCompleted || out.Room.Room.Result == nil || len(out.Room.AllArguments) != 4 {
		t.Fatalf("outcome view does not match the completed debate: %+v", out.Room)
	}
}
