package judge

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"

	"debate_arena/internal/ai"
	"debate_arena/internal/room"
)

// DefaultScore 是 AI 無法評分時給予的分數
var DefaultScore = room.Score{Logic: 5, Relevance: 5, Persuasiveness: 5}

var (
	logicRe          = regexp.MustCompile(`(?i)Logic\D*?(\d+(?:\.\d+)?)`)
	relevanceRe      = regexp.MustCompile(`(?i)Relevance\D*?(\d+(?:\.\d+)?)`)
	persuasivenessRe = regexp.MustCompile(`(?i)Persuasiveness\D*?(\d+(?:\.\d+)?)`)
)

// LLM 以文字生成服務逐一為論點評分
type LLM struct {
	provider ai.Provider
}

func NewLLM(p ai.Provider) *LLM {
	return &LLM{provider: p}
}

func (j *LLM) Judge(ctx context.Context, t room.Transcript) (*room.Result, error) {
	p1 := t.Arguments[t.Player1]
	p2 := t.Arguments[t.Player2]
	n := min(len(p1), len(p2))

	scores1 := make([]room.Score, n)
	scores2 := make([]room.Score, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			scores1[i] = j.score(ctx, t.Topic, p1[i], i+1, n)
		}(i)
		go func(i int) {
			defer wg.Done()
			scores2[i] = j.score(ctx, t.Topic, p2[i], i+1, n)
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rounds := make([]room.RoundScore, n)
	for i := range rounds {
		rounds[i] = room.RoundScore{
			Round:       i + 1,
			Scores:      map[string]room.Score{t.Player1: scores1[i], t.Player2: scores2[i]},
			RoundWinner: roundWinner(t.Player1, t.Player2, scores1[i], scores2[i]),
		}
	}
	return tally(t, rounds), nil
}

// ScoreRound 同時為回合中的兩個論點評分，失敗的一方使用預設分數
func (j *LLM) ScoreRound(ctx context.Context, in room.RoundInput) room.RoundScore {
	var s1, s2 room.Score
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s1 = j.score(ctx, in.Topic, in.Argument1, in.Round, in.Rounds)
	}()
	go func() {
		defer wg.Done()
		s2 = j.score(ctx, in.Topic, in.Argument2, in.Round, in.Rounds)
	}()
	wg.Wait()

	return room.RoundScore{
		Round:       in.Round,
		Scores:      map[string]room.Score{in.Player1: s1, in.Player2: s2},
		RoundWinner: roundWinner(in.Player1, in.Player2, s1, s2),
	}
}

func (j *LLM) score(ctx context.Context, topic, argument string, turn, total int) room.Score {
	prompt := fmt.Sprintf(`Score this debate argument (Turn %d/%d) on:
- Logic (0-10)
- Relevance to topic (0-10)
- Persuasiveness (0-10)

Topic: %s
Argument: %s

Respond with only the numerical scores in this format:
Logic: [score]
Relevance: [score]
Persuasiveness: [score]`, turn, total, topic, argument)

	text, err := j.provider.Complete(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Int("turn", turn).Msg("argument scoring failed, using default score")
		return DefaultScore
	}
	s, ok := ParseScore(text)
	if !ok {
		log.Warn().Str("response", text).Int("turn", turn).Msg("could not parse argument score, using default score")
		return DefaultScore
	}
	return s
}

// ParseScore 從 AI 回應中擷取三項分數
func ParseScore(text string) (room.Score, bool) {
	logic, ok1 := find(logicRe, text)
	relevance, ok2 := find(relevanceRe, text)
	persuasiveness, ok3 := find(persuasivenessRe, text)
	if !ok1 || !ok2 || !ok3 {
		return room.Score{}, false
	}
	return room.Score{Logic: logic, Relevance: relevance, Persuasiveness: persuasiveness}, true
}

func find(re *regexp.Regexp, text string) (float64, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
