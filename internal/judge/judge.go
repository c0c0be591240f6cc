// Package judge 提供房間在達到回合門檻時使用的評審實作。
package judge

import (
	"context"
	"fmt"
	"time"

	"debate_arena/internal/room"
)

// Even 是不做任何評分的評審，所有回合都判為平手。
// 沒有設定 AI 金鑰時使用。
type Even struct{}

func (Even) Judge(ctx context.Context, t room.Transcript) (*room.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := min(len(t.Arguments[t.Player1]), len(t.Arguments[t.Player2]))
	rounds := make([]room.RoundScore, n)
	for i := range rounds {
		rounds[i] = room.RoundScore{
			Round: i + 1,
			Scores: map[string]room.Score{
				t.Player1: DefaultScore,
				t.Player2: DefaultScore,
			},
			RoundWinner: room.TieWinner,
		}
	}
	return tally(t, rounds), nil
}

// ScoreRound 讓單一回合平手
func (Even) ScoreRound(_ context.Context, in room.RoundInput) room.RoundScore {
	return room.RoundScore{
		Round:       in.Round,
		Scores:      map[string]room.Score{in.Player1: DefaultScore, in.Player2: DefaultScore},
		RoundWinner: room.TieWinner,
	}
}

// tally 依各回合勝者計算總結果
func tally(t room.Transcript, rounds []room.RoundScore) *room.Result {
	won := map[string]int{t.Player1: 0, t.Player2: 0}
	for _, r := range rounds {
		if r.RoundWinner != room.TieWinner {
			won[r.RoundWinner]++
		}
	}

	res := &room.Result{
		GameID:    t.RoomKey,
		Winner:    room.TieWinner,
		RoundsWon: won,
		Rounds:    rounds,
		JudgedAt:  time.Now().UTC(),
	}
	switch {
	case won[t.Player1] > won[t.Player2]:
		res.Winner = t.Player1
	case won[t.Player2] > won[t.Player1]:
		res.Winner = t.Player2
	}
	if res.Winner == room.TieWinner {
		res.Reason = fmt.Sprintf("Tied at %d rounds each out of %d", won[t.Player1], len(rounds))
	} else {
		res.Reason = fmt.Sprintf("Won %d rounds out of %d", won[res.Winner], len(rounds))
	}
	return res
}

func roundWinner(p1, p2 string, s1, s2 room.Score) string {
	switch {
	case s1.Total() > s2.Total():
		return p1
	case s2.Total() > s1.Total():
		return p2
	default:
		return room.TieWinner
	}
}
