package room

import (
	"context"
	"maps"
	"slices"
	"time"
)

// Transcript 是交給評審的完整辯論內容
type Transcript struct {
	RoomKey   string
	Topic     string
	Player1   string
	Player2   string
	Arguments map[string][]string
}

// Judge 在回合數達到門檻時計算勝負
type Judge interface {
	Judge(ctx context.Context, t Transcript) (*Result, error)
}

// JudgeFunc 讓普通函式可以當作 Judge 使用
type JudgeFunc func(ctx context.Context, t Transcript) (*Result, error)

func (f JudgeFunc) Judge(ctx context.Context, t Transcript) (*Result, error) {
	return f(ctx, t)
}

// RoundInput 是單一回合交給評分者的內容
type RoundInput struct {
	RoomKey   string
	Topic     string
	Round     int
	Rounds    int
	Player1   string
	Player2   string
	Argument1 string
	Argument2 string
}

// RoundScorer 在雙方都完成一個回合時為該回合評分。
// 評分沒有失敗的情況，無法評分時由實作自行給予預設分數。
type RoundScorer interface {
	ScoreRound(ctx context.Context, in RoundInput) RoundScore
}

// RoundEntry 是回合結果中一位辯手的論點
type RoundEntry struct {
	Name     string `json:"name"`
	Argument string `json:"argument"`
}

// RoundResult 是提交補齊一個回合時回傳的該回合評分
type RoundResult struct {
	Round   int        `json:"round"`
	Player1 RoundEntry `json:"player1"`
	Player2 RoundEntry `json:"player2"`
	Scores  RoundScore `json:"scores"`
}

// Score 是單一論點的評分
type Score struct {
	Logic          float64 `json:"logic"`
	Relevance      float64 `json:"relevance"`
	Persuasiveness float64 `json:"persuasiveness"`
}

// Total 回傳三項分數的總和
func (s Score) Total() float64 {
	return s.Logic + s.Relevance + s.Persuasiveness
}

// RoundScore 是單一回合的評分結果
type RoundScore struct {
	Round       int              `json:"round"`
	Scores      map[string]Score `json:"scores"`
	RoundWinner string           `json:"round_winner"`
}

// TieWinner 是平手時 Winner 的值
const TieWinner = "Tie"

// Result 是評審產生的結果，房間只負責保存，不解讀其中內容
type Result struct {
	GameID    string         `json:"game_id"`
	Winner    string         `json:"winner"`
	RoundsWon map[string]int `json:"rounds_won"`
	Rounds    []RoundScore   `json:"rounds,omitempty"`
	Reason    string         `json:"reason,omitempty"`
	JudgedAt  time.Time      `json:"timestamp"`
}

// Clone 深拷貝結果，避免快照共用內部資料
func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}
	out := *r
	out.RoundsWon = maps.Clone(r.RoundsWon)
	out.Rounds = slices.Clone(r.Rounds)
	for i := range out.Rounds {
		out.Rounds[i].Scores = maps.Clone(r.Rounds[i].Scores)
	}
	return &out
}
