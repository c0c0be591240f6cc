package models

import "time"

// Player 表示系統中的辯手
type Player struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"` // 用戶名，必須唯一
	PasswordHash string    `json:"-"`                                    // 選用密碼，json 序列化時會被忽略
	TotalScore   int       `gorm:"not null;default:0" json:"total_score"`
	GamesPlayed  int       `gorm:"not null;default:0" json:"games_played"`
	Wins         int       `gorm:"not null;default:0" json:"wins"`
	Losses       int       `gorm:"not null;default:0" json:"losses"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`
}

// HasPassword 回傳玩家是否設定了密碼
func (p *Player) HasPassword() bool {
	return p.PasswordHash != ""
}

// ScoreDelta 描述一次對玩家成績的增減
type ScoreDelta struct {
	Score  int
	Wins   int
	Losses int
	Games  int
	// FloorZero 為 true 時總分不會低於 0
	FloorZero bool
}
