package repository

import (
	"errors"

	"debate_arena/internal/models"
	"debate_arena/internal/storage"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

type Repositories struct {
	Player PlayerRepository
	Debate DebateRecordRepository
}

func NewRepositories(db *storage.PostgresDB) *Repositories {
	return &Repositories{
		Player: NewPlayerRepository(db),
		Debate: NewDebateRecordRepository(db),
	}
}

// NewMemoryRepositories 建立不需要資料庫的實作，用於開發與測試
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Player: NewMemoryPlayerRepository(),
		Debate: NewMemoryDebateRecordRepository(),
	}
}

// Models 回傳需要自動遷移的模型
func Models() []interface{} {
	return []interface{}{&models.Player{}, &models.DebateRecord{}}
}
