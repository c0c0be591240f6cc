package repository

import (
	"context"

	"debate_arena/internal/models"
	"debate_arena/internal/storage"
)

type DebateRecordRepository interface {
	Create(ctx context.Context, record *models.DebateRecord) error
	FindByPlayer(ctx context.Context, username string) ([]models.DebateRecord, error)
}

type debateRecordRepository struct {
	db *storage.PostgresDB
}

func NewDebateRecordRepository(db *storage.PostgresDB) DebateRecordRepository {
	return &debateRecordRepository{db: db}
}

func (r *debateRecordRepository) Create(ctx context.Context, record *models.DebateRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// FindByPlayer 查詢玩家參與過的所有辯論，最新的在前
func (r *debateRecordRepository) FindByPlayer(ctx context.Context, username string) ([]models.DebateRecord, error) {
	var records []models.DebateRecord
	err := r.db.WithContext(ctx).
		Where("player1_name = ? OR player2_name = ?", username, username).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}
