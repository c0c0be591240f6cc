package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"debate_arena/internal/models"
	"debate_arena/internal/storage"
)

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	FindByUsername(ctx context.Context, username string) (*models.Player, error)
	AdjustScore(ctx context.Context, username string, delta models.ScoreDelta) error
	FindAll(ctx context.Context) ([]models.Player, error) // 依總分由高到低
}

type playerRepository struct {
	db *storage.PostgresDB
}

func NewPlayerRepository(db *storage.PostgresDB) PlayerRepository {
	return &playerRepository{db: db}
}

func (r *playerRepository) Create(ctx context.Context, player *models.Player) error {
	err := r.db.WithContext(ctx).Create(player).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (r *playerRepository) FindByUsername(ctx context.Context, username string) (*models.Player, error) {
	var player models.Player
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&player).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &player, nil
}

// AdjustScore 以單一 UPDATE 語句套用成績變化，避免兩場辯論同時結束時互相覆蓋
func (r *playerRepository) AdjustScore(ctx context.Context, username string, delta models.ScoreDelta) error {
	score := gorm.Expr("total_score + ?", delta.Score)
	if delta.FloorZero {
		score = gorm.Expr("GREATEST(total_score + ?, 0)", delta.Score)
	}
	res := r.db.WithContext(ctx).Model(&models.Player{}).
		Where("username = ?", username).
		Updates(map[string]interface{}{
			"total_score":  score,
			"wins":         gorm.Expr("wins + ?", delta.Wins),
			"losses":       gorm.Expr("losses + ?", delta.Losses),
			"games_played": gorm.Expr("games_played + ?", delta.Games),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *playerRepository) FindAll(ctx context.Context) ([]models.Player, error) {
	var players []models.Player
	err := r.db.WithContext(ctx).Order("total_score DESC").Order("username ASC").Find(&players).Error
	return players, err
}
