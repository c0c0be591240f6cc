package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"debate_arena/internal/models"
)

type memoryPlayerRepository struct {
	mu      sync.RWMutex
	nextID  uint
	players map[string]*models.Player
}

func NewMemoryPlayerRepository() PlayerRepository {
	return &memoryPlayerRepository{players: make(map[string]*models.Player)}
}

func (r *memoryPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players[player.Username]; ok {
		return ErrDuplicate
	}
	r.nextID++
	player.ID = r.nextID
	now := time.Now().UTC()
	player.CreatedAt = now
	player.UpdatedAt = now
	cp := *player
	r.players[player.Username] = &cp
	return nil
}

func (r *memoryPlayerRepository) FindByUsername(ctx context.Context, username string) (*models.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.players[username]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memoryPlayerRepository) AdjustScore(ctx context.Context, username string, delta models.ScoreDelta) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[username]
	if !ok {
		return ErrNotFound
	}
	p.TotalScore += delta.Score
	if delta.FloorZero && p.TotalScore < 0 {
		p.TotalScore = 0
	}
	p.Wins += delta.Wins
	p.Losses += delta.Losses
	p.GamesPlayed += delta.Games
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memoryPlayerRepository) FindAll(ctx context.Context) ([]models.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Player, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, *p)
	}
	slices.SortFunc(out, func(a, b models.Player) int {
		if a.TotalScore != b.TotalScore {
			return b.TotalScore - a.TotalScore
		}
		if a.Username < b.Username {
			return -1
		}
		if a.Username > b.Username {
			return 1
		}
		return 0
	})
	return out, nil
}

type memoryDebateRecordRepository struct {
	mu      sync.RWMutex
	records []models.DebateRecord
}

func NewMemoryDebateRecordRepository() DebateRecordRepository {
	return &memoryDebateRecordRepository{}
}

func (r *memoryDebateRecordRepository) Create(ctx context.Context, record *models.DebateRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	r.records = append(r.records, *record)
	return nil
}

func (r *memoryDebateRecordRepository) FindByPlayer(ctx context.Context, username string) ([]models.DebateRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.DebateRecord
	for i := len(r.records) - 1; i >= 0; i-- {
		rec := r.records[i]
		if rec.Player1Name == username || rec.Player2Name == username {
			out = append(out, rec)
		}
	}
	return out, nil
}
