package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"debate_arena/internal/apperr"
	"debate_arena/internal/models"
	"debate_arena/internal/repository"
	"debate_arena/internal/utils"
)

const maxPlayerNameLength = 32

type PlayerService struct {
	players repository.PlayerRepository
	debates repository.DebateRecordRepository
	tokens  *utils.TokenIssuer
}

func NewPlayerService(players repository.PlayerRepository, debates repository.DebateRecordRepository, tokens *utils.TokenIssuer) *PlayerService {
	return &PlayerService{players: players, debates: debates, tokens: tokens}
}

// PlayerHistory 是玩家戰績與排名
type PlayerHistory struct {
	Player        *models.Player        `json:"player"`
	Rank          int                   `json:"rank"`
	TotalPlayers  int                   `json:"total_players"`
	DebateHistory []models.DebateRecord `json:"debate_history"`
}

// ValidatePlayerName 檢查並整理玩家名稱
func ValidatePlayerName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n == 0 || n > maxPlayerNameLength || strings.ContainsAny(name, "/?#") {
		return "", apperr.Newf(apperr.CodeInvalidPlayer, "Player name must be 1-%d characters without / ? #", maxPlayerNameLength)
	}
	return name, nil
}

// Create 建立玩家並回傳身分 token，密碼可留空
func (s *PlayerService) Create(ctx context.Context, name, password string) (*models.Player, string, error) {
	name, err := ValidatePlayerName(name)
	if err != nil {
		return nil, "", err
	}

	player := &models.Player{Username: name}
	if password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, "", apperr.Wrap(apperr.CodeInternal, err)
		}
		player.PasswordHash = string(hashed)
	}

	if err := s.players.Create(ctx, player); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", apperr.New(apperr.CodePlayerExists)
		}
		return nil, "", apperr.Wrap(apperr.CodeInternal, err)
	}

	token, err := s.tokens.GenerateToken(player.Username)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.CodeInternal, err)
	}
	log.Info().Str("player", player.Username).Msg("player created")
	return player, token, nil
}

// Login 驗證密碼並簽發新的 token
func (s *PlayerService) Login(ctx context.Context, name, password string) (string, error) {
	player, err := s.Get(ctx, strings.TrimSpace(name))
	if err != nil {
		return "", err
	}
	if player.HasPassword() {
		if err := bcrypt.CompareHashAndPassword([]byte(player.PasswordHash), []byte(password)); err != nil {
			return "", apperr.Newf(apperr.CodeUnauthorized, "Invalid credentials")
		}
	}
	token, err := s.tokens.GenerateToken(player.Username)
	if err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, err)
	}
	return token, nil
}

func (s *PlayerService) Get(ctx context.Context, name string) (*models.Player, error) {
	player, err := s.players.FindByUsername(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Newf(apperr.CodeNotFound, "Player not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err)
	}
	return player, nil
}

// History 回傳玩家資料、依總分的排名以及參與過的辯論
func (s *PlayerService) History(ctx context.Context, name string) (*PlayerHistory, error) {
	player, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	all, err := s.players.FindAll(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err)
	}
	rank := 0
	for i, p := range all {
		if p.Username == player.Username {
			rank = i + 1
			break
		}
	}

	records, err := s.debates.FindByPlayer(ctx, player.Username)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err)
	}
	if records == nil {
		records = []models.DebateRecord{}
	}

	return &PlayerHistory{
		Player:        player,
		Rank:          rank,
		TotalPlayers:  len(all),
		DebateHistory: records,
	}, nil
}
