package service

import (
	"context"
	"testing"
	"time"

	"debate_arena/internal/apperr"
	"debate_arena/internal/repository"
	"debate_arena/internal/utils"
)

func newPlayerService() *PlayerService {
	repos := repository.NewMemoryRepositories()
	return NewPlayerService(repos.Player, repos.Debate, utils.NewTokenIssuer("secret", time.Hour))
}

func TestCreatePlayer(t *testing.T) {
	s := newPlayerService()
	ctx := context.Background()

	player, token, err := s.Create(ctx, "  alice ", "")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if player.Username != "alice" || token == "" {
		t.Fatalf("unexpected player %+v token %q", player, token)
	}
	if _, _, err := s.Create(ctx, "alice", ""); !apperr.IsCode(err, apperr.CodePlayerExists) {
		t.Fatalf("expected %s, got %v", apperr.CodePlayerExists, err)
	}
	for _, name := range []string{"", "   ", "a/b", "this-name-is-definitely-longer-than-32"} {
		if _, _, err := s.Create(ctx, name, ""); !apperr.IsCode(err, apperr.CodeInvalidPlayer) {
			t.Fatalf("name %q: expected %s, got %v", name, apperr.CodeInvalidPlayer, err)
		}
	}
	if _, err := s.Get(ctx, "bob"); !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Fatalf("expected %s, got %v", apperr.CodeNotFound, err)
	}
}

func TestLogin(t *testing.T) {
	s := newPlayerService()
	ctx := context.Background()

	if _, _, err := s.Create(ctx, "alice", "hunter2"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := s.Login(ctx, "alice", "wrong"); !apperr.IsCode(err, apperr.CodeUnauthorized) {
		t.Fatalf("expected %s, got %v", apperr.CodeUnauthorized, err)
	}
	token, err := s.Login(ctx, "alice", "hunter2")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	claims, err := s.tokens.ParseToken(token)
	if err != nil || claims.Username != "alice" {
		t.Fatalf("expected a token for alice, got %+v (%v)", claims, err)
	}

	if _, _, err := s.Create(ctx, "bob", ""); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := s.Login(ctx, "bob", ""); err != nil {
		t.Fatalf("passwordless login should succeed: %v", err)
	}
	if _, err := s.Login(ctx, "carol", ""); !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Fatalf("expected %s, got %v", apperr.CodeNotFound, err)
	}
}
