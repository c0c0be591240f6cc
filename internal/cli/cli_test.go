package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"debate_arena/internal/api"
	"debate_arena/internal/judge"
	"debate_arena/internal/repository"
	"debate_arena/internal/room"
	"debate_arena/internal/service"
	"debate_arena/internal/utils"
)

func newTestServer(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	opts := room.DefaultOptions()
	opts.RoundsPerPlayer = 1
	tokens := utils.NewTokenIssuer("change-me", time.Hour)
	services := service.NewServices(repository.NewMemoryRepositories(), service.Deps{
		Registry: room.NewRegistry(judge.Even{}, opts),
		Tokens:   tokens,
	})
	srv := httptest.NewServer(api.NewEngine(services, api.Options{Tokens: tokens}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := cmd.ExecuteContext(ctx)
	return strings.TrimSpace(out.String()), err
}

func TestPlayDebateFromCommandLine(t *testing.T) {
	url := newTestServer(t)

	for _, name := range []string{"alice", "bob"} {
		if out, err := run(t, "--server", url, "register", name); err != nil || out == "" {
			t.Fatalf("register %s: %q %v", name, out, err)
		}
	}

	key, err := run(t, "--server", url, "-p", "alice", "create", "Cats", "vs", "Dogs", "as", "pets")
	if err != nil || len(key) != 6 {
		t.Fatalf("create: %q %v", key, err)
	}
	if out, err := run(t, "--server", url, "-p", "bob", "join", key); err != nil || !strings.Contains(out, "alice starts") {
		t.Fatalf("join: %q %v", out, err)
	}

	if _, err := run(t, "--server", url, "-p", "bob", "say", key, "Dogs are loyal"); err == nil || !strings.Contains(err.Error(), "Not your turn") {
		t.Fatalf("expected a local turn rejection, got %v", err)
	}
	if out, err := run(t, "--server", url, "-p", "alice", "say", key, "Cats are independent"); err != nil || !strings.Contains(out, "bob is next") {
		t.Fatalf("say alice: %q %v", out, err)
	}
	if out, err := run(t, "--server", url, "-p", "bob", "say", key, "Dogs are loyal"); err != nil || !strings.Contains(out, "winner: Tie") || !strings.Contains(out, "round 1 scored, round winner: Tie") {
		t.Fatalf("say bob: %q %v", out, err)
	}

	out, err := run(t, "--server", url, "watch", key)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	for _, want := range []string{"[completed]", "alice: Cats are independent", "bob: Dogs are loyal", "winner: Tie"} {
		if !strings.Contains(out, want) {
			t.Fatalf("watch output missing %q:\n%s", want, out)
		}
	}

	if _, err := run(t, "--server", url, "-p", "alice", "abort", key); err == nil || !strings.Contains(err.Error(), "already over") {
		t.Fatalf("expected abort to be rejected after completion, got %v", err)
	}
}
