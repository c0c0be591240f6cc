package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"debate_arena/internal/ai"
	"debate_arena/internal/ai/gemini"
	"debate_arena/internal/api"
	"debate_arena/internal/events"
	"debate_arena/internal/judge"
	"debate_arena/internal/repository"
	"debate_arena/internal/room"
	"debate_arena/internal/service"
	"debate_arena/internal/storage"
	"debate_arena/internal/topics"
	"debate_arena/internal/utils"
	"debate_arena/pkg/config"
)

func newServeCmd(v *viper.Viper, cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the debate API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()
	fs.String("addr", ":8080", "address to listen on (env: DEBATE_SERVER_ADDRESS)")
	fs.String("storage", "memory", "player and history storage: memory or postgres (env: DEBATE_STORAGE_DRIVER)")
	fs.Bool("auth-required", false, "require a bearer token on room mutations (env: DEBATE_AUTH_REQUIRED)")
	bindFlags(v, fs, map[string]string{
		"addr":          "server.address",
		"storage":       "storage.driver",
		"auth-required": "auth.required",
	})
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	repos, closeStore, err := openRepositories(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	var provider ai.Provider
	var roomJudge room.Judge = judge.Even{}
	if cfg.Gemini.APIKey != "" {
		provider = gemini.New(cfg.Gemini.APIKey, cfg.Gemini.BaseURL, cfg.Gemini.Model, cfg.Gemini.Timeout)
		roomJudge = judge.NewLLM(provider)
	} else {
		log.Warn().Msg("no gemini api key configured, debates are judged as ties and topics come from the catalog")
	}

	publisher, err := openPublisher(cfg.NATS)
	if err != nil {
		return err
	}
	defer publisher.Close()

	registry := room.NewRegistry(roomJudge, room.Options{
		RoundsPerPlayer: cfg.Debate.RoundsPerPlayer,
		MinTopicLength:  cfg.Debate.MinTopicLength,
		MaxTopicLength:  cfg.Debate.MaxTopicLength,
		KeyLength:       cfg.Debate.KeyLength,
		TerminalTTL:     cfg.Debate.TerminalTTL,
		IdleTTL:         cfg.Debate.IdleTTL,
		ReapInterval:    cfg.Debate.ReapInterval,
	})
	tokens := utils.NewTokenIssuer(cfg.Auth.Secret, cfg.Auth.TokenTTL)

	services := service.NewServices(repos, service.Deps{
		Registry:     registry,
		Events:       publisher,
		Topics:       topics.NewGenerator(topics.DefaultCatalog(), provider),
		Tokens:       tokens,
		AbortPenalty: cfg.Debate.AbortPenalty,
		JudgeTimeout: cfg.Debate.JudgeTimeout,
	})

	gin.SetMode(gin.ReleaseMode)
	engine := api.NewEngine(services, api.Options{
		Tokens:       tokens,
		AuthRequired: cfg.Auth.Required,
		JoinURL:      cfg.Server.JoinURL,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           cors.AllowAll().Handler(engine),
		ReadHeaderTimeout: 10 * time.Second,
	}

	reaperCtx, stopReaper := context.WithCancel(ctx)
	defer stopReaper()
	go registry.RunReaper(reaperCtx)

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", cfg.Server.Address).
			Str("storage", cfg.Storage.Driver).
			Bool("auth_required", cfg.Auth.Required).
			Msg("debate server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openRepositories(cfg *config.Config) (*repository.Repositories, func(), error) {
	if cfg.Storage.Driver != "postgres" {
		return repository.NewMemoryRepositories(), func() {}, nil
	}

	db, err := storage.NewPostgresDB(cfg.DB)
	if err != nil {
		return nil, nil, err
	}
	if err := db.AutoMigrate(repository.Models()...); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to auto migrate database: %w", err)
	}
	log.Info().Str("host", cfg.DB.Host).Str("database", cfg.DB.Name).Msg("connected to postgres")
	return repository.NewRepositories(db), func() { db.Close() }, nil
}

func openPublisher(cfg config.NATSConfig) (events.Publisher, error) {
	if cfg.URL == "" {
		return events.Noop{}, nil
	}
	natsCfg := events.DefaultNATSConfig()
	natsCfg.URL = cfg.URL
	if cfg.SubjectPrefix != "" {
		natsCfg.SubjectPrefix = cfg.SubjectPrefix
	}
	p, err := events.NewNATSPublisher(natsCfg)
	if err != nil {
		return nil, err
	}
	log.Info().Str("url", cfg.URL).Str("prefix", natsCfg.SubjectPrefix).Msg("publishing room events to NATS")
	return p, nil
}
