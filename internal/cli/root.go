// Package cli 定義 debate_arena 的命令列介面
package cli

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"debate_arena/pkg/config"
)

// Execute 執行根命令，收到中斷訊號時取消 context
func Execute() int {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("command failed")
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	v := config.New()
	cfg := &config.Config{}

	cmd := &cobra.Command{
		Use:           "debate_arena",
		Short:         "Turn-based two player debate rooms with an AI judge.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if path, _ := cmd.Flags().GetString("config"); path != "" {
				v.SetConfigFile(path)
			}
			loaded, err := config.Load(v)
			if err != nil {
				return err
			}
			*cfg = *loaded
			setupLogging(cfg.Log)
			return nil
		},
	}

	fs := cmd.PersistentFlags()
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	fs.String("config", "", "path to a config file (default: ./pkg/config/config.yaml or ./config.yaml)")
	fs.String("log-level", "info", "log level (env: DEBATE_LOG_LEVEL)")
	fs.String("server", "http://localhost:8080", "API base URL for client commands (env: DEBATE_CLIENT_BASE_URL)")
	fs.StringP("player", "p", "", "player name for client commands (env: DEBATE_CLIENT_PLAYER)")
	fs.String("token", "", "identity token for client commands (env: DEBATE_CLIENT_TOKEN)")
	bindFlags(v, fs, map[string]string{
		"log-level": "log.level",
		"server":    "client.base_url",
		"player":    "client.player",
		"token":     "client.token",
	})

	cmd.AddCommand(
		newServeCmd(v, cfg),
		newRegisterCmd(cfg),
		newCreateCmd(cfg),
		newJoinCmd(cfg),
		newWatchCmd(cfg),
		newSayCmd(cfg),
		newAbortCmd(cfg),
	)
	cmd.CompletionOptions.HiddenDefaultCmd = true
	return cmd
}

// bindFlags 讓命令列參數覆蓋設定檔與環境變數
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) {
	for flag, key := range keys {
		if f := fs.Lookup(flag); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
}

func setupLogging(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}
