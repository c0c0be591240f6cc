package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"debate_arena/internal/apperr"
	"debate_arena/internal/client"
	"debate_arena/internal/room"
	"debate_arena/pkg/config"
)

func newClient(cfg *config.Config) *client.Client {
	return client.New(cfg.Client.BaseURL, cfg.Client.Token, cfg.Client.Timeout)
}

func requirePlayer(cfg *config.Config) (string, error) {
	if cfg.Client.Player == "" {
		return "", errors.New("a player name is required (--player or DEBATE_CLIENT_PLAYER)")
	}
	return cfg.Client.Player, nil
}

func newRegisterCmd(cfg *config.Config) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "register <name>",
		Short: "Create a player and print its identity token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := newClient(cfg).CreatePlayer(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "optional password")
	return cmd
}

func newCreateCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "create <topic>",
		Short: "Create a room and print its key",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := requirePlayer(cfg)
			if err != nil {
				return err
			}
			key, err := newClient(cfg).CreateRoom(cmd.Context(), player, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}
}

func newJoinCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "join <room>",
		Short: "Join a waiting room as the second player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := requirePlayer(cfg)
			if err != nil {
				return err
			}
			snap, err := newClient(cfg).JoinRoom(cmd.Context(), args[0], player)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "joined %s: %q, %s starts\n", snap.RoomKey, snap.Topic, snap.CurrentTurn)
			return nil
		},
	}
}

// newWatchCmd 以 Poller 追蹤房間，印出新的論點直到辯論結束
func newWatchCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <room>",
		Short: "Follow a room until the debate ends",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			printed := 0
			lastStatus := room.Status("")

			p := client.NewPoller(newClient(cfg), args[0],
				client.WithInterval(cfg.Client.PollInterval),
				client.OnUpdate(func(v *room.StatusView) {
					if v.Room.Status != lastStatus {
						lastStatus = v.Room.Status
						fmt.Fprintf(out, "[%s] %s\n", v.Room.Status, v.Room.Topic)
					}
					for _, a := range v.AllArguments[min(printed, len(v.AllArguments)):] {
						fmt.Fprintf(out, "%s: %s\n", a.Player, a.Argument)
					}
					printed = len(v.AllArguments)
				}),
			)
			if err := p.Start(cmd.Context()); err != nil {
				return err
			}

			select {
			case <-p.Done():
			case <-cmd.Context().Done():
				p.Stop()
				return nil
			}
			if err := p.Err(); err != nil {
				return err
			}
			printOutcome(cmd, p.Snapshot())
			return nil
		},
	}
}

func printOutcome(cmd *cobra.Command, v *room.StatusView) {
	if v == nil {
		return
	}
	out := cmd.OutOrStdout()
	switch v.Room.Status {
	case room.StatusCompleted:
		if r := v.Room.Result; r != nil {
			fmt.Fprintf(out, "winner: %s (%s)\n", r.Winner, r.Reason)
		}
	case room.StatusAborted:
		fmt.Fprintf(out, "aborted by %s\n", v.Room.AbortedBy)
	}
}

// newSayCmd 以 Submitter 送出一個論點，送出前先確認輪到自己
func newSayCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "say <room> <argument...>",
		Short: "Submit an argument when it is your turn",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := requirePlayer(cfg)
			if err != nil {
				return err
			}
			c := newClient(cfg)
			view, err := c.RoomStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			s := client.NewSubmitter(c, args[0], player, func() *room.StatusView { return view })
			s.SetDraft(strings.Join(args[1:], " "))
			res, err := s.Submit(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s", apperr.Message(err))
			}

			out := cmd.OutOrStdout()
			if rr := res.RoundResult; rr != nil {
				fmt.Fprintf(out, "round %d scored, round winner: %s\n", rr.Round, rr.Scores.RoundWinner)
			}
			if res.Status == room.StatusCompleted {
				fmt.Fprintf(out, "debate completed, winner: %s\n", res.FinalResult.Winner)
				return nil
			}
			fmt.Fprintf(out, "round %d submitted, %s is next\n", res.CurrentRound, res.NextTurn)
			return nil
		},
	}
}

func newAbortCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "abort <room>",
		Short: "Abort a debate you are part of",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := requirePlayer(cfg)
			if err != nil {
				return err
			}
			s := client.NewSubmitter(newClient(cfg), args[0], player, func() *room.StatusView { return nil })
			res, err := s.Abort(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s", apperr.Message(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
}
