package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/An-Noor-Team/An-Noor-Store/internal/cli"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/domain"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"sessions"},
	Short:   "Manage stored cart sessions",
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd, cli.Options{})
		if err != nil {
			return err
		}
		defer rt.Close()

		ids, err := rt.Shop.ListSessions(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			if ids == nil {
				ids = []string{}
			}
			return printJSON(cmd.OutOrStdout(), ids)
		}
		if len(ids) == 0 {
			cli.PrintSystemMessage(cmd.OutOrStdout(), "No sessions stored")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(ids, "\n"))
		return nil
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect [session-id]",
	Short: "Print the stored snapshot of a session",
	Long:  `Prints the persisted cart exactly as the store holds it (decrypted when a key is configured). Defaults to --session.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := sessionFlag(cmd)
		if len(args) == 1 {
			id = args[0]
		}

		rt, err := newRuntime(cmd, cli.Options{})
		if err != nil {
			return err
		}
		defer rt.Close()

		data, err := rt.Shop.Sessions().Store().Load(cmd.Context(), id)
		if errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("session '%s' not found", id)
		}
		if err != nil {
			return fmt.Errorf("failed to load session '%s': %w", id, err)
		}
		cart, err := domain.DecodeSnapshot(data)
		if err != nil {
			return fmt.Errorf("session '%s' holds an unreadable snapshot: %w", id, err)
		}
		return printJSON(cmd.OutOrStdout(), cartView{SessionID: id, Items: cart, Subtotal: cart.Subtotal(), Count: cart.ItemCount()})
	},
}

var sessionRmCmd = &cobra.Command{
	Use:     "rm [session-id...]",
	Aliases: []string{"delete"},
	Short:   "Delete stored sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		if !all && len(args) == 0 {
			return errors.New("give at least one session id or --all")
		}

		rt, err := newRuntime(cmd, cli.Options{})
		if err != nil {
			return err
		}
		defer rt.Close()

		ids := args
		if all {
			if ids, err = rt.Shop.ListSessions(cmd.Context()); err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}
		}
		for _, id := range ids {
			if err := rt.Shop.EndSession(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to delete session '%s': %w", id, err)
			}
			cli.PrintSystemMessage(cmd.OutOrStdout(), "Removed session '%s'", id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd, sessionInspectCmd, sessionRmCmd)
	sessionRmCmd.Flags().Bool("all", false, "Delete every stored session")
}
