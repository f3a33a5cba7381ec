package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/An-Noor-Team/An-Noor-Store/internal/cli"
	"github.com/An-Noor-Team/An-Noor-Store/internal/config"
	"github.com/An-Noor-Team/An-Noor-Store/internal/presentation/tui"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/domain"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "annoor",
	Short: "An Noor Store: catalog, cart and checkout",
	Long: `annoor runs the An Noor watch store from the terminal.

Browse the catalog, keep a persistent cart, price delivery inside or outside
Dhaka and submit orders through EmailJS. The same shop can be served over
HTTP (serve) or to AI agents over the Model Context Protocol (mcp).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFiles, _ := cmd.Flags().GetStringSlice("env-file")
		return cli.LoadEnv(envFiles...)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (default ./"+config.DefaultFile+" when present)")
	rootCmd.PersistentFlags().StringP("session", "s", domain.StorageKey, "Cart session id")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("json", false, "Print JSON instead of formatted text")
	rootCmd.PersistentFlags().StringSlice("env-file", nil, "Env files to load (default .env)")
}

// loadConfig reads the --config file with environment overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// newRuntime loads the config and wires the shop for a command.
func newRuntime(cmd *cobra.Command, opts cli.Options) (*cli.Runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	opts.Debug, _ = cmd.Flags().GetBool("debug")
	if opts.Stdout == nil {
		opts.Stdout = cmd.OutOrStdout()
	}
	return cli.NewRuntime(cfg, opts)
}

func sessionFlag(cmd *cobra.Command) string {
	id, _ := cmd.Flags().GetString("session")
	if id == "" {
		return domain.StorageKey
	}
	return id
}

// output prints v as JSON with --json, otherwise renders the markdown.
func output(cmd *cobra.Command, v any, markdown string) error {
	w := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(w, v)
	}
	rendered, err := tui.NewRenderer(w)(markdown)
	if err != nil {
		rendered = markdown
	}
	_, err = fmt.Fprint(w, rendered)
	return err
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
