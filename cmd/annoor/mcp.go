package main

import (
	"fmt"

	"github.com/An-Noor-Team/An-Noor-Store/internal/cli"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the catalog and carts as MCP tools.
This allows AI agents (like Claude Desktop) to browse products and fill a cart.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		// Orders are never placed through MCP; keep stdout free for JSON-RPC.
		rt, err := newRuntime(cmd, cli.Options{Stdout: cmd.ErrOrStderr()})
		if err != nil {
			return err
		}
		defer rt.Close()

		srv := mcp.NewServer(rt.Shop, rt.Logger)

		switch transport {
		case "stdio":
			rt.Logger.Info("Starting An Noor MCP Server (Stdio)...")
			if err := srv.ServeStdio(); err != nil {
				return fmt.Errorf("MCP server execution failed: %w", err)
			}
		case "sse":
			sigCtx := cli.NewSignalContext(cmd.Context())
			defer sigCtx.Cancel()

			if err := srv.ServeSSE(sigCtx, port); err != nil {
				return fmt.Errorf("MCP server execution failed: %w", err)
			}
			rt.Logger.Info("MCP Server stopped gracefully")
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8081, "Port to listen on (only for SSE)")
}
