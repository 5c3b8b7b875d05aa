package cli

import (
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askwork/internal/adapters/driving/mcp"
)

var (
	mcpPort int
	mcpHost string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve askwork to MCP clients",
	Long: `Serve the ask, retrieve, classify, scope and sync tools over MCP.

Each tool call carries a user_id and is answered from what that user may
see. Calendar and mail use the GOOGLE_ACCESS_TOKEN the server was started
with.

Without --port the server speaks JSON-RPC on stdio, which is what desktop
assistants expect:

  {
    "mcpServers": {
      "askwork": {"command": "/path/to/askwork", "args": ["mcp", "serve"]}
    }
  }

With --port it serves the streamable HTTP transport, bound to --host:

  askwork mcp serve --port 8080`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "HTTP port (0 serves stdio)")
	mcpServeCmd.Flags().StringVar(&mcpHost, "host", "127.0.0.1", "HTTP bind address")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func mcpPorts() *mcp.Ports {
	return &mcp.Ports{
		Answer:        answerService,
		Identity:      identityService,
		Retrieval:     retrievalService,
		Sync:          syncService,
		Classifier:    classifierService,
		Scope:         scopeService,
		ExternalToken: externalToken,
		Version:       version,
	}
}

func mcpAddr(host string, port int) (string, error) {
	if port < 1 || port > 65535 {
		return "", fmt.Errorf("invalid port %d", port)
	}
	return net.JoinHostPort(host, strconv.Itoa(port)), nil
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	server, err := mcp.NewServer(mcpPorts())
	if err != nil {
		return err
	}
	if mcpPort == 0 {
		return server.Run(cmd.Context())
	}

	addr, err := mcpAddr(mcpHost, mcpPort)
	if err != nil {
		return err
	}
	cmd.Printf("MCP server listening on http://%s\n", addr)
	return server.RunHTTP(cmd.Context(), addr)
}
