package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/agentic-research/loom/internal/toolserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pattern library over MCP stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		// Diagnostics go to stderr; stdout belongs to the protocol.
		log.Printf("serving library %s as %q", st.Path(), cfg.ServerName)
		return toolserver.ServeStdio(toolserver.New(st, cfg.ServerName, Version))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
