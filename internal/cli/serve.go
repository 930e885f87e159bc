package cli

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ironsheep/ocr-overlay/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the overlay page to an MCP client over stdio",
	Long: `Serve one overlay page as an MCP (Model Context Protocol) server.

Requests are read from stdin one per line and responses are written to
stdout. Configure it in your MCP client with "ocr-overlay serve" as the
command. Logs go to stderr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := NewPage(cfg)
		if err != nil {
			return err
		}
		defer p.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		slog.Info("serving", "version", Version, "commit", GitCommit)
		return server.New(p, Version).Run(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
