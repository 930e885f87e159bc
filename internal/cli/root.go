package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/ocr-overlay/internal/config"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// cfg is the resolved configuration, loaded before any subcommand runs.
var cfg *config.Config

var RootCmd = &cobra.Command{
	Use:   "ocr-overlay",
	Short: "OCR overlay: recognize text and faces and box them over the image",
	Long: `ocr-overlay recognizes the text in a picture with Tesseract, finds faces,
and keeps the word and face boxes aligned with the picture at any display size.

Run "ocr-overlay serve" to drive it from an MCP client over stdio, or
"ocr-overlay render" to draw the overlay for one image from the command line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}
		if path == "" {
			path = os.Getenv(config.EnvPrefix + "CONFIG")
		}
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}

		ll, err := cmd.Flags().GetString("log-level")
		if err != nil {
			return err
		}
		if ll == "" {
			ll = loaded.Log.Level
		}
		level, err := config.ParseLevel(ll)
		if err != nil {
			return err
		}

		// stdout carries the MCP protocol, so logs go to stderr.
		opts := &slog.HandlerOptions{
			Level: level,
		}
		handler := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(handler)

		cfg = loaded
		slog.Debug("configuration loaded", "config", path, "version", Version)
		return nil
	},
}

func init() {
	RootCmd.Version = fmt.Sprintf("%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	RootCmd.PersistentFlags().String("log-level", "", "The logging level: debug, info, warn or error (default from config)")
	RootCmd.PersistentFlags().String("config", "", "Path to a YAML configuration file (default $OCR_OVERLAY_CONFIG)")
}
