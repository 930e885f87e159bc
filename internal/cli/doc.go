// Package cli holds the ocr-overlay cobra commands.
//
// The root command resolves the configuration and sets up slog before any
// subcommand runs. serve exposes a page over MCP, render draws the overlay
// for one image and languages lists the installed OCR languages.
package cli
