package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/ironsheep/ocr-overlay/internal/cli"
	"github.com/ironsheep/ocr-overlay/internal/config"
)

func main() {
	// A missing .env is fine; a malformed one is not.
	if err := config.LoadEnvFiles(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := fang.Execute(context.Background(), cli.RootCmd, fang.WithVersion(cli.Version)); err != nil {
		os.Exit(1)
	}
}
