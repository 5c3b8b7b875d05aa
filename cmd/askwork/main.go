// Command askwork answers workplace questions from the sources the asking
// user is allowed to see.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/askwork/internal/adapters/driving/cli"
	"github.com/custodia-labs/askwork/internal/app"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, app.Options{Watch: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	defer a.Close()

	cli.SetVersion(version)
	cli.Configure(cli.Dependencies{
		Answer:        a.Answer,
		Retrieval:     a.Retrieval,
		Sync:          a.Sync,
		Classifier:    a.Classifier,
		Scope:         a.Permissions,
		Settings:      a.Settings,
		Identity:      a.Identity,
		Mail:          a.Mail,
		ExternalToken: a.ExternalToken,
	})

	// Cobra prints command errors itself.
	return cli.Execute(ctx)
}
