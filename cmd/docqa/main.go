// Command docqa answers questions about a single document.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/docqa/internal/adapters/driven/ai"
	"github.com/custodia-labs/docqa/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docqa/internal/adapters/driving/cli"
	"github.com/custodia-labs/docqa/internal/core/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A missing .env is the normal case.
	_ = godotenv.Load() //nolint:errcheck // optional file

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()

	if err != nil {
		if !errors.Is(err, cli.ErrReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	promptStore, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("open prompts: %w", err)
	}

	app := &application{
		settings: settingsService,
		prompts:  promptStore,
		getenv:   os.Getenv,
	}
	defer app.Close()

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Pipeline: app.Pipeline,
		Settings: settingsService,
		WatchPrompts: func(ctx context.Context, onReload func(name string)) error {
			w, err := file.NewPromptWatcher(promptStore, promptStore.Dir(), onReload)
			if err != nil {
				return err
			}
			return w.Run(ctx)
		},
	})

	return cli.Execute(ctx)
}
