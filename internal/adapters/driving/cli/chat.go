package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui"
	"github.com/custodia-labs/docqa/internal/logger"
)

var chatCmd = &cobra.Command{
	Use:   "chat [file]",
	Short: "Open the interactive chat",
	Long: `Launch the interactive terminal chat. If a file is given it is ingested
first, replacing the loaded document.

Controls:
  enter           Send the question
  /ingest <path>  Load a document
  ctrl+l          Clear the conversation
  pgup/pgdn       Scroll the transcript
  tab             Document and settings
  esc, ctrl+c     Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = ErrReported
		}
	}()

	pipeline, err := getPipeline(cmd.Context())
	if err != nil {
		return err
	}

	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		cmd.Printf("Processing %s...\n", filepath.Base(args[0]))
		if _, err := pipeline.IngestFile(cmd.Context(), filepath.Base(args[0]), data); err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}
	}

	app, err := tui.NewApp(tui.NewPorts(pipeline, settingsService))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	app.WithContext(ctx)

	if watchPrompts != nil {
		go func() {
			if err := watchPrompts(ctx, app.PromptReloaded); err != nil {
				logger.Warn("prompt watcher stopped: %v", err)
			}
		}()
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
