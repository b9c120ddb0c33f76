// Package cli provides the docqa command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// ErrReported marks a failure whose message was already printed.
// Callers should exit non-zero without printing it again.
var ErrReported = errors.New("error already reported")

// PipelineFactory builds the pipeline on first use, so commands that
// never touch it (settings, version) run without provider access.
type PipelineFactory func(ctx context.Context) (driving.PipelineService, error)

// PromptWatchFunc watches prompt templates until ctx is done and calls
// onReload with the template name whenever one changes.
type PromptWatchFunc func(ctx context.Context, onReload func(name string)) error

// Services holds the driving ports the commands call.
type Services struct {
	Pipeline     PipelineFactory
	Settings     driving.SettingsService
	WatchPrompts PromptWatchFunc
}

var (
	version = "dev"
	verbose bool

	pipelineFactory PipelineFactory
	pipelineOnce    sync.Once
	pipelineService driving.PipelineService
	pipelineErr     error

	settingsService driving.SettingsService
	watchPrompts    PromptWatchFunc
)

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Ask questions about a document",
	Long: `docqa answers questions about a single document using retrieval-augmented
generation. Load a document with 'docqa ingest', then ask with 'docqa ask'
or open the interactive chat with 'docqa chat'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline diagnostics to stderr")
}

// SetServices installs the services used by the commands.
func SetServices(s Services) {
	pipelineFactory = s.Pipeline
	pipelineOnce = sync.Once{}
	pipelineService = nil
	pipelineErr = nil
	settingsService = s.Settings
	watchPrompts = s.WatchPrompts
}

// SetVersion sets the version reported by 'docqa version'.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// getPipeline returns the pipeline, building it on first call.
func getPipeline(ctx context.Context) (driving.PipelineService, error) {
	pipelineOnce.Do(func() {
		if pipelineService != nil {
			return
		}
		if pipelineFactory == nil {
			pipelineErr = errors.New("pipeline service not configured")
			return
		}
		pipelineService, pipelineErr = pipelineFactory(ctx)
		if pipelineErr != nil {
			pipelineErr = fmt.Errorf("starting pipeline: %w", pipelineErr)
		}
	})
	return pipelineService, pipelineErr
}
