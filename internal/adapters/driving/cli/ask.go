package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

const (
	notProcessedMessage = "Please process the document first."
	noContextMessage    = "No relevant context found. Try processing the document first."
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about the loaded document",
	Long: `Retrieves the chunks most similar to the question and asks the LLM to
answer using only that context. Quoting the question is optional.

If the provider rate-limits the request, docqa waits the delay the provider
suggests plus 5 seconds (65 seconds when it suggests none) and retries, up to
generation.max_retries attempts. Retry notices are printed to stderr.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	pipeline, err := getPipeline(cmd.Context())
	if err != nil {
		return err
	}

	question := strings.Join(args, " ")
	ctx := driving.WithNoticeSink(cmd.Context(), func(notice string) {
		cmd.PrintErrln("Warning: " + notice)
	})

	result, err := pipeline.Ask(ctx, question)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	switch result.Kind {
	case domain.AnswerNotProcessed:
		cmd.Println(notProcessedMessage)
	case domain.AnswerNoContext:
		cmd.Println(noContextMessage)
	case domain.AnswerText:
		cmd.Println(result.Text)
		if len(result.Sources) > 0 {
			cmd.Println()
			cmd.Println("Sources: " + formatSources(result.Sources))
		}
	}
	return nil
}

func formatSources(sources []domain.Source) string {
	parts := make([]string, 0, len(sources))
	for _, s := range sources {
		parts = append(parts, fmt.Sprintf("%s (%.2f)", s.ChunkID, s.Similarity))
	}
	return strings.Join(parts, ", ")
}
