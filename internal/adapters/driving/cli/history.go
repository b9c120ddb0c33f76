package cli

import (
	"github.com/spf13/cobra"
)

var historyClear bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show this session's questions and answers",
	Long: `Conversation history lives in memory for the life of one process, so it is
only populated inside 'docqa chat' or a running MCP server. Run from the
shell it reports an empty session.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "discard the session history")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	pipeline, err := getPipeline(cmd.Context())
	if err != nil {
		return err
	}

	if historyClear {
		pipeline.ClearHistory()
		cmd.Println("History cleared.")
		return nil
	}

	turns := pipeline.History()
	if len(turns) == 0 {
		cmd.Println("No questions asked in this session.")
		return nil
	}

	for i, turn := range turns {
		cmd.Printf("[%d] %s\n", i+1, turn.AskedAt.Local().Format("15:04:05"))
		cmd.Printf("  Q: %s\n", turn.Question)
		cmd.Printf("  A: %s\n", turn.Answer)
		cmd.Println()
	}
	return nil
}
