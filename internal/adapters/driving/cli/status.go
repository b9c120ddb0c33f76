package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the loaded document and active models",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output status as JSON")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	pipeline, err := getPipeline(cmd.Context())
	if err != nil {
		return err
	}

	st, err := pipeline.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	if statusJSON {
		data, err := json.MarshalIndent(st, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println("[Document]")
	switch {
	case st.Document != nil:
		cmd.Printf("  Name: %s\n", st.Document.Name)
		cmd.Printf("  Characters: %d\n", st.Document.CharCount)
		if !st.Document.IngestedAt.IsZero() {
			cmd.Printf("  Ingested: %s\n", st.Document.IngestedAt.Local().Format("2006-01-02 15:04:05"))
		}
	case st.IndexedChunks > 0:
		cmd.Println("  Name: (unknown)")
	default:
		cmd.Println("  No document loaded. Run 'docqa ingest <file>' first.")
	}
	cmd.Printf("  Chunks: %d\n", st.IndexedChunks)
	cmd.Println()

	cmd.Println("[Models]")
	cmd.Printf("  Embedding: %s\n", st.EmbeddingModel)
	cmd.Printf("  LLM: %s\n", st.LLMModel)
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Chunk size: %d\n", st.ChunkSize)
	cmd.Printf("  Overlap: %d\n", st.Overlap)
	cmd.Printf("  Top K: %d\n", st.TopK)
	return nil
}
