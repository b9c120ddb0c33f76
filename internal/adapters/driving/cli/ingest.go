package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// noTextMessage is shown when a file yields no text, which for PDFs
// usually means a scan.
const noTextMessage = "Could not extract text. The PDF may be scanned or image-based."

var ingestJSON bool

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Load a document to ask questions about",
	Long: `Extracts text from a file, splits it into chunks, embeds them and stores
them in the vector index. The new document replaces any previously loaded one.

Supported formats: .txt, .md, .html, .docx, .pdf and other plain text files.
Use '-' to read plain text from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output ingestion stats as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	pipeline, err := getPipeline(cmd.Context())
	if err != nil {
		return err
	}

	path := args[0]
	var stats domain.IngestStats
	if path == "-" {
		data, readErr := io.ReadAll(cmd.InOrStdin())
		if readErr != nil {
			return fmt.Errorf("reading stdin: %w", readErr)
		}
		stats, err = pipeline.Ingest(cmd.Context(), string(data))
		stats.FileName = "stdin"
	} else {
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return fmt.Errorf("reading %s: %w", path, readErr)
		}
		stats, err = pipeline.IngestFile(cmd.Context(), filepath.Base(path), data)
	}

	switch {
	case errors.Is(err, domain.ErrNoExtractableText):
		cmd.PrintErrln(noTextMessage)
		return ErrReported
	case errors.Is(err, domain.ErrEmptyDocument):
		cmd.PrintErrln("The document is empty.")
		return ErrReported
	case err != nil:
		return fmt.Errorf("ingest failed: %w", err)
	}

	if ingestJSON {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("File:       %s\n", stats.FileName)
	cmd.Printf("Characters: %d\n", stats.CharCount)
	cmd.Printf("Chunks:     %d\n", stats.ChunkCount)
	return nil
}
