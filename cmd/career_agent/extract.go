package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jonathan/career-diagnosis/internal/parsing"
	"github.com/jonathan/career-diagnosis/internal/roadmap"
	"github.com/jonathan/career-diagnosis/internal/schemas"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Recover a diagnosis result from raw model output",
	Long:  "Run the result extractor over saved model output and print the result with its segmented roadmap. Useful for replaying outputs that failed in production.",
	RunE:  runExtract,
}

var (
	extractInputFile string
	extractTruncated bool
	extractSchema    bool
)

func init() {
	extractCmd.Flags().StringVarP(&extractInputFile, "in", "i", "-", "Path to raw model output, or - for stdin")
	extractCmd.Flags().BoolVar(&extractTruncated, "truncated", false, "Treat the output as cut off at the token ceiling")
	extractCmd.Flags().BoolVar(&extractSchema, "schema", false, "Print the JSON Schema results are checked against and exit")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	if extractSchema {
		_, err := io.WriteString(cmd.OutOrStdout(), schemas.DiagnosisResultSchema())
		return err
	}

	var raw []byte
	var err error
	if extractInputFile == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(extractInputFile)
	}
	if err != nil {
		return fmt.Errorf("failed to read model output: %w", err)
	}

	result, err := parsing.ExtractDiagnosisResult(string(raw), extractTruncated)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	return writeJSON(cmd.OutOrStdout(), map[string]any{
		"result":          result,
		"roadmapSegments": roadmap.SegmentRoadmap(result.Roadmap),
	})
}
