package main

import (
	"fmt"

	"github.com/jonathan/career-diagnosis/internal/diagnosis"
	"github.com/jonathan/career-diagnosis/internal/observability"
	"github.com/jonathan/career-diagnosis/internal/questions"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List or show stored diagnoses for an owner",
	Long:  "List an owner's diagnoses newest first, or show one record with its segmented roadmap when --id is given.",
	RunE:  runHistory,
}

var (
	historyOwner string
	historyID    string
	historyJSON  bool
)

func init() {
	historyCmd.Flags().StringVar(&historyOwner, "owner", "", "Owner ID (required)")
	historyCmd.Flags().StringVar(&historyID, "id", "", "Show this diagnosis instead of listing")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Print as JSON")
	_ = historyCmd.MarkFlagRequired("owner")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := cmd.Context()
	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	// Reading needs no model
	svc := diagnosis.NewService(questions.Default(), nil, st.diagnoses, diagnosis.WithLogger(logger))
	out := cmd.OutOrStdout()
	printer := observability.NewPrinter(out)

	if historyID != "" {
		view, err := svc.View(ctx, historyOwner, historyID)
		if err != nil {
			return fmt.Errorf("failed to load diagnosis %s: %w", historyID, err)
		}
		if historyJSON {
			return writeJSON(out, view)
		}
		printer.PrintDiagnosis(view.DiagnosisRecord)
		printer.PrintRoadmap(view.RoadmapSegments)
		return nil
	}

	summaries, err := svc.List(ctx, historyOwner)
	if err != nil {
		return err
	}
	if historyJSON {
		return writeJSON(out, summaries)
	}
	printer.PrintSummaries(summaries)
	return nil
}
