package main

import (
	"fmt"

	"github.com/jonathan/career-diagnosis/internal/observability"
	"github.com/jonathan/career-diagnosis/internal/questions"
	"github.com/jonathan/career-diagnosis/internal/types"
	"github.com/spf13/cobra"
)

var (
	questionsJSON bool
	questionsID   string
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Print the questionnaire",
	RunE: func(cmd *cobra.Command, _ []string) error {
		catalog := questions.Default()
		qs := catalog.Questions()
		if questionsID != "" {
			q, ok := catalog.Lookup(questionsID)
			if !ok {
				return fmt.Errorf("unknown question %q", questionsID)
			}
			qs = []types.Question{q}
		}
		if questionsJSON {
			return writeJSON(cmd.OutOrStdout(), qs)
		}
		observability.NewPrinter(cmd.OutOrStdout()).PrintQuestions(qs)
		return nil
	},
}

func init() {
	questionsCmd.Flags().BoolVar(&questionsJSON, "json", false, "Print as JSON")
	questionsCmd.Flags().StringVar(&questionsID, "id", "", "Print only the question with this ID")
	rootCmd.AddCommand(questionsCmd)
}
