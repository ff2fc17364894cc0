package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jonathan/career-diagnosis/internal/diagnosis"
	"github.com/jonathan/career-diagnosis/internal/observability"
	"github.com/jonathan/career-diagnosis/internal/prompts"
	"github.com/jonathan/career-diagnosis/internal/questions"
	"github.com/jonathan/career-diagnosis/internal/roadmap"
	"github.com/jonathan/career-diagnosis/internal/types"
	"github.com/jonathan/career-diagnosis/internal/validation"
	"github.com/spf13/cobra"
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Run one diagnosis from an answers file",
	Long: `Validate an answers file, send the prompt to the configured model and print the diagnosis.
The answers file holds either an answer set or {"answers": {...}}. Use "-" to read stdin.`,
	RunE: runDiagnose,
}

var (
	diagnoseAnswersFile string
	diagnoseOwner       string
	diagnoseDryRun      bool
	diagnoseSave        bool
	diagnoseJSON        bool
	diagnoseTimeout     time.Duration
)

func init() {
	diagnoseCmd.Flags().StringVarP(&diagnoseAnswersFile, "answers", "a", "", "Path to answers JSON file, or - for stdin (required)")
	diagnoseCmd.Flags().StringVar(&diagnoseOwner, "owner", "cli", "Owner ID to record the diagnosis under")
	diagnoseCmd.Flags().BoolVar(&diagnoseDryRun, "dry-run", false, "Validate and print the prompt without calling the model")
	diagnoseCmd.Flags().BoolVar(&diagnoseSave, "save", false, "Persist to the configured store instead of memory")
	diagnoseCmd.Flags().BoolVar(&diagnoseJSON, "json", false, "Print the record as JSON")
	diagnoseCmd.Flags().DurationVar(&diagnoseTimeout, "timeout", 0, "Bound on the whole run (default: request timeout from config)")
	_ = diagnoseCmd.MarkFlagRequired("answers")

	rootCmd.AddCommand(diagnoseCmd)
}

func runDiagnose(cmd *cobra.Command, _ []string) error {
	answers, err := readAnswers(cmd.InOrStdin(), diagnoseAnswersFile)
	if err != nil {
		return err
	}

	catalog := questions.Default()
	out := cmd.OutOrStdout()

	if diagnoseDryRun {
		if err := validation.ValidateAnswers(catalog.Questions(), answers); err != nil {
			return fmt.Errorf("answers rejected: %w", err)
		}
		_, _ = fmt.Fprintln(out, prompts.BuildDiagnosisPrompt(catalog.Questions(), answers, nil))
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	timeout := diagnoseTimeout
	if timeout <= 0 {
		timeout = cfg.RequestTimeout()
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	st := memoryStores()
	if diagnoseSave {
		if st, err = openStores(ctx, cfg, logger); err != nil {
			return err
		}
	}
	defer st.close()

	client, err := newClient(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	svc := diagnosis.NewService(catalog, client, st.diagnoses,
		diagnosis.WithProfiles(st.profiles),
		diagnosis.WithLogger(logger),
	)

	rec, err := svc.Submit(ctx, diagnoseOwner, answers)
	if err != nil {
		var stageErr *diagnosis.StageError
		if errors.As(err, &stageErr) {
			if diagnosis.IsGenerationFailure(err) {
				return fmt.Errorf("diagnosis failed [%s] (provider %s, model %s): %w", stageErr.Code, cfg.Provider, client.Model(), err)
			}
			return fmt.Errorf("diagnosis failed [%s]: %w", stageErr.Code, err)
		}
		return err
	}

	view := &diagnosis.View{DiagnosisRecord: rec, RoadmapSegments: roadmap.SegmentRoadmap(rec.Result.Roadmap)}
	if diagnoseJSON {
		return writeJSON(out, view)
	}
	printer := observability.NewPrinter(out)
	printer.PrintDiagnosis(rec)
	printer.PrintRoadmap(view.RoadmapSegments)
	return nil
}

// readAnswers loads an answer set from path, or from in when path is "-".
// Both a bare answer set and a submission body are accepted.
func readAnswers(in io.Reader, path string) (types.AnswerSet, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read answers: %w", err)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse answers: %w", err)
	}
	if _, wrapped := probe["answers"]; wrapped {
		var req types.SubmitDiagnosisRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("failed to parse answers: %w", err)
		}
		if req.Answers == nil {
			return types.AnswerSet{}, nil
		}
		return req.Answers, nil
	}

	var answers types.AnswerSet
	if err := json.Unmarshal(data, &answers); err != nil {
		return nil, fmt.Errorf("failed to parse answers: %w", err)
	}
	return answers, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
