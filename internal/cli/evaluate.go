package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cortezalberto/aulaguard/internal/generate"
	"github.com/cortezalberto/aulaguard/internal/governance"
	"github.com/cortezalberto/aulaguard/internal/model"
	"github.com/cortezalberto/aulaguard/internal/pipeline"
	"github.com/cortezalberto/aulaguard/internal/risk"
	"github.com/cortezalberto/aulaguard/internal/trace"
)

var (
	evalConfig       string
	evalSession      string
	evalStudent      string
	evalDependency   float64
	evalNoWorkStreak int
	evalTraceDB      string
	evalAPIKey       string
	evalBaseURL      string
	evalModel        string
	evalFormat       string
)

func init() {
	rootCmd.AddCommand(evaluateCmd)
	evaluateCmd.Flags().StringVar(&evalConfig, "config", "", "Path to governance YAML (default ~/.aulaguard/governance.yaml)")
	evaluateCmd.Flags().StringVar(&evalSession, "session", "", "Session identifier for tracing")
	evaluateCmd.Flags().StringVar(&evalStudent, "student", "", "Student identifier for tracing")
	evaluateCmd.Flags().Float64Var(&evalDependency, "dependency", 0, "Average AI dependency for the session (0-1)")
	evaluateCmd.Flags().IntVar(&evalNoWorkStreak, "no-work-streak", 0, "Consecutive requests without own work shown")
	evaluateCmd.Flags().StringVar(&evalTraceDB, "trace-db", "", "SQLite trace database path (optional)")
	evaluateCmd.Flags().StringVar(&evalAPIKey, "api-key", "", "Chat API key; also read from AULAGUARD_API_KEY")
	evaluateCmd.Flags().StringVar(&evalBaseURL, "base-url", "", "Chat API base URL override (Ollama, Groq, vLLM)")
	evaluateCmd.Flags().StringVar(&evalModel, "model", "", "Chat model name")
	evaluateCmd.Flags().StringVarP(&evalFormat, "format", "f", "text", "Output format (text|json)")
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [message]",
	Short: "Evaluate one student message through the governance pipeline",
	Long: "Sanitizes the message, classifies intent, decides the semaphore and\n" +
		"selects a pedagogical strategy. With an API key configured it also\n" +
		"generates the tutor reply for non-blocked turns.",
	Args: cobra.ExactArgs(1),
	RunE: runEvaluate,
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg, hash, err := governance.LoadConfigWithHash(evalConfig)
	if err != nil {
		return err
	}

	opts := []pipeline.Option{}
	apiKey := evalAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("AULAGUARD_API_KEY")
	}
	if apiKey != "" {
		genOpts := []generate.Option{}
		if evalModel != "" {
			genOpts = append(genOpts, generate.WithModel(evalModel))
		}
		opts = append(opts, pipeline.WithGenerator(generate.New(apiKey, evalBaseURL, genOpts...)))
	}
	if evalTraceDB != "" {
		store, err := trace.Open(evalTraceDB, nil)
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, pipeline.WithTraceSink(store))
	}

	p := pipeline.New(cfg, hash, opts...)
	defer p.Close()

	agg := model.SessionAggregates{
		AverageAIDependency:            evalDependency,
		ConsecutiveRequestsWithoutWork: evalNoWorkStreak,
	}
	out, err := p.Process(context.Background(), pipeline.Request{
		SessionID:  evalSession,
		StudentID:  evalStudent,
		Message:    args[0],
		Aggregates: agg,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
	}

	risks := risk.Analyze(out.Classification, agg, out.Response, cfg)
	score := model.Score(risks)

	if evalFormat == "json" {
		data, err := json.MarshalIndent(map[string]any{
			"decision": out.Decision,
			"response": out.Response,
			"risks":    risks,
			"score":    score,
			"band":     model.Band(score),
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Semaphore:  %s (%s)\n", out.Governance.Semaphore, out.Governance.Reason)
	fmt.Printf("Intent:     %s / %s\n", out.Classification.Intent, out.Classification.CognitiveState)
	fmt.Printf("Strategy:   %s, help level %s\n", out.Strategy.ResponseType, out.Strategy.HelpLevel)
	if len(out.Governance.Restrictions) > 0 {
		fmt.Printf("Restricted: %v\n", out.Governance.Restrictions)
	}
	if out.Strategy.ShouldBlock {
		fmt.Printf("BLOCKED:    %s\n", out.Strategy.BlockReason)
	}
	if out.PIIFound {
		fmt.Printf("Sanitized:  %s\n", out.Sanitized)
	}
	for _, r := range risks {
		fmt.Printf("Risk:       [%s] %s (%s)\n", r.Level, r.Type, r.Dimension)
	}
	fmt.Printf("Score:      %d (%s)\n", score, model.Band(score))
	if out.Response != "" {
		fmt.Printf("\n%s\n", out.Response)
	}
	return nil
}
