package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/convsearch/internal/config"
	"github.com/kailas-cloud/convsearch/internal/domain"
	"github.com/kailas-cloud/convsearch/internal/metrics"
	"github.com/kailas-cloud/convsearch/internal/querygen"
	"github.com/kailas-cloud/convsearch/internal/retriever/indri"
	"github.com/kailas-cloud/convsearch/internal/retriever/websearch"
	openaiGen "github.com/kailas-cloud/convsearch/internal/transport/openai"
	retrievaluc "github.com/kailas-cloud/convsearch/internal/usecase/retrieval"
)

var (
	askResults int
	askJSON    bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Retrieve documents for a question",
	Long: `Derive a query from the question and retrieve documents from the
configured back end.

Examples:
  convsearchctl ask "who invented the telescope"
  convsearchctl ask --results 3 --json "indri query language"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().IntVarP(&askResults, "results", "n", 0, "number of results (default from config)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output as JSON")
}

func runAsk(cmd *cobra.Command, args []string) error {
	logger := zap.NewNop()
	metrics.RegisterRetrievalMetrics()

	if askResults > 0 {
		cfg.Retrieval.ResultsRequested = askResults
	}

	var gen retrievaluc.QueryGenerator
	switch cfg.QueryGen.Mode {
	case config.QueryGenLLM:
		gen = openaiGen.NewQueryGenerator(&openaiGen.Config{
			APIKey:   cfg.QueryGen.APIKey,
			BaseURL:  cfg.QueryGen.BaseURL,
			Model:    cfg.QueryGen.Model,
			MaxTurns: cfg.QueryGen.MaxTurns,
			Logger:   logger,
		})
	default:
		gen = querygen.NewSimple(cfg.QueryGen.MaxTurns)
	}

	var retriever retrievaluc.Retriever
	switch cfg.Retrieval.Engine {
	case config.EngineIndri:
		engine := indri.NewExecEngine(cfg.Retrieval.Indri.IndriPath, cfg.Retrieval.Indri.Index)
		docs := indri.NewDumpIndexStore(cfg.Retrieval.Indri.IndriPath, cfg.Retrieval.Indri.Index)
		r, err := indri.New(cmd.Context(), engine, docs, indri.Config{
			ResultsRequested: cfg.Retrieval.ResultsRequested,
			TextFormat:       cfg.Retrieval.Indri.TextFormat,
		}, logger)
		if err != nil {
			return fmt.Errorf("create index retriever: %w", err)
		}
		retriever = r
	case config.EngineWeb:
		retriever = websearch.New(&websearch.Config{
			APIKey:           cfg.Retrieval.Web.APIKey,
			Endpoint:         cfg.Retrieval.Web.Endpoint,
			ResultsRequested: cfg.Retrieval.ResultsRequested,
			Logger:           logger,
		})
	default:
		return fmt.Errorf("unknown retrieval engine %q", cfg.Retrieval.Engine)
	}

	svc := retrievaluc.New(cfg.Retrieval.Engine, gen, retriever, logger)

	conv := []domain.Message{{Text: strings.Join(args, " ")}}
	docs, err := svc.GetResults(cmd.Context(), conv)
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	if askJSON {
		output, _ := json.MarshalIndent(docs, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(docs) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	for i, d := range docs {
		fmt.Printf("--- [%d] %s (score: %.2f) ---\n", i+1, d.ID, d.Score)
		if d.Title != "" {
			fmt.Println(d.Title)
		}
		text := d.Text
		if len(text) > 500 {
			text = text[:500] + "..."
		}
		fmt.Println(text)
		fmt.Println()
	}
	return nil
}
