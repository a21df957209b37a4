// ABOUTME: CLI command to search the study corpus
// ABOUTME: Semantic similarity search with metadata filters and table/JSON output
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sciencedecoder/decoder/internal/models"
	"github.com/sciencedecoder/decoder/internal/ranker"
)

var (
	searchLimit        int
	searchMinScore     float64
	searchDiscipline   string
	searchTopic        string
	searchMinCitations int
)

// NewSearchCmd creates search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search studies by semantic similarity",
		Long: `Search the study corpus by semantic similarity.

The query is embedded and ranked against every stored study. With a
reachable qdrant backend the ranking runs natively; otherwise a manual
scan over SQLite is used.

Examples:
  decoder search "does exercise improve sleep"
  decoder search --limit 20 --min-score 0.6 "caffeine and memory"
  decoder search --discipline Medicine --format json "statin side effects"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchLimit, "limit", 10, "Maximum results to return")
	cmd.Flags().Float64Var(&searchMinScore, "min-score", 0.5, "Minimum similarity score in [0,1]")
	cmd.Flags().StringVar(&searchDiscipline, "discipline", "", "Restrict to a discipline")
	cmd.Flags().StringVar(&searchTopic, "topic", "", "Restrict to a topic")
	cmd.Flags().IntVar(&searchMinCitations, "min-citations", 0, "Restrict to studies with at least this many citations")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	if err := validatePositiveInt(searchLimit, "limit"); err != nil {
		return err
	}
	if err := validateScore(searchMinScore, "min-score"); err != nil {
		return err
	}

	ctx := cmd.Context()
	query := args[0]

	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	queryVec, err := app.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return fmt.Errorf("embedding query: %w", err)
	}

	var filter *models.FilterCriteria
	if searchDiscipline != "" || searchTopic != "" || searchMinCitations > 0 {
		filter = &models.FilterCriteria{
			Discipline:   searchDiscipline,
			Topic:        searchTopic,
			MinCitations: searchMinCitations,
		}
	}

	matches, stats, err := app.ranker.Rank(ctx, queryVec, ranker.Options{
		Limit:    searchLimit,
		MinScore: searchMinScore,
		Filters:  filter,
	})
	if err != nil {
		return fmt.Errorf("searching corpus: %w", err)
	}

	if len(matches) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No studies found for query: %s\n", query)
		}
		return nil
	}

	// Format output
	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(matches, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
	} else {
		// Table format
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "SCORE\tTITLE\tDISCIPLINE\tCITED\tADDED\n")
		fmt.Fprintf(w, "-----\t-----\t----------\t-----\t-----\n")

		for _, m := range matches {
			discipline := m.Study.Discipline
			if discipline == "" {
				discipline = "(none)"
			}
			fmt.Fprintf(w, "%.3f\t%s\t%s\t%d\t%s\n",
				m.Score,
				truncate(m.Study.Title, 45),
				truncate(discipline, 15),
				m.Study.CitationCount,
				formatTime(m.Study.CreatedAt))
		}
		w.Flush()

		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "\nFound %d result(s) [%s, scanned %d]\n",
				len(matches), stats.Mode, stats.Scanned)
		}
	}

	return nil
}
