// ABOUTME: CLI command to add a scientific study to the corpus
// ABOUTME: Handles text, file, or URL input plus DOI metadata enrichment
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sciencedecoder/decoder/internal/models"
	"github.com/sciencedecoder/decoder/internal/textsource"
)

var (
	addTitle      string
	addFile       string
	addURL        string
	addTopic      string
	addDiscipline string
	addDOI        string
	addKeywords   []string
)

// NewAddCmd creates add command
func NewAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Add a study to the corpus",
		Long: `Add a scientific study from text, file, or URL.

The study text is embedded before it is stored; a study whose
embedding fails is rejected. A DOI triggers a CrossRef lookup
that fills in authors, journal, and citation count.

Examples:
  decoder add --title "Exercise and Sleep" "Aerobic exercise improves..."
  decoder add --title "Exercise and Sleep" --file study.txt
  decoder add --url https://journal.example.org/study --discipline Medicine
  decoder add --title "Exercise and Sleep" --doi 10.1000/example.1 --file study.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAdd,
	}

	cmd.Flags().StringVar(&addTitle, "title", "", "Study title")
	cmd.Flags().StringVar(&addFile, "file", "", "Read study text from file")
	cmd.Flags().StringVar(&addURL, "url", "", "Fetch study text from URL")
	cmd.Flags().StringVar(&addTopic, "topic", "", "Topic label")
	cmd.Flags().StringVar(&addDiscipline, "discipline", "", "Discipline, e.g. Medicine")
	cmd.Flags().StringVar(&addDOI, "doi", "", "DOI for metadata enrichment")
	cmd.Flags().StringSliceVar(&addKeywords, "keywords", []string{}, "Keywords (comma-separated)")

	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	ctx := cmd.Context()

	study := &models.Study{
		Title:      addTitle,
		Topic:      addTopic,
		Discipline: addDiscipline,
		DOI:        addDOI,
		Keywords:   addKeywords,
		SourceType: "web",
	}

	// Get study text
	switch {
	case addURL != "":
		app, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()
		fetcher := textsource.NewURLFetcher(app.cfg.Timeout)
		doc, err := fetcher.Fetch(ctx, addURL)
		if err != nil {
			return fmt.Errorf("fetching study: %w", err)
		}
		if study.Title == "" {
			study.Title = doc.Title
		}
		study.Text = doc.Text
		study.SourceURL = addURL
		return storeStudy(cmd, app, study)
	case addFile != "":
		doc, err := textsource.FromFile(addFile)
		if err != nil {
			return err
		}
		if study.Title == "" {
			study.Title = doc.Title
		}
		study.Text = doc.Text
		study.SourceType = "pdf"
		if strings.HasSuffix(addFile, ".txt") {
			study.SourceType = "web"
		}
	case len(args) > 0:
		study.Text = strings.TrimSpace(args[0])
	default:
		// Read from stdin
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		study.Text = strings.TrimSpace(string(data))
	}

	if study.Text == "" {
		return fmt.Errorf("no study text provided")
	}
	if study.Title == "" {
		return fmt.Errorf("--title is required when adding from text or stdin")
	}

	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	return storeStudy(cmd, app, study)
}

func storeStudy(cmd *cobra.Command, app *app, study *models.Study) error {
	ctx := cmd.Context()

	if study.DOI != "" {
		crossref := textsource.NewCrossRefClient(app.cfg.Timeout)
		work, err := crossref.FetchWork(ctx, study.DOI)
		if err != nil {
			if !quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: DOI lookup failed: %v\n", err)
			}
		} else {
			work.Apply(study)
		}
	}

	// Embedding failure rejects the study.
	vec, err := app.embedder.GenerateEmbedding(ctx, study.Text)
	if err != nil {
		return fmt.Errorf("embedding study: %w", err)
	}
	study.Vector = vec

	if err := app.studies.CreateStudy(ctx, study); err != nil {
		return fmt.Errorf("storing study: %w", err)
	}
	if app.index != nil {
		payload := map[string]string{"title": study.Title, "discipline": study.Discipline}
		if err := app.index.Upsert(ctx, study.ID, vec, payload); err != nil && !quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: vector index upsert failed: %v\n", err)
		}
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(study, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Added study %s (%s, %d dimensions)\n",
			study.ID, truncate(study.Title, 50), len(vec))
	}
	return nil
}
