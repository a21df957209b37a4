// ABOUTME: CLI command to verify article claims against the corpus
// ABOUTME: Extracts claims, scores entailment, and reports verification state
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
	verifyFile string
	verifySave bool
)

// NewVerifyCmd creates verify command
func NewVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <url-or-text>",
		Short: "Verify article claims against the corpus",
		Long: `Extract scientific claims from an article and verify each one.

Claims are sentences containing indicator phrases like "study shows".
Each claim is matched against the corpus by semantic similarity, then
every candidate study is scored for how strongly it supports the
claim. Articles fetched by URL are persisted with their results.

Examples:
  decoder verify https://news.example.org/exercise-article
  decoder verify "A study shows exercise improves sleep."
  decoder verify --file article.txt --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runVerify,
	}

	cmd.Flags().StringVar(&verifyFile, "file", "", "Read article text from file")
	cmd.Flags().BoolVar(&verifySave, "save", true, "Persist fetched articles and their claims")

	return cmd
}

func runVerify(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	ctx := cmd.Context()

	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	article := &models.Article{}
	fromURL := false
	switch {
	case verifyFile != "":
		doc, err := textsource.FromFile(verifyFile)
		if err != nil {
			return err
		}
		article.Title = doc.Title
		article.Text = doc.Text
	case len(args) == 1 && (strings.HasPrefix(args[0], "http://") || strings.HasPrefix(args[0], "https://")):
		fetcher := textsource.NewURLFetcher(app.cfg.Timeout)
		doc, err := fetcher.Fetch(ctx, args[0])
		if err != nil {
			return fmt.Errorf("fetching article: %w", err)
		}
		article.URL = args[0]
		article.Title = doc.Title
		article.Text = doc.Text
		fromURL = true
	case len(args) == 1:
		article.Text = args[0]
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		article.Text = strings.TrimSpace(string(data))
	}

	if article.Text == "" {
		return fmt.Errorf("no article text provided")
	}

	if err := app.pipeline.VerifyArticle(ctx, article); err != nil {
		return fmt.Errorf("verifying claims: %w", err)
	}

	if fromURL && verifySave {
		if err := app.articles.SaveArticle(ctx, article); err != nil {
			return fmt.Errorf("saving article: %w", err)
		}
		if err := app.claimStore.SaveClaims(ctx, article.ID, article.Claims); err != nil {
			return fmt.Errorf("saving claims: %w", err)
		}
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(article.Claims, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	if len(article.Claims) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "No scientific claims found in the article.")
		}
		return nil
	}

	verified := 0
	for i, c := range article.Claims {
		status := "UNVERIFIED"
		if c.Verified {
			status = "VERIFIED"
			verified++
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d. [%s] %s\n", i+1, status, truncate(c.Text, 80))
		fmt.Fprintf(cmd.OutOrStdout(), "   confidence: %.2f\n", c.ConfidenceScore)
		if c.VerificationNotes != "" {
			for _, line := range strings.Split(c.VerificationNotes, "\n") {
				fmt.Fprintf(cmd.OutOrStdout(), "   %s\n", line)
			}
		}
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d claim(s) verified\n", verified, len(article.Claims))
	}
	return nil
}
