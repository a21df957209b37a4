// ABOUTME: CLI command to inspect embedding processing metrics
// ABOUTME: Dumps the in-memory metrics log of the current process run
package commands

import (
	"encoding/json"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sciencedecoder/decoder/internal/embedder"
)

// NewMetricsCmd creates metrics command
func NewMetricsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show embedding processing metrics",
		Long: `Show processing metrics recorded by the embedder.

Metrics are per-process: each embedding operation records its chunk
count, processing time, and outcome under a content-keyed entry.
Mostly useful under --format json in scripted runs and from the MCP
server where the process stays alive.`,
		Args: cobra.NoArgs,
		RunE: runMetrics,
	}

	return cmd
}

func runMetrics(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	return printMetrics(cmd, app.embedder.Metrics())
}

func printMetrics(cmd *cobra.Command, log *embedder.MetricsLog) error {
	snapshot := log.Snapshot()

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(snapshot, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	if len(snapshot) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "No embedding operations recorded in this run.")
		}
		return nil
	}

	keys := make([]string, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "KEY\tCHUNKS\tINPUT\tTIME\tOK\n")
	fmt.Fprintf(w, "---\t------\t-----\t----\t--\n")
	for _, k := range keys {
		m := snapshot[k]
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%v\n",
			k, m.ChunkCount, m.InputLength, m.ProcessingTime, m.Success)
	}
	w.Flush()
	return nil
}
