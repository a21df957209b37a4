// ABOUTME: Root CLI command with global flags shared by all subcommands
// ABOUTME: Wires up the subcommand tree and executes it
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
██████╗ ███████╗ ██████╗ ██████╗ ██████╗ ███████╗██████╗
██╔══██╗██╔════╝██╔════╝██╔═══██╗██╔══██╗██╔════╝██╔══██╗
██║  ██║█████╗  ██║     ██║   ██║██║  ██║█████╗  ██████╔╝
██║  ██║██╔══╝  ██║     ██║   ██║██║  ██║██╔══╝  ██╔══██╗
██████╔╝███████╗╚██████╗╚██████╔╝██████╔╝███████╗██║  ██║
╚═════╝ ╚══════╝ ╚═════╝ ╚═════╝ ╚═════╝ ╚══════╝╚═╝  ╚═╝
`

// NewRootCmd creates the root command with global flags
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decoder",
		Short: "Verify scientific claims against a study corpus",
		Long: banner + `
Decoder maintains a corpus of scientific studies with semantic
embeddings, searches it by similarity, and verifies claims
extracted from article text against the evidence.

Common workflows:
  decoder add --title "..." study.txt     Add a study to the corpus
  decoder search "does exercise help sleep"
  decoder verify https://news.example.org/article
  decoder mcp                              Serve tools for LLM agents`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, table, json")

	cmd.AddCommand(NewVersionCmd())
	cmd.AddCommand(NewAddCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewVerifyCmd())
	cmd.AddCommand(NewMetricsCmd())
	cmd.AddCommand(NewMCPCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
