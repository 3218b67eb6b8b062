package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	askDBPath   string
	askProvider string
	askModel    string
	askMode     string
	askDocsDir  string
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <question...>",
	Short: "Answer one groundwater question",
	Long: `Ask a natural-language question about groundwater levels, extraction
stage, trends, or policy definitions for a block.

Example:
  neersetu ask "2015–2024 groundwater trend for Block A?"
  neersetu ask "Stage of extraction for Block B in 2022?"
  neersetu ask --llm-provider openai "Compare 2019 vs 2024 for Block A"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringVar(&askDBPath, "db", "", "SQLite database path")
	askCmd.Flags().StringVar(&askProvider, "llm-provider", "", "generative backend (openai, ollama; empty = deterministic)")
	askCmd.Flags().StringVar(&askModel, "llm-model", "", "backend model name")
	askCmd.Flags().StringVar(&askMode, "retrieval", "", "passage index mode (keyword, embedding)")
	askCmd.Flags().StringVar(&askDocsDir, "docs", "", "extra policy corpus directory (*.txt)")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if askDBPath != "" {
		cfg.Database.Path = askDBPath
	}
	if askProvider != "" {
		cfg.LLM.Provider = askProvider
	}
	if askModel != "" {
		cfg.LLM.Model = askModel
	}
	if askMode != "" {
		cfg.Retrieval.Mode = askMode
	}
	if askDocsDir != "" {
		cfg.Retrieval.DocsDir = askDocsDir
	}

	qa, cleanup, err := buildAgent(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	query := strings.Join(args, " ")
	fmt.Println(qa.Ask(context.Background(), query))
	return nil
}
