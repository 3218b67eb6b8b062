package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/neersetu/neersetu/internal/server"
)

var (
	serveAddr    string
	serveDBPath  string
	serveDocsDir string
	serveRate    float64
	serveBurst   int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP question-answering API",
	Long: `Serve exposes the agent over HTTP:

  POST /ask     {"query": "..."} -> {"answer": "..."}
  GET  /health  {"status": "ok"}

Each request is answered independently; requests beyond the configured rate
receive HTTP 429.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default :8000)")
	serveCmd.Flags().StringVar(&serveDBPath, "db", "", "SQLite database path")
	serveCmd.Flags().StringVar(&serveDocsDir, "docs", "", "extra policy corpus directory (*.txt)")
	serveCmd.Flags().Float64Var(&serveRate, "rate", 0, "max requests per second")
	serveCmd.Flags().IntVar(&serveBurst, "burst", 0, "request burst size")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveDBPath != "" {
		cfg.Database.Path = serveDBPath
	}
	if serveDocsDir != "" {
		cfg.Retrieval.DocsDir = serveDocsDir
	}
	if serveRate > 0 {
		cfg.Server.RatePerSecond = serveRate
	}
	if serveBurst > 0 {
		cfg.Server.Burst = serveBurst
	}

	qa, cleanup, err := buildAgent(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "Listening on %s\n", cfg.Server.Addr)
	return server.New(qa, cfg.Server).ListenAndServe(ctx)
}
