package cmd

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/lernzeit/quizgen/internal/aigen"
	"github.com/lernzeit/quizgen/internal/catalog"
	"github.com/lernzeit/quizgen/internal/config"
	"github.com/lernzeit/quizgen/internal/diversity"
	"github.com/lernzeit/quizgen/internal/httpapi"
	"github.com/lernzeit/quizgen/internal/llm"
	"github.com/lernzeit/quizgen/internal/orchestrator"
	"github.com/lernzeit/quizgen/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP generation service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

// runServe opens the store, builds the pipeline, and serves HTTP.
func runServe(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg := config.FromEnv()

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	var gen *aigen.Generator
	provider, err := llm.NewProviderFromEnv(ctx, st.Events())
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "The AI generation tier will be unavailable.")
	} else {
		gen = aigen.New(provider, aigen.DefaultConfig())
	}

	orc := orchestrator.New(
		orchestrator.DefaultConfig(),
		catalog.New(),
		diversity.NewStore(),
		st.Questions(),
		gen,
	)

	r := httpapi.NewRouter(orc, cfg.AllowedOrigins)

	log.Printf("quizgen listening on %s (db: %s)", cfg.Addr, dbPath)
	return http.ListenAndServe(cfg.Addr, r)
}
