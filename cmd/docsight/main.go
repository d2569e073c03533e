// Command docsight analyzes GitHub repositories and local documents,
// producing a structured insight either from a configured LLM backend or
// from the built-in heuristic analyzer.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/normanking/docsight/internal/config"
	"github.com/normanking/docsight/internal/engine"
	"github.com/normanking/docsight/internal/extract"
	"github.com/normanking/docsight/internal/github"
	"github.com/normanking/docsight/internal/insight"
	"github.com/normanking/docsight/internal/render"
	"github.com/normanking/docsight/internal/server"
	"github.com/normanking/docsight/internal/store"
)

var (
	version = "0.1.0"
	cfgPath string
	verbose bool
	cfg     *config.Config
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "docsight",
		Short: "Docsight - insight synthesis for repositories and documents",
		Long: `Docsight reads a GitHub repository or a local document and produces a
structured insight: summary, key features, technologies, use cases,
main sections, complexity, and a recommendation.

With an LLM provider configured, synthesis runs through that backend.
Without one, or when the backend fails, a deterministic local analyzer
produces the insight instead.

Analyze a repository:  docsight analyze --repo golang/go
Analyze a document:    docsight analyze README.md
Run the API server:    docsight serve`,
		PersistentPreRunE: initApp,
		SilenceUsage:      true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path (default ~/.docsight/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("docsight v%s\n", version)
		},
	})

	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(hashTokenCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp loads configuration and sets up zerolog before any command runs.
func initApp(cmd *cobra.Command, args []string) error {
	var err error
	if cfgPath != "" {
		cfg, err = config.LoadFromPath(cfgPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	zlog.Logger = zerolog.New(writer).With().Timestamp().Logger()

	return nil
}

// ───────────────────────────────────────────────────────────────────────────────
// ANALYZE
// ───────────────────────────────────────────────────────────────────────────────

func analyzeCmd() *cobra.Command {
	var (
		repo       string
		provider   string
		model      string
		jsonOutput bool
		plain      bool
		noSave     bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze a repository or document and print the insight",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if repo == "" && len(args) == 0 {
				return fmt.Errorf("provide a file path or --repo owner/name")
			}

			var (
				req    insight.Request
				source string
			)

			if repo != "" {
				meta, readme, err := github.NewClientWithBaseURL(cfg.GitHub.BaseURL, cfg.GitHub.Token).
					Fetch(cmd.Context(), repo)
				if err != nil {
					return fmt.Errorf("fetch repository: %w", err)
				}
				req = insight.Request{Content: readme, Repo: meta}
				source = repo
			} else {
				content, info, err := extract.Extract(args[0])
				if err != nil {
					return fmt.Errorf("read document: %w", err)
				}
				req = insight.Request{Content: content, Document: info}
				source = filepath.Base(args[0])
			}

			req.Classification = insight.Classify(req.Content, req.Repo)

			backendCfg := cfg.BackendConfig(provider)
			if model != "" {
				backendCfg.Model = model
			}

			eng := engine.New()
			result, usedProvider := eng.Synthesize(cmd.Context(), &req, backendCfg)

			if cfg.Analysis.SaveHistory && !noSave {
				saveHistory(cmd, source, req.Classification, usedProvider, result)
			}

			mode := render.ModeStyled
			switch {
			case jsonOutput:
				mode = render.ModeJSON
			case plain:
				mode = render.ModePlain
			}

			out, err := render.New(mode).Report(result, source, usedProvider)
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}

	cmd.Flags().StringVar(&repo, "repo", "", "GitHub repository as owner/name")
	cmd.Flags().StringVar(&provider, "provider", "", "LLM provider (anthropic, openai, gemini, groq, openrouter)")
	cmd.Flags().StringVar(&model, "model", "", "override the provider's default model")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the raw insight as JSON")
	cmd.Flags().BoolVar(&plain, "plain", false, "print plain markdown without terminal styling")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "skip writing the result to history")

	return cmd
}

// saveHistory records the analysis; failures are logged, never fatal.
func saveHistory(cmd *cobra.Command, source string, class insight.Classification, provider string, result *insight.Insight) {
	st, err := store.Open(cfg.Store.DataDir)
	if err != nil {
		zlog.Warn().Err(err).Msg("history store unavailable")
		return
	}
	defer st.Close()

	rec := &store.Record{
		ID:             uuid.NewString(),
		CreatedAt:      time.Now(),
		Source:         source,
		Classification: class,
		Provider:       provider,
		Insight:        result,
	}
	if err := st.Save(cmd.Context(), rec); err != nil {
		zlog.Warn().Err(err).Msg("failed to save analysis history")
	}
}

// ───────────────────────────────────────────────────────────────────────────────
// HISTORY
// ───────────────────────────────────────────────────────────────────────────────

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent analyses",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(cfg.Store.DataDir)
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			defer st.Close()

			records, err := st.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("query history: %w", err)
			}
			if len(records) == 0 {
				fmt.Println("No analyses recorded yet.")
				return nil
			}

			for _, rec := range records {
				fmt.Printf("%s  %-19s  %-24s  %-10s  %s\n",
					rec.ID[:8],
					rec.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					truncateCell(rec.Source, 24),
					rec.Insight.Complexity,
					rec.Provider)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of entries to show")
	return cmd
}

func truncateCell(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// ───────────────────────────────────────────────────────────────────────────────
// SERVE
// ───────────────────────────────────────────────────────────────────────────────

func serveCmd() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if host != "" {
				cfg.Server.Host = host
			}
			if port != 0 {
				cfg.Server.Port = port
			}

			var st *store.Store
			if cfg.Analysis.SaveHistory {
				var err error
				st, err = store.Open(cfg.Store.DataDir)
				if err != nil {
					return fmt.Errorf("open history store: %w", err)
				}
				defer st.Close()
			}

			gh := github.NewClientWithBaseURL(cfg.GitHub.BaseURL, cfg.GitHub.Token)
			srv := server.New(cfg, engine.New(), gh, st)
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "bind address (overrides config)")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides config)")
	return cmd
}

// ───────────────────────────────────────────────────────────────────────────────
// CONFIG
// ───────────────────────────────────────────────────────────────────────────────

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and manage configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			shown := *cfg
			for name, p := range shown.LLM.Providers {
				if p.APIKey != "" {
					p.APIKey = "********"
					shown.LLM.Providers[name] = p
				}
			}
			if shown.GitHub.Token != "" {
				shown.GitHub.Token = "********"
			}

			data, err := yaml.Marshal(&shown)
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfgPath
			if path == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				path = filepath.Join(home, ".docsight", "config.yaml")
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config already exists at %s", path)
			}
			if err := config.Default().SaveToPath(path); err != nil {
				return err
			}
			fmt.Printf("Wrote default config to %s\n", path)
			return nil
		},
	})

	return cmd
}

// ───────────────────────────────────────────────────────────────────────────────
// HASH-TOKEN
// ───────────────────────────────────────────────────────────────────────────────

func hashTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-token <token>",
		Short: "Hash an API token for server.auth_token_hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcrypt.GenerateFromPassword([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash token: %w", err)
			}
			fmt.Println(string(hash))
			return nil
		},
	}
}
