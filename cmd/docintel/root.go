package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tanisha290/adobe-teamkt-1b/internal/config"
	"github.com/tanisha290/adobe-teamkt-1b/internal/persona"
	"github.com/tanisha290/adobe-teamkt-1b/internal/pipeline"
)

var (
	verbose     bool
	lexiconPath string
	workers     int
	docTimeout  time.Duration

	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "docintel",
	Short: "Outline extraction and persona-driven section ranking",
	Long: `docintel reads PDFs (and Markdown, HTML, DOCX or plain text) and
  - extracts a title and an H1-H4 heading outline per document
  - ranks the sections of a collection for a persona and a job to be done
  - refines the top sections into short excerpts`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		cfg = config.Load()
		flags := cmd.Flags()
		if flags.Changed("lexicon") {
			cfg.LexiconPath = lexiconPath
		}
		if flags.Changed("workers") {
			cfg.DocumentWorkers = workers
		}
		if flags.Changed("timeout") {
			cfg.DocumentTimeout = docTimeout
		}
		return cfg.Validate()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&lexiconPath, "lexicon", "", "role lexicon YAML (default: embedded)")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 4, "documents extracted in parallel")
	rootCmd.PersistentFlags().DurationVar(&docTimeout, "timeout", 60*time.Second, "per-document extraction timeout (0 disables)")
}

// newAnalyzer builds the pipeline from the loaded configuration.
func newAnalyzer() (*pipeline.Analyzer, error) {
	lex, err := persona.LoadLexicon(cfg.LexiconPath)
	if err != nil {
		return nil, fmt.Errorf("load lexicon: %w", err)
	}
	return pipeline.NewAnalyzer(pipeline.OptionsFromConfig(cfg), lex, nil, logger), nil
}
