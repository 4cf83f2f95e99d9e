package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tanisha290/adobe-teamkt-1b/internal/payload"
	"github.com/tanisha290/adobe-teamkt-1b/internal/persona"
	"github.com/tanisha290/adobe-teamkt-1b/internal/pipeline"
)

var (
	analyzeInput  string
	analyzeDocs   string
	analyzeOutput string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Rank the sections of one document collection",
	Long:  "Reads a collection input JSON (documents, persona, job to be done), extracts every document, ranks sections collection-wide and writes the collection output JSON.",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeInput, "input", "i", "", "collection input JSON (required)")
	analyzeCmd.Flags().StringVarP(&analyzeDocs, "docs", "d", "", "document directory (default: PDFs/ next to the input)")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "out", "o", "", "output JSON (default: "+payload.OutputFileName+" next to the input)")

	if err := analyzeCmd.MarkFlagRequired("input"); err != nil {
		panic(fmt.Sprintf("failed to mark input flag as required: %v", err))
	}

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	a, err := newAnalyzer()
	if err != nil {
		return err
	}
	out := analyzeOutput
	if out == "" {
		out = filepath.Join(filepath.Dir(analyzeInput), payload.OutputFileName)
	}
	return analyzeCollection(cmd.Context(), a, analyzeInput, analyzeDocs, out)
}

// analyzeCollection runs one collection end to end. An empty docsDir
// resolves documents against the PDFs directory beside the input.
func analyzeCollection(ctx context.Context, a *pipeline.Analyzer, inputPath, docsDir, outPath string) error {
	start := time.Now()
	in, err := payload.ReadInput(inputPath)
	if err != nil {
		return err
	}

	paths := payload.DocumentPaths(inputPath, in)
	if docsDir != "" {
		for i, d := range in.Documents {
			paths[i] = filepath.Join(docsDir, d.Filename)
		}
	}

	an, err := a.Analyze(ctx, persona.Profile(in.Persona), persona.Job(in.Job), pipeline.DocumentsFromPaths(paths))
	if err != nil {
		return fmt.Errorf("analyze %s: %w", inputPath, err)
	}
	degraded := 0
	for _, d := range an.Documents {
		if d.Err != nil {
			degraded++
			logger.Warn("document degraded", "document", d.Filename, "outcome", d.Outcome, "error", d.Err)
		}
	}

	result := payload.BuildOutput(in, an.Ranking.Sections, an.Refinement.Subsections, time.Now())
	if err := payload.WriteFile(outPath, result); err != nil {
		return err
	}
	logger.Info("collection analyzed",
		"input", inputPath,
		"documents", len(an.Documents),
		"degraded", degraded,
		"matched_role", an.Keywords.MatchedRole,
		"sections", len(result.ExtractedSections),
		"subsections", len(result.SubsectionAnalysis),
		"elapsed", time.Since(start).Round(time.Millisecond),
		"out", outPath,
	)
	return nil
}
