package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tanisha290/adobe-teamkt-1b/internal/parser"
	"github.com/tanisha290/adobe-teamkt-1b/internal/payload"
	"github.com/tanisha290/adobe-teamkt-1b/internal/pipeline"
)

var (
	outlineInput  string
	outlineOutput string
)

var outlineCmd = &cobra.Command{
	Use:   "outline",
	Short: "Extract the title and heading outline of every document in a directory",
	Long:  "Writes one <name>.json outline per supported document found in the input directory (or for a single input file). Documents that cannot be read still get a payload with a fallback title and an empty outline.",
	RunE:  runOutline,
}

func init() {
	outlineCmd.Flags().StringVarP(&outlineInput, "input", "i", "input", "input directory or file")
	outlineCmd.Flags().StringVarP(&outlineOutput, "out", "o", "output", "output directory")
	rootCmd.AddCommand(outlineCmd)
}

func runOutline(cmd *cobra.Command, _ []string) error {
	paths, err := documentFiles(outlineInput)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		logger.Warn("no supported documents found", "input", outlineInput)
		return nil
	}

	a, err := newAnalyzer()
	if err != nil {
		return err
	}
	results, err := a.ExtractAll(cmd.Context(), pipeline.DocumentsFromPaths(paths), nil)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
		out := filepath.Join(outlineOutput, payload.OutlineFileName(r.Filename))
		if err := payload.WriteFile(out, r.Tree); err != nil {
			return err
		}
		logger.Info("outline written",
			"document", r.Filename,
			"headings", len(r.Tree.Outline),
			"outcome", r.Outcome,
			"elapsed", r.Elapsed,
			"out", out,
		)
	}
	logger.Info("outline extraction complete", "documents", len(results), "degraded", failed)
	return nil
}

// documentFiles lists supported documents under path, sorted by name. A
// file path is returned as is.
func documentFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && parser.IsSupportedExtension(e.Name()) {
			out = append(out, filepath.Join(path, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}
