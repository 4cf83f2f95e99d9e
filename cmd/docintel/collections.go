package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tanisha290/adobe-teamkt-1b/internal/payload"
)

var collectionsCmd = &cobra.Command{
	Use:   "collections [root]",
	Short: "Analyze every collection directory under root",
	Long:  "Finds every sub-directory of root (default: the working directory) that holds a " + payload.InputFileName + " and writes its " + payload.OutputFileName + " beside it. A failing collection does not stop the others.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCollections,
}

func init() {
	rootCmd.AddCommand(collectionsCmd)
}

func runCollections(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	dirs, err := collectionDirs(root)
	if err != nil {
		return err
	}
	if len(dirs) == 0 {
		logger.Warn("no collections found", "root", root)
		return nil
	}

	a, err := newAnalyzer()
	if err != nil {
		return err
	}

	var failed []string
	for _, dir := range dirs {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		input := filepath.Join(dir, payload.InputFileName)
		out := filepath.Join(dir, payload.OutputFileName)
		if err := analyzeCollection(cmd.Context(), a, input, "", out); err != nil {
			logger.Error("collection failed", "collection", dir, "error", err)
			failed = append(failed, filepath.Base(dir))
		}
	}
	logger.Info("all collections processed", "collections", len(dirs), "failed", len(failed))
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d collections failed: %v", len(failed), len(dirs), failed)
	}
	return nil
}

// collectionDirs returns the sub-directories of root holding a collection
// input, sorted by name.
func collectionDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read collections root: %w", err)
	}
	var dirs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(root, e.Name())
		if _, err := os.Stat(filepath.Join(dir, payload.InputFileName)); err == nil {
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}
