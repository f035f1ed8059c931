// Package main implements the gap_agent CLI for resume-job gap analysis,
// advisory chat, and learning plan generation.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/skillgap/internal/config"
	"github.com/jonathan/skillgap/internal/types"
)

var rootCmd = &cobra.Command{
	Use:   "gap_agent",
	Short: "Resume-job gap analysis and learning plans",
	Long:  "gap_agent compares a resume against a job posting, scores the match, chats about the results, and generates a week-by-week learning plan for the gaps.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadMergedConfig loads the optional config file and merges it under the
// flag-provided values.
func loadMergedConfig(configPath string, flags config.Config) (config.Config, error) {
	if configPath == "" {
		return flags, nil
	}

	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return flags, err
	}
	if err := fileCfg.Validate(); err != nil {
		return flags, err
	}

	merged := flags.MergeWithDefaults(*fileCfg)
	if err := merged.Validate(); err != nil {
		return flags, err
	}
	return merged, nil
}

// loadAnalysisFile reads a saved gap analysis JSON file.
func loadAnalysisFile(path string) (*types.GapAnalysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read analysis file %s: %w", path, err)
	}

	var analysis types.GapAnalysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse analysis file %s: %w", path, err)
	}
	if err := analysis.ValidatePartition(); err != nil {
		return nil, fmt.Errorf("analysis file %s is inconsistent: %w", path, err)
	}
	return &analysis, nil
}

// writeJSON marshals v with indentation to path, or to stdout when path is
// empty.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	if path == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
