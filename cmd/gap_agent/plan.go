package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/skillgap/internal/config"
	"github.com/jonathan/skillgap/internal/observability"
	"github.com/jonathan/skillgap/internal/plan"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a learning plan from a gap analysis",
	Long:  "Builds a week-by-week learning plan from a saved gap analysis. Missing skills are scheduled first as critical topics, shallow skills follow, and portfolio work on matched skills fills the remainder.",
	RunE:  runPlanCmd,
}

var (
	planAnalysisPath string
	planConfigPath   string
	planWeeks        int
	planForce        bool
	planOut          string
	planVerbose      bool
)

func init() {
	planCmd.Flags().StringVarP(&planAnalysisPath, "analysis", "a", "", "Path to a saved gap analysis JSON file (required)")
	planCmd.Flags().StringVarP(&planConfigPath, "config", "c", "", "Path to JSON config file")
	planCmd.Flags().IntVarP(&planWeeks, "weeks", "w", 0, "Plan duration in weeks")
	planCmd.Flags().BoolVar(&planForce, "force", false, "Regenerate even if a cached plan exists")
	planCmd.Flags().StringVarP(&planOut, "out", "o", "", "Write the plan JSON to this file instead of stdout")
	planCmd.Flags().BoolVarP(&planVerbose, "verbose", "v", false, "Print detailed progress information")

	if err := planCmd.MarkFlagRequired("analysis"); err != nil {
		panic(fmt.Sprintf("failed to mark analysis flag as required: %v", err))
	}

	rootCmd.AddCommand(planCmd)
}

func runPlanCmd(_ *cobra.Command, _ []string) error {
	cfg, err := loadMergedConfig(planConfigPath, config.Config{})
	if err != nil {
		return err
	}
	cfg.Verbose = cfg.Verbose || planVerbose

	analysisDoc, err := loadAnalysisFile(planAnalysisPath)
	if err != nil {
		return err
	}

	weeks := planWeeks
	if weeks == 0 {
		weeks = cfg.DefaultPlanWeeks
	}

	generator := plan.NewGenerator()
	result, err := generator.Generate(analysisDoc, weeks, planForce)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stderr)
	printer.PrintLearningPlan(result)

	return writeJSON(planOut, result)
}
