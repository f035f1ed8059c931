package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/skillgap/internal/analysis"
	"github.com/jonathan/skillgap/internal/config"
	"github.com/jonathan/skillgap/internal/fetch"
	"github.com/jonathan/skillgap/internal/observability"
	"github.com/jonathan/skillgap/internal/skills"
	"github.com/jonathan/skillgap/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the gap between a resume and a job posting",
	Long:  "Compares a resume against a job posting, buckets every requirement as matching, missing, or needing depth, and scores the overall match. Providers refine the analysis when API keys are configured; without them the deterministic matcher stands alone.",
	RunE:  runAnalyze,
}

var (
	analyzeResume       string
	analyzeJob          string
	analyzeJobURL       string
	analyzeTitle        string
	analyzeRequirements []string
	analyzeSkills       []string
	analyzeConfig       string
	analyzeOut          string
	analyzeUseBrowser   bool
	analyzeVerbose      bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeResume, "resume", "r", "", "Path to resume text file (required)")
	analyzeCmd.Flags().StringVarP(&analyzeJob, "job", "j", "", "Path to job posting text file")
	analyzeCmd.Flags().StringVar(&analyzeJobURL, "job-url", "", "URL to fetch the job posting from")
	analyzeCmd.Flags().StringVarP(&analyzeTitle, "title", "t", "", "Job title")
	analyzeCmd.Flags().StringSliceVar(&analyzeRequirements, "requirements", nil, "Job skill requirements (comma separated)")
	analyzeCmd.Flags().StringSliceVar(&analyzeSkills, "skills", nil, "Declared candidate skills (comma separated)")
	analyzeCmd.Flags().StringVarP(&analyzeConfig, "config", "c", "", "Path to JSON config file")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "Write the analysis JSON to this file instead of stdout")
	analyzeCmd.Flags().BoolVar(&analyzeUseBrowser, "use-browser", false, "Render SPA job pages with a headless browser")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print detailed progress information")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, err := loadMergedConfig(analyzeConfig, config.Config{
		Resume:   analyzeResume,
		Job:      analyzeJob,
		JobURL:   analyzeJobURL,
		JobTitle: analyzeTitle,
		Skills:   analyzeSkills,
	})
	if err != nil {
		return err
	}
	cfg.UseBrowser = cfg.UseBrowser || analyzeUseBrowser
	cfg.Verbose = cfg.Verbose || analyzeVerbose

	if cfg.Resume == "" {
		return fmt.Errorf("a resume file is required (--resume or config)")
	}
	if cfg.Job == "" && cfg.JobURL == "" {
		return fmt.Errorf("a job posting is required (--job or --job-url)")
	}
	if cfg.Job != "" && cfg.JobURL != "" {
		return fmt.Errorf("--job and --job-url are mutually exclusive")
	}

	ctx := cmd.Context()
	printer := observability.NewPrinter(os.Stderr)

	// Load the resume and the job posting concurrently; the job may come
	// from a file or over the network.
	var resumeText, jobText string
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		data, err := os.ReadFile(cfg.Resume)
		if err != nil {
			return fmt.Errorf("failed to read resume file: %w", err)
		}
		resumeText = string(data)
		return nil
	})
	group.Go(func() error {
		if cfg.Job != "" {
			data, err := os.ReadFile(cfg.Job)
			if err != nil {
				return fmt.Errorf("failed to read job file: %w", err)
			}
			jobText = string(data)
			return nil
		}

		if cfg.Verbose {
			printer.PrintStep("fetching job posting from %s", cfg.JobURL)
		}
		opts := fetch.DefaultOptions()
		opts.UseBrowser = cfg.UseBrowser
		opts.Verbose = cfg.Verbose
		result, err := fetch.JobPosting(groupCtx, cfg.JobURL, opts)
		if err != nil {
			return err
		}
		jobText = result.Text
		return nil
	})
	if err := group.Wait(); err != nil {
		return err
	}

	chain, err := cfg.BuildChain(ctx)
	if err != nil {
		return err
	}
	if chain == nil && cfg.Verbose {
		printer.PrintStep("no provider API keys found; using deterministic analysis only")
	}

	var runner analysis.Runner
	if chain != nil {
		runner = chain
	}
	engine := analysis.NewEngine(skills.NewNormalizer(), nil, runner,
		analysis.WithRequestOptions(cfg.RequestOptions()))

	result, err := engine.Analyze(ctx, &types.AnalysisRequest{
		ResumeText:      resumeText,
		JobDescription:  jobText,
		JobTitle:        cfg.JobTitle,
		JobRequirements: normalizeList(analyzeRequirements),
		DeclaredSkills:  normalizeList(cfg.Skills),
	})
	if err != nil {
		return err
	}

	if cfg.Verbose {
		printer.PrintAttempts(result.Attempts)
	}
	printer.PrintGapAnalysis(result)

	return writeJSON(analyzeOut, result)
}

// normalizeList trims entries and drops empties.
func normalizeList(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
