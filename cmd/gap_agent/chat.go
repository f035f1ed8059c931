package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/skillgap/internal/chat"
	"github.com/jonathan/skillgap/internal/config"
	"github.com/jonathan/skillgap/internal/observability"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with an advisor about a completed gap analysis",
	Long:  "Starts an interactive conversation grounded in a saved gap analysis. Answers stream as they are generated; Ctrl-C cancels the current answer and keeps the partial text in the history.",
	RunE:  runChat,
}

var (
	chatAnalysisPath  string
	chatConfigPath    string
	chatHistoryBudget int
	chatVerbose       bool
)

func init() {
	chatCmd.Flags().StringVarP(&chatAnalysisPath, "analysis", "a", "", "Path to a saved gap analysis JSON file (required)")
	chatCmd.Flags().StringVarP(&chatConfigPath, "config", "c", "", "Path to JSON config file")
	chatCmd.Flags().IntVar(&chatHistoryBudget, "history-budget", 0, "Recent turns sent with each question")
	chatCmd.Flags().BoolVarP(&chatVerbose, "verbose", "v", false, "Print detailed progress information")

	if err := chatCmd.MarkFlagRequired("analysis"); err != nil {
		panic(fmt.Sprintf("failed to mark analysis flag as required: %v", err))
	}

	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	cfg, err := loadMergedConfig(chatConfigPath, config.Config{})
	if err != nil {
		return err
	}
	cfg.Verbose = cfg.Verbose || chatVerbose

	analysisDoc, err := loadAnalysisFile(chatAnalysisPath)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	chain, err := cfg.BuildChain(ctx)
	if err != nil {
		return err
	}
	if chain == nil {
		return fmt.Errorf("chat requires at least one provider API key (GEMINI_API_KEY, OPENROUTER_API_KEY, or GROQ_API_KEY)")
	}

	var sessionOpts []chat.SessionOption
	budget := chatHistoryBudget
	if budget == 0 {
		budget = cfg.HistoryBudget
	}
	if budget > 0 {
		sessionOpts = append(sessionOpts, chat.WithHistoryBudget(budget))
	}
	sessionOpts = append(sessionOpts, chat.WithSessionRequestOptions(cfg.RequestOptions()))

	session, err := chat.NewSession(analysisDoc, chain, sessionOpts...)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stderr)
	if cfg.Verbose {
		printer.PrintGapAnalysis(analysisDoc)
	}

	// Ctrl-C cancels the in-flight answer; a second Ctrl-C with nothing in
	// flight exits via the default handler once we stop listening.
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupts)
	go func() {
		for range interrupts {
			session.Cancel()
		}
	}()

	fmt.Println("Ask about your gap analysis. Type 'exit' to leave.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			break
		}

		_, err := session.Ask(ctx, question, func(chunk string) error {
			fmt.Print(chunk)
			return nil
		})
		fmt.Println()

		switch {
		case err == nil:
			if suggestions := session.Suggestions(); len(suggestions) > 0 {
				fmt.Println("\nSuggested follow-ups:")
				for _, s := range suggestions {
					fmt.Printf("  - %s\n", s)
				}
			}
		case errors.Is(err, chat.ErrCancelled):
			fmt.Println("\n(answer cancelled; partial text kept in history)")
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}

	return scanner.Err()
}
