package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/apply-agent/internal/fetch"
	"github.com/jonathan/apply-agent/internal/llm"
	"github.com/jonathan/apply-agent/internal/observability"
	"github.com/jonathan/apply-agent/internal/profile"
	"github.com/jonathan/apply-agent/internal/summarize"
	"github.com/jonathan/apply-agent/internal/types"
)

var summarizeCommand = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize a job posting and optionally draft a cover letter",
	Long: `Fetches a job posting (or reads its text from a file), produces a
short summary, and, when a profile is given, drafts a tailored cover letter.`,
	RunE: runSummarizeCmd,
}

var (
	summarizeJobURL      string
	summarizeJobTextPath string
	summarizeProfilePath string
	summarizeAPIKey      string
	summarizeNoBrowser   bool
	summarizeVerbose     bool
)

func init() {
	summarizeCommand.Flags().StringVarP(&summarizeJobURL, "url", "u", "", "Job posting URL")
	summarizeCommand.Flags().StringVar(&summarizeJobTextPath, "job-text", "", "Path to job posting text file (alternative to --url)")
	summarizeCommand.Flags().StringVarP(&summarizeProfilePath, "profile", "p", "", "Path to candidate profile JSON file (enables cover letter)")
	summarizeCommand.Flags().StringVar(&summarizeAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	summarizeCommand.Flags().BoolVar(&summarizeNoBrowser, "no-browser", false, "Disable the headless browser fallback for JS-heavy postings")
	summarizeCommand.Flags().BoolVarP(&summarizeVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(summarizeCommand)
}

func runSummarizeCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	if summarizeJobURL == "" && summarizeJobTextPath == "" {
		return fmt.Errorf("either --url or --job-text is required")
	}

	apiKey := summarizeAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("a Gemini API key is required (--api-key or GEMINI_API_KEY)")
	}

	var jobText string
	if summarizeJobTextPath != "" {
		raw, err := os.ReadFile(summarizeJobTextPath)
		if err != nil {
			return fmt.Errorf("failed to read job text: %w", err)
		}
		jobText = string(raw)
	} else {
		text, err := fetch.JobPostingText(ctx, summarizeJobURL, &fetch.PostingOptions{
			DisableBrowser: summarizeNoBrowser,
			Verbose:        summarizeVerbose,
		})
		if err != nil {
			return err
		}
		jobText = text
	}

	var prof *types.Profile
	if summarizeProfilePath != "" {
		loaded, err := profile.LoadFile(summarizeProfilePath)
		if err != nil {
			return err
		}
		prof = loaded
	}

	session := llm.NewSession(nil, apiKey, llm.TierStandard)
	defer func() { _ = session.Close() }()

	result, err := summarize.Run(ctx, session, jobText, prof)
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintSummary(result.Summary, result.CoverLetter)
	return nil
}
