package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/apply-agent/internal/extract"
	"github.com/jonathan/apply-agent/internal/llm"
	"github.com/jonathan/apply-agent/internal/observability"
	"github.com/jonathan/apply-agent/internal/prompts"
)

var extractResumeCommand = &cobra.Command{
	Use:   "extract-resume",
	Short: "Extract a candidate profile from resume text",
	Long: `Reads a plain-text resume and produces a structured profile JSON.

When a Gemini API key is available the resume is reformatted by the model
first; the extractor then parses the (often messy) output through a JSON
repair cascade. Without a key the raw text is parsed directly, which only
works for text that already carries structured markers.`,
	RunE: runExtractResumeCmd,
}

var (
	extractResumePath string
	extractOutPath    string
	extractAPIKey     string
	extractBlocks     bool
	extractVerbose    bool
)

func init() {
	extractResumeCommand.Flags().StringVarP(&extractResumePath, "resume", "r", "", "Path to resume text file (required)")
	extractResumeCommand.Flags().StringVarP(&extractOutPath, "out", "o", "", "Write the profile JSON to this path instead of stdout")
	extractResumeCommand.Flags().StringVar(&extractAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	extractResumeCommand.Flags().BoolVar(&extractBlocks, "blocks", false, "Ask the model for delimited text blocks instead of JSON")
	extractResumeCommand.Flags().BoolVarP(&extractVerbose, "verbose", "v", false, "Print detailed debug information")
	_ = extractResumeCommand.MarkFlagRequired("resume")

	rootCmd.AddCommand(extractResumeCommand)
}

func runExtractResumeCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	raw, err := os.ReadFile(extractResumePath)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}
	text := string(raw)

	apiKey := extractAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}

	if apiKey != "" {
		session := llm.NewSession(nil, apiKey, llm.TierStandard)
		defer func() { _ = session.Close() }()

		key := "resume-profile"
		generate := session.GenerateJSON
		if extractBlocks {
			key = "resume-profile-blocks"
			generate = session.Generate
		}
		template := prompts.MustGet("extraction.json", key)
		prompt := prompts.Format(template, map[string]string{"ResumeText": text})
		if generated, err := generate(ctx, prompt); err != nil {
			// Fall back to parsing the raw text.
			fmt.Fprintf(os.Stderr, "Warning: generation failed, parsing raw text: %v\n", err)
		} else {
			text = generated
		}
	}

	profile, err := extract.Extract(text)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return err
	}

	if extractVerbose {
		observability.NewPrinter(os.Stderr).PrintProfile(profile)
	}

	if extractOutPath != "" {
		if err := os.WriteFile(extractOutPath, append(out, '\n'), 0o644); err != nil {
			return fmt.Errorf("failed to write profile: %w", err)
		}
		fmt.Printf("Profile written to %s\n", extractOutPath)
		return nil
	}

	fmt.Println(string(out))
	return nil
}
