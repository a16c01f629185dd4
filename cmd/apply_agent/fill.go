package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/apply-agent/internal/browser"
	"github.com/jonathan/apply-agent/internal/classify"
	"github.com/jonathan/apply-agent/internal/config"
	"github.com/jonathan/apply-agent/internal/db"
	"github.com/jonathan/apply-agent/internal/fetch"
	"github.com/jonathan/apply-agent/internal/llm"
	"github.com/jonathan/apply-agent/internal/observability"
	"github.com/jonathan/apply-agent/internal/pipeline"
	"github.com/jonathan/apply-agent/internal/profile"
)

var fillCommand = &cobra.Command{
	Use:   "fill",
	Short: "Fill a job application form from a candidate profile",
	Long: `Opens the application form in a headless browser, classifies every
visible control against the profile, writes and verifies each value, and grows
repeating work/education/project sections entry by entry.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runFillCmd,
}

var (
	fillConfigPath  string
	fillProfilePath string
	fillURL         string
	fillJobDesc     string
	fillCoverLetter string
	fillAPIKey      string
	fillDatabaseURL string
	fillTimeout     int
	fillVerbose     bool
)

func init() {
	fillCommand.Flags().StringVar(&fillConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	fillCommand.Flags().StringVarP(&fillProfilePath, "profile", "p", "", "Path to candidate profile JSON file")
	fillCommand.Flags().StringVarP(&fillURL, "url", "u", "", "Application form URL")
	fillCommand.Flags().StringVar(&fillJobDesc, "job-description", "", "Path to job description text file (context for generated answers)")
	fillCommand.Flags().StringVar(&fillCoverLetter, "cover-letter", "", "Path to cover letter text file")
	fillCommand.Flags().StringVar(&fillAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	fillCommand.Flags().StringVar(&fillDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	fillCommand.Flags().IntVar(&fillTimeout, "timeout", 60, "Browser session timeout in seconds")
	fillCommand.Flags().BoolVarP(&fillVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(fillCommand)
}

func runFillCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	var cfg config.Config
	if fillConfigPath != "" {
		loadedCfg, err := config.LoadConfig(fillConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return err
		}
		cfg = *loadedCfg
	}

	if cmd.Flags().Changed("profile") {
		cfg.Profile = fillProfilePath
	}
	if cmd.Flags().Changed("url") {
		cfg.JobURL = fillURL
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = fillAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = fillDatabaseURL
	}
	if cmd.Flags().Changed("timeout") {
		cfg.BrowserTimeout = fillTimeout
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = fillVerbose
	}
	cfg = cfg.MergeWithDefaults(config.Config{BrowserTimeout: 60})

	if cfg.Profile == "" {
		return fmt.Errorf("--profile is required (via flag or config)")
	}
	if cfg.JobURL == "" {
		return fmt.Errorf("--url is required (via flag or config)")
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	prof, err := profile.LoadFile(cfg.Profile)
	if err != nil {
		return err
	}

	aux := classify.Aux{}
	if fillJobDesc != "" {
		text, err := os.ReadFile(fillJobDesc)
		if err != nil {
			return fmt.Errorf("failed to read job description: %w", err)
		}
		aux.JobDescription = string(text)
	}
	if fillCoverLetter != "" {
		text, err := os.ReadFile(fillCoverLetter)
		if err != nil {
			return fmt.Errorf("failed to read cover letter: %w", err)
		}
		aux.CoverLetter = string(text)
	}

	// When no job description file is given, fetch the posting itself
	// for generation context.
	if aux.JobDescription == "" && cfg.APIKey != "" {
		if text, err := fetch.JobPostingText(ctx, cfg.JobURL, &fetch.PostingOptions{Verbose: cfg.Verbose}); err == nil {
			aux.JobDescription = text
		}
	}

	opts := pipeline.Options{Aux: aux, Verbose: cfg.Verbose}
	var session *llm.Session
	if cfg.APIKey != "" {
		session = llm.NewSession(nil, cfg.APIKey, llm.TierLite)
		defer func() { _ = session.Close() }()
		opts.Generator = session
	}

	fmt.Printf("Opening %s...\n", cfg.JobURL)
	drv, err := browser.New(ctx, cfg.JobURL, time.Duration(cfg.BrowserTimeout)*time.Second, cfg.Verbose)
	if err != nil {
		return err
	}
	defer drv.Close()

	var database *db.DB
	var runID uuid.UUID
	if cfg.DatabaseURL != "" {
		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			fmt.Printf("Warning: failed to connect to database: %v\n", err)
		} else {
			defer database.Close()
			if err := database.Migrate(ctx); err != nil {
				fmt.Printf("Warning: migration failed: %v\n", err)
			}
			runID, _ = database.CreateFillRun(ctx, nil, cfg.JobURL)
		}
	}

	report, err := pipeline.Run(ctx, drv, prof, opts)
	if err != nil {
		return err
	}

	if database != nil && runID != uuid.Nil {
		_ = database.CompleteFillRun(ctx, runID, report)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintFillReport(report)
	return nil
}
