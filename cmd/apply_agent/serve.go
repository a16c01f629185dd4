package main

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jonathan/apply-agent/internal/server"
)

var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Starts the REST API exposing form filling, resume extraction, job
summarization, and profile storage.

Environment variables:
  PORT            Listen port (default 8080)
  DATABASE_URL    PostgreSQL connection URL (optional; storage endpoints 503 without it)
  GEMINI_API_KEY  Gemini API key (optional; generation degrades gracefully)
  JWT_SECRET      Enables bearer token auth on all endpoints except /health
  JWT_TTL         Token lifetime as a Go duration (default 24h)`,
	RunE: runServeCmd,
}

var (
	servePort       int
	serveUseBrowser bool
	serveVerbose    bool
)

func init() {
	serveCommand.Flags().IntVar(&servePort, "port", 0, "Listen port (overrides PORT env var)")
	serveCommand.Flags().BoolVar(&serveUseBrowser, "use-browser", true, "Allow the headless browser fallback when fetching postings")
	serveCommand.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(serveCommand)
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	port := servePort
	if !cmd.Flags().Changed("port") {
		port = 8080
		if p := os.Getenv("PORT"); p != "" {
			if parsed, err := strconv.Atoi(p); err == nil {
				port = parsed
			}
		}
	}

	srv, err := server.New(server.Config{
		Port:        port,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		APIKey:      os.Getenv("GEMINI_API_KEY"),
		UseBrowser:  serveUseBrowser,
		Verbose:     serveVerbose,
	})
	if err != nil {
		return err
	}

	return srv.Start()
}
