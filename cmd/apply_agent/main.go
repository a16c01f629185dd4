// Package main provides the entry point for the apply agent CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "apply_agent",
	Short: "Job application form automation",
	Long:  "Apply Agent fills job application forms from a candidate profile: it classifies form fields, matches dropdown options, grows repeating work/education/project sections, and extracts profiles from resume text.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
