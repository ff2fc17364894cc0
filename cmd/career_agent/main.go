// Package main provides the career_agent CLI: the HTTP API server plus
// offline tools for running and inspecting diagnoses.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "career_agent",
	Short:        "Career diagnosis service",
	Long:         "career_agent turns questionnaire answers into a career diagnosis via an LLM, and serves the diagnosis REST API.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file (environment overrides it)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
