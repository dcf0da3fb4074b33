// Package cli implements the aulaguard command line interface.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "aulaguard",
	Short: "Governance layer for AI tutoring in programming courses",
	Long: "Evaluates each student message before any model sees it: redacts\n" +
		"personal data, classifies intent, decides a traffic-light semaphore\n" +
		"and selects a pedagogical strategy. Blocks total delegation instead\n" +
		"of answering it.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
