package main

import (
	"strings"

	"github.com/jonathan/career-diagnosis/internal/roadmap"
	"github.com/spf13/cobra"
)

var segmentCmd = &cobra.Command{
	Use:   "segment [text...]",
	Short: "Split roadmap prose into a heading and steps",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeJSON(cmd.OutOrStdout(), roadmap.Segment(strings.Join(args, " ")))
	},
}

func init() {
	rootCmd.AddCommand(segmentCmd)
}
