// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [query]",
	Short: "Show how a query would be classified and routed",
	Long: `Classify prints the detected intent, its confidence, any extracted
entities, and the sources the query would be routed to, without running
the search.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func runClassify(cmd *cobra.Command, args []string) error {
	useRemote, _ := cmd.Flags().GetBool("remote")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	eng, err := buildEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	qi, err := eng.ClassifyIntent(context.Background(), strings.Join(args, " "), useRemote)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(qi)
	}

	fmt.Fprintf(os.Stdout, "Intent:     %s\n", qi.Type)
	fmt.Fprintf(os.Stdout, "Confidence: %.2f\n", qi.Confidence)
	if len(qi.Entities) > 0 {
		fmt.Fprintf(os.Stdout, "Entities:   %s\n", strings.Join(qi.Entities, ", "))
	}
	srcs := make([]string, len(qi.Sources))
	for i, s := range qi.Sources {
		srcs[i] = string(s)
	}
	fmt.Fprintf(os.Stdout, "Sources:    %s\n", strings.Join(srcs, ", "))
	return nil
}

func init() {
	classifyCmd.Flags().Bool("remote", false, "classify with the configured remote model")
	classifyCmd.Flags().Bool("json", false, "output the intent as JSON")

	rootCmd.AddCommand(classifyCmd)
}
