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

var suggestCmd = &cobra.Command{
	Use:   "suggest [partial query]",
	Short: "Suggest completions and refinements for a partial query",
	Long: `Suggest prints query completions, intent-driven refinements and related
queries for a partial input. With no input it prints trending queries from
the local search history plus filter-operator hints.`,
	Args: cobra.ArbitraryArgs,
	RunE: runSuggest,
}

func runSuggest(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	useRemote, _ := cmd.Flags().GetBool("remote")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	eng, err := buildEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	got := eng.Suggest(context.Background(), strings.Join(args, " "), limit, useRemote)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(got)
	}

	if len(got) == 0 {
		fmt.Println("No suggestions.")
		return nil
	}
	for _, s := range got {
		fmt.Fprintf(os.Stdout, "%-10s  %s\n", s.Kind, s.Text)
	}
	return nil
}

func init() {
	suggestCmd.Flags().Int("limit", 0, "maximum suggestions (0 = use default)")
	suggestCmd.Flags().Bool("remote", false, "use the remote model for suggestions when configured")
	suggestCmd.Flags().Bool("json", false, "output suggestions as JSON")

	rootCmd.AddCommand(suggestCmd)
}
