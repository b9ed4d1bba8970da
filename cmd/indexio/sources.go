// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Q2x38b/indexio/pkg/types"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List configured sources or query one directly",
}

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured sources and their categories",
	RunE:  runSourcesList,
}

func runSourcesList(cmd *cobra.Command, args []string) error {
	category, _ := cmd.Flags().GetString("category")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	eng, err := buildEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	list := eng.ListSources(types.Category(category))

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	fmt.Fprintf(os.Stdout, "%-14s  %-20s  %-9s  %s\n", "ID", "Name", "Category", "Enabled")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 55))
	for _, c := range list {
		fmt.Fprintf(os.Stdout, "%-14s  %-20s  %-9s  %t\n", c.ID, c.Name, c.Category, c.Enabled)
	}
	return nil
}

var sourcesQueryCmd = &cobra.Command{
	Use:   "query [source-id] [query]",
	Short: "Query a single source directly, skipping merge and rank",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runSourcesQuery,
}

func runSourcesQuery(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	eng, err := buildEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	results, err := eng.SearchOneSource(context.Background(),
		types.SourceID(args[0]), strings.Join(args[1:], " "), limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	for i, r := range results {
		fmt.Fprintf(os.Stdout, "%-4d  %-50s  %s\n", i+1, r.Title, r.URL)
	}
	return nil
}

func init() {
	sourcesListCmd.Flags().String("category", "", "filter by category: web, code, osint, research, news")
	sourcesListCmd.Flags().Bool("json", false, "output sources as JSON")

	sourcesQueryCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	sourcesQueryCmd.Flags().Bool("json", false, "output results as JSON")

	sourcesCmd.AddCommand(sourcesListCmd)
	sourcesCmd.AddCommand(sourcesQueryCmd)

	rootCmd.AddCommand(sourcesCmd)
}
