// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Show the most frequent recent queries from local history",
	RunE:  runTrending,
}

func runTrending(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	eng, err := buildEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	got, err := eng.Trending(context.Background(), limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(got)
	}

	if len(got) == 0 {
		fmt.Println("No recent queries.")
		return nil
	}
	for _, tq := range got {
		fmt.Fprintf(os.Stdout, "%4d  %s\n", tq.Count, tq.Query)
	}
	return nil
}

func init() {
	trendingCmd.Flags().Int("limit", 10, "maximum trending queries")
	trendingCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(trendingCmd)
}
