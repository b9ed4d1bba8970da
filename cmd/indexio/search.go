// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Q2x38b/indexio/internal/engine"
	"github.com/Q2x38b/indexio/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search all configured sources with one query",
	Long: `Search classifies the query, fans it out to the relevant sources, and
prints a deduplicated, ranked result list. By default the sources are chosen
from the classified intent; --sources and --categories override that.

A search can be saved to a YAML file with --save and re-displayed later with
--load, without re-querying any provider.`,
	Args: cobra.ArbitraryArgs,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	savePath, _ := cmd.Flags().GetString("save")
	loadPath, _ := cmd.Flags().GetString("load")

	if loadPath != "" {
		qf, err := engine.ReadQueryFile(loadPath)
		if err != nil {
			return err
		}
		return formatSearchOutput(qf.Response(), jsonOutput)
	}

	query := strings.Join(args, " ")
	if q, _ := cmd.Flags().GetString("query"); q != "" {
		query = q
	}
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("query required: pass it as arguments or with --query")
	}

	opts := engine.SearchOptions{Query: query}
	opts.Limit, _ = cmd.Flags().GetInt("limit")
	opts.UseRemote, _ = cmd.Flags().GetBool("remote")
	opts.Semantic, _ = cmd.Flags().GetBool("semantic")
	opts.NoCache, _ = cmd.Flags().GetBool("no-cache")

	srcs, _ := cmd.Flags().GetStringSlice("sources")
	for _, s := range srcs {
		opts.Sources = append(opts.Sources, types.SourceID(s))
	}
	cats, _ := cmd.Flags().GetStringSlice("categories")
	for _, c := range cats {
		opts.Categories = append(opts.Categories, types.Category(c))
	}

	eng, err := buildEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	resp, err := eng.Search(context.Background(), opts)
	if err != nil {
		return err
	}

	if savePath != "" {
		if err := engine.WriteQueryFile(savePath, opts, resp); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved to %s\n", savePath)
	}
	return formatSearchOutput(resp, jsonOutput)
}

func formatSearchOutput(resp *engine.SearchResponse, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	fmt.Fprintf(os.Stdout, "Intent: %s (%.2f)", resp.Intent.Type, resp.Intent.Confidence)
	if len(resp.Intent.Entities) > 0 {
		fmt.Fprintf(os.Stdout, "  entities: %s", strings.Join(resp.Intent.Entities, ", "))
	}
	fmt.Fprintln(os.Stdout)

	if len(resp.Results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-6s  %-13s  %-50s  %s\n",
		"Rank", "Score", "Source", "Title", "URL")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for i, r := range resp.Results {
		title := r.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-6.2f  %-13s  %-50s  %s\n",
			i+1, r.ScoreOrDefault(0), r.Source, title, r.URL)
	}

	origin := "live"
	if resp.Cached {
		origin = "cached"
	}
	fmt.Fprintf(os.Stdout, "\n%d results from %d/%d sources in %s (%s)\n",
		len(resp.Results), resp.SourcesSucceeded, resp.SourcesQueried,
		shortDuration(resp.Elapsed), origin)
	return nil
}

func init() {
	searchCmd.Flags().String("query", "", "query text (alternative to positional arguments)")
	searchCmd.Flags().StringSlice("sources", nil, "restrict to these source IDs (comma-separated)")
	searchCmd.Flags().StringSlice("categories", nil, "restrict to these categories: web, code, osint, research, news")
	searchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	searchCmd.Flags().Bool("remote", false, "classify intent with the configured remote model")
	searchCmd.Flags().Bool("semantic", false, "re-rank top results by embedding similarity")
	searchCmd.Flags().Bool("no-cache", false, "bypass the response cache")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().String("save", "", "save the search and results to a YAML file")
	searchCmd.Flags().String("load", "", "display a previously saved search instead of querying")

	rootCmd.AddCommand(searchCmd)
}
