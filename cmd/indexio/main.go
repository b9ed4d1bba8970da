// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the indexio CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Q2x38b/indexio/internal/engine"
	"github.com/Q2x38b/indexio/internal/secrets"
	"github.com/Q2x38b/indexio/internal/sources"
	"github.com/Q2x38b/indexio/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the indexio CLI.
var rootCmd = &cobra.Command{
	Use:   "indexio",
	Short: "Federated search across web, code, OSINT, research and news sources",
	Long: `indexio fans a single query out across many public search providers,
deduplicates and ranks the merged results, and prints one unified list.

Queries are classified by intent (a CVE identifier routes to vulnerability
databases, an IP address to geolocation, a paper DOI to scholarly indexes)
and routed to the sources most likely to answer them. Explicit --sources or
--categories filters override the routing.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./indexio.yaml or ~/.config/indexio/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("indexio")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "indexio"))
		}
	}

	viper.SetEnvPrefix("INDEXIO")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// engineConfig assembles the engine configuration from viper keys. Unset
// keys fall through to the documented defaults.
func engineConfig() types.EngineConfig {
	cfg := types.EngineConfig{
		Search: types.SearchConfig{
			MaxResults:       viper.GetInt("search.max_results"),
			PerSourceTimeout: viper.GetDuration("search.per_source_timeout"),
			OverfetchFactor:  viper.GetInt("search.overfetch_factor"),
			MaxPerSource:     viper.GetInt("search.max_per_source"),
			CacheTTL:         viper.GetDuration("search.cache_ttl"),
			CacheSize:        viper.GetInt("search.cache_size"),
		},
		AI: types.AIConfig{
			ClassifierHost:  viper.GetString("ai.classifier_host"),
			ClassifierModel: viper.GetString("ai.classifier_model"),
			EmbeddingHost:   viper.GetString("ai.embedding_host"),
			EmbeddingModel:  viper.GetString("ai.embedding_model"),
			Timeout:         viper.GetDuration("ai.timeout"),
			RerankDepth:     viper.GetInt("ai.rerank_depth"),
		},
		Suggest: types.SuggestConfig{
			MaxSuggestions: viper.GetInt("suggest.max_suggestions"),
			TrendingWindow: viper.GetDuration("suggest.trending_window"),
		},
		History: types.HistoryConfig{
			Path: viper.GetString("history.path"),
		},
	}
	cfg.Search.Timeout = viper.GetDuration("search.http_timeout")
	for _, id := range viper.GetStringSlice("search.disabled") {
		cfg.Search.Disabled = append(cfg.Search.Disabled, types.SourceID(id))
	}
	if cfg.History.Path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.History.Path = filepath.Join(home, ".local", "share", "indexio", "history.db")
		}
	}
	return cfg
}

// buildEngine constructs the engine with config and loaded credentials.
func buildEngine() (*engine.Engine, error) {
	keys := sources.Keys{
		GitHubToken:   loadedSecrets["github-token"],
		NVDAPIKey:     loadedSecrets["nvd-api-key"],
		URLScanAPIKey: loadedSecrets["urlscan-api-key"],
		OpenAlexEmail: loadedSecrets["openalex-email"],
	}
	return engine.New(engineConfig(), keys, loadedSecrets["openai-api-key"])
}

// shortDuration renders an elapsed time without sub-millisecond noise.
func shortDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
