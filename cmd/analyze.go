package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/keywordpulse/keywordpulse/internal/ai"
	"github.com/keywordpulse/keywordpulse/internal/report"
	"github.com/keywordpulse/keywordpulse/internal/traffic"
	"github.com/keywordpulse/keywordpulse/internal/utils"
)

var (
	anaContext    string
	anaAPIKey     string
	anaModel      string
	anaOutputPath string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file.csv>",
	Short: "Run one analysis headlessly and print the markdown report",
	Example: `  keywordpulse analyze traffic.csv --context "便携宠物饮水机，北美市场"
  keywordpulse analyze traffic.csv -c "..." -o report.md`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			return fmt.Errorf("configuration not loaded")
		}
		path := args[0]

		// Same validation order as the web form: each missing input
		// short-circuits before the file is read.
		apiKey := strings.TrimSpace(anaAPIKey)
		if apiKey == "" {
			apiKey = strings.TrimSpace(cfg.APIKey)
		}
		if apiKey == "" {
			return fmt.Errorf("api key is required (--api-key, config api_key, or KEYWORDPULSE_API_KEY)")
		}
		productContext := strings.TrimSpace(anaContext)
		if productContext == "" {
			return fmt.Errorf("--context is required")
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read file: %w", err)
		}

		raw, err := traffic.Load(data)
		if err != nil {
			return err
		}
		table, err := traffic.Normalize(raw, traffic.Options{
			KeywordColumn: cfg.KeywordColumn,
			VolumeColumn:  cfg.SearchVolumeColumn,
			OnBadRows:     traffic.BadRowPolicy(cfg.OnBadRows),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "normalized %d rows (%d dropped)\n", len(table.Rows), table.Dropped)

		model := anaModel
		if model == "" {
			model = cfg.DefaultModel
		}
		httpClient := &http.Client{}
		if cfg.HTTPTimeoutSec > 0 {
			httpClient.Timeout = time.Duration(cfg.HTTPTimeoutSec) * time.Second
		}
		gen := report.ChatGenerator{
			Client:      ai.NewClient(apiKey, cfg.BaseURL, httpClient),
			Model:       model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		}
		requester := report.NewRequester(gen, cfg.SampleSize)

		text, err := requester.Run(context.Background(), table, productContext)
		if err != nil {
			return err
		}

		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, []byte(text)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote report to %s\n", anaOutputPath)
			return nil
		}
		fmt.Println(text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaContext, "context", "c", "", "product background text embedded in the prompt")
	analyzeCmd.Flags().StringVar(&anaAPIKey, "api-key", "", "API credential (falls back to config)")
	analyzeCmd.Flags().StringVar(&anaModel, "model", "", "model name (overrides config)")
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report (Markdown)")
}
