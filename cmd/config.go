package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/keywordpulse/keywordpulse/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set KeywordPulse configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("api_key: %s\n", mask(cfg.APIKey))
		fmt.Printf("default_model: %s\n", cfg.DefaultModel)
		fmt.Printf("base_url: %s\n", cfg.BaseURL)
		fmt.Printf("keyword_column: %s\n", cfg.KeywordColumn)
		fmt.Printf("search_volume_column: %s\n", cfg.SearchVolumeColumn)
		fmt.Printf("on_bad_rows: %s\n", cfg.OnBadRows)
		fmt.Printf("sample_size: %d\n", cfg.SampleSize)
		fmt.Printf("chart_top: %d\n", cfg.ChartTop)
		fmt.Printf("max_tokens: %d\n", cfg.MaxTokens)
		fmt.Printf("temperature: %.3f\n", cfg.Temperature)
		fmt.Printf("http_timeout_sec: %d\n", cfg.HTTPTimeoutSec)
		fmt.Printf("listen_addr: %s\n", cfg.ListenAddr)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "api_key":
			cfg.APIKey = val
		case "default_model":
			cfg.DefaultModel = val
		case "base_url":
			cfg.BaseURL = val
		case "keyword_column":
			cfg.KeywordColumn = val
		case "search_volume_column":
			cfg.SearchVolumeColumn = val
		case "on_bad_rows":
			if val != "drop" && val != "fail" {
				return fmt.Errorf("invalid on_bad_rows: %s (use drop or fail)", val)
			}
			cfg.OnBadRows = val
		case "sample_size":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for sample_size: %v", val)
			}
			cfg.SampleSize = i
		case "chart_top":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for chart_top: %v", val)
			}
			cfg.ChartTop = i
		case "max_tokens":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for max_tokens: %w", err)
			}
			cfg.MaxTokens = i
		case "temperature":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid float for temperature: %w", err)
			}
			cfg.Temperature = f
		case "http_timeout_sec":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for http_timeout_sec: %v", val)
			}
			cfg.HTTPTimeoutSec = i
		case "listen_addr":
			cfg.ListenAddr = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

// mask hides all but the last 4 characters of a credential.
func mask(s string) string {
	if s == "" {
		return "(unset)"
	}
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
