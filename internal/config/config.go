package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	APIKey       string  `mapstructure:"api_key" yaml:"api_key"`
	DefaultModel string  `mapstructure:"default_model" yaml:"default_model"`
	BaseURL      string  `mapstructure:"base_url" yaml:"base_url"`
	MaxTokens    int     `mapstructure:"max_tokens" yaml:"max_tokens"`
	Temperature  float64 `mapstructure:"temperature" yaml:"temperature"`

	// Required column names, matched exactly after whitespace trimming.
	KeywordColumn      string `mapstructure:"keyword_column" yaml:"keyword_column"`
	SearchVolumeColumn string `mapstructure:"search_volume_column" yaml:"search_volume_column"`

	// OnBadRows decides whether rows with an unparseable volume are dropped
	// ("drop") or abort the run ("fail").
	OnBadRows  string `mapstructure:"on_bad_rows" yaml:"on_bad_rows"`
	SampleSize int    `mapstructure:"sample_size" yaml:"sample_size"`
	ChartTop   int    `mapstructure:"chart_top" yaml:"chart_top"`

	HTTPTimeoutSec int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`

	// Web UI
	ListenAddr string `mapstructure:"listen_addr" yaml:"listen_addr"`
	ViewsDir   string `mapstructure:"views_dir" yaml:"views_dir"`
	StaticDir  string `mapstructure:"static_dir" yaml:"static_dir"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty it writes to ~/.keywordpulse/config.yaml, creating the directory if
// necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".keywordpulse")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("KEYWORDPULSE")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("default_model", "deepseek-chat")
	v.SetDefault("base_url", "https://api.deepseek.com/v1")
	v.SetDefault("max_tokens", 4096)
	v.SetDefault("temperature", 0.7)
	v.SetDefault("keyword_column", "流量词")
	v.SetDefault("search_volume_column", "月搜索量")
	v.SetDefault("on_bad_rows", "drop")
	v.SetDefault("sample_size", 100)
	v.SetDefault("chart_top", 5)
	v.SetDefault("http_timeout_sec", 300)
	v.SetDefault("listen_addr", ":8712")
	v.SetDefault("views_dir", "./views")
	v.SetDefault("static_dir", "./static")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".keywordpulse")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.OnBadRows != "drop" && c.OnBadRows != "fail" {
		return nil, fmt.Errorf("invalid on_bad_rows: %q (use drop or fail)", c.OnBadRows)
	}
	return &c, nil
}
