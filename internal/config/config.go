// Package config loads application configuration from file and
// environment and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Role   RoleConfig    `yaml:"role" mapstructure:"role"`
	Search SearchConfig  `yaml:"search" mapstructure:"search"`
	Boards []BoardConfig `yaml:"boards" mapstructure:"boards"`
	Merge  MergeConfig   `yaml:"merge" mapstructure:"merge"`
	Store  StoreConfig   `yaml:"store" mapstructure:"store"`
	Log    LogConfig     `yaml:"log" mapstructure:"log"`
}

// RoleConfig names the target role in both query languages.
type RoleConfig struct {
	Keyword      string `yaml:"keyword" mapstructure:"keyword"`
	KeywordLocal string `yaml:"keyword_local" mapstructure:"keyword_local"`
}

// SearchConfig configures the search-driven LinkedIn source.
type SearchConfig struct {
	SerperKey    string   `yaml:"serper_key" mapstructure:"serper_key"`
	BaseURL      string   `yaml:"base_url" mapstructure:"base_url"`
	SourceLabel  string   `yaml:"source_label" mapstructure:"source_label"`
	OutputPath   string   `yaml:"output_path" mapstructure:"output_path"`
	MaxPages     int      `yaml:"max_pages" mapstructure:"max_pages"`
	EnrichBudget int      `yaml:"enrich_budget" mapstructure:"enrich_budget"`
	PagePaceMs   int      `yaml:"page_pace_ms" mapstructure:"page_pace_ms"`
	DetailPaceMs int      `yaml:"detail_pace_ms" mapstructure:"detail_pace_ms"`
	TimeoutSecs  int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent    string   `yaml:"user_agent" mapstructure:"user_agent"`
	CityFanout   bool     `yaml:"city_fanout" mapstructure:"city_fanout"`
	ExtraQueries []string `yaml:"extra_queries" mapstructure:"extra_queries"`
}

// BoardConfig configures one board-API source.
type BoardConfig struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Board       string `yaml:"board" mapstructure:"board"`
	Company     string `yaml:"company" mapstructure:"company"`
	SourceLabel string `yaml:"source_label" mapstructure:"source_label"`
	OutputPath  string `yaml:"output_path" mapstructure:"output_path"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
}

// MergeConfig configures the cross-source merge step.
type MergeConfig struct {
	OutputPath string `yaml:"output_path" mapstructure:"output_path"`
}

// StoreConfig configures the run-history database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("JOBSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults mirror the tuning the sources were calibrated with.
	// serper_key defaults empty so AutomaticEnv can see the key; the
	// credential itself comes from file or JOBSCOUT_SEARCH_SERPER_KEY.
	v.SetDefault("search.serper_key", "")
	v.SetDefault("role.keyword", "Data Scientist")
	v.SetDefault("role.keyword_local", "מדען נתונים")
	v.SetDefault("search.base_url", "https://google.serper.dev")
	v.SetDefault("search.source_label", "google_search/serper+linkedin")
	v.SetDefault("search.output_path", "jobs_serper.csv")
	v.SetDefault("search.max_pages", 8)
	v.SetDefault("search.enrich_budget", 120)
	v.SetDefault("search.page_pace_ms", 600)
	v.SetDefault("search.detail_pace_ms", 900)
	v.SetDefault("search.timeout_secs", 30)
	v.SetDefault("search.user_agent", "Mozilla/5.0 (compatible; jobscout/1.0; +https://example.com/bot)")
	v.SetDefault("search.city_fanout", true)
	v.SetDefault("boards", []map[string]any{
		{
			"name":         "riskified",
			"board":        "riskified",
			"company":      "Riskified",
			"source_label": "Riskified Careers",
			"output_path":  "riskified_ds_jobs.csv",
		},
		{
			"name":         "similarweb",
			"board":        "similarweb",
			"company":      "SimilarWeb",
			"source_label": "SimilarWeb Careers",
			"output_path":  "similarweb_ds_jobs.csv",
		},
	})
	v.SetDefault("merge.output_path", "merged_jobs.csv")
	v.SetDefault("store.path", "jobscout.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// ValidateSearch checks the credential the search source cannot run
// without. Called before any network activity so a missing key fails fast.
func (c *Config) ValidateSearch() error {
	if c.Search.SerperKey == "" {
		return eris.New("config: search.serper_key is required (JOBSCOUT_SEARCH_SERPER_KEY)")
	}
	return nil
}

// SourcePaths returns every per-source dataset path in merge priority
// order: the search source first, then boards in configured order.
func (c *Config) SourcePaths() []string {
	paths := []string{c.Search.OutputPath}
	for _, b := range c.Boards {
		paths = append(paths, b.OutputPath)
	}
	return paths
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
