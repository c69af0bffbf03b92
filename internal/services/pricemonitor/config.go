package pricemonitor

import "fmt"

type Config struct {
	ExportDir    string   `mapstructure:"export_dir"`
	HistoryIndex string   `mapstructure:"history_index"`
	S3Prefix     string   `mapstructure:"s3_prefix"`
	Schedule     string   `mapstructure:"schedule"`
	WatchQueries []string `mapstructure:"watch_queries"`
	HistoryLimit int      `mapstructure:"history_limit"`
}

func DefaultConfig() *Config {
	return &Config{
		ExportDir:    ".",
		HistoryIndex: "price-history",
		S3Prefix:     "exports",
		HistoryLimit: 20,
	}
}

func (c *Config) Validate() error {
	if c.ExportDir == "" {
		return fmt.Errorf("export_dir is required")
	}
	if c.HistoryLimit <= 0 || c.HistoryLimit > maxHistoryLimit {
		return fmt.Errorf("history_limit must be between 1 and %d", maxHistoryLimit)
	}
	if c.Schedule != "" && len(c.WatchQueries) == 0 {
		return fmt.Errorf("watch_queries is required when schedule is set")
	}
	return nil
}
