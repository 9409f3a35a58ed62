package main

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/eringen/postline"
)

// loadConfig reads postline.yaml (or file, when set) and POSTLINE_* environment
// variables. A missing config file is not an error.
func loadConfig(file string) (postline.SiteConfig, error) {
	v := viper.New()
	v.SetDefault("name", "Blog")
	v.SetDefault("url", "http://localhost:3000")
	v.SetDefault("description", "")
	v.SetDefault("author", "")
	v.SetDefault("addr", ":3000")
	v.SetDefault("content_dir", "content")
	v.SetDefault("media_dir", "")
	v.SetDefault("index_path", ":memory:")
	v.SetDefault("session_secret", "")
	v.SetDefault("cookie_secure", false)
	v.SetDefault("post_cache_ttl", "5m")
	v.SetDefault("reader_ttl", "30m")
	v.SetDefault("event_limit", 120)
	v.SetDefault("event_window", "1m")
	v.SetDefault("media_max_width", 800)
	v.SetDefault("log_level", "info")

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("postline")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("POSTLINE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return postline.SiteConfig{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg postline.SiteConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return postline.SiteConfig{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}
