package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Mirrors  []string      `yaml:"mirrors"`
	Hashtags []string      `yaml:"hashtags"`
	Ingest   IngestConfig  `yaml:"ingest"`
	Collect  CollectConfig `yaml:"collect"`
	LogLevel string        `yaml:"log_level"`
}

type IngestConfig struct {
	Endpoint string        `yaml:"endpoint"`
	APIKey   string        `yaml:"api_key"`
	Timeout  time.Duration `yaml:"timeout"`
}

type CollectConfig struct {
	Interval     time.Duration `yaml:"interval"`
	ItemsPerRun  int           `yaml:"items_per_run"`
	ItemDelay    time.Duration `yaml:"item_delay"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxTweetAge  time.Duration `yaml:"max_tweet_age"`
	UserAgent    string        `yaml:"user_agent"`
	BlockMarkers []string      `yaml:"block_markers"`
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if len(c.Mirrors) == 0 {
		c.Mirrors = []string{
			"https://nitter.net",
			"https://nitter.poast.org",
			"https://xcancel.com",
			"https://nitter.privacyredirect.com",
		}
	}
	if len(c.Hashtags) == 0 {
		c.Hashtags = []string{
			"#airportdelay",
			"#flightcancelled",
			"#flightdelay",
			"#airportproblems",
			"#travelwoes",
			"#delayedflight",
			"#airportlife",
			"#travelproblems",
		}
	}
	if c.Ingest.Timeout == 0 {
		c.Ingest.Timeout = 30 * time.Second
	}
	if c.Collect.Interval == 0 {
		c.Collect.Interval = 90 * time.Minute
	}
	if c.Collect.ItemsPerRun == 0 {
		c.Collect.ItemsPerRun = 2
	}
	if c.Collect.ItemDelay == 0 {
		c.Collect.ItemDelay = 30 * time.Second
	}
	if c.Collect.Timeout == 0 {
		c.Collect.Timeout = 10 * time.Second
	}
	if c.Collect.MaxTweetAge == 0 {
		c.Collect.MaxTweetAge = 24 * time.Hour
	}
	if c.Collect.UserAgent == "" {
		c.Collect.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0 Safari/537.36"
	}
	if len(c.Collect.BlockMarkers) == 0 {
		c.Collect.BlockMarkers = []string{
			"Error",
			"Blocked",
			"Instance has been rate limited",
		}
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate rejects configuration the pipeline cannot run with. It must pass
// before any network activity starts.
func (c *Config) Validate() error {
	if len(c.Mirrors) == 0 {
		return fmt.Errorf("at least one mirror is required")
	}
	if len(c.Hashtags) == 0 {
		return fmt.Errorf("at least one hashtag is required")
	}
	if c.Collect.ItemsPerRun > len(c.Hashtags) {
		return fmt.Errorf("items_per_run (%d) exceeds hashtag catalog size (%d)",
			c.Collect.ItemsPerRun, len(c.Hashtags))
	}
	return nil
}

// ValidateIngest additionally requires the downstream endpoint credentials.
// Only the production collect path needs these; diagnostics never forward.
func (c *Config) ValidateIngest() error {
	if c.Ingest.Endpoint == "" {
		return fmt.Errorf("ingest endpoint is required")
	}
	if c.Ingest.APIKey == "" {
		return fmt.Errorf("ingest api key is required")
	}
	return nil
}
