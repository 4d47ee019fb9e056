// Package config loads pipeline configuration from the environment and an
// optional .env file.
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the pipeline. CLI flags override the
// values loaded here.
type Config struct {
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	GithubToken string `mapstructure:"GITHUB_TOKEN"`
	DBURL       string `mapstructure:"DB_URL"`

	Queries string `mapstructure:"QUERIES"`
	Sort    string `mapstructure:"SORT"`
	Order   string `mapstructure:"ORDER"`
	Limit   int    `mapstructure:"LIMIT"`

	ScrapedDir string `mapstructure:"SCRAPED_DIR"`
	CleanedDir string `mapstructure:"CLEANED_DIR"`
	ResultsDir string `mapstructure:"RESULTS_DIR"`

	NominatimURL      string `mapstructure:"NOMINATIM_URL"`
	ContinentTableURL string `mapstructure:"CONTINENT_TABLE_URL"`

	WorldBoundaries    string `mapstructure:"WORLD_BOUNDARIES"`
	WorldBoundariesURL string `mapstructure:"WORLD_BOUNDARIES_URL"`
	WordcloudFont      string `mapstructure:"WORDCLOUD_FONT"`
	LargeDatasets      bool   `mapstructure:"LARGE_DATASETS"`

	Addr string `mapstructure:"ADDR"`
}

// LoadConfig reads configuration from file and/or environment variables.
func LoadConfig() (*Config, error) {
	// Set default values
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("QUERIES", "Machine Learning, Deep Learning")
	viper.SetDefault("SORT", "stars")
	viper.SetDefault("ORDER", "desc")
	viper.SetDefault("LIMIT", 1000)
	viper.SetDefault("SCRAPED_DIR", "data/scraped")
	viper.SetDefault("CLEANED_DIR", "data/cleaned")
	viper.SetDefault("RESULTS_DIR", "results")
	viper.SetDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org/")
	viper.SetDefault("CONTINENT_TABLE_URL",
		"https://raw.githubusercontent.com/dbouquin/IS_608/master/NanosatDB_munging/Countries-Continents.csv")
	viper.SetDefault("WORLD_BOUNDARIES", "data/reference/world-countries.geo.json")
	viper.SetDefault("WORLD_BOUNDARIES_URL",
		"https://raw.githubusercontent.com/johan/world.geo.json/master/countries.geo.json")
	viper.SetDefault("WORDCLOUD_FONT", "assets/Roboto-Regular.ttf")
	viper.SetDefault("ADDR", ":8080")

	// Load from .env file if it exists
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	_ = viper.ReadInConfig() // Ignore error if file not found

	// Bind environment variables
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	return ValidateSearch(c.Sort, c.Order, c.Limit)
}

// ValidateSearch checks the scrape parameters against the platform's search
// API contract. The 1000-row ceiling is an API limit, not configurable
// upward.
func ValidateSearch(sort, order string, limit int) error {
	switch sort {
	case "stars", "forks", "updated":
	default:
		return errors.New(`sort must be one of "stars", "forks", or "updated"`)
	}
	switch order {
	case "asc", "desc":
	default:
		return errors.New(`order must be "asc" or "desc"`)
	}
	if limit <= 0 || limit > 1000 {
		return errors.New("limit must be between 1 and 1000")
	}
	return nil
}
