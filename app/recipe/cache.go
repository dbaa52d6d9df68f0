package recipe

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Cache loads recipe files from a directory and keeps the validated
// records in memory. Loaded recipes are read-only: accessors hand out
// copies, and a failed load never replaces a cached record.
type Cache struct {
	recipesDir string
	minVersion int
	cache      map[string]*Config
	mu         sync.RWMutex
}

func NewCache(recipesDir string, minVersion int) *Cache {
	return &Cache{
		recipesDir: recipesDir,
		minVersion: minVersion,
		cache:      make(map[string]*Config),
	}
}

func (c *Cache) Run() error {
	if _, err := os.Stat(c.recipesDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(c.recipesDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		// Derive recipe name from filename (remove .yml extension)
		fileName := filepath.Base(file)
		recipeName := fileName[:len(fileName)-4]

		config, err := c.LoadRecipe(recipeName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Recipe loaded", "recipe", recipeName, "title", config.Title, "feeds", len(config.Feeds), "version", config.Version)
	}

	return nil
}

// LoadRecipe reads a recipe file from disk, validates it and stores the
// result in the cache. On any validation failure nothing is cached.
func (c *Cache) LoadRecipe(recipeName string) (*Config, error) {
	recipeFile := c.getRecipeFilePath(recipeName)
	config, err := c.parseRecipe(recipeFile)
	if err != nil {
		return nil, err
	}

	// Set recipe name from parameter
	config.Name = recipeName

	if err := c.validateRecipe(config); err != nil {
		return nil, fmt.Errorf("invalid recipe %s: %w", recipeFile, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[config.Name] = config

	return config.clone(), nil
}

func (c *Cache) GetRecipe(recipeName string) (*Config, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	config, ok := c.cache[recipeName]
	if !ok {
		return nil, fmt.Errorf("recipe with name '%s' not found", recipeName)
	}
	return config.clone(), nil
}

func (c *Cache) GetRecipes() map[string]*Config {
	c.mu.RLock()
	defer c.mu.RUnlock()

	configsCopy := make(map[string]*Config, len(c.cache))
	for k, v := range c.cache {
		configsCopy[k] = v.clone()
	}
	return configsCopy
}

func (c *Cache) GetRecipeCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

func (c *Cache) parseRecipe(recipeFile string) (*Config, error) {
	data, err := os.ReadFile(recipeFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if config.Settings.MaxArticlesPerFeed == 0 {
		config.Settings.MaxArticlesPerFeed = 100
	}
	if config.Version == 0 {
		config.Version = 1
	}
	if config.Language == "" {
		config.Language = "en"
	}

	return &config, nil
}

func (c *Cache) validateRecipe(config *Config) error {
	if config == nil {
		return fmt.Errorf("config is nil")
	}

	requiredFields := map[string]string{
		"title":     config.Title,
		"publisher": config.Publisher,
	}

	for fieldName, fieldValue := range requiredFields {
		if fieldValue == "" {
			return newConfigError(ErrMissingField, fieldName, "%s is required", fieldName)
		}
	}

	if config.Settings.OldestArticleDays <= 0 {
		return newConfigError(ErrInvalidThreshold, "oldest_article_days",
			"must be positive, got %v", config.Settings.OldestArticleDays)
	}
	if config.Settings.MaxArticlesPerFeed < 0 {
		return newConfigError(ErrInvalidThreshold, "max_articles_per_feed",
			"must be non-negative, got %d", config.Settings.MaxArticlesPerFeed)
	}

	if config.Version < c.minVersion {
		return newConfigError(ErrInvalidVersion, "version",
			"version %d is below minimum supported version %d", config.Version, c.minVersion)
	}

	if _, err := language.Parse(config.Language); err != nil {
		return newConfigError(ErrInvalidLanguage, "language",
			"'%s' is not a valid IETF language tag", config.Language)
	}

	if len(config.Feeds) == 0 {
		return newConfigError(ErrMissingField, "feeds", "at least one feed is required")
	}

	for i, feed := range config.Feeds {
		if feed.Label == "" {
			return newConfigError(ErrMissingField, "feeds",
				"feed at index %d has an empty label", i)
		}
		if err := validateFeedURL(feed.URL); err != nil {
			return newConfigError(ErrMalformedURL, "feeds",
				"feed '%s' at index %d: %v", feed.Label, i, err)
		}
	}

	return nil
}

// validateFeedURL requires an absolute http or https URL with a host.
func validateFeedURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("URL is empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("not a parseable URL: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got '%s'", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host")
	}

	return nil
}

func (c *Cache) getRecipeFilePath(recipeName string) string {
	return filepath.Join(c.recipesDir, recipeName+".yml")
}

func (cfg *Config) clone() *Config {
	clone := *cfg
	clone.Feeds = make([]Feed, len(cfg.Feeds))
	copy(clone.Feeds, cfg.Feeds)
	return &clone
}
