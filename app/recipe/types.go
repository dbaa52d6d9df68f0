package recipe

// Recipe configuration types

type Config struct {
	Name        string         `yaml:"-" json:"name"` // Derived from filename (without .yml extension)
	Title       string         `yaml:"title" json:"title"`
	Publisher   string         `yaml:"publisher" json:"publisher"`
	Category    string         `yaml:"category" json:"category"`
	Description string         `yaml:"description" json:"description"`
	Language    string         `yaml:"language" json:"language"` // IETF language tag
	Version     int            `yaml:"version" json:"version"`   // Bumped by hand on meaningful change
	Settings    ConfigSettings `yaml:"settings" json:"settings"`
	Feeds       []Feed         `yaml:"feeds" json:"feeds"` // Order is presentation order
}

type ConfigSettings struct {
	OldestArticleDays   float64 `yaml:"oldest_article_days" json:"oldest_article_days"` // Maximum age of eligible content
	MaxArticlesPerFeed  int     `yaml:"max_articles_per_feed" json:"max_articles_per_feed"`
	RemoveEmptyFeeds    bool    `yaml:"remove_empty_feeds" json:"remove_empty_feeds"`
	UseEmbeddedContent  bool    `yaml:"use_embedded_content" json:"use_embedded_content"`
	AutoCleanup         bool    `yaml:"auto_cleanup" json:"auto_cleanup"`
	SuppressStylesheets bool    `yaml:"suppress_stylesheets" json:"suppress_stylesheets"`
}

type Feed struct {
	Label string `yaml:"label" json:"label"`
	URL   string `yaml:"url" json:"url"`
}
