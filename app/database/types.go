package database

import (
	"time"
)

type Recipe struct {
	ID                  int64
	Name                string // Recipe identifier derived from filename
	Title               string
	Publisher           string
	Category            string
	Description         string
	Language            string
	Version             int
	OldestArticleDays   float64
	MaxArticlesPerFeed  int
	RemoveEmptyFeeds    bool
	UseEmbeddedContent  bool
	AutoCleanup         bool
	SuppressStylesheets bool
	CreatedAt           time.Time
	UpdatedAt           time.Time // Tracks last successful registry sync
}

type FeedEntry struct {
	ID       int64
	RecipeID int64
	Position int // Presentation order within the recipe
	Label    string
	URL      string
}
