package database

import (
	"fmt"

	"github.com/okhomin/recipe-rack/app/recipe"
)

// FeedRepositoryImpl handles database operations for recipe feed entries
type FeedRepositoryImpl struct {
	db *DB
}

var _ FeedRepository = (*FeedRepositoryImpl)(nil)

func NewFeedRepository(db *DB) *FeedRepositoryImpl {
	return &FeedRepositoryImpl{db: db}
}

// ReplaceFeeds rewrites the feed entries of a recipe in authored order.
// The replacement happens in one transaction so readers never observe a
// partially synced list.
func (r *FeedRepositoryImpl) ReplaceFeeds(recipeID int64, feeds []recipe.Feed) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM recipe_feeds WHERE recipe_id = ?", recipeID); err != nil {
		return fmt.Errorf("failed to clear feed entries: %w", err)
	}

	for i, feed := range feeds {
		_, err := tx.Exec(`
			INSERT INTO recipe_feeds (recipe_id, position, label, url)
			VALUES (?, ?, ?, ?)
		`, recipeID, i, feed.Label, feed.URL)
		if err != nil {
			return fmt.Errorf("failed to insert feed entry '%s': %w", feed.Label, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit feed entries: %w", err)
	}

	return nil
}

// GetFeeds returns the feed entries of a recipe in presentation order.
func (r *FeedRepositoryImpl) GetFeeds(recipeID int64) ([]FeedEntry, error) {
	rows, err := r.db.Query(`
		SELECT id, recipe_id, position, label, url
		FROM recipe_feeds
		WHERE recipe_id = ?
		ORDER BY position
	`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get feed entries: %w", err)
	}
	defer rows.Close()

	var feeds []FeedEntry
	for rows.Next() {
		var entry FeedEntry
		if err := rows.Scan(&entry.ID, &entry.RecipeID, &entry.Position,
			&entry.Label, &entry.URL); err != nil {
			return nil, fmt.Errorf("failed to scan feed entry: %w", err)
		}
		feeds = append(feeds, entry)
	}

	return feeds, rows.Err()
}

func (r *FeedRepositoryImpl) GetFeedCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM recipe_feeds").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count feed entries: %w", err)
	}
	return count, nil
}
