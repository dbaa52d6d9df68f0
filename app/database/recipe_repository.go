package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/okhomin/recipe-rack/app/recipe"
)

// RecipeRepositoryImpl handles database operations for recipes
type RecipeRepositoryImpl struct {
	db *DB
}

var _ RecipeRepository = (*RecipeRepositoryImpl)(nil)

func NewRecipeRepository(db *DB) *RecipeRepositoryImpl {
	return &RecipeRepositoryImpl{db: db}
}

// UpsertRecipe inserts or updates a recipe row from a validated
// configuration. The second return value reports whether the stored
// version changed, so callers can log human version bumps.
func (r *RecipeRepositoryImpl) UpsertRecipe(config *recipe.Config) (int64, bool, error) {
	existing, err := r.GetRecipe(config.Name)
	if err != nil {
		return 0, false, fmt.Errorf("failed to check existing recipe: %w", err)
	}

	now := time.Now().UTC()

	if existing != nil {
		versionChanged := existing.Version != config.Version

		_, err = r.db.Exec(`
			UPDATE recipes
			SET title = ?, publisher = ?, category = ?, description = ?,
			    language = ?, version = ?, oldest_article_days = ?,
			    max_articles_per_feed = ?, remove_empty_feeds = ?,
			    use_embedded_content = ?, auto_cleanup = ?,
			    suppress_stylesheets = ?, updated_at = ?
			WHERE name = ?
		`, config.Title, config.Publisher, config.Category, config.Description,
			config.Language, config.Version, config.Settings.OldestArticleDays,
			config.Settings.MaxArticlesPerFeed, config.Settings.RemoveEmptyFeeds,
			config.Settings.UseEmbeddedContent, config.Settings.AutoCleanup,
			config.Settings.SuppressStylesheets, now, config.Name)
		if err != nil {
			return 0, false, fmt.Errorf("failed to update recipe: %w", err)
		}

		return existing.ID, versionChanged, nil
	}

	res, err := r.db.Exec(`
		INSERT INTO recipes (name, title, publisher, category, description,
			language, version, oldest_article_days, max_articles_per_feed,
			remove_empty_feeds, use_embedded_content, auto_cleanup,
			suppress_stylesheets, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, config.Name, config.Title, config.Publisher, config.Category,
		config.Description, config.Language, config.Version,
		config.Settings.OldestArticleDays, config.Settings.MaxArticlesPerFeed,
		config.Settings.RemoveEmptyFeeds, config.Settings.UseEmbeddedContent,
		config.Settings.AutoCleanup, config.Settings.SuppressStylesheets,
		now, now)
	if err != nil {
		return 0, false, fmt.Errorf("failed to insert recipe: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("failed to get inserted recipe id: %w", err)
	}

	return id, false, nil
}

// GetRecipe returns the stored recipe by name, or nil when absent.
func (r *RecipeRepositoryImpl) GetRecipe(recipeName string) (*Recipe, error) {
	row := r.db.QueryRow(`
		SELECT id, name, title, publisher, category, description, language,
		       version, oldest_article_days, max_articles_per_feed,
		       remove_empty_feeds, use_embedded_content, auto_cleanup,
		       suppress_stylesheets, created_at, updated_at
		FROM recipes
		WHERE name = ?
	`, recipeName)

	var rec Recipe
	err := row.Scan(&rec.ID, &rec.Name, &rec.Title, &rec.Publisher,
		&rec.Category, &rec.Description, &rec.Language, &rec.Version,
		&rec.OldestArticleDays, &rec.MaxArticlesPerFeed,
		&rec.RemoveEmptyFeeds, &rec.UseEmbeddedContent, &rec.AutoCleanup,
		&rec.SuppressStylesheets, &rec.CreatedAt, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	return &rec, nil
}

// ListRecipes returns all stored recipes ordered by name.
func (r *RecipeRepositoryImpl) ListRecipes() ([]Recipe, error) {
	rows, err := r.db.Query(`
		SELECT id, name, title, publisher, category, description, language,
		       version, oldest_article_days, max_articles_per_feed,
		       remove_empty_feeds, use_embedded_content, auto_cleanup,
		       suppress_stylesheets, created_at, updated_at
		FROM recipes
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		var rec Recipe
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Title, &rec.Publisher,
			&rec.Category, &rec.Description, &rec.Language, &rec.Version,
			&rec.OldestArticleDays, &rec.MaxArticlesPerFeed,
			&rec.RemoveEmptyFeeds, &rec.UseEmbeddedContent, &rec.AutoCleanup,
			&rec.SuppressStylesheets, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, rec)
	}

	return recipes, rows.Err()
}

func (r *RecipeRepositoryImpl) GetRecipeCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM recipes").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return count, nil
}

// DeleteRecipe removes a recipe and, via cascade, its feed entries.
func (r *RecipeRepositoryImpl) DeleteRecipe(recipeName string) error {
	_, err := r.db.Exec("DELETE FROM recipes WHERE name = ?", recipeName)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return nil
}
