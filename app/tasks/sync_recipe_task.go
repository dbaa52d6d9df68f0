package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/okhomin/recipe-rack/app/database"
	"github.com/okhomin/recipe-rack/app/recipe"
)

// SyncRecipeTask re-reads a recipe file from disk, validates it and
// syncs the registry rows. A recipe that fails validation leaves the
// previously registered state untouched.
type SyncRecipeTask struct {
	Task
	cache      *recipe.Cache
	recipeRepo database.RecipeRepository
	feedRepo   database.FeedRepository
}

func NewSyncRecipeTask(recipeName string, cache *recipe.Cache,
	recipeRepo database.RecipeRepository, feedRepo database.FeedRepository) *SyncRecipeTask {
	return &SyncRecipeTask{
		Task:       NewTask(TaskTypeSyncRecipe, recipeName),
		cache:      cache,
		recipeRepo: recipeRepo,
		feedRepo:   feedRepo,
	}
}

func (t *SyncRecipeTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	config, err := t.cache.LoadRecipe(t.RecipeName)
	if err != nil {
		slog.Error("Task failed", "type", "SyncRecipe", "recipe", t.RecipeName, "error", err)
		return fmt.Errorf("failed to reload recipe: %w", err)
	}

	recipeID, versionChanged, err := t.recipeRepo.UpsertRecipe(config)
	if err != nil {
		slog.Error("Task failed", "type", "SyncRecipe", "recipe", t.RecipeName, "error", err)
		return fmt.Errorf("failed to sync recipe to registry: %w", err)
	}

	if err := t.feedRepo.ReplaceFeeds(recipeID, config.Feeds); err != nil {
		slog.Error("Task failed", "type", "SyncRecipe", "recipe", t.RecipeName, "error", err)
		return fmt.Errorf("failed to sync feed entries to registry: %w", err)
	}

	if versionChanged {
		slog.Info("Recipe version bumped", "recipe", t.RecipeName, "version", config.Version)
	}

	slog.Info("Task completed",
		"type", "SyncRecipe",
		"recipe", t.RecipeName,
		"feeds", len(config.Feeds),
		"duration", t.GetDuration())

	return nil
}
