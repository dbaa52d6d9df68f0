package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/okhomin/recipe-rack/app/database"
	"github.com/okhomin/recipe-rack/app/recipe"
	"github.com/okhomin/recipe-rack/app/tasks"
)

func NewHandler(cache *recipe.Cache, recipeRepo database.RecipeRepository,
	feedRepo database.FeedRepository, scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		cache:      cache,
		recipeRepo: recipeRepo,
		feedRepo:   feedRepo,
		exporter:   recipe.NewExporter(),
		scheduler:  scheduler,
	}
}

func (h *Handler) ListRecipes(c *gin.Context) {
	configs := h.cache.GetRecipes()

	recipes := make([]map[string]interface{}, 0, len(configs))

	for _, config := range configs {
		info := map[string]interface{}{
			"name":                config.Name,
			"title":               config.Title,
			"publisher":           config.Publisher,
			"category":            config.Category,
			"language":            config.Language,
			"version":             config.Version,
			"oldest_article_days": config.Settings.OldestArticleDays,
			"feeds":               len(config.Feeds),
		}

		if stored, err := h.recipeRepo.GetRecipe(config.Name); err == nil && stored != nil {
			info["registered_at"] = stored.CreatedAt
			info["updated_at"] = stored.UpdatedAt
		}

		recipes = append(recipes, info)
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"recipes": recipes,
		"total":   len(recipes),
	})
}

func (h *Handler) GetRecipe(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing recipe name parameter"})
		return
	}

	config, err := h.cache.GetRecipe(name)
	if err != nil {
		slog.Error("Recipe not found", "recipe", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}

	details := map[string]interface{}{
		"name":        config.Name,
		"title":       config.Title,
		"publisher":   config.Publisher,
		"category":    config.Category,
		"description": config.Description,
		"language":    config.Language,
		"version":     config.Version,
		"settings": map[string]interface{}{
			"oldest_article_days":   config.Settings.OldestArticleDays,
			"max_articles_per_feed": config.Settings.MaxArticlesPerFeed,
			"remove_empty_feeds":    config.Settings.RemoveEmptyFeeds,
			"use_embedded_content":  config.Settings.UseEmbeddedContent,
			"auto_cleanup":          config.Settings.AutoCleanup,
			"suppress_stylesheets":  config.Settings.SuppressStylesheets,
		},
		"feeds": config.Feeds,
	}

	if stored, err := h.recipeRepo.GetRecipe(name); err == nil && stored != nil {
		details["registry"] = map[string]interface{}{
			"id":         stored.ID,
			"created_at": stored.CreatedAt,
			"updated_at": stored.UpdatedAt,
		}
	}

	c.JSON(http.StatusOK, details)
}

// ExportRecipe serves the declarative YAML form of a loaded recipe.
// The exported document re-loads to an identical record.
func (h *Handler) ExportRecipe(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	config, err := h.cache.GetRecipe(name)
	if err != nil {
		slog.Error("Recipe not found", "recipe", name, "error", err)
		c.Status(http.StatusNotFound)
		return
	}

	out, err := h.exporter.Run(*config)
	if err != nil {
		slog.Error("Recipe export error", "recipe", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/yaml; charset=utf-8")
	c.Header("X-Recipe-Name", name)
	c.Header("X-Recipe-Version", strconv.Itoa(config.Version))
	c.Header("X-Recipe-Feeds", strconv.Itoa(len(config.Feeds)))

	c.String(http.StatusOK, out)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if recipeCount, err := h.recipeRepo.GetRecipeCount(); err == nil {
		health["registered_recipes"] = recipeCount
	}
	if feedCount, err := h.feedRepo.GetFeedCount(); err == nil {
		health["registered_feeds"] = feedCount
	}

	health["loaded_recipes"] = h.cache.GetRecipeCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) APIReloadRecipe(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing recipe name parameter"})
		return
	}

	if _, err := h.cache.GetRecipe(name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}

	task := tasks.NewSyncRecipeTask(name, h.cache, h.recipeRepo, h.feedRepo)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Failed to enqueue reload", "recipe", name, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to schedule reload"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"recipe": name,
		"status": "reload scheduled",
	})
}
