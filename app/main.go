package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okhomin/recipe-rack/app/api"
	"github.com/okhomin/recipe-rack/app/cfg"
	"github.com/okhomin/recipe-rack/app/database"
	"github.com/okhomin/recipe-rack/app/recipe"
	"github.com/okhomin/recipe-rack/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Recipe Rack", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open registry database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	migrationVersion, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Registry database ready", "path", appCfg.DBPath, "migration_version", migrationVersion, "dirty", dirty)

	// Load and validate recipe configurations
	slog.Info("Loading recipes", "dir", appCfg.RecipesDir)
	cache := recipe.NewCache(appCfg.RecipesDir, appCfg.MinRecipeVersion)
	if err := cache.Run(); err != nil {
		slog.Error("Failed to load recipes", "error", err)
		os.Exit(1)
	}
	slog.Info("Recipes loaded", "count", cache.GetRecipeCount())

	recipeRepo := database.NewRecipeRepository(db)
	feedRepo := database.NewFeedRepository(db)

	// Register loaded recipes in the registry
	registeredCount := 0
	versionBumpCount := 0
	for name, config := range cache.GetRecipes() {
		recipeID, versionChanged, err := recipeRepo.UpsertRecipe(config)
		if err != nil {
			slog.Warn("Failed to register recipe", "recipe", name, "error", err)
			continue
		}
		if err := feedRepo.ReplaceFeeds(recipeID, config.Feeds); err != nil {
			slog.Warn("Failed to register feed entries", "recipe", name, "error", err)
			continue
		}

		if versionChanged {
			slog.Info("Recipe version updated", "recipe", name, "version", config.Version)
			versionBumpCount++
		} else {
			slog.Debug("Recipe registered", "recipe", name, "feeds", len(config.Feeds))
		}
		registeredCount++
	}
	slog.Info("Recipes registered", "registered", registeredCount, "loaded", cache.GetRecipeCount(), "version_bumps", versionBumpCount)

	// Start background registry housekeeping
	scheduler := tasks.NewScheduler(cache, recipeRepo, feedRepo)
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Scheduler started", "workers", appCfg.WorkerCount, "rescan_interval", appCfg.RescanInterval)

	// HTTP server
	handler := api.NewHandler(cache, recipeRepo, feedRepo, scheduler)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	// Scheduler is stopped via defer
	slog.Info("Shutdown complete")
}
