package database

import (
	"path/filepath"
	"testing"

	"github.com/okhomin/recipe-rack/app/recipe"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatal(err)
	}

	return db
}

func testConfig(name string) *recipe.Config {
	return &recipe.Config{
		Name:        name,
		Title:       "The Columbus Dispatch",
		Publisher:   "The Columbus Dispatch",
		Category:    "News, Newspaper",
		Description: "Daily newspaper from central Ohio",
		Language:    "en",
		Version:     1,
		Settings: recipe.ConfigSettings{
			OldestArticleDays:   1.2,
			MaxArticlesPerFeed:  100,
			RemoveEmptyFeeds:    true,
			AutoCleanup:         true,
			SuppressStylesheets: true,
		},
		Feeds: []recipe.Feed{
			{Label: "Local", URL: "http://www.dispatch.com/content/syndication/news_local-state.xml"},
			{Label: "National", URL: "http://www.dispatch.com/content/syndication/news_national.xml"},
		},
	}
}

func TestUpsertRecipeInsert(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecipeRepository(db)

	id, versionChanged, err := repo.UpsertRecipe(testConfig("dispatch"))
	if err != nil {
		t.Fatal(err)
	}
	if id == 0 {
		t.Error("Expected non-zero recipe id")
	}
	if versionChanged {
		t.Error("Version change should not be reported for an insert")
	}

	stored, err := repo.GetRecipe("dispatch")
	if err != nil {
		t.Fatal(err)
	}
	if stored == nil {
		t.Fatal("Expected stored recipe, got nil")
	}
	if stored.Title != "The Columbus Dispatch" {
		t.Errorf("Expected title 'The Columbus Dispatch', got '%s'", stored.Title)
	}
	if stored.OldestArticleDays != 1.2 {
		t.Errorf("Expected oldest_article_days 1.2, got %v", stored.OldestArticleDays)
	}
	if !stored.RemoveEmptyFeeds {
		t.Error("Expected remove_empty_feeds to be true")
	}
	if stored.UseEmbeddedContent {
		t.Error("Expected use_embedded_content to be false")
	}
}

func TestUpsertRecipeVersionChangeDetection(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecipeRepository(db)

	config := testConfig("dispatch")
	firstID, _, err := repo.UpsertRecipe(config)
	if err != nil {
		t.Fatal(err)
	}

	// Same version, no change reported.
	secondID, versionChanged, err := repo.UpsertRecipe(config)
	if err != nil {
		t.Fatal(err)
	}
	if versionChanged {
		t.Error("Expected no version change for identical config")
	}
	if firstID != secondID {
		t.Errorf("Expected stable recipe id, got %d then %d", firstID, secondID)
	}

	// Human bumped the version.
	config.Version = 2
	_, versionChanged, err = repo.UpsertRecipe(config)
	if err != nil {
		t.Fatal(err)
	}
	if !versionChanged {
		t.Error("Expected version change to be reported")
	}

	stored, err := repo.GetRecipe("dispatch")
	if err != nil {
		t.Fatal(err)
	}
	if stored.Version != 2 {
		t.Errorf("Expected stored version 2, got %d", stored.Version)
	}
}

func TestGetRecipeMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecipeRepository(db)

	stored, err := repo.GetRecipe("nonexistent")
	if err != nil {
		t.Fatal(err)
	}
	if stored != nil {
		t.Errorf("Expected nil for missing recipe, got %+v", stored)
	}
}

func TestListRecipes(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecipeRepository(db)

	for _, name := range []string{"beta", "alpha"} {
		if _, _, err := repo.UpsertRecipe(testConfig(name)); err != nil {
			t.Fatal(err)
		}
	}

	recipes, err := repo.ListRecipes()
	if err != nil {
		t.Fatal(err)
	}
	if len(recipes) != 2 {
		t.Fatalf("Expected 2 recipes, got %d", len(recipes))
	}
	if recipes[0].Name != "alpha" || recipes[1].Name != "beta" {
		t.Errorf("Expected recipes ordered by name, got %s, %s", recipes[0].Name, recipes[1].Name)
	}

	count, err := repo.GetRecipeCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("Expected recipe count 2, got %d", count)
	}
}

func TestReplaceFeedsPreservesOrder(t *testing.T) {
	db := newTestDB(t)
	recipeRepo := NewRecipeRepository(db)
	feedRepo := NewFeedRepository(db)

	config := testConfig("dispatch")
	id, _, err := recipeRepo.UpsertRecipe(config)
	if err != nil {
		t.Fatal(err)
	}

	if err := feedRepo.ReplaceFeeds(id, config.Feeds); err != nil {
		t.Fatal(err)
	}

	entries, err := feedRepo.GetFeeds(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 feed entries, got %d", len(entries))
	}
	for i, entry := range entries {
		if entry.Position != i {
			t.Errorf("Expected position %d, got %d", i, entry.Position)
		}
		if entry.Label != config.Feeds[i].Label {
			t.Errorf("Expected label '%s' at position %d, got '%s'", config.Feeds[i].Label, i, entry.Label)
		}
		if entry.URL != config.Feeds[i].URL {
			t.Errorf("Expected URL '%s' at position %d, got '%s'", config.Feeds[i].URL, i, entry.URL)
		}
	}
}

func TestReplaceFeedsRewrites(t *testing.T) {
	db := newTestDB(t)
	recipeRepo := NewRecipeRepository(db)
	feedRepo := NewFeedRepository(db)

	config := testConfig("dispatch")
	id, _, err := recipeRepo.UpsertRecipe(config)
	if err != nil {
		t.Fatal(err)
	}

	if err := feedRepo.ReplaceFeeds(id, config.Feeds); err != nil {
		t.Fatal(err)
	}

	// Shrink the list; stale entries must not survive.
	if err := feedRepo.ReplaceFeeds(id, config.Feeds[:1]); err != nil {
		t.Fatal(err)
	}

	entries, err := feedRepo.GetFeeds(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 feed entry after replace, got %d", len(entries))
	}
	if entries[0].Label != "Local" {
		t.Errorf("Expected remaining entry 'Local', got '%s'", entries[0].Label)
	}

	count, err := feedRepo.GetFeedCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("Expected feed count 1, got %d", count)
	}
}

func TestDeleteRecipeCascades(t *testing.T) {
	db := newTestDB(t)
	recipeRepo := NewRecipeRepository(db)
	feedRepo := NewFeedRepository(db)

	config := testConfig("dispatch")
	id, _, err := recipeRepo.UpsertRecipe(config)
	if err != nil {
		t.Fatal(err)
	}
	if err := feedRepo.ReplaceFeeds(id, config.Feeds); err != nil {
		t.Fatal(err)
	}

	if err := recipeRepo.DeleteRecipe("dispatch"); err != nil {
		t.Fatal(err)
	}

	stored, err := recipeRepo.GetRecipe("dispatch")
	if err != nil {
		t.Fatal(err)
	}
	if stored != nil {
		t.Error("Expected recipe to be deleted")
	}

	count, err := feedRepo.GetFeedCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("Expected feed entries to cascade on delete, got %d remaining", count)
	}
}
