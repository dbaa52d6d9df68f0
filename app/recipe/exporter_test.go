package recipe

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestExporterRoundTrip(t *testing.T) {
	tempDir := t.TempDir()
	writeRecipe(t, tempDir, "dispatch", validRecipe)

	cache := NewCache(tempDir, 1)
	original, err := cache.LoadRecipe("dispatch")
	if err != nil {
		t.Fatal(err)
	}

	exporter := NewExporter()
	exported, err := exporter.Run(*original)
	if err != nil {
		t.Fatal(err)
	}

	// Write the exported form next to the original and load it again.
	if err := os.WriteFile(filepath.Join(tempDir, "reloaded.yml"), []byte(exported), 0644); err != nil {
		t.Fatal(err)
	}

	reloaded, err := cache.LoadRecipe("reloaded")
	if err != nil {
		t.Fatalf("Exported recipe failed to load: %v", err)
	}

	// Name is derived from the filename, everything else must survive
	// the round trip unchanged.
	reloaded.Name = original.Name
	if !reflect.DeepEqual(original, reloaded) {
		t.Errorf("Round trip changed the record:\noriginal: %+v\nreloaded: %+v", original, reloaded)
	}
}

func TestExporterPreservesFeedOrder(t *testing.T) {
	config := Config{
		Title:     "Ordered",
		Publisher: "Ordered Press",
		Language:  "en",
		Version:   1,
		Settings:  ConfigSettings{OldestArticleDays: 1, MaxArticlesPerFeed: 100},
		Feeds: []Feed{
			{Label: "Third", URL: "https://example.com/c.xml"},
			{Label: "First", URL: "https://example.com/a.xml"},
			{Label: "Second", URL: "https://example.com/b.xml"},
		},
	}

	exporter := NewExporter()
	exported, err := exporter.Run(config)
	if err != nil {
		t.Fatal(err)
	}

	tempDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tempDir, "ordered.yml"), []byte(exported), 0644); err != nil {
		t.Fatal(err)
	}

	cache := NewCache(tempDir, 1)
	reloaded, err := cache.LoadRecipe("ordered")
	if err != nil {
		t.Fatal(err)
	}

	for i, feed := range config.Feeds {
		if reloaded.Feeds[i] != feed {
			t.Errorf("Feed %d changed: expected %+v, got %+v", i, feed, reloaded.Feeds[i])
		}
	}
}
