package database

import (
	"github.com/okhomin/recipe-rack/app/recipe"
)

type RecipeRepository interface {
	GetRecipe(recipeName string) (*Recipe, error)
	ListRecipes() ([]Recipe, error)
	GetRecipeCount() (int, error)

	UpsertRecipe(config *recipe.Config) (int64, bool, error)
	DeleteRecipe(recipeName string) error
}

type FeedRepository interface {
	GetFeeds(recipeID int64) ([]FeedEntry, error)
	GetFeedCount() (int, error)

	ReplaceFeeds(recipeID int64, feeds []recipe.Feed) error
}
