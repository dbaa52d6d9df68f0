package api

import (
	"github.com/okhomin/recipe-rack/app/database"
	"github.com/okhomin/recipe-rack/app/recipe"
	"github.com/okhomin/recipe-rack/app/tasks"
)

type Handler struct {
	cache      *recipe.Cache
	recipeRepo database.RecipeRepository
	feedRepo   database.FeedRepository
	exporter   *recipe.Exporter
	scheduler  tasks.TaskSchedulerInterface
}
