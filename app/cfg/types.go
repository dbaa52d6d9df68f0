package cfg

type Cfg struct {
	// Application configuration
	RecipesDir       string
	DBPath           string
	Port             string
	BaseUrl          string
	WorkerCount      int
	RescanInterval   int
	APIAccessKey     string
	MinRecipeVersion int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
