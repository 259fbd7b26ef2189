package ports

// RecipeLoader defines how the compiler retrieves recipe definitions.
// Includes and extends references resolve through the same loader, so one
// loader instance spans a whole composition graph.
type RecipeLoader interface {
	// GetRecipe retrieves the raw YAML or JSON document for a recipe by name.
	// The compiler parses the bytes.
	GetRecipe(name string) ([]byte, error)

	// ListRecipes returns the names of all recipes available from this
	// source. Used for introspection and CLI listings.
	ListRecipes() ([]string, error)
}
