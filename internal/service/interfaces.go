package service

import (
	"context"
	"encoding/json"

	"github.com/pageza/recipe-finder/internal/spoonacular"
)

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	SearchRecipes(ctx context.Context, req SearchRequest) (*spoonacular.SearchPage, error)
	GetRecipe(ctx context.Context, id int) (json.RawMessage, error)
}

var _ IRecipeService = (*RecipeService)(nil)
