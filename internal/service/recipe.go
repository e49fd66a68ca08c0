package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pageza/recipe-finder/internal/spoonacular"
)

var (
	// ErrInvalidOffset is returned for a negative search offset
	ErrInvalidOffset = errors.New("offset must be non-negative")
	// ErrInvalidRecipeID is returned for a recipe id that is not a positive integer
	ErrInvalidRecipeID = errors.New("invalid recipe ID")
	// ErrRecipeNotFound is returned when the upstream has no such recipe
	ErrRecipeNotFound = spoonacular.ErrNotFound
)

// RecipeSource is the upstream recipe provider
type RecipeSource interface {
	ComplexSearch(ctx context.Context, q spoonacular.SearchQuery) (*spoonacular.SearchPage, error)
	Information(ctx context.Context, id int) (json.RawMessage, error)
}

// SearchRequest holds the search filters as received from a client
type SearchRequest struct {
	Query              string
	Diet               string
	IncludeIngredients string
	ExcludeIngredients string
	Offset             int
}

// RecipeService handles recipe operations
type RecipeService struct {
	source   RecipeSource
	pageSize int
	logger   *zerolog.Logger
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(source RecipeSource, pageSize int, logger *zerolog.Logger) *RecipeService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &RecipeService{
		source:   source,
		pageSize: pageSize,
		logger:   logger,
	}
}

// SearchRecipes searches for recipes one page at a time
func (s *RecipeService) SearchRecipes(ctx context.Context, req SearchRequest) (*spoonacular.SearchPage, error) {
	if req.Offset < 0 {
		return nil, ErrInvalidOffset
	}

	page, err := s.source.ComplexSearch(ctx, spoonacular.SearchQuery{
		Query:              strings.TrimSpace(req.Query),
		Diet:               strings.TrimSpace(req.Diet),
		IncludeIngredients: strings.TrimSpace(req.IncludeIngredients),
		ExcludeIngredients: strings.TrimSpace(req.ExcludeIngredients),
		Offset:             req.Offset,
		Number:             s.pageSize,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("query", req.Query).Int("offset", req.Offset).Msg("Recipe search failed")
		return nil, fmt.Errorf("search recipes: %w", err)
	}
	return page, nil
}

// GetRecipe retrieves a recipe by ID. The upstream document is returned as is.
func (s *RecipeService) GetRecipe(ctx context.Context, id int) (json.RawMessage, error) {
	if id <= 0 {
		return nil, ErrInvalidRecipeID
	}

	recipe, err := s.source.Information(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrRecipeNotFound) {
			s.logger.Error().Err(err).Int("recipe_id", id).Msg("Recipe lookup failed")
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return recipe, nil
}
