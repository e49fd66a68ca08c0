package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pageza/recipe-finder/internal/service"
	"github.com/pageza/recipe-finder/internal/types"
)

// RecipeHandler serves the recipe endpoints
type RecipeHandler struct {
	recipeService service.IRecipeService
	logger        *zerolog.Logger
}

// NewRecipeHandler creates a new RecipeHandler
func NewRecipeHandler(recipeService service.IRecipeService, logger *zerolog.Logger) *RecipeHandler {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &RecipeHandler{
		recipeService: recipeService,
		logger:        logger,
	}
}

// RegisterRoutes registers the recipe routes on router
func (h *RecipeHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/recipes", h.SearchRecipes)
	router.GET("/recipe/:id", h.GetRecipe)
}

// SearchRecipes handles GET /recipes
func (h *RecipeHandler) SearchRecipes(c *gin.Context) {
	// An unparseable offset means the first page.
	offset, err := strconv.Atoi(c.Query("offset"))
	if err != nil {
		offset = 0
	}

	page, err := h.recipeService.SearchRecipes(c.Request.Context(), service.SearchRequest{
		Query:              c.Query("query"),
		Diet:               c.Query("diet"),
		IncludeIngredients: c.Query("includeIngredients"),
		ExcludeIngredients: c.Query("excludeIngredients"),
		Offset:             offset,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidOffset) {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Offset must be non-negative"})
			return
		}
		h.logger.Error().Err(err).Str("request_id", c.GetString(requestIDKey)).Msg("Search request failed")
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "service unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results":      page.Results,
		"totalResults": page.TotalResults,
	})
}

// GetRecipe handles GET /recipe/:id
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid recipe ID"})
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRecipeID):
			c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid recipe ID"})
		case errors.Is(err, service.ErrRecipeNotFound):
			c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "Recipe not found"})
		default:
			h.logger.Error().Err(err).Int("recipe_id", id).Str("request_id", c.GetString(requestIDKey)).Msg("Recipe request failed")
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "failed to fetch recipe"})
		}
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", recipe)
}
