package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-finder/internal/mocks"
	"github.com/pageza/recipe-finder/internal/service"
	"github.com/pageza/recipe-finder/internal/spoonacular"
)

func TestSearchRecipes(t *testing.T) {
	source := new(mocks.MockRecipeSource)
	svc := service.NewRecipeService(source, 10, nil)

	expected := &spoonacular.SearchPage{
		Results:      []json.RawMessage{json.RawMessage(`{"id":1}`)},
		TotalResults: 1,
	}
	source.On("ComplexSearch", mock.Anything, spoonacular.SearchQuery{
		Query:              "pasta",
		Diet:               "vegetarian",
		IncludeIngredients: "tomato",
		Offset:             10,
		Number:             10,
	}).Return(expected, nil)

	page, err := svc.SearchRecipes(context.Background(), service.SearchRequest{
		Query:              "  pasta ",
		Diet:               "vegetarian",
		IncludeIngredients: " tomato",
		ExcludeIngredients: "   ",
		Offset:             10,
	})
	require.NoError(t, err)
	assert.Equal(t, expected, page)
	source.AssertExpectations(t)
}

func TestSearchRecipesRejectsNegativeOffset(t *testing.T) {
	source := new(mocks.MockRecipeSource)
	svc := service.NewRecipeService(source, 10, nil)

	_, err := svc.SearchRecipes(context.Background(), service.SearchRequest{Query: "pasta", Offset: -10})
	assert.ErrorIs(t, err, service.ErrInvalidOffset)
	source.AssertNotCalled(t, "ComplexSearch", mock.Anything, mock.Anything)
}

func TestSearchRecipesUpstreamFailure(t *testing.T) {
	source := new(mocks.MockRecipeSource)
	svc := service.NewRecipeService(source, 10, nil)

	upstream := errors.New("connection refused")
	source.On("ComplexSearch", mock.Anything, mock.Anything).Return(nil, upstream)

	_, err := svc.SearchRecipes(context.Background(), service.SearchRequest{Query: "pasta"})
	assert.ErrorIs(t, err, upstream)
}

func TestGetRecipe(t *testing.T) {
	source := new(mocks.MockRecipeSource)
	svc := service.NewRecipeService(source, 10, nil)

	body := json.RawMessage(`{"id":42,"title":"Soup"}`)
	source.On("Information", mock.Anything, 42).Return(body, nil)

	recipe, err := svc.GetRecipe(context.Background(), 42)
	require.NoError(t, err)
	assert.JSONEq(t, string(body), string(recipe))
}

func TestGetRecipeInvalidID(t *testing.T) {
	source := new(mocks.MockRecipeSource)
	svc := service.NewRecipeService(source, 10, nil)

	for _, id := range []int{0, -1} {
		_, err := svc.GetRecipe(context.Background(), id)
		assert.ErrorIs(t, err, service.ErrInvalidRecipeID, "id %d", id)
	}
	source.AssertNotCalled(t, "Information", mock.Anything, mock.Anything)
}

func TestGetRecipeNotFound(t *testing.T) {
	source := new(mocks.MockRecipeSource)
	svc := service.NewRecipeService(source, 10, nil)

	notFound := fmt.Errorf("recipe information 9: %w", &spoonacular.StatusError{StatusCode: 404})
	source.On("Information", mock.Anything, 9).Return(nil, notFound)

	_, err := svc.GetRecipe(context.Background(), 9)
	assert.ErrorIs(t, err, service.ErrRecipeNotFound)
}
