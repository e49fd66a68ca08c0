package mocks

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipe-finder/internal/service"
	"github.com/pageza/recipe-finder/internal/spoonacular"
	"github.com/pageza/recipe-finder/internal/types"
)

// MockRecipeService is a mock implementation of the recipe service
type MockRecipeService struct {
	mock.Mock
}

// SearchRecipes mocks the SearchRecipes method
func (m *MockRecipeService) SearchRecipes(ctx context.Context, req service.SearchRequest) (*spoonacular.SearchPage, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*spoonacular.SearchPage), args.Error(1)
}

// GetRecipe mocks the GetRecipe method
func (m *MockRecipeService) GetRecipe(ctx context.Context, id int) (json.RawMessage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

// MockRecipeSource is a mock implementation of the upstream recipe provider
type MockRecipeSource struct {
	mock.Mock
}

// ComplexSearch mocks the ComplexSearch method
func (m *MockRecipeSource) ComplexSearch(ctx context.Context, q spoonacular.SearchQuery) (*spoonacular.SearchPage, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*spoonacular.SearchPage), args.Error(1)
}

// Information mocks the Information method
func (m *MockRecipeSource) Information(ctx context.Context, id int) (json.RawMessage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

// MockRecipeAPI is a mock implementation of the backend the front end
// controllers call
type MockRecipeAPI struct {
	mock.Mock
}

// SearchRecipes mocks the SearchRecipes method
func (m *MockRecipeAPI) SearchRecipes(ctx context.Context, params string) (*types.SearchResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.SearchResponse), args.Error(1)
}

// GetRecipe mocks the GetRecipe method
func (m *MockRecipeAPI) GetRecipe(ctx context.Context, id string) (*types.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Recipe), args.Error(1)
}
