package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-finder/internal/service"
	"github.com/pageza/recipe-finder/internal/spoonacular"
)

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

type panickingService struct{}

func (panickingService) SearchRecipes(context.Context, service.SearchRequest) (*spoonacular.SearchPage, error) {
	panic("search exploded")
}

func (panickingService) GetRecipe(context.Context, int) (json.RawMessage, error) {
	panic("lookup exploded")
}
