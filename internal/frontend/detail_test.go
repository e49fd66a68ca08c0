package frontend

import (
	"context"
	"errors"
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-finder/internal/mocks"
	"github.com/pageza/recipe-finder/internal/types"
)

func sampleRecipe() *types.Recipe {
	return &types.Recipe{
		ID:             716429,
		Title:          "Pasta with Garlic",
		Image:          "https://img.spoonacular.com/recipes/716429-556x370.jpg",
		ReadyInMinutes: 45,
		Servings:       2,
		Diets:          []string{"vegetarian", "lacto ovo vegetarian"},
		Summary:        `A <b>tasty</b> dish. Try <a href="https://spoonacular.com/x">this one</a>.`,
		ExtendedIngredients: []types.Ingredient{
			{Amount: 1.5, Unit: "cups", Name: "flour"},
			{Amount: 0, Unit: "", Name: "", Original: "salt to taste"},
		},
		Instructions: types.StepGroupInstructions(
			types.StepGroup{Steps: []types.Step{{Number: 1, Step: "Mix"}}},
			types.StepGroup{Name: "Finish", Steps: []types.Step{{Number: 1, Step: "Bake"}}},
		),
		Nutrition: &types.Nutrition{Nutrients: []types.Nutrient{
			{Name: "Fat", Amount: 12.6, Unit: "g"},
			{Name: "Calories", Amount: 584.46, Unit: "kcal"},
			{Name: "Vitamin C", Amount: 10, Unit: "mg"},
			{Name: "Protein", Amount: 19.2, Unit: "g"},
			{Name: "Calories", Amount: 1, Unit: "kcal"},
		}},
	}
}

func TestShowRecipeDetails(t *testing.T) {
	api := new(mocks.MockRecipeAPI)
	search := NewSearchView()
	search.PageControls.Show()
	view := NewDetailView()
	c := NewRecipeDetailController(api, view, search, nil)

	api.On("GetRecipe", mock.Anything, "716429").Return(sampleRecipe(), nil)

	require.NoError(t, c.ShowRecipeDetails(context.Background(), "716429"))

	assert.False(t, search.SearchSection.Visible)
	assert.False(t, search.ResultsSection.Visible)
	assert.False(t, search.PageControls.Visible)
	assert.False(t, search.Date.Visible)

	assert.True(t, view.Section.Visible)
	assert.True(t, view.Details.Visible)
	assert.False(t, view.Loading.Visible)
	assert.False(t, view.Error.Visible)

	assert.Equal(t, "Pasta with Garlic", view.Title.Text)
	assert.Equal(t, "Pasta with Garlic", view.ImageAlt)
	assert.Equal(t, "45 minutes", view.Time.Text)
	assert.Equal(t, "2 servings", view.Servings.Text)
	assert.Equal(t, "vegetarian, lacto ovo vegetarian", view.DietTags.Text)
	assert.Equal(t, template.HTML("A <b>tasty</b> dish. Try this one."), view.SummaryHTML)
	assert.Equal(t, []string{"1 1/2 cups flour", "  salt to taste"}, view.Ingredients)
	assert.Equal(t, []string{"Mix", "Bake"}, view.Instructions)
	assert.True(t, view.NutritionInfo.Visible)
	assert.Equal(t, []NutritionItem{
		{Name: "Calories", Value: "584kcal"},
		{Name: "Protein", Value: "19g"},
		{Name: "Fat", Value: "13g"},
	}, view.Nutrition)
}

func TestShowRecipeDetailsFailure(t *testing.T) {
	api := new(mocks.MockRecipeAPI)
	view := NewDetailView()
	c := NewRecipeDetailController(api, view, nil, nil)

	api.On("GetRecipe", mock.Anything, "1").Return(nil, errors.New("status 500"))

	err := c.ShowRecipeDetails(context.Background(), "1")
	require.Error(t, err)
	assert.True(t, view.Section.Visible)
	assert.False(t, view.Loading.Visible)
	assert.False(t, view.Details.Visible)
	assert.Equal(t, "Failed to load recipe details. Please try again.", view.Error.Text)
}

func TestBackRestoresSearchView(t *testing.T) {
	api := new(mocks.MockRecipeAPI)
	search := NewSearchView()
	view := NewDetailView()
	c := NewRecipeDetailController(api, view, search, nil)

	api.On("GetRecipe", mock.Anything, "1").Return(nil, errors.New("boom"))
	_ = c.ShowRecipeDetails(context.Background(), "1")

	c.Back()
	assert.False(t, view.Section.Visible)
	assert.False(t, view.Error.Visible)
	assert.True(t, search.SearchSection.Visible)
	assert.True(t, search.ResultsSection.Visible)
	assert.True(t, search.Date.Visible)
}

func TestDisplayRecipeDetailsFallbacks(t *testing.T) {
	view := NewDetailView()
	c := NewRecipeDetailController(new(mocks.MockRecipeAPI), view, nil, nil)

	c.DisplayRecipeDetails(&types.Recipe{ID: 3, Title: "Mystery"})

	assert.Equal(t, "N/A minutes", view.Time.Text)
	assert.Equal(t, "N/A servings", view.Servings.Text)
	assert.False(t, view.DietTags.Visible)
	assert.False(t, view.Summary.Visible)
	assert.Empty(t, view.Ingredients)
	assert.Equal(t, []string{"No instructions available"}, view.Instructions)
	assert.False(t, view.NutritionInfo.Visible)
	assert.Nil(t, view.Nutrition)
}

func TestInstructionItems(t *testing.T) {
	tests := []struct {
		name string
		in   types.Instructions
		want []string
	}{
		{
			"step groups",
			types.StepGroupInstructions(types.StepGroup{Steps: []types.Step{{Number: 1, Step: "Mix"}, {Number: 2, Step: "Bake"}}}),
			[]string{"Mix", "Bake"},
		},
		{"plain text", types.PlainTextInstructions("Preheat oven"), []string{"Preheat oven"}},
		{"plain text markup", types.PlainTextInstructions("<ol><li>Boil</li><li>Drain</li></ol>"), []string{"Boil Drain"}},
		{"blank plain text", types.PlainTextInstructions("<p></p>"), []string{"No instructions available"}},
		{"flat steps", types.FlatStepInstructions("Chop", "Fry"), []string{"Chop", "Fry"}},
		{"empty flat steps", types.FlatStepInstructions(), []string{"No instructions available"}},
		{"group without steps", types.StepGroupInstructions(types.StepGroup{Name: "Sauce"}), []string{"No instructions available"}},
		{"none", types.Instructions{}, []string{"No instructions available"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InstructionItems(tt.in))
		})
	}
}

func TestNutritionItemsMissingNutrients(t *testing.T) {
	items := NutritionItems([]types.Nutrient{{Name: "Sugar", Amount: 4.5, Unit: "g"}})
	assert.Equal(t, []NutritionItem{{Name: "Sugar", Value: "5g"}}, items)

	assert.Empty(t, NutritionItems(nil))
}

func TestDisplayRecipeDetailsSanitizesSummary(t *testing.T) {
	view := NewDetailView()
	c := NewRecipeDetailController(new(mocks.MockRecipeAPI), view, nil, nil)

	c.DisplayRecipeDetails(&types.Recipe{
		ID:      4,
		Title:   "Stew",
		Summary: `<b>Hearty</b> <button form="search-form" formaction="javascript:alert(1)">stew</button>`,
	})
	assert.True(t, view.Summary.Visible)
	assert.Equal(t, template.HTML("<b>Hearty</b> stew"), view.SummaryHTML)

	c.DisplayRecipeDetails(&types.Recipe{
		ID:      5,
		Title:   "Empty",
		Summary: `<base href="https://evil.example/"/><script>alert(1)</script>`,
	})
	assert.False(t, view.Summary.Visible)
	assert.Empty(t, view.SummaryHTML)
}
