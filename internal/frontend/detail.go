package frontend

import (
	"context"
	"fmt"
	"html/template"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pageza/recipe-finder/internal/types"
)

const (
	msgDetailFailed   = "Failed to load recipe details. Please try again."
	msgNoInstructions = "No instructions available"
)

// ImportantNutrients lists the nutrients shown on the detail page, in order
var ImportantNutrients = []string{"Calories", "Protein", "Carbohydrates", "Fat", "Fiber", "Sugar"}

// RecipeDetailController owns the detail view. The search view it hides
// while a recipe is shown is optional.
type RecipeDetailController struct {
	api    RecipeAPI
	view   *DetailView
	search *SearchView
	logger *zerolog.Logger
}

// NewRecipeDetailController creates a controller drawing on view
func NewRecipeDetailController(api RecipeAPI, view *DetailView, search *SearchView, logger *zerolog.Logger) *RecipeDetailController {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &RecipeDetailController{
		api:    api,
		view:   view,
		search: search,
		logger: logger,
	}
}

// ShowRecipeDetails switches to the detail view and loads the recipe
func (c *RecipeDetailController) ShowRecipeDetails(ctx context.Context, id string) error {
	if c.search != nil {
		c.search.SearchSection.Hide()
		c.search.ResultsSection.Hide()
		c.search.PageControls.Hide()
		c.search.ResultsCount.Hide()
		c.search.Date.Hide()
	}
	c.view.Section.Show()
	c.view.Error.Clear()
	c.view.Loading.Show()
	c.view.Details.Hide()

	recipe, err := c.api.GetRecipe(ctx, id)
	c.view.Loading.Hide()
	if err != nil {
		c.logger.Error().Err(err).Str("recipe_id", id).Msg("Failed to load recipe details")
		c.view.Error.ShowText(msgDetailFailed)
		return fmt.Errorf("get recipe %s: %w", id, err)
	}

	c.view.Error.Clear()
	c.DisplayRecipeDetails(recipe)
	return nil
}

// Back restores the search view
func (c *RecipeDetailController) Back() {
	c.view.Section.Hide()
	c.view.Error.Clear()
	if c.search != nil {
		c.search.SearchSection.Show()
		c.search.ResultsSection.Show()
		c.search.ResultsCount.Show()
		c.search.PageControls.Show()
		c.search.Date.Show()
	}
}

// DisplayRecipeDetails fills the detail view from a recipe
func (c *RecipeDetailController) DisplayRecipeDetails(recipe *types.Recipe) {
	c.view.Details.Show()

	c.view.Image = recipe.Image
	c.view.ImageAlt = recipe.Title
	c.view.Title.ShowText(recipe.Title)
	c.view.Time.ShowText(orNA(recipe.ReadyInMinutes) + " minutes")
	c.view.Servings.ShowText(orNA(recipe.Servings) + " servings")

	if len(recipe.Diets) > 0 {
		c.view.DietTags.ShowText(strings.Join(recipe.Diets, ", "))
	} else {
		c.view.DietTags.Clear()
	}

	c.view.SummaryHTML = ""
	c.view.Summary.Hide()
	if recipe.Summary != "" {
		if summary := StripLinks(recipe.Summary); summary != "" {
			// StripLinks leaves only allowlisted markup without attributes.
			c.view.SummaryHTML = template.HTML(summary)
			c.view.Summary.Show()
		}
	}

	c.DisplayIngredients(recipe.ExtendedIngredients)
	c.DisplayInstructions(recipe.Instructions)

	if recipe.Nutrition != nil && recipe.Nutrition.Nutrients != nil {
		c.DisplayNutrition(recipe.Nutrition.Nutrients)
		c.view.NutritionInfo.Show()
	} else {
		c.view.Nutrition = nil
		c.view.NutritionInfo.Hide()
	}
}

// DisplayIngredients renders one line per ingredient
func (c *RecipeDetailController) DisplayIngredients(ingredients []types.Ingredient) {
	c.view.Ingredients = IngredientLines(ingredients)
}

// IngredientLines formats an ingredient list
func IngredientLines(ingredients []types.Ingredient) []string {
	lines := make([]string, 0, len(ingredients))
	for _, in := range ingredients {
		lines = append(lines, IngredientLine(in.Amount, in.Unit, in.Name, in.Original))
	}
	return lines
}

// DisplayInstructions renders the instruction steps, or a placeholder
func (c *RecipeDetailController) DisplayInstructions(instructions types.Instructions) {
	c.view.Instructions = InstructionItems(instructions)
}

// InstructionItems flattens any instruction shape into list items. Step
// groups contribute one item per step, in group order.
func InstructionItems(in types.Instructions) []string {
	var items []string
	switch in.Kind {
	case types.InstructionsPlainText:
		if text := PlainText(in.Text); text != "" {
			items = append(items, text)
		}
	case types.InstructionsStepGroups:
		for _, group := range in.Groups {
			for _, step := range group.Steps {
				items = append(items, step.Step)
			}
		}
	case types.InstructionsFlatSteps:
		items = append(items, in.Steps...)
	}

	if len(items) == 0 {
		return []string{msgNoInstructions}
	}
	return items
}

// DisplayNutrition renders the important nutrients
func (c *RecipeDetailController) DisplayNutrition(nutrients []types.Nutrient) {
	c.view.Nutrition = NutritionItems(nutrients)
	c.view.NutritionInfo.Show()
}

// NutritionItems picks the important nutrients in display order and rounds
// their amounts to whole numbers
func NutritionItems(nutrients []types.Nutrient) []NutritionItem {
	byName := make(map[string]types.Nutrient, len(nutrients))
	for _, n := range nutrients {
		if _, seen := byName[n.Name]; !seen {
			byName[n.Name] = n
		}
	}

	items := make([]NutritionItem, 0, len(ImportantNutrients))
	for _, name := range ImportantNutrients {
		n, ok := byName[name]
		if !ok {
			continue
		}
		items = append(items, NutritionItem{
			Name:  n.Name,
			Value: fmt.Sprintf("%d%s", int(math.Round(n.Amount)), n.Unit),
		})
	}
	return items
}
