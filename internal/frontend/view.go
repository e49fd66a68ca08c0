package frontend

import "html/template"

// Element is the server-side stand-in for a page element: the controllers
// toggle it and set its text, the templates render whatever state it ends in.
type Element struct {
	Visible  bool
	Disabled bool
	Text     string
	Href     string
}

// Show makes the element visible
func (e *Element) Show() { e.Visible = true }

// Hide makes the element invisible
func (e *Element) Hide() { e.Visible = false }

// ShowText sets the text and makes the element visible
func (e *Element) ShowText(text string) {
	e.Text = text
	e.Visible = true
}

// Clear hides the element and drops its text
func (e *Element) Clear() {
	e.Text = ""
	e.Visible = false
}

// SearchForm holds the raw values of the search form fields
type SearchForm struct {
	Query   string
	Diet    string
	Include string
	Exclude string
}

// Card is one recipe in the results list
type Card struct {
	ID       int
	Title    string
	Image    string
	PrepTime string
	Servings string
}

// SearchView is everything the SearchController draws on
type SearchView struct {
	Form           SearchForm
	SearchSection  Element
	ResultsSection Element
	Loading        Element
	Error          Element
	EmptyMessage   Element
	Results        []Card
	ResultsCount   Element
	PageControls   Element
	PageNumber     Element
	PreviousBtn    Element
	NextBtn        Element
	Date           Element

	// BackLink is the URL that reproduces the current search page.
	BackLink string
}

// NewSearchView returns the view as it looks on first page load
func NewSearchView() *SearchView {
	return &SearchView{
		SearchSection:  Element{Visible: true},
		ResultsSection: Element{Visible: true},
		Date:           Element{Visible: true},
	}
}

// NutritionItem is one line of the nutrition panel
type NutritionItem struct {
	Name  string
	Value string
}

// DetailView is everything the RecipeDetailController draws on
type DetailView struct {
	Section  Element
	Loading  Element
	Error    Element
	Details  Element
	Image    string
	ImageAlt string
	Title    Element
	Time     Element
	Servings Element
	DietTags Element

	Summary     Element
	SummaryHTML template.HTML

	Ingredients   []string
	Instructions  []string
	NutritionInfo Element
	Nutrition     []NutritionItem

	Back Element
}

// NewDetailView returns a hidden detail panel
func NewDetailView() *DetailView {
	return &DetailView{}
}
