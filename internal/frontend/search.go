package frontend

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/pageza/recipe-finder/internal/types"
)

// DefaultLimit is the number of recipes shown per page
const DefaultLimit = 10

const (
	msgEmptyQuery   = "Please enter a search term"
	msgSearchFailed = "Search failed. Please try again."
	msgNoResults    = "No recipes found. Try different keywords."
)

var (
	// ErrEmptyQuery is returned when a search is submitted without a query
	ErrEmptyQuery = errors.New("search query is empty")
	// ErrStaleResponse is returned when a newer search superseded this one
	ErrStaleResponse = errors.New("search superseded by a newer request")
)

// RecipeAPI is the backend the controllers talk to
type RecipeAPI interface {
	SearchRecipes(ctx context.Context, params string) (*types.SearchResponse, error)
	GetRecipe(ctx context.Context, id string) (*types.Recipe, error)
}

// ReportedError is an error the backend returned inside an otherwise
// successful response
type ReportedError struct {
	Message string
}

func (e *ReportedError) Error() string {
	return fmt.Sprintf("backend reported error: %s", e.Message)
}

// EncodeSearchParams trims the form fields and encodes them as a query
// string. ok is false when the query is empty. Optional filters are only
// included when set.
func EncodeSearchParams(form SearchForm) (params string, ok bool) {
	query := strings.TrimSpace(form.Query)
	if query == "" {
		return "", false
	}

	var b strings.Builder
	b.WriteString("query=" + url.QueryEscape(query))
	for _, p := range []struct{ key, value string }{
		{"diet", form.Diet},
		{"includeIngredients", form.Include},
		{"excludeIngredients", form.Exclude},
	} {
		if v := strings.TrimSpace(p.value); v != "" {
			b.WriteString("&" + p.key + "=" + url.QueryEscape(v))
		}
	}
	return b.String(), true
}

// SearchState is the pagination state of a search session. Offset is always
// a non-negative multiple of Limit.
type SearchState struct {
	Offset          int
	Limit           int
	TotalResults    int
	LastQueryParams string
}

// NewSearchState returns the state of a fresh session
func NewSearchState(limit int) SearchState {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return SearchState{Limit: limit}
}

// RestoreSearchState rebuilds a state carried across requests. The offset is
// clamped at zero and snapped down onto a page boundary.
func RestoreSearchState(params string, offset, total, limit int) SearchState {
	s := NewSearchState(limit)
	if offset < 0 {
		offset = 0
	}
	if total < 0 {
		total = 0
	}
	s.Offset = offset - offset%s.Limit
	s.TotalResults = total
	s.LastQueryParams = params
	return s
}

// HasPrevious reports whether a previous page exists
func (s SearchState) HasPrevious() bool {
	return s.Offset > 0
}

// HasNext reports whether a next page exists
func (s SearchState) HasNext() bool {
	return s.Offset+s.Limit < s.TotalResults
}

// Next returns the state one page forward
func (s SearchState) Next() (SearchState, bool) {
	if !s.HasNext() {
		return s, false
	}
	s.Offset += s.Limit
	return s, true
}

// Previous returns the state one page back
func (s SearchState) Previous() (SearchState, bool) {
	if s.Offset-s.Limit < 0 {
		return s, false
	}
	s.Offset -= s.Limit
	return s, true
}

// CurrentPage is the 1-based page number
func (s SearchState) CurrentPage() int {
	return s.Offset/s.Limit + 1
}

// TotalPages is the number of pages the last search produced
func (s SearchState) TotalPages() int {
	return (s.TotalResults + s.Limit - 1) / s.Limit
}

// PageLabel renders "current / total"
func (s SearchState) PageLabel() string {
	return fmt.Sprintf("%d / %d", s.CurrentPage(), s.TotalPages())
}

// RangeLabel renders "Showing a-b of n results"
func (s SearchState) RangeLabel() string {
	return fmt.Sprintf("Showing %d-%d of %d results", s.Offset+1, min(s.Offset+s.Limit, s.TotalResults), s.TotalResults)
}

// PaginatedParams appends the offset to the query string
func (s SearchState) PaginatedParams(params string) string {
	return params + "&offset=" + strconv.Itoa(s.Offset)
}

// SearchController owns the search form, the pagination state and the result list
type SearchController struct {
	api    RecipeAPI
	view   *SearchView
	logger *zerolog.Logger

	mu         sync.Mutex
	state      SearchState
	generation uint64
}

// NewSearchController creates a controller drawing on view
func NewSearchController(api RecipeAPI, view *SearchView, limit int, logger *zerolog.Logger) *SearchController {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &SearchController{
		api:    api,
		view:   view,
		logger: logger,
		state:  NewSearchState(limit),
	}
}

// State returns a copy of the pagination state
func (c *SearchController) State() SearchState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Restore replaces the pagination state, e.g. with one carried in a link
func (c *SearchController) Restore(s SearchState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
}

// BuildSearchParams reads the form fields of the view
func (c *SearchController) BuildSearchParams() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return EncodeSearchParams(c.view.Form)
}

// Submit starts a new search from the form, back on the first page
func (c *SearchController) Submit(ctx context.Context) error {
	c.mu.Lock()
	c.state.Offset = 0
	params, ok := EncodeSearchParams(c.view.Form)
	if !ok {
		c.view.Error.ShowText(msgEmptyQuery)
		c.mu.Unlock()
		return ErrEmptyQuery
	}
	c.state.LastQueryParams = params
	c.mu.Unlock()

	return c.SearchRecipes(ctx, params)
}

// SearchRecipes fetches the page at the current offset and redraws the
// results. Only the most recently issued search may update the view.
func (c *SearchController) SearchRecipes(ctx context.Context, params string) error {
	c.mu.Lock()
	if c.state.Offset < 0 {
		c.state.Offset = 0
	}
	c.state.LastQueryParams = params
	c.generation++
	gen := c.generation
	paginated := c.state.PaginatedParams(params)

	c.view.Loading.Show()
	c.view.Error.Clear()
	c.clearResults()
	c.mu.Unlock()

	resp, err := c.api.SearchRecipes(ctx, paginated)
	if err == nil && resp.Error != "" {
		err = &ReportedError{Message: resp.Error}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.logger.Debug().Str("params", paginated).Msg("Discarding stale search response")
		return ErrStaleResponse
	}

	c.view.Loading.Hide()

	if err != nil {
		c.logger.Error().Err(err).Str("params", paginated).Msg("Search failed")
		c.view.Error.ShowText(msgSearchFailed)
		return fmt.Errorf("search recipes: %w", err)
	}

	c.displayResults(resp.Results)

	c.state.TotalResults = resp.TotalResults
	c.view.ResultsCount.Text = c.state.RangeLabel()
	c.view.PageNumber.Text = c.state.PageLabel()
	c.updatePageButtons()

	return nil
}

// NextPage moves one page forward and re-issues the last search. It does
// nothing on the last page.
func (c *SearchController) NextPage(ctx context.Context) error {
	return c.turnPage(ctx, SearchState.Next)
}

// PreviousPage moves one page back and re-issues the last search. It does
// nothing on the first page.
func (c *SearchController) PreviousPage(ctx context.Context) error {
	return c.turnPage(ctx, SearchState.Previous)
}

func (c *SearchController) turnPage(ctx context.Context, move func(SearchState) (SearchState, bool)) error {
	c.mu.Lock()
	next, ok := move(c.state)
	if !ok {
		c.mu.Unlock()
		return nil
	}
	c.state = next
	params := next.LastQueryParams
	c.mu.Unlock()

	return c.SearchRecipes(ctx, params)
}

// DisplayResults renders one card per recipe, or the empty state
func (c *SearchController) DisplayResults(recipes []types.Recipe) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.displayResults(recipes)
}

func (c *SearchController) displayResults(recipes []types.Recipe) {
	if len(recipes) == 0 {
		c.view.Results = nil
		c.view.EmptyMessage.ShowText(msgNoResults)
		c.view.ResultsCount.Hide()
		c.view.PageControls.Hide()
		return
	}

	c.view.EmptyMessage.Clear()
	c.view.PageControls.Show()
	c.view.ResultsCount.Show()

	cards := make([]Card, 0, len(recipes))
	for _, r := range recipes {
		cards = append(cards, Card{
			ID:       r.ID,
			Title:    r.Title,
			Image:    r.Image,
			PrepTime: orNA(r.ReadyInMinutes),
			Servings: orNA(r.Servings),
		})
	}
	c.view.Results = cards
}

// UpdatePageButtons enables the pagination buttons that lead somewhere
func (c *SearchController) UpdatePageButtons() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updatePageButtons()
}

func (c *SearchController) updatePageButtons() {
	c.view.PreviousBtn.Disabled = !c.state.HasPrevious()
	c.view.NextBtn.Disabled = !c.state.HasNext()
}

func (c *SearchController) clearResults() {
	c.view.Results = nil
	c.view.EmptyMessage.Clear()
}
