// Package web serves the HTML front end. Each request builds fresh views
// and controllers, runs them against the JSON API and renders the result.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pageza/recipe-finder/internal/apiclient"
	"github.com/pageza/recipe-finder/internal/frontend"
	"github.com/pageza/recipe-finder/internal/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const dateLayout = "Mon Jan 02 2006"

// Diets are the options of the diet filter, as Spoonacular names them
var Diets = []string{
	"gluten free",
	"ketogenic",
	"vegetarian",
	"lacto-vegetarian",
	"ovo-vegetarian",
	"vegan",
	"pescetarian",
	"paleo",
	"primal",
	"low FODMAP",
	"whole30",
}

// Page is the data the index template renders
type Page struct {
	Search       *frontend.SearchView
	Detail       *frontend.DetailView
	Diets        []string
	PreviousLink string
	NextLink     string
}

// Handler serves the search and detail pages
type Handler struct {
	api          frontend.RecipeAPI
	limit        int
	logger       *zerolog.Logger
	templates    *template.Template
	lastModified time.Time
	now          func() time.Time
}

// NewHandler parses the embedded templates. lastModified is shown in the
// page footer.
func NewHandler(api frontend.RecipeAPI, limit int, lastModified time.Time, logger *zerolog.Logger) (*Handler, error) {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Handler{
		api:          api,
		limit:        limit,
		logger:       logger,
		templates:    tmpl,
		lastModified: lastModified,
		now:          time.Now,
	}, nil
}

// RegisterRoutes registers the page routes and static assets on router
func (h *Handler) RegisterRoutes(router *gin.Engine) error {
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return fmt.Errorf("failed to open static assets: %w", err)
	}

	router.SetHTMLTemplate(h.templates)
	router.StaticFS("/static", http.FS(static))
	router.GET("/", h.Index)
	router.GET("/search", h.Search)
	router.GET("/details/:id", h.Details)
	return nil
}

// Index renders the empty search page
func (h *Handler) Index(c *gin.Context) {
	h.render(c, h.newPage())
}

// Search runs a search. page=next|prev turns the page of the search carried
// in offset and total; an offset alone redisplays that page; anything else
// is a new search from the first page.
func (h *Handler) Search(c *gin.Context) {
	page := h.newPage()
	page.Search.Form = frontend.SearchForm{
		Query:   c.Query("query"),
		Diet:    c.Query("diet"),
		Include: c.Query("includeIngredients"),
		Exclude: c.Query("excludeIngredients"),
	}

	ctrl := frontend.NewSearchController(h.api, page.Search, h.limit, h.logger)
	ctx := apiclient.WithClientIP(c.Request.Context(), c.ClientIP())

	params, ok := ctrl.BuildSearchParams()
	var err error
	switch {
	case !ok:
		err = ctrl.Submit(ctx)
	case c.Query("page") == "next" || c.Query("page") == "prev" || c.Query("offset") != "":
		offset, _ := strconv.Atoi(c.Query("offset"))
		total, _ := strconv.Atoi(c.Query("total"))
		ctrl.Restore(frontend.RestoreSearchState(params, offset, total, h.limit))

		err = turnPage(ctx, ctrl, params, c.Query("page"))
	default:
		err = ctrl.Submit(ctx)
	}
	if err != nil && !errors.Is(err, frontend.ErrEmptyQuery) {
		h.logger.Warn().Err(err).Str("request_id", c.GetString(middleware.RequestIDKey)).Msg("Search page rendered with error")
	}

	state := ctrl.State()
	if state.LastQueryParams != "" {
		page.Search.BackLink = searchLink(state, "")
		page.PreviousLink = searchLink(state, "prev")
		page.NextLink = searchLink(state, "next")
	}
	h.render(c, page)
}

// Details renders one recipe. back is the search page to return to.
func (h *Handler) Details(c *gin.Context) {
	page := h.newPage()
	page.Search.BackLink = sanitizeBackLink(c.Query("back"))

	ctrl := frontend.NewRecipeDetailController(h.api, page.Detail, page.Search, h.logger)
	ctx := apiclient.WithClientIP(c.Request.Context(), c.ClientIP())

	if err := ctrl.ShowRecipeDetails(ctx, c.Param("id")); err != nil {
		h.logger.Warn().Err(err).Str("request_id", c.GetString(middleware.RequestIDKey)).Msg("Detail page rendered with error")
	}
	h.render(c, page)
}

// turnPage moves the restored search one page. A move past either end
// redisplays the current page.
func turnPage(ctx context.Context, ctrl *frontend.SearchController, params, move string) error {
	before := ctrl.State().Offset
	var err error
	switch move {
	case "next":
		err = ctrl.NextPage(ctx)
	case "prev":
		err = ctrl.PreviousPage(ctx)
	default:
		return ctrl.SearchRecipes(ctx, params)
	}
	if err == nil && ctrl.State().Offset == before {
		return ctrl.SearchRecipes(ctx, params)
	}
	return err
}

func (h *Handler) newPage() *Page {
	search := frontend.NewSearchView()
	search.BackLink = "/"
	search.Date.Text = fmt.Sprintf("%s. Last Modified: %s.", h.now().Format(dateLayout), h.lastModified.Format(dateLayout))
	return &Page{
		Search: search,
		Detail: frontend.NewDetailView(),
		Diets:  Diets,
	}
}

func (h *Handler) render(c *gin.Context, page *Page) {
	c.Header("Cache-Control", "no-store")
	c.HTML(http.StatusOK, "index.html", page)
}

// searchLink reproduces the search in state, optionally turning the page
func searchLink(state frontend.SearchState, move string) string {
	extra := url.Values{}
	extra.Set("offset", strconv.Itoa(state.Offset))
	extra.Set("total", strconv.Itoa(state.TotalResults))
	if move != "" {
		extra.Set("page", move)
	}
	return "/search?" + state.LastQueryParams + "&" + extra.Encode()
}

// sanitizeBackLink only lets links back into the search pages through
func sanitizeBackLink(back string) string {
	if !strings.HasPrefix(back, "/search?") {
		return "/"
	}
	u, err := url.Parse(back)
	if err != nil || u.Host != "" || u.Scheme != "" || u.Path != "/search" {
		return "/"
	}
	return u.RequestURI()
}
