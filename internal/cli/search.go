package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pageza/recipe-finder/internal/apiclient"
	"github.com/pageza/recipe-finder/internal/frontend"
	"github.com/pageza/recipe-finder/internal/logger"
)

func newSearchCommand() *cobra.Command {
	var (
		opts clientOptions
		form     frontend.SearchForm
		page     int
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "search QUERY...",
		Short: "Search recipes on a running backend",
		Example: `  recipefinder search pasta
  recipefinder search "mac and cheese" --diet vegetarian --exclude nuts --page 2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form.Query = strings.Join(args, " ")
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			return runSearch(ctx, cmd, opts, form, page, pageSize)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&form.Diet, "diet", "d", "", "Diet filter, e.g. vegan")
	cmd.Flags().StringVarP(&form.Include, "include", "i", "", "Comma separated ingredients to include")
	cmd.Flags().StringVarP(&form.Exclude, "exclude", "e", "", "Comma separated ingredients to exclude")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "Result page to show")
	cmd.Flags().IntVar(&pageSize, "page-size", defaultPageSize(), "Recipes per page, must match the backend PAGE_SIZE (env PAGE_SIZE)")
	return cmd
}

func runSearch(ctx context.Context, cmd *cobra.Command, opts clientOptions, form frontend.SearchForm, page, pageSize int) error {
	if pageSize <= 0 {
		return fmt.Errorf("invalid page size %d", pageSize)
	}

	log := logger.New(logLevel(opts.verbose), true, cmd.ErrOrStderr())
	client := apiclient.New(opts.backend, opts.timeout, &log)

	view := frontend.NewSearchView()
	view.Form = form
	ctrl := frontend.NewSearchController(client, view, pageSize, &log)

	var err error
	params, ok := ctrl.BuildSearchParams()
	if !ok || page <= 1 {
		err = ctrl.Submit(ctx)
	} else {
		ctrl.Restore(frontend.RestoreSearchState(params, (page-1)*pageSize, 0, pageSize))
		err = ctrl.SearchRecipes(ctx, params)
	}

	renderSearch(cmd.OutOrStdout(), view)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	return nil
}

// defaultPageSize follows PAGE_SIZE so the CLI pages the way the backend does
func defaultPageSize() int {
	if n, err := strconv.Atoi(os.Getenv("PAGE_SIZE")); err == nil && n > 0 {
		return n
	}
	return frontend.DefaultLimit
}

func logLevel(verbose bool) string {
	if verbose {
		return "debug"
	}
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		return lvl
	}
	return "warn"
}
