package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pageza/recipe-finder/internal/apiclient"
	"github.com/pageza/recipe-finder/internal/frontend"
	"github.com/pageza/recipe-finder/internal/logger"
)

func newShowCommand() *cobra.Command {
	var opts clientOptions

	cmd := &cobra.Command{
		Use:     "show ID",
		Short:   "Print one recipe from a running backend",
		Example: "  recipefinder show 716429",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			log := logger.New(logLevel(opts.verbose), true, cmd.ErrOrStderr())
			client := apiclient.New(opts.backend, opts.timeout, &log)

			view := frontend.NewDetailView()
			ctrl := frontend.NewRecipeDetailController(client, view, nil, &log)
			err := ctrl.ShowRecipeDetails(ctx, args[0])

			renderDetail(cmd.OutOrStdout(), view)
			if errors.Is(err, apiclient.ErrNotFound) {
				return fmt.Errorf("recipe %s not found: %w", args[0], err)
			}
			if err != nil {
				return fmt.Errorf("show failed: %w", err)
			}
			return nil
		},
	}

	opts.register(cmd)
	return cmd
}
