// Package cli implements the recipefinder command line.
package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

const defaultBackend = "http://127.0.0.1:8080"

// clientOptions are the flags shared by the commands that call a running backend
type clientOptions struct {
	backend string
	timeout time.Duration
	verbose bool
}

func (o *clientOptions) register(cmd *cobra.Command) {
	backend := os.Getenv("BACKEND_URL")
	if backend == "" {
		backend = defaultBackend
	}
	cmd.Flags().StringVarP(&o.backend, "backend", "b", backend, "Base URL of the recipe API (env BACKEND_URL)")
	cmd.Flags().DurationVar(&o.timeout, "timeout", 30*time.Second, "Request timeout")
	cmd.Flags().BoolVarP(&o.verbose, "verbose", "v", false, "Log API calls to stderr")
}

// NewRootCommand builds the recipefinder command tree
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "recipefinder",
		Short: "Recipe Finder - search Spoonacular recipes from the browser or the terminal",
		Long: `Recipe Finder serves a recipe search site backed by the Spoonacular API.

The same binary runs the server and queries a running server from the terminal:

  recipefinder serve                         # start the web site and JSON API
  recipefinder search pasta --diet vegan     # search from the terminal
  recipefinder show 716429                   # print one recipe`,
		SilenceUsage: true,
	}

	root.AddCommand(newServeCommand())
	root.AddCommand(newSearchCommand())
	root.AddCommand(newShowCommand())
	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}
