// Command flxrouter serves and inspects flxrouter route tables.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/flxrouter/internal/config"
	"github.com/vango-dev/flxrouter/internal/demo"
	"github.com/vango-dev/flxrouter/internal/errors"
	"github.com/vango-dev/flxrouter/internal/routefile"
	"github.com/vango-dev/flxrouter/pkg/route"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "flxrouter",
		Short: "Client-side routing served from Go",
		Long: `flxrouter resolves URLs and route names against nested route tables
and drives router views from a server session.

Route tables come from a YAML or JSON route file, or the built-in demo
application when none is configured. Settings are read from
flxrouter.yaml, FLXROUTER_* environment variables and flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config-dir", ".", "Directory holding flxrouter.yaml")
	rootCmd.PersistentFlags().String("routes", "", "Route file (default: built-in demo routes)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json")

	rootCmd.AddCommand(
		serveCmd(),
		routesCmd(),
		matchCmd(),
		versionCmd(),
	)
	return rootCmd
}

// loadConfig reads the configuration with cmd's flags applied.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	dir, err := cmd.Flags().GetString("config-dir")
	if err != nil {
		return nil, err
	}
	return config.Load(dir, cmd.Flags())
}

// loadRoutes returns the configured route table and the registry its
// components were resolved in.
func loadRoutes(cfg *config.Config) ([]*route.Route, *routefile.Registry, error) {
	reg := routefile.NewRegistry()
	demo.Register(reg)

	if cfg.Router.RoutesFile == "" {
		return demo.Routes(), reg, nil
	}
	routes, err := routefile.Load(cfg.Router.RoutesFile, reg)
	if err != nil {
		return nil, nil, err
	}
	return routes, reg, nil
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
