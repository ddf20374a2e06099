package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/flxrouter/internal/errors"
	"github.com/vango-dev/flxrouter/pkg/route"
)

type routeRow struct {
	Path  string `json:"path"`
	Name  string `json:"name,omitempty"`
	Depth int    `json:"depth"`
	Kind  string `json:"kind"`
}

func routesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the normalized route table",
		Long: `List every leaf route with its absolute path, resolved name, depth
and how its leaf fragment renders (component, lazy, render or none).

Examples:
  flxrouter routes
  flxrouter routes --routes=routes.yaml --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			routes, _, err := loadRoutes(cfg)
			if err != nil {
				return err
			}
			table, err := route.GenerateURLs(routes)
			if err != nil {
				return errors.FromRouteError(err)
			}

			rows := make([]routeRow, len(table))
			for i, n := range table {
				rows[i] = routeRow{Path: n.Path, Name: n.Name, Depth: len(n.Routes), Kind: kindOf(n.Leaf())}
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}

			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PATH\tNAME\tDEPTH\tKIND")
			for _, r := range rows {
				name := r.Name
				if name == "" {
					name = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.Path, name, r.Depth, r.Kind)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the table as JSON")

	return cmd
}

func kindOf(r *route.Route) string {
	switch {
	case r == nil:
		return "none"
	case r.Component != nil:
		return "component"
	case r.Load != nil:
		return "lazy"
	case r.Render != nil:
		return "render"
	}
	return "none"
}
