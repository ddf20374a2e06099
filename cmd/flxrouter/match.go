package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vango-dev/flxrouter/internal/errors"
	"github.com/vango-dev/flxrouter/pkg/route"
)

func matchCmd() *cobra.Command {
	var (
		name   string
		params map[string]string
	)

	cmd := &cobra.Command{
		Use:   "match [url]",
		Short: "Resolve a URL or route name against the route table",
		Long: `Resolve a URL, or a route name with parameters, the way a router
would and print the matched route.

Examples:
  flxrouter match /users/42
  flxrouter match --name=user --param userId=42`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var q route.Query
			switch {
			case len(args) == 1:
				q = route.URL(args[0])
			case name != "":
				q = route.Named(name, params)
			default:
				return errors.New(errors.CodeInvalidQuery).
					WithSuggestion("Pass a URL argument or --name.")
			}

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

			n, err := route.FindRouteByQuery(table, q)
			if err != nil {
				return errors.FromRouteError(err)
			}

			w := cmd.OutOrStdout()
			success(w, "%s matches %s", q, n.Path)
			fmt.Fprintf(w, "  URL:   %s\n", n.URL)
			if n.Name != "" {
				fmt.Fprintf(w, "  Name:  %s\n", n.Name)
			}
			fmt.Fprintf(w, "  Depth: %d\n", len(n.Routes))

			keys := make([]string, 0, len(n.Parameters))
			for k := range n.Parameters {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(w, "  :%s = %s\n", k, n.Parameters[k])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Route name to resolve")
	cmd.Flags().StringToStringVar(&params, "param", nil, "Route parameter as key=value (repeatable)")

	return cmd
}
