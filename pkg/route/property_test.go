//go:build property
// +build property

package route

import (
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// buildTree groups segments under numbered branches; every third segment
// becomes a top-level leaf. Indices keep leaf paths unique.
func buildTree(segments []string) ([]*Route, int) {
	var tree []*Route
	leaves := 0
	var branch *Route

	for i, seg := range segments {
		seg = fmt.Sprintf("%s-%d", seg, i)
		switch i % 3 {
		case 0:
			tree = append(tree, &Route{Path: "/" + seg})
			leaves++
			branch = nil
		case 1:
			// Trailing and leading slashes are collapsed by normalization.
			branch = &Route{Path: "/" + seg + "/", Children: []*Route{}}
			tree = append(tree, branch)
		case 2:
			branch.Children = append(branch.Children, &Route{Path: "/" + seg}, &Route{Path: ""})
			leaves += 2
		}
	}

	return tree, leaves
}

func TestNormalizationProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("one normalized route per leaf", prop.ForAll(
		func(segments []string) bool {
			tree, leaves := buildTree(segments)
			table, err := GenerateURLs(tree)
			return err == nil && len(table) == leaves
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.Property("paths are absolute and clean", prop.ForAll(
		func(segments []string) bool {
			tree, _ := buildTree(segments)
			table, err := GenerateURLs(tree)
			if err != nil {
				return false
			}
			for _, n := range table {
				if !strings.HasPrefix(n.Path, "/") || strings.Contains(n.Path, "//") {
					return false
				}
				if n.Path != "/" && strings.HasSuffix(n.Path, "/") {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.Property("static paths match themselves", prop.ForAll(
		func(segments []string) bool {
			tree, _ := buildTree(segments)
			table, err := GenerateURLs(tree)
			if err != nil {
				return false
			}
			for _, n := range table {
				match, err := FindRouteByURL(table, n.Path)
				if err != nil || match.Path != n.Path || match.URL != n.Path {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.Property("named static routes resolve to their path", prop.ForAll(
		func(names []string) bool {
			var tree []*Route
			for i, name := range names {
				tree = append(tree, &Route{Path: fmt.Sprintf("/p%d", i), Name: fmt.Sprintf("%s-%d", name, i)})
			}
			table, err := GenerateURLs(tree)
			if err != nil {
				return false
			}
			for _, n := range table {
				match, err := FindRouteByName(table, n.Name, map[string]string{})
				if err != nil || match.URL != n.Path {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.TestingRun(t)
}
