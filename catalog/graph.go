package catalog

import (
	"fmt"

	"github.com/awalterschulze/gographviz"
)

const graphName = "pkgsel"

// BuildGraph generates dependency graph of records in the list
//
// Only dependencies satisfied inside the list are drawn, either by name or through provide.
// Optional dependencies are drawn dashed.
func BuildGraph(list *RecordList, layout string) (gographviz.Interface, error) {
	graph := gographviz.NewEscape()
	if err := graph.SetDir(true); err != nil {
		return nil, err
	}
	if err := graph.SetName(graphName); err != nil {
		return nil, err
	}

	var labelStart, labelEnd string

	switch layout {
	case "vertical":
		if err := graph.AddAttr(graphName, "rankdir", "LR"); err != nil {
			return nil, err
		}
	case "horizontal":
		fallthrough
	default:
		labelStart = "{"
		labelEnd = "}"
	}

	providers := map[string]string{}
	for _, r := range list.Records() {
		for _, provide := range r[AttrProvide] {
			name := DependencyName(provide)
			if _, exists := providers[name]; !exists {
				providers[name] = r.Name()
			}
		}
	}

	resolve := func(dependency string) (string, bool) {
		name := DependencyName(dependency)
		if list.ByName(name) != nil {
			return name, true
		}
		provider, ok := providers[name]
		return provider, ok
	}

	for _, r := range list.Records() {
		repo := ""
		if repos := r[AttrRepo]; len(repos) > 0 {
			repo = repos[0]
		}

		err := graph.AddNode(graphName, r.Name(), map[string]string{
			"shape":     "Mrecord",
			"style":     "filled",
			"fillcolor": "darkgoldenrod1",
			"label":     fmt.Sprintf("%s%s|repo: %s|deps: %d%s", labelStart, r.Name(), repo, len(r[AttrDepend]), labelEnd),
		})
		if err != nil {
			return nil, err
		}
	}

	for _, r := range list.Records() {
		edges := map[string]bool{}

		for _, dependency := range r[AttrDepend] {
			target, ok := resolve(dependency)
			if !ok || target == r.Name() || edges[target] {
				continue
			}
			edges[target] = true
			if err := graph.AddEdge(r.Name(), target, true, nil); err != nil {
				return nil, err
			}
		}

		for _, dependency := range r[AttrOptDepend] {
			target, ok := resolve(dependency)
			if !ok || target == r.Name() || edges[target] {
				continue
			}
			edges[target] = true
			if err := graph.AddEdge(r.Name(), target, true, map[string]string{"style": "dashed"}); err != nil {
				return nil, err
			}
		}
	}

	return graph, nil
}
