package router

import "gopkg.in/yaml.v3"

// yamlRoute mirrors RouteDef's shape for declarative loading
// (SPEC_FULL.md §3.3), the way GoCodeAlone/workflow loads its workflow
// graphs from YAML rather than building them by hand in Go.
type yamlRoute struct {
	Name        string      `yaml:"name"`
	Path        string      `yaml:"path"`
	QueryParams []string    `yaml:"queryParams,omitempty"`
	Children    []yamlRoute `yaml:"children,omitempty"`
}

func (y yamlRoute) toRouteDef() *RouteDef {
	children := make([]*RouteDef, len(y.Children))
	for i, c := range y.Children {
		children[i] = c.toRouteDef()
	}
	rd := NewRoute(y.Name, y.Path, children...)
	if len(y.QueryParams) > 0 {
		rd.WithQueryParams(y.QueryParams...)
	}
	return rd
}

// LoadYAML parses a declarative route tree, producing the same []*RouteDef
// a caller would otherwise build with nested NewRoute calls.
func LoadYAML(data []byte) ([]*RouteDef, error) {
	var roots []yamlRoute
	if err := yaml.Unmarshal(data, &roots); err != nil {
		return nil, err
	}
	routes := make([]*RouteDef, len(roots))
	for i, r := range roots {
		routes[i] = r.toRouteDef()
	}
	return routes, nil
}
