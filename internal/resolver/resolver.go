// internal/resolver/resolver.go
package resolver

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ohler55/ojg/jp"

	"github.com/Annany2002/nebula-canvas/internal/design"
)

// ErrMalformedQuery is returned by Select for paths that are neither the
// shorthand form nor a parseable JSONPath expression.
var ErrMalformedQuery = errors.New("malformed path query")

// shorthandPattern matches /components[id=<ID>] with an optional /props suffix.
var shorthandPattern = regexp.MustCompile(`^/components\[id=([^\]]+)\](/props)?$`)

// ParseShorthand splits a shorthand component path into its id and whether
// it addresses the component's props. Quotes around the id are tolerated.
func ParseShorthand(path string) (id string, props bool, ok bool) {
	m := shorthandPattern.FindStringSubmatch(strings.TrimSpace(path))
	if m == nil {
		return "", false, false
	}
	id = strings.TrimSpace(m[1])
	if len(id) >= 2 && (id[0] == '"' || id[0] == '\'') && id[len(id)-1] == id[0] {
		id = id[1 : len(id)-1]
	}
	if id == "" {
		return "", false, false
	}
	return id, m[2] != "", true
}

// ResolveID maps a path in either dialect to the id of an existing component.
// It never fails: anything unresolvable, including a malformed query, is
// reported as ("", false).
func ResolveID(path string, d design.Design) (string, bool) {
	if id, _, ok := ParseShorthand(path); ok {
		if d.HasComponent(id) {
			return id, true
		}
		return "", false
	}

	tree, err := d.ToTree()
	if err != nil {
		return "", false
	}
	nodes, err := Select(path, tree)
	if err != nil || len(nodes) == 0 {
		return "", false
	}
	obj, ok := nodes[0].(map[string]any)
	if !ok {
		return "", false
	}
	id, ok := obj["id"].(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// Select returns the nodes of tree addressed by path. Returned maps and
// slices alias tree, so callers can mutate them in place. Shorthand paths
// select the component object (or its props map); anything else is run as a
// JSONPath expression rooted at the design.
func Select(path string, tree any) (nodes []any, err error) {
	if id, props, ok := ParseShorthand(path); ok {
		comp := componentNode(tree, id)
		if comp == nil {
			return nil, nil
		}
		if !props {
			return []any{comp}, nil
		}
		p, ok := comp["props"].(map[string]any)
		if !ok {
			p = map[string]any{}
			comp["props"] = p
		}
		return []any{p}, nil
	}

	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: empty path", ErrMalformedQuery)
	}

	defer func() {
		if r := recover(); r != nil {
			nodes, err = nil, fmt.Errorf("%w: %q: %v", ErrMalformedQuery, path, r)
		}
	}()

	expr, perr := jp.ParseString(path)
	if perr != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrMalformedQuery, path, perr)
	}
	return expr.Get(tree), nil
}

func componentNode(tree any, id string) map[string]any {
	root, ok := tree.(map[string]any)
	if !ok {
		return nil
	}
	components, ok := root["components"].([]any)
	if !ok {
		return nil
	}
	for _, c := range components {
		comp, ok := c.(map[string]any)
		if !ok {
			continue
		}
		if cid, _ := comp["id"].(string); cid == id {
			return comp
		}
	}
	return nil
}
