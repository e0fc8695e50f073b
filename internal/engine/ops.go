// internal/engine/ops.go
package engine

import (
	"fmt"

	"github.com/Annany2002/nebula-canvas/internal/command"
	"github.com/Annany2002/nebula-canvas/internal/design"
	"github.com/Annany2002/nebula-canvas/internal/resolver"
)

// setStyle shallow-merges the style patch onto the first node the path selects.
func setStyle(d *design.Design, cmd command.Command) error {
	return mutateTree(d, cmd, func(tree map[string]any) error {
		nodes, err := resolver.Select(cmd.Path, tree)
		if err != nil {
			return fault(cmd.Op, "%v", err)
		}
		if len(nodes) == 0 {
			return fmt.Errorf("%w: %q", ErrUnresolvedPath, cmd.Path)
		}
		node, ok := nodes[0].(map[string]any)
		if !ok {
			return fault(cmd.Op, "path %q selects a %T, not an object", cmd.Path, nodes[0])
		}
		merge(node, cmd.Style.Fields())
		return nil
	})
}

// update tries, in order: the shorthand props path, the shorthand component
// path with a value.props payload, and finally the path as a tree query.
func update(d *design.Design, cmd command.Command) error {
	if id, props, ok := resolver.ParseShorthand(cmd.Path); ok {
		idx := d.IndexOf(id)
		if idx < 0 {
			return fmt.Errorf("%w: no component %q", ErrUnresolvedPath, id)
		}
		if props {
			merge(d.Components[idx].Props, cmd.Fields)
			return nil
		}
		nested, ok := cmd.Fields["props"].(map[string]any)
		if !ok {
			return fmt.Errorf("%w: %q addresses a component but value has no props object", ErrUnresolvedPath, cmd.Path)
		}
		merge(d.Components[idx].Props, nested)
		return nil
	}

	return mutateTree(d, cmd, func(tree map[string]any) error {
		nodes, err := resolver.Select(cmd.Path, tree)
		if err != nil {
			return fault(cmd.Op, "%v", err)
		}
		if len(nodes) == 0 {
			return fmt.Errorf("%w: %q", ErrUnresolvedPath, cmd.Path)
		}
		node, ok := nodes[0].(map[string]any)
		if !ok {
			return fault(cmd.Op, "path %q selects a %T, not an object", cmd.Path, nodes[0])
		}
		if props, ok := node["props"].(map[string]any); ok {
			merge(props, cmd.Fields)
		} else {
			merge(node, cmd.Fields)
		}
		return nil
	})
}

// addComponent appends a component and its id to the layout order. It is a
// no-op when the id is taken or the design is full.
func addComponent(d *design.Design, cmd command.Command) error {
	c := cmd.Component
	if d.HasComponent(c.ID) {
		return fmt.Errorf("%w: %q", ErrComponentExists, c.ID)
	}
	if len(d.Components) >= design.MaxComponents {
		return fmt.Errorf("%w: %d components", ErrComponentLimit, design.MaxComponents)
	}
	d.Components = append(d.Components, c.Clone())
	d.Layout.Order = append(d.Layout.Order, c.ID)
	return nil
}

func removeComponent(d *design.Design, cmd command.Command) error {
	id, ok := resolver.ResolveID(cmd.Path, *d)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnresolvedPath, cmd.Path)
	}
	kept := d.Components[:0]
	for _, c := range d.Components {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	d.Components = kept
	d.Layout.Order = without(d.Layout.Order, id)
	return nil
}

func moveComponent(d *design.Design, cmd command.Command) error {
	fromID, ok := resolver.ResolveID(cmd.From, *d)
	if !ok {
		return fmt.Errorf("%w: from %q", ErrUnresolvedPath, cmd.From)
	}
	toID, ok := resolver.ResolveID(cmd.To, *d)
	if !ok {
		return fmt.Errorf("%w: to %q", ErrUnresolvedPath, cmd.To)
	}
	order, ok := moveID(d.Layout.Order, fromID, toID, cmd.Position)
	if !ok {
		return fmt.Errorf("%w: %q", ErrTargetNotInOrder, toID)
	}
	d.Layout.Order = order
	return nil
}

// replaceComponent swaps the resolved component for the command's value,
// keeping its position in the component list.
func replaceComponent(d *design.Design, cmd command.Command) error {
	id, ok := resolver.ResolveID(cmd.Path, *d)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnresolvedPath, cmd.Path)
	}
	d.Components[d.IndexOf(id)] = cmd.Component.Clone()
	return nil
}

// moveID removes from and reinserts it before or after to. "inside" is
// treated as "after" because the layout is flat. ok is false, and order is
// returned untouched, when to is not in the order once from is removed.
func moveID(order []string, from, to string, position command.Position) ([]string, bool) {
	rest := without(order, from)
	idx := -1
	for i, id := range rest {
		if id == to {
			idx = i
			break
		}
	}
	if idx < 0 {
		return order, false
	}

	insertAt := idx + 1
	if position == command.PositionBefore {
		insertAt = idx
	}
	out := make([]string, 0, len(rest)+1)
	out = append(out, rest[:insertAt]...)
	out = append(out, from)
	return append(out, rest[insertAt:]...), true
}

func without(order []string, id string) []string {
	out := make([]string, 0, len(order))
	for _, x := range order {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

// merge shallow-copies src onto dst. Values are deep-copied so the draft
// never aliases caller-owned maps.
func merge(dst, src map[string]any) {
	for k, v := range design.CloneProps(src) {
		dst[k] = v
	}
}

// mutateTree runs fn against a generic tree of d and, if fn succeeds,
// decodes the tree back into d. A tree that no longer decodes to a valid
// design is a fault.
func mutateTree(d *design.Design, cmd command.Command, fn func(tree map[string]any) error) error {
	tree, err := d.ToTree()
	if err != nil {
		return fault(cmd.Op, "%v", err)
	}
	if err := fn(tree); err != nil {
		return err
	}
	next, err := design.FromTree(tree)
	if err != nil {
		return &PerCommandFault{Op: cmd.Op, Cause: err}
	}
	*d = next
	return nil
}
