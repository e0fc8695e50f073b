// internal/engine/preset.go
package engine

import (
	"github.com/Annany2002/nebula-canvas/internal/design"
	"github.com/Annany2002/nebula-canvas/internal/preset"
)

// applyPreset expands p onto d. Styles and columns are overwritten, so
// applying the same preset twice is the same as applying it once.
func applyPreset(d *design.Design, p preset.Preset) {
	s := &d.Styles
	s.Theme = p.Styles.Theme
	s.FontScale = p.Styles.FontScale
	overlay(&s.AppClass, p.Styles.AppClass)
	overlay(&s.CardClass, p.Styles.CardClass)
	overlay(&s.TableClass, p.Styles.TableClass)
	overlay(&s.ChartClass, p.Styles.ChartClass)
	s.DesignStyle = p.DesignStyle()

	d.Layout.Columns = p.Layout.Columns
	if len(p.Layout.SuggestedOrder) > 0 {
		d.Layout.Order = suggestOrder(*d, p.Layout.SuggestedOrder)
	}

	for _, o := range p.ComponentOverrides {
		idx := d.IndexOf(o.ID)
		if idx < 0 {
			continue
		}
		c := &d.Components[idx]
		if o.Type != "" {
			c.Type = o.Type
		}
		if c.Props == nil {
			c.Props = map[string]any{}
		}
		merge(c.Props, o.Props)
	}

	// Runs after overrides so retyped components pick up their new class.
	for i := range d.Components {
		c := &d.Components[i]
		class, ok := p.ClassFor(c.Type)
		if !ok {
			continue
		}
		if c.Props == nil {
			c.Props = map[string]any{}
		}
		c.Props["className"] = class
	}
}

// suggestOrder puts the suggested ids that name existing components first,
// then every remaining id of the current order in its original sequence.
func suggestOrder(d design.Design, suggested []string) []string {
	out := make([]string, 0, len(d.Layout.Order)+len(suggested))
	seen := make(map[string]bool, len(suggested))
	for _, id := range suggested {
		if seen[id] || !d.HasComponent(id) {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	for _, id := range d.Layout.Order {
		if !seen[id] {
			out = append(out, id)
		}
	}
	return out
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
