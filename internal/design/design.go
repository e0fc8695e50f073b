// internal/design/design.go
package design

// MaxComponents is the upper bound on the number of components in a Design.
const MaxComponents = 30

// Bounds and defaults applied when a field is absent.
const (
	MinFontScale = 0.8
	MaxFontScale = 2.0
	MinColumns   = 1
	MaxColumns   = 3

	DefaultTheme     = "light"
	DefaultFontScale = 1.0
	DefaultSpacing   = "normal"
	DefaultColumns   = 1
)

// ComponentType is the closed set of renderable component kinds.
type ComponentType string

const (
	TypeTable ComponentType = "table"
	TypeChart ComponentType = "chart"
	TypeKPI   ComponentType = "kpi"
	TypeCard  ComponentType = "card"
	TypeGrid  ComponentType = "grid"
)

// ComponentTypes lists every valid ComponentType.
var ComponentTypes = []ComponentType{TypeTable, TypeChart, TypeKPI, TypeCard, TypeGrid}

// IsValid reports whether t is one of the known component kinds.
func (t ComponentType) IsValid() bool {
	for _, known := range ComponentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Styles holds the global look of a dashboard. The *Class fields carry CSS
// class tokens written by brand presets.
type Styles struct {
	Theme       string  `json:"theme" validate:"oneof=light dark"`
	FontScale   float64 `json:"fontScale" validate:"gte=0.8,lte=2"`
	Spacing     string  `json:"spacing" validate:"oneof=compact normal spacious"`
	DesignStyle string  `json:"designStyle,omitempty" validate:"omitempty,oneof=minimal netflix uber default"`
	AppStyle    string  `json:"appStyle,omitempty"`
	CardStyle   string  `json:"cardStyle,omitempty" validate:"omitempty,oneof=minimal image-heavy compact"`
	AppClass    string  `json:"appClass,omitempty"`
	CardClass   string  `json:"cardClass,omitempty"`
	TableClass  string  `json:"tableClass,omitempty"`
	ChartClass  string  `json:"chartClass,omitempty"`
}

// Layout is the flat column grid and the render order of component ids.
// Order may reference ids that no longer exist; those render as nothing.
type Layout struct {
	Columns int      `json:"columns" validate:"gte=1,lte=3"`
	Order   []string `json:"order"`
}

// Component is one visual unit. Props are interpreted by the renderer for
// the component's type and are not validated here.
type Component struct {
	ID    string         `json:"id" validate:"required"`
	Type  ComponentType  `json:"type" validate:"oneof=table chart kpi card grid"`
	Props map[string]any `json:"props"`
}

// Design is the persisted description of a dashboard.
type Design struct {
	Styles     Styles      `json:"styles"`
	Layout     Layout      `json:"layout"`
	Components []Component `json:"components" validate:"max=30,dive"`
}

// DefaultStyles returns Styles populated with the documented defaults.
func DefaultStyles() Styles {
	return Styles{
		Theme:     DefaultTheme,
		FontScale: DefaultFontScale,
		Spacing:   DefaultSpacing,
	}
}

// Default returns the starter dashboard handed to a user on first visit.
func Default() Design {
	return Design{
		Styles: DefaultStyles(),
		Layout: Layout{
			Columns: DefaultColumns,
			Order:   []string{"table1", "chart1", "kpi1"},
		},
		Components: []Component{
			{ID: "table1", Type: TypeTable, Props: map[string]any{"sortBy": "rating", "limit": float64(50)}},
			{ID: "chart1", Type: TypeChart, Props: map[string]any{"kind": "bar", "groupBy": "genres"}},
			{ID: "kpi1", Type: TypeKPI, Props: map[string]any{"label": "Total Shows"}},
		},
	}
}

// IndexOf returns the position of the component with the given id, or -1.
func (d Design) IndexOf(id string) int {
	for i := range d.Components {
		if d.Components[i].ID == id {
			return i
		}
	}
	return -1
}

// HasComponent reports whether a component with the given id exists.
func (d Design) HasComponent(id string) bool {
	return d.IndexOf(id) >= 0
}

// Clone returns a deep copy of d. Mutating the copy, including nested prop
// values, never affects d.
func (d Design) Clone() Design {
	out := Design{
		Styles: d.Styles,
		Layout: Layout{
			Columns: d.Layout.Columns,
			Order:   append([]string{}, d.Layout.Order...),
		},
	}
	if d.Components != nil {
		out.Components = make([]Component, len(d.Components))
		for i, c := range d.Components {
			out.Components[i] = c.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of c.
func (c Component) Clone() Component {
	return Component{
		ID:    c.ID,
		Type:  c.Type,
		Props: CloneProps(c.Props),
	}
}

// CloneProps deep-copies a props map. A nil map yields an empty one.
func CloneProps(props map[string]any) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return CloneProps(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return val
	}
}
