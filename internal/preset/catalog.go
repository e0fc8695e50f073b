// internal/preset/catalog.go
package preset

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/Annany2002/nebula-canvas/internal/design"
	"github.com/Annany2002/nebula-canvas/internal/logger"
)

//go:embed presets.yaml
var builtinYAML []byte

var (
	customLog = logger.NewLogger()
	validate  = validator.New()

	ErrInvalidCatalog = errors.New("invalid preset catalog")
)

// Style overrides written onto the design's styles when a preset is applied.
type StyleOverrides struct {
	Theme      string  `yaml:"theme" json:"theme" validate:"oneof=light dark"`
	FontScale  float64 `yaml:"fontScale" json:"fontScale" validate:"gte=0.8,lte=2"`
	AppClass   string  `yaml:"appClass,omitempty" json:"appClass,omitempty"`
	CardClass  string  `yaml:"cardClass,omitempty" json:"cardClass,omitempty"`
	TableClass string  `yaml:"tableClass,omitempty" json:"tableClass,omitempty"`
	ChartClass string  `yaml:"chartClass,omitempty" json:"chartClass,omitempty"`
}

// LayoutOverrides replaces the column count and optionally reorders components.
type LayoutOverrides struct {
	Columns        int      `yaml:"columns" json:"columns" validate:"gte=1,lte=3"`
	SuggestedOrder []string `yaml:"suggestedOrder,omitempty" json:"suggestedOrder,omitempty"`
}

// ComponentOverride retypes and/or merges props into the component with ID.
type ComponentOverride struct {
	ID    string               `yaml:"id" json:"id" validate:"required"`
	Type  design.ComponentType `yaml:"type,omitempty" json:"type,omitempty" validate:"omitempty,oneof=table chart kpi card grid"`
	Props map[string]any       `yaml:"props,omitempty" json:"props,omitempty"`
}

// Preset is an immutable bundle of brand directives.
type Preset struct {
	Key                string              `yaml:"-" json:"key"`
	Styles             StyleOverrides      `yaml:"styles" json:"styles"`
	Layout             LayoutOverrides     `yaml:"layout" json:"layout"`
	ComponentOverrides []ComponentOverride `yaml:"componentOverrides" json:"componentOverrides" validate:"dive"`
}

// DesignStyle returns the designStyle value the preset forces, or "" when the
// preset relies on class tokens instead and any designStyle must be cleared.
func (p Preset) DesignStyle() string {
	switch p.Key {
	case "netflix", "uber":
		return p.Key
	default:
		return ""
	}
}

// ClassFor returns the class token for a component type, if the preset
// defines one. Cards and grids share the card token; KPIs have none.
func (p Preset) ClassFor(t design.ComponentType) (string, bool) {
	var class string
	switch t {
	case design.TypeTable:
		class = p.Styles.TableClass
	case design.TypeChart:
		class = p.Styles.ChartClass
	case design.TypeCard, design.TypeGrid:
		class = p.Styles.CardClass
	}
	return class, class != ""
}

// Catalog is a read-only set of presets keyed by brand identifier.
type Catalog struct {
	presets map[string]Preset
}

type catalogFile struct {
	Version int               `yaml:"version"`
	Presets map[string]Preset `yaml:"presets"`
}

// Builtin returns the catalog compiled into the binary. It panics if the
// embedded document is broken, which can only happen at build time.
func Builtin() *Catalog {
	c, err := Parse(builtinYAML)
	if err != nil {
		panic(fmt.Sprintf("preset: embedded catalog: %v", err))
	}
	return c
}

// LoadFile reads a catalog from a YAML file on disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if len(file.Presets) == 0 {
		return nil, fmt.Errorf("%w: no presets defined", ErrInvalidCatalog)
	}

	c := &Catalog{presets: make(map[string]Preset, len(file.Presets))}
	for key, p := range file.Presets {
		p.Key = key
		if err := validate.Struct(p); err != nil {
			return nil, fmt.Errorf("%w: preset %q: %v", ErrInvalidCatalog, key, err)
		}
		for i := range p.ComponentOverrides {
			props, err := normalize(p.ComponentOverrides[i].Props)
			if err != nil {
				return nil, fmt.Errorf("%w: preset %q override %q: %v", ErrInvalidCatalog, key, p.ComponentOverrides[i].ID, err)
			}
			p.ComponentOverrides[i].Props = props
		}
		c.presets[key] = p
	}
	return c, nil
}

// Extend returns a new catalog holding c's presets overlaid with other's.
func (c *Catalog) Extend(other *Catalog) *Catalog {
	out := &Catalog{presets: make(map[string]Preset, len(c.presets)+len(other.presets))}
	for k, p := range c.presets {
		out.presets[k] = p
	}
	for k, p := range other.presets {
		if _, exists := out.presets[k]; exists {
			customLog.Warnf("Preset: overriding built-in preset %q", k)
		}
		out.presets[k] = p
	}
	return out
}

// Lookup returns the preset for key.
func (c *Catalog) Lookup(key string) (Preset, bool) {
	p, ok := c.presets[key]
	return p, ok
}

// Keys returns the catalog keys in sorted order.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.presets))
	for k := range c.presets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// normalize round-trips props through JSON so numbers become float64 and
// nested maps become map[string]any, matching values decoded from requests.
func normalize(props map[string]any) (map[string]any, error) {
	if props == nil {
		return nil, nil
	}
	raw, err := json.Marshal(props)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
