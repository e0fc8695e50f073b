// internal/design/patch.go
package design

import (
	"encoding/json"
)

// StylePatch is a partial Styles: only non-nil fields are present. Each
// present field is validated with the same rules as Styles.
type StylePatch struct {
	Theme       *string  `json:"theme,omitempty" validate:"omitempty,oneof=light dark"`
	FontScale   *float64 `json:"fontScale,omitempty" validate:"omitempty,gte=0.8,lte=2"`
	Spacing     *string  `json:"spacing,omitempty" validate:"omitempty,oneof=compact normal spacious"`
	DesignStyle *string  `json:"designStyle,omitempty" validate:"omitempty,oneof=minimal netflix uber default"`
	AppStyle    *string  `json:"appStyle,omitempty"`
	CardStyle   *string  `json:"cardStyle,omitempty" validate:"omitempty,oneof=minimal image-heavy compact"`
	AppClass    *string  `json:"appClass,omitempty"`
	CardClass   *string  `json:"cardClass,omitempty"`
	TableClass  *string  `json:"tableClass,omitempty"`
	ChartClass  *string  `json:"chartClass,omitempty"`
}

// ParseStylePatch decodes a partial style object. Keys outside Styles are
// dropped rather than rejected.
func ParseStylePatch(raw []byte) (StylePatch, error) {
	var p StylePatch
	if isAbsent(raw) {
		return p, invalid("", "style value is required")
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return StylePatch{}, invalid("", "%s", decodeMessage(err))
	}
	if err := validate.Struct(p); err != nil {
		return StylePatch{}, fromValidator(err, "StylePatch.")
	}
	return p, nil
}

// Fields returns the present fields keyed by their JSON names.
func (p StylePatch) Fields() map[string]any {
	out := map[string]any{}
	put := func(key string, v *string) {
		if v != nil {
			out[key] = *v
		}
	}
	put("theme", p.Theme)
	if p.FontScale != nil {
		out["fontScale"] = *p.FontScale
	}
	put("spacing", p.Spacing)
	put("designStyle", p.DesignStyle)
	put("appStyle", p.AppStyle)
	put("cardStyle", p.CardStyle)
	put("appClass", p.AppClass)
	put("cardClass", p.CardClass)
	put("tableClass", p.TableClass)
	put("chartClass", p.ChartClass)
	return out
}

// Apply shallow-merges the present fields onto s.
func (p StylePatch) Apply(s Styles) Styles {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&s.Theme, p.Theme)
	if p.FontScale != nil {
		s.FontScale = *p.FontScale
	}
	set(&s.Spacing, p.Spacing)
	set(&s.DesignStyle, p.DesignStyle)
	set(&s.AppStyle, p.AppStyle)
	set(&s.CardStyle, p.CardStyle)
	set(&s.AppClass, p.AppClass)
	set(&s.CardClass, p.CardClass)
	set(&s.TableClass, p.TableClass)
	set(&s.ChartClass, p.ChartClass)
	return s
}
