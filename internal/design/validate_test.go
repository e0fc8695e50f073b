package design

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppliesDefaults(t *testing.T) {
	raw := `{
		"styles": {},
		"layout": {},
		"components": [{"id": "table1", "type": "table"}]
	}`

	d, err := Parse([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "light", d.Styles.Theme)
	assert.Equal(t, 1.0, d.Styles.FontScale)
	assert.Equal(t, "normal", d.Styles.Spacing)
	assert.Empty(t, d.Styles.DesignStyle)
	assert.Equal(t, 1, d.Layout.Columns)
	assert.NotNil(t, d.Layout.Order)
	assert.Empty(t, d.Layout.Order)
	require.Len(t, d.Components, 1)
	assert.Equal(t, map[string]any{}, d.Components[0].Props)
}

func TestParseRejectsInvalidDesigns(t *testing.T) {
	tooMany := make([]string, 0, MaxComponents+1)
	for i := 0; i <= MaxComponents; i++ {
		tooMany = append(tooMany, fmt.Sprintf(`{"id":"c%d","type":"kpi"}`, i))
	}

	testCases := []struct {
		name  string
		input string
		field string
	}{
		{"font scale too small", `{"styles":{"fontScale":0.5},"layout":{},"components":[]}`, "styles.fontScale"},
		{"font scale too large", `{"styles":{"fontScale":2.5},"layout":{},"components":[]}`, "styles.fontScale"},
		{"columns zero", `{"styles":{},"layout":{"columns":0},"components":[]}`, "layout.columns"},
		{"columns four", `{"styles":{},"layout":{"columns":4},"components":[]}`, "layout.columns"},
		{"unknown theme", `{"styles":{"theme":"sepia"},"layout":{},"components":[]}`, "styles.theme"},
		{"unknown component type", `{"styles":{},"layout":{},"components":[{"id":"x","type":"map"}]}`, "components[0].type"},
		{"unknown style field", `{"styles":{"color":"red"},"layout":{},"components":[]}`, "styles"},
		{"missing styles", `{"layout":{},"components":[]}`, "styles"},
		{"missing components", `{"styles":{},"layout":{}}`, "components"},
		{"empty id", `{"styles":{},"layout":{},"components":[{"id":"","type":"kpi"}]}`, "components[0].id"},
		{"duplicate id", `{"styles":{},"layout":{},"components":[{"id":"a","type":"kpi"},{"id":"a","type":"card"}]}`, "components[1].id"},
		{"too many components", `{"styles":{},"layout":{},"components":[` + strings.Join(tooMany, ",") + `]}`, "components"},
		{"fractional columns", `{"styles":{},"layout":{"columns":1.5},"components":[]}`, "layout"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDesign))

			var sve *SchemaValidationError
			require.True(t, errors.As(err, &sve))
			fields := make([]string, 0, len(sve.Issues))
			for _, is := range sve.Issues {
				fields = append(fields, is.Field)
			}
			assert.Contains(t, fields, tc.field)
		})
	}
}

func TestParseToleratesDanglingOrder(t *testing.T) {
	d, err := Parse([]byte(`{"styles":{},"layout":{"order":["ghost"]},"components":[]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"ghost"}, d.Layout.Order)
}

func TestParseRoundTrip(t *testing.T) {
	original := Default()
	original.Styles.DesignStyle = "netflix"
	original.Components[0].Props["nested"] = map[string]any{"a": []any{1.0, "b"}}

	raw, err := json.Marshal(original)
	require.NoError(t, err)

	parsed, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
}

func TestCloneIsDeep(t *testing.T) {
	original := Default()
	original.Components[0].Props["nested"] = map[string]any{"k": "v"}

	clone := original.Clone()
	clone.Layout.Order[0] = "changed"
	clone.Components[0].Props["limit"] = 1.0
	clone.Components[0].Props["nested"].(map[string]any)["k"] = "changed"
	clone.Styles.Theme = "dark"

	assert.Equal(t, "table1", original.Layout.Order[0])
	assert.Equal(t, 50.0, original.Components[0].Props["limit"])
	assert.Equal(t, "v", original.Components[0].Props["nested"].(map[string]any)["k"])
	assert.Equal(t, "light", original.Styles.Theme)
}

func TestTreeRoundTrip(t *testing.T) {
	tree, err := Default().ToTree()
	require.NoError(t, err)

	styles := tree["styles"].(map[string]any)
	styles["theme"] = "dark"

	d, err := FromTree(tree)
	require.NoError(t, err)
	assert.Equal(t, "dark", d.Styles.Theme)
	assert.Equal(t, Default().Components, d.Components)
}

func TestParseStylePatch(t *testing.T) {
	p, err := ParseStylePatch([]byte(`{"theme":"dark","fontScale":1.2,"unknown":true}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"theme": "dark", "fontScale": 1.2}, p.Fields())

	merged := p.Apply(DefaultStyles())
	assert.Equal(t, "dark", merged.Theme)
	assert.Equal(t, 1.2, merged.FontScale)
	assert.Equal(t, "normal", merged.Spacing)

	_, err = ParseStylePatch([]byte(`{"fontScale":3}`))
	assert.ErrorIs(t, err, ErrInvalidDesign)

	_, err = ParseStylePatch([]byte(`"dark"`))
	assert.Error(t, err)
}

func TestParseComponent(t *testing.T) {
	c, err := ParseComponent([]byte(`{"id":"pie","type":"chart","props":{"kind":"pie"}}`))
	require.NoError(t, err)
	assert.Equal(t, TypeChart, c.Type)
	assert.Equal(t, "pie", c.Props["kind"])

	_, err = ParseComponent([]byte(`{"id":"pie","type":"donut"}`))
	assert.Error(t, err)

	_, err = ParseComponent(nil)
	assert.Error(t, err)
}
