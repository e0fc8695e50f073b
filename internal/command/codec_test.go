package command

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Annany2002/nebula-canvas/internal/design"
)

func TestParseListAllOps(t *testing.T) {
	raw := `{"commands": [
		{"op": "set_style", "path": "$.styles", "value": {"theme": "dark"}},
		{"op": "update", "path": "/components[id=table1]/props", "value": {"limit": 10, "hint": {"any": ["thing"]}}},
		{"op": "add_component", "value": {"id": "pie", "type": "chart", "props": {"kind": "pie"}}},
		{"op": "remove_component", "path": "/components[id=kpi1]"},
		{"op": "move_component", "from": "/components[id=chart1]", "to": "/components[id=table1]"},
		{"op": "replace_component", "path": "/components[id=chart1]", "value": {"id": "chart1", "type": "grid"}},
		{"op": "apply_preset", "value": "netflix"}
	]}`

	list, err := ParseList([]byte(raw))
	require.NoError(t, err)
	require.Len(t, list.Commands, 7)

	theme := "dark"
	assert.Equal(t, SetStyle("$.styles", design.StylePatch{Theme: &theme}), list.Commands[0])

	assert.Equal(t, OpUpdate, list.Commands[1].Op)
	assert.Equal(t, 10.0, list.Commands[1].Fields["limit"])

	assert.Equal(t, OpAddComponent, list.Commands[2].Op)
	assert.Equal(t, "pie", list.Commands[2].Component.ID)

	assert.Equal(t, RemoveComponent("/components[id=kpi1]"), list.Commands[3])

	// position defaults to after
	assert.Equal(t, PositionAfter, list.Commands[4].Position)

	// props default to an empty map
	assert.Equal(t, map[string]any{}, list.Commands[5].Component.Props)

	assert.Equal(t, ApplyPreset("netflix"), list.Commands[6])
}

func TestParseListRejects(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		index int
	}{
		{"not json", `{`, -1},
		{"missing commands", `{}`, -1},
		{"unknown op", `{"commands":[{"op":"explode"}]}`, 0},
		{"missing op", `{"commands":[{"path":"$"}]}`, 0},
		{"update value not object", `{"commands":[{"op":"update","path":"$","value":"big"}]}`, 0},
		{"update missing path", `{"commands":[{"op":"update","value":{}}]}`, 0},
		{"bad position", `{"commands":[{"op":"move_component","from":"a","to":"b","position":"under"}]}`, 0},
		{"move missing to", `{"commands":[{"op":"move_component","from":"a"}]}`, 0},
		{"add bad type", `{"commands":[{"op":"add_component","value":{"id":"x","type":"map"}}]}`, 0},
		{"set_style bad font", `{"commands":[{"op":"set_style","path":"$.styles","value":{"fontScale":9}}]}`, 0},
		{"preset not string", `{"commands":[{"op":"apply_preset","value":{"key":"uber"}}]}`, 0},
		{"second invalid", `{"commands":[{"op":"remove_component","path":"x"},{"op":"remove_component"}]}`, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseList([]byte(tc.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidCommand))

			var sve *SchemaValidationError
			require.True(t, errors.As(err, &sve))
			assert.Equal(t, tc.index, sve.Index)
		})
	}
}

func TestParseListPermitsEmptyAndUnknownKeys(t *testing.T) {
	list, err := ParseList([]byte(`{"commands":[]}`))
	require.NoError(t, err)
	assert.Empty(t, list.Commands)

	list, err = ParseList([]byte(`{"commands":[{"op":"remove_component","path":"x","reason":"user asked"}]}`))
	require.NoError(t, err)
	assert.Len(t, list.Commands, 1)

	// preset keys are resolved by the engine, not here
	list, err = ParseList([]byte(`{"commands":[{"op":"apply_preset","value":"myspace"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "myspace", list.Commands[0].Preset)
}

func TestCommandWireShape(t *testing.T) {
	cmds := []Command{
		Update("/components[id=table1]/props", map[string]any{"limit": 10.0}),
		MoveComponent("/components[id=a]", "/components[id=b]", PositionBefore),
		ReplaceComponent("/components[id=a]", design.Component{ID: "a", Type: design.TypeCard, Props: map[string]any{}}),
		ApplyPreset("uber"),
		RemoveComponent("/components[id=a]"),
	}

	raw, err := json.Marshal(List{Commands: cmds})
	require.NoError(t, err)

	decoded, err := ParseList(raw)
	require.NoError(t, err)
	assert.Equal(t, cmds, decoded.Commands)

	var generic map[string][]map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	assert.Equal(t, "uber", generic["commands"][3]["value"])
	assert.Equal(t, "before", generic["commands"][1]["position"])
	assert.NotContains(t, generic["commands"][4], "value")
}

func TestUnmarshalListDirectly(t *testing.T) {
	var list List
	err := json.Unmarshal([]byte(`{"commands":[{"op":"apply_preset","value":"spotify"}]}`), &list)
	require.NoError(t, err)
	assert.Equal(t, ApplyPreset("spotify"), list.Commands[0])

	err = json.Unmarshal([]byte(`{"commands":[{"op":"nope"}]}`), &list)
	assert.Error(t, err)
}
