// api/handlers/schema_handler_integration_test.go
package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Annany2002/nebula-canvas/api/models"
	"github.com/Annany2002/nebula-canvas/internal/design"
	"github.com/Annany2002/nebula-canvas/internal/engine"
	"github.com/Annany2002/nebula-canvas/internal/history"
	"github.com/Annany2002/nebula-canvas/internal/showdata"
	"github.com/Annany2002/nebula-canvas/internal/translator"
)

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func TestSchemaLifecycle(t *testing.T) {
	env := setupTestServer(t)
	user := env.login(t, "ada")
	headers := map[string]string{"x-user-id": user.UserID}

	t.Run("first load creates the default design", func(t *testing.T) {
		status, raw := env.do(t, http.MethodGet, "/api/schema", nil, headers)
		require.Equal(t, http.StatusOK, status, string(raw))

		rec := decode[models.SchemaRecordResponse](t, raw)
		assert.Equal(t, design.Default(), rec.Schema)
		assert.Equal(t, history.Latest, rec.HistoryIndex)
		assert.False(t, rec.CanUndo)
		assert.False(t, rec.CanRedo)
	})

	t.Run("commands are applied, persisted and reported", func(t *testing.T) {
		body := map[string]any{"commands": []map[string]any{
			{"op": "apply_preset", "value": "netflix"},
			{"op": "update", "path": "/components[id=missing]/props", "value": map[string]any{"limit": 5}},
		}}
		status, raw := env.do(t, http.MethodPost, "/api/schema/commands", body, headers)
		require.Equal(t, http.StatusOK, status, string(raw))

		res := decode[models.CommandsResponse](t, raw)
		assert.Equal(t, "1 of 2 changes applied", res.Summary)
		require.Len(t, res.Report.Outcomes, 2)
		assert.Equal(t, engine.StatusApplied, res.Report.Outcomes[0].Status)
		assert.Equal(t, engine.StatusSkipped, res.Report.Outcomes[1].Status)

		assert.Equal(t, "dark", res.Schema.Styles.Theme)
		assert.Equal(t, []string{"chart1", "kpi1", "table1"}, res.Schema.Layout.Order)
		assert.Len(t, res.History, 2)
		assert.True(t, res.CanUndo)

		status, raw = env.do(t, http.MethodGet, "/api/schema", nil, headers)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, res.Schema, decode[models.SchemaRecordResponse](t, raw).Schema)
	})

	t.Run("undo and redo move through history", func(t *testing.T) {
		status, raw := env.do(t, http.MethodPost, "/api/schema/undo", nil, headers)
		require.Equal(t, http.StatusOK, status, string(raw))
		rec := decode[models.SchemaRecordResponse](t, raw)
		assert.Equal(t, design.Default(), rec.Schema)
		assert.Equal(t, 0, rec.HistoryIndex)

		status, _ = env.do(t, http.MethodPost, "/api/schema/undo", nil, headers)
		assert.Equal(t, http.StatusConflict, status)

		status, raw = env.do(t, http.MethodPost, "/api/schema/redo", nil, headers)
		require.Equal(t, http.StatusOK, status, string(raw))
		rec = decode[models.SchemaRecordResponse](t, raw)
		assert.Equal(t, "dark", rec.Schema.Styles.Theme)
		assert.Equal(t, history.Latest, rec.HistoryIndex)

		status, _ = env.do(t, http.MethodPost, "/api/schema/redo", nil, headers)
		assert.Equal(t, http.StatusConflict, status)
	})

	t.Run("a batch with nothing applied leaves history alone", func(t *testing.T) {
		body := map[string]any{"commands": []map[string]any{
			{"op": "remove_component", "path": "/components[id=ghost]"},
		}}
		status, raw := env.do(t, http.MethodPost, "/api/schema/commands", body, headers)
		require.Equal(t, http.StatusOK, status, string(raw))
		assert.Len(t, decode[models.CommandsResponse](t, raw).History, 2)
	})

	t.Run("invalid command list is rejected", func(t *testing.T) {
		body := map[string]any{"commands": []map[string]any{{"op": "explode"}}}
		status, _ := env.do(t, http.MethodPost, "/api/schema/commands", body, headers)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("prompt is translated then applied", func(t *testing.T) {
		env.generator.SetFunc(func(context.Context, string, string) (string, error) {
			return `{"commands":[{"op":"set_style","path":"$.styles","value":{"theme":"light"}}]}`, nil
		})
		t.Cleanup(func() { env.generator.SetFunc(nil) })

		status, raw := env.do(t, http.MethodPost, "/api/schema/commands", map[string]any{"prompt": "light mode please"}, headers)
		require.Equal(t, http.StatusOK, status, string(raw))
		res := decode[models.CommandsResponse](t, raw)
		assert.Equal(t, "light", res.Schema.Styles.Theme)
		assert.Len(t, res.History, 3)
	})
}

func TestSaveSchema(t *testing.T) {
	env := setupTestServer(t)
	headers := map[string]string{"x-user-id": env.login(t, "ada").UserID}

	custom := design.Default()
	custom.Styles.Theme = "dark"
	custom.Layout.Columns = 2

	t.Run("valid schema is pushed onto history", func(t *testing.T) {
		status, raw := env.do(t, http.MethodPost, "/api/schema", map[string]any{"schema": custom}, headers)
		require.Equal(t, http.StatusOK, status, string(raw))

		res := decode[struct {
			OK     bool                        `json:"ok"`
			Record models.SchemaRecordResponse `json:"record"`
		}](t, raw)
		assert.True(t, res.OK)
		assert.Equal(t, custom, res.Record.Schema)
		assert.Len(t, res.Record.History, 2)
	})

	t.Run("client history replaces stored history", func(t *testing.T) {
		body := map[string]any{
			"schema":       custom,
			"history":      []design.Design{design.Default(), custom},
			"historyIndex": 0,
		}
		status, raw := env.do(t, http.MethodPost, "/api/schema", body, headers)
		require.Equal(t, http.StatusOK, status, string(raw))

		status, raw = env.do(t, http.MethodGet, "/api/schema", nil, headers)
		require.Equal(t, http.StatusOK, status)
		rec := decode[models.SchemaRecordResponse](t, raw)
		assert.Equal(t, 0, rec.HistoryIndex)
		assert.True(t, rec.CanRedo)
	})

	t.Run("invalid schema is rejected", func(t *testing.T) {
		bad := map[string]any{"schema": map[string]any{
			"styles":     map[string]any{"theme": "neon"},
			"layout":     map[string]any{"columns": 1, "order": []string{}},
			"components": []any{},
		}}
		status, raw := env.do(t, http.MethodPost, "/api/schema", bad, headers)
		assert.Equal(t, http.StatusBadRequest, status, string(raw))
	})

	t.Run("invalid history entry is rejected", func(t *testing.T) {
		body := map[string]any{"schema": custom, "history": []any{map[string]any{"styles": "nope"}}}
		status, _ := env.do(t, http.MethodPost, "/api/schema", body, headers)
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestStatelessApplyAndPresets(t *testing.T) {
	env := setupTestServer(t)
	headers := map[string]string{"x-user-id": env.login(t, "ada").UserID}

	t.Run("apply returns the new design and report", func(t *testing.T) {
		body := map[string]any{
			"schema": design.Default(),
			"commands": []map[string]any{
				{"op": "move_component", "from": "/components[id=kpi1]", "to": "/components[id=table1]", "position": "before"},
			},
		}
		status, raw := env.do(t, http.MethodPost, "/api/apply", body, headers)
		require.Equal(t, http.StatusOK, status, string(raw))

		res := decode[models.ApplyResponse](t, raw)
		assert.Equal(t, []string{"kpi1", "table1", "chart1"}, res.Schema.Layout.Order)
		assert.Equal(t, "1 of 1 changes applied", res.Summary)
	})

	t.Run("apply rejects an invalid design", func(t *testing.T) {
		body := map[string]any{"schema": map[string]any{"styles": 1}, "commands": []any{}}
		status, _ := env.do(t, http.MethodPost, "/api/apply", body, headers)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("presets are listed", func(t *testing.T) {
		status, raw := env.do(t, http.MethodGet, "/api/presets", nil, headers)
		require.Equal(t, http.StatusOK, status)
		assert.ElementsMatch(t,
			[]string{"spotify", "doordash", "uber", "netflix", "applemusic", "youtube"},
			decode[models.PresetsResponse](t, raw).Presets)
	})
}

func TestAIEndpoint(t *testing.T) {
	env := setupTestServer(t)
	headers := map[string]string{"x-user-id": env.login(t, "ada").UserID}
	body := map[string]any{"prompt": "make it look like uber", "schema": design.Default()}

	env.generator.SetFunc(func(context.Context, string, string) (string, error) {
		return "```json\n{\"commands\":[{\"op\":\"apply_preset\",\"value\":\"uber\"}]}\n```", nil
	})
	status, raw := env.do(t, http.MethodPost, "/api/ai", body, headers)
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.JSONEq(t, `{"commands":[{"op":"apply_preset","value":"uber"}]}`, string(raw))

	env.generator.SetFunc(func(context.Context, string, string) (string, error) {
		return "sorry, I can't", nil
	})
	status, raw = env.do(t, http.MethodPost, "/api/ai", body, headers)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Empty(t, decode[map[string]any](t, raw)["commands"])

	env.generator.SetFunc(func(context.Context, string, string) (string, error) {
		return "", translator.ErrTimeout
	})
	status, raw = env.do(t, http.MethodPost, "/api/ai", body, headers)
	assert.Equal(t, http.StatusGatewayTimeout, status)
	assert.Contains(t, decode[map[string]any](t, raw), "commands")

	// AIRateLimit is 3 per minute in the test config.
	status, raw = env.do(t, http.MethodPost, "/api/ai", body, headers)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, []any{}, decode[map[string]any](t, raw)["commands"])
}

func TestDataEndpoints(t *testing.T) {
	env := setupTestServer(t)
	headers := map[string]string{"x-user-id": env.login(t, "ada").UserID}

	t.Run("shows are flattened", func(t *testing.T) {
		status, raw := env.do(t, http.MethodGet, "/api/data", nil, headers)
		require.Equal(t, http.StatusOK, status, string(raw))

		shows := decode[[]showdata.Show](t, raw)
		require.Len(t, shows, 3)
		assert.Equal(t, "Under the Dome", shows[0].Title)
		require.NotNil(t, shows[0].Image)
		assert.Equal(t, "http://img/1.jpg", *shows[0].Image)
		assert.Nil(t, shows[1].Image)
		assert.Nil(t, shows[2].Rating)
	})

	t.Run("sort and limit", func(t *testing.T) {
		status, raw := env.do(t, http.MethodGet, "/api/data?sort=rating&limit=2&utm=x", nil, headers)
		require.Equal(t, http.StatusOK, status, string(raw))

		shows := decode[[]showdata.Show](t, raw)
		require.Len(t, shows, 2)
		assert.Equal(t, 2, shows[0].ID)
		assert.Equal(t, 1, shows[1].ID)
	})

	t.Run("bad query", func(t *testing.T) {
		status, _ := env.do(t, http.MethodGet, "/api/data?limit=zero", nil, headers)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("summary", func(t *testing.T) {
		status, raw := env.do(t, http.MethodGet, "/api/data/summary", nil, headers)
		require.Equal(t, http.StatusOK, status, string(raw))

		summary := decode[showdata.Summary](t, raw)
		assert.Equal(t, 3, summary.Total)
		assert.Equal(t, 3, summary.ByGenre["Drama"])
		assert.Equal(t, 1, summary.ByMonth["2013-06"])
	})

	t.Run("upstream failure", func(t *testing.T) {
		env.upFail.Store(true)
		t.Cleanup(func() { env.upFail.Store(false) })

		status, _ := env.do(t, http.MethodGet, "/api/data/summary", nil, headers)
		assert.Equal(t, http.StatusBadGateway, status)
	})
}
