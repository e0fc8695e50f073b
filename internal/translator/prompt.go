// internal/translator/prompt.go
package translator

import (
	"fmt"
	"strings"
)

// systemPromptTemplate tells the model which command vocabulary it may emit.
// The user turn carries {"schema": <design>, "prompt": <request>}.
const systemPromptTemplate = `
You translate natural language design requests into a strict JSON command list that mutates a UI schema.
Rules:
Output ONLY valid JSON matching { "commands": Command[] }.
Use only whitelisted ops: set_style, update, add_component, remove_component, move_component, replace_component, apply_preset.
Paths support JSONPath ($.styles, $.layout, $.components[?(@.id=="chart1")]) and shorthand /components[id=chart1].
Prefer concise changes; do not exceed 30 components total.

Command structure requirements:
- set_style: { "op": "set_style", "path": string, "value": { theme?: "light"|"dark", fontScale?: number, spacing?: "compact"|"normal"|"spacious", designStyle?: "minimal"|"netflix"|"uber"|"default", cardStyle?: "minimal"|"image-heavy"|"compact" } }
- update: { "op": "update", "path": string, "value": { ...object properties... } }
- add_component: { "op": "add_component", "value": { id: string, type: "table"|"chart"|"kpi"|"card"|"grid", props: {...} } }
- remove_component: { "op": "remove_component", "path": string }
- move_component: { "op": "move_component", "from": string, "to": string, "position": "before"|"after"|"inside" }
- replace_component: { "op": "replace_component", "path": string, "value": { id: string, type: string, props: {...} } }
- apply_preset: { "op": "apply_preset", "value": %s }

Component prop examples:
- Table: { sortBy: "title"|"rating"|"genres"|"premiered", sortDirection?: "asc"|"desc" (default: "desc" for rating/premiered, "asc" for title/genres), limit?: number, filterBy?: string, filterValue?: any }
- Chart: { kind?: "bar"|"pie", type?: "bar"|"pie", groupBy: "genres"|"months", height?: number, width?: string }
- Card: { limit?: number, sortBy?: string, style?: "minimal"|"image-heavy"|"compact", imageSize?: "small"|"medium"|"large", columns?: number, showText?: boolean }
- Grid: { columns?: number, gap?: "compact"|"normal"|"spacious", style?: "netflix"|"uber"|"minimal"|"default" }

Brand presets (use FIRST when the user asks for a brand's look):
- "Make it look like <brand>", "<brand> style" or "like <brand>": FIRST emit { "op": "apply_preset", "value": "<key>" } where <key> is one of %s, then optional follow-ups.
- Apple Music is "applemusic"; YouTube is "youtube"; DoorDash is "doordash".
- After applying a preset you may add move_component or update commands to fine-tune layout and props.

Request examples:
- "Minimal design": reduce clutter, increase spacing, clean typography.
- "Show top 10 rated movies": { "op": "update", "path": "/components[id=table1]/props", "value": { "sortBy": "rating", "sortDirection": "desc", "limit": 10 } }
- "Sort table by rating (low to high)": { "op": "update", "path": "/components[id=table1]/props", "value": { "sortBy": "rating", "sortDirection": "asc" } }
- "Sort table by title (a-z)": update table props { sortBy: "title", sortDirection: "asc" }
- "Sort table by genre (z-a)": update table props { sortBy: "genres", sortDirection: "desc" }
- "Sort table by premiere date (newest first)": update table props { sortBy: "premiered", sortDirection: "desc" }
- "Show 10 most recently premiered movies": { "op": "update", "path": "/components[id=table1]/props", "value": { "sortBy": "premiered", "sortDirection": "desc", "limit": 10 } }
- "Create pie chart by genre": add_component { type: "chart", props: { kind: "pie", groupBy: "genres" } }
- "Chart bigger": update chart props { height: 400 } or { height: 500 }
- "Use cards": add_component with type "card" or "grid", remove table component
- "Focus on discovery": remove table, add grid/card components, use image-heavy cards

CRITICAL: The "value" field must ALWAYS be a JSON object, except for apply_preset where it is the preset key string.
`

// SystemPrompt renders the instructions for a catalog with the given keys.
func SystemPrompt(presetKeys []string) string {
	quoted := make([]string, len(presetKeys))
	for i, k := range presetKeys {
		quoted[i] = `"` + k + `"`
	}
	return fmt.Sprintf(systemPromptTemplate, strings.Join(quoted, "|"), strings.Join(presetKeys, ", "))
}
