package presenter

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"executive_summary", "Executive Summary"},
		{"next_steps", "Next Steps"},
		{"due_date", "Due Date"},
		{"owner", "Owner"},
		{"already Spaced", "Already Spaced"},
		{"über_cool", "Über Cool"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatKey(tt.in))
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  Kind
	}{
		{"nil", nil, KindEmpty},
		{"empty string", "", KindEmpty},
		{"empty list", []any{}, KindEmpty},
		{"empty object", map[string]any{}, KindEmpty},
		{"string", "hello", KindScalar},
		{"number", json.Number("3"), KindScalar},
		{"bool", false, KindScalar},
		{"string list", []any{"a", "b"}, KindStringList},
		{"mixed list with scalar first", []any{"a", map[string]any{"x": 1}}, KindStringList},
		{"object list", []any{map[string]any{"x": "y"}}, KindObjectList},
		{"object", map[string]any{"x": "y"}, KindSingleObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.value))
		})
	}
}

func TestHTMLRenderer_EscapesBackendText(t *testing.T) {
	script := "<script>alert(1)</script>"
	result := AnalysisResult{
		"scalar":  script,
		"list":    []any{script},
		"records": []any{map[string]any{"owner": script}},
		"single":  map[string]any{script: "value"},
	}

	for _, tab := range []string{"scalar", "list", "records", "single"} {
		t.Run(tab, func(t *testing.T) {
			out := Render(HTMLRenderer{}, result, tab)
			assert.NotContains(t, out, "<script>")
			assert.Contains(t, out, "&lt;script&gt;")
		})
	}
}

func TestHTMLRenderer_EmptyStateIsEscaped(t *testing.T) {
	out := Render(HTMLRenderer{}, AnalysisResult{}, "<img src=x>")
	assert.NotContains(t, out, "<img")
	assert.Contains(t, out, "No &lt;img src=x&gt; found in the transcript")
}

func TestHTMLRenderer_SingleObjectHasNoNumber(t *testing.T) {
	result := AnalysisResult{"metadata": map[string]any{
		"duration_minutes": json.Number("45"),
		"location":         "",
		"participants":     []any{"Ana", "Sam"},
	}}

	out := Render(HTMLRenderer{}, result, "metadata")

	assert.NotContains(t, out, "content-item-number")
	assert.Contains(t, out, "<strong>Duration Minutes:</strong> 45")
	assert.Contains(t, out, "<strong>Participants:</strong> Ana, Sam")
	assert.NotContains(t, out, "Location")
}

func TestHTMLRenderer_NumberedRecords(t *testing.T) {
	result := AnalysisResult{"decisions": []any{
		map[string]any{"decision": "Ship it"},
		map[string]any{"decision": "Hire"},
	}}

	out := Render(HTMLRenderer{}, result, "decisions")

	assert.Equal(t, 2, strings.Count(out, `class="content-item-title">Item<`))
	assert.Contains(t, out, `content-item-number">1<`)
	assert.Contains(t, out, `content-item-number">2<`)
	assert.Less(t, strings.Index(out, "Ship it"), strings.Index(out, "Hire"))
}

func TestRender_Deterministic(t *testing.T) {
	result := AnalysisResult{"action_items": []any{map[string]any{
		"zeta": "z", "alpha": "a", "owner": "Sam", "description": "Write", "mid": "m",
	}}}

	first := Render(TextRenderer{}, result, "action_items")
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Render(TextRenderer{}, result, "action_items"))
	}
	assert.Equal(t, "1. Item\n   Description: Write\n   Owner: Sam\n   Alpha: a\n   Mid: m\n   Zeta: z", first)
}

func TestTextRenderer(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"empty", nil, "No key points found in the transcript"},
		{"scalar keeps markup literal", "<b>x</b> & y", "<b>x</b> & y"},
		{"list", []any{"one", "two"}, "• one\n• two"},
		{"single object", map[string]any{"speaker": "Ana", "talk_time": json.Number("12.5")}, "Speaker: Ana\nTalk Time: 12.5"},
		{
			"records",
			[]any{map[string]any{"owner": "Sam"}, map[string]any{"owner": "Ana"}},
			"1. Item\n   Owner: Sam\n\n2. Item\n   Owner: Ana",
		},
		{"list element not an object", []any{map[string]any{"owner": "Sam"}, "loose"}, "1. Item\n   Owner: Sam\n\n2. Item\n   Value: loose"},
		{"escape sequences removed", "\x1b[2J\x1b[31mred\x1b[0m\x07 \x1b]0;title\x07ok", "red ok"},
		{"control characters removed", []any{"a\rb", "c\x08d\u009be"}, "• ab\n• cde"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Render(TextRenderer{}, AnalysisResult{"key_points": tt.value}, "key_points")
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestInterpret_NestedValues(t *testing.T) {
	value := []any{map[string]any{
		"tags":    []any{"a", json.Number("1"), true},
		"nested":  map[string]any{"k": "<v>"},
		"matrix":  []any{[]any{"x"}},
		"partial": []any{"a", nil},
	}}

	s := Interpret("items", value, nil)

	got := map[string]string{}
	for _, f := range s.Records[0].Fields {
		got[f.Key] = f.Value
	}
	assert.Equal(t, "a, 1, true", got["tags"])
	assert.Equal(t, `{"k":"<v>"}`, got["nested"])
	assert.Equal(t, `[["x"]]`, got["matrix"])
	assert.Equal(t, `["a",null]`, got["partial"])
}

func TestEmptyMessage(t *testing.T) {
	assert.Equal(t, "No speaker spotlight found in the transcript", EmptyMessage("speaker_spotlight"))
	assert.Equal(t, "No data found in the transcript", EmptyMessage(""))
}

func TestStripControl(t *testing.T) {
	assert.Equal(t, "line one\n\tline two", StripControl("line one\n\tline two"))
	assert.Equal(t, "plain", StripControl("\x1b]52;c;ZXZpbA==\x07plain\x1b[0m"))
	assert.Equal(t, "<b>kept</b>", StripControl("<b>kept</b>"))
}
