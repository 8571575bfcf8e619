package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yildizm/MeetSum/internal/presenter"
)

func sampleResult(t *testing.T) presenter.AnalysisResult {
	t.Helper()
	v, err := presenter.Decode([]byte(`{"minutes": {
		"executive_summary": "The team agreed to ship <v2> on Friday.",
		"action_items": [
			{"owner": "Sam", "task": "Send notes", "due": null},
			{"owner": "Ana", "task": "Book the room"}
		],
		"decisions": ["Ship on Friday", "Freeze scope"],
		"risks": [],
		"metadata": {"duration_minutes": 45, "participants": ["Ana", "Sam"]},
		"next_steps": "Review next week"
	}}`))
	require.NoError(t, err)
	return presenter.Unwrap(v)
}

func TestNew(t *testing.T) {
	for _, format := range []string{"text", "json", "markdown", "md", "html", ""} {
		f, err := New(format, DefaultOptions())
		require.NoError(t, err, format)
		assert.NotNil(t, f)
	}

	_, err := New("csv", DefaultOptions())
	assert.EqualError(t, err, "unsupported output format: csv (must be one of: text, json, markdown, html)")
}

func TestJSONFormatter(t *testing.T) {
	result := sampleResult(t)

	out, err := NewJSON().Format(result)
	require.NoError(t, err)

	expected, err := presenter.MarshalResult(result)
	require.NoError(t, err)
	assert.Equal(t, expected+"\n", string(out))

	back, err := presenter.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, map[string]any(result), back)
}

func TestTextFormatter(t *testing.T) {
	out, err := NewText(Options{Color: false, Emoji: false}).Format(sampleResult(t))
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, "║ Meeting Analysis ║")
	assert.Contains(t, text, "The team agreed to ship <v2> on Friday.")
	assert.Contains(t, text, "Item 1")
	assert.Contains(t, text, "Send notes")
	assert.Contains(t, text, "Freeze scope")
	assert.Contains(t, text, "No risks found in the transcript")
	assert.Contains(t, text, "Ana, Sam")
	assert.NotContains(t, text, "Due")

	// configured order first, then extras
	assert.Less(t, strings.Index(text, "Executive Summary"), strings.Index(text, "Action Items"))
	assert.Less(t, strings.Index(text, "Metadata"), strings.Index(text, "Next Steps"))
}

func TestTextFormatter_CustomOrder(t *testing.T) {
	out, err := NewText(Options{TabOrder: []string{"decisions"}}).Format(sampleResult(t))
	require.NoError(t, err)
	text := string(out)

	assert.Less(t, strings.Index(text, "Decisions"), strings.Index(text, "Action Items"))
	assert.NotContains(t, text, "Speaker Spotlight")
}

func TestMarkdownFormatter(t *testing.T) {
	out, err := NewMarkdown(DefaultOptions()).Format(sampleResult(t))
	require.NoError(t, err)
	md := string(out)

	assert.True(t, strings.HasPrefix(md, "# Meeting Analysis\n"))
	assert.Contains(t, md, "- [Action Items](#action-items)")
	assert.Contains(t, md, "## Executive Summary")
	assert.Contains(t, md, "**Owner:** Sam")
	assert.Contains(t, md, "### Item 2")
	assert.Contains(t, md, "Freeze scope")
	assert.Contains(t, md, "_No risks found in the transcript_")
	assert.Contains(t, md, "## Next Steps")
	assert.NotContains(t, md, "<ul>")
}

func TestMarkdownFormatter_EscapesSectionNames(t *testing.T) {
	result := presenter.AnalysisResult{
		"<img src=x onerror=alert(1)>": []any{},
		"notes":                        "<img src=x onerror=alert(2)>",
	}

	out, err := NewMarkdown(Options{TabOrder: []string{"notes"}}).Format(result)
	require.NoError(t, err)
	md := string(out)

	assert.NotContains(t, md, "<img")
	assert.Contains(t, md, "## &lt;img Src=x Onerror=alert(1)&gt;")
	assert.Contains(t, md, "_No &lt;img src=x onerror=alert(1)&gt; found in the transcript_")
	assert.Contains(t, md, "&lt;img src=x onerror=alert(2)&gt;")
}

func TestFormatters_FieldOrder(t *testing.T) {
	result := presenter.AnalysisResult{
		"action_items": []any{map[string]any{"owner": "Okoro", "task": "Ship"}},
	}
	opts := Options{TabOrder: []string{"action_items"}, FieldOrder: []string{"task", "owner"}}

	for _, format := range []string{"text", "markdown", "html"} {
		t.Run(format, func(t *testing.T) {
			f, err := New(format, opts)
			require.NoError(t, err)
			out, err := f.Format(result)
			require.NoError(t, err)
			text := string(out)

			task, owner := strings.Index(text, "Ship"), strings.Index(text, "Okoro")
			require.True(t, task >= 0 && owner >= 0)
			assert.Less(t, task, owner)
		})
	}
}

func TestTextFormatter_StripsControlSequences(t *testing.T) {
	result := presenter.AnalysisResult{
		"executive_summary": "All \x1b[31mred\x1b[0m\x07 \x1b]52;c;ZXZpbA==\x07done",
		"decisions":         []any{"keep\rgoing"},
	}

	out, err := NewText(Options{}).Format(result)
	require.NoError(t, err)
	text := string(out)

	assert.NotContains(t, text, "\x1b")
	assert.NotContains(t, text, "\x07")
	assert.NotContains(t, text, "\r")
	assert.Contains(t, text, "All red done")
	assert.Contains(t, text, "keepgoing")
}

func TestHTMLFormatter(t *testing.T) {
	out, err := NewHTML(DefaultOptions()).Format(sampleResult(t))
	require.NoError(t, err)
	page := string(out)

	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, `<section id="action_items">`)
	assert.Contains(t, page, `class="content-item-number">2<`)
	assert.Contains(t, page, "ship &lt;v2&gt; on Friday")
	assert.NotContains(t, page, "<v2>")
	assert.Contains(t, page, "No risks found in the transcript")
}

func TestFormatters_EmptyResult(t *testing.T) {
	for _, format := range []string{"text", "markdown", "html"} {
		t.Run(format, func(t *testing.T) {
			f, err := New(format, DefaultOptions())
			require.NoError(t, err)
			out, err := f.Format(presenter.AnalysisResult{})
			require.NoError(t, err)
			assert.Contains(t, string(out), "No executive summary found in the transcript")
		})
	}

	out, err := NewJSON().Format(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(out))
}

func TestWrap(t *testing.T) {
	assert.Equal(t, "  one two\n  three", wrap("one two three", 10, "  "))
	assert.Equal(t, "  a\n  \n  b", wrap("a\n\nb", 10, "  "))
}

func TestAnchor(t *testing.T) {
	assert.Equal(t, "speaker-spotlight", anchor("Speaker Spotlight"))
	assert.Equal(t, "q3-plan", anchor("Q3 Plan!"))
}
