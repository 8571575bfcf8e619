package notice

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yildizm/MeetSum/internal/client"
	"github.com/yildizm/MeetSum/internal/presenter"
)

func TestTransportFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"status with backend reason", client.NewStatusError(400, "Only .txt files are supported"), "Error: Only .txt files are supported"},
		{"status without reason", client.NewStatusError(500, ""), "Error: Analysis failed"},
		{"validation has no prefix", client.NewValidationError("file", "Please select a .txt file"), "Please select a .txt file"},
		{"wrapped", fmt.Errorf("upload: %w", client.NewTransportError(client.ErrTypeNetwork, "Could not reach the analysis backend")), "Error: Could not reach the analysis backend"},
		{"plain error", errors.New("boom"), "Error: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := TransportFailure(tt.err)
			assert.Equal(t, LevelError, n.Level)
			assert.Equal(t, tt.want, n.Message)
		})
	}
}

func TestExportNotices(t *testing.T) {
	assert.Equal(t, "No results to copy", ExportWithNoData(ActionCopy).Message)
	assert.Equal(t, "No results to download", ExportWithNoData(ActionDownload).Message)
	assert.Equal(t, "No results to download", ExportFailure(ActionDownload, presenter.ErrNothingToExport).Message)
	assert.Equal(t, "Failed to copy to clipboard", ClipboardUnavailable(errors.New("no tty")).Message)
	assert.Equal(t, Notice{Level: LevelSuccess, Message: "Results copied to clipboard"}, Copied())
	assert.Equal(t, "Downloaded as meeting-analysis-1.json", Downloaded("meeting-analysis-1.json").Message)
}

func TestNotice_HTMLSanitizes(t *testing.T) {
	n := TransportFailure(client.NewStatusError(400, `<script>alert(1)</script><b>bad</b> file`))

	out := string(n.HTML())
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "<b>bad</b> file")
}

func TestNotice_TextStripsMarkup(t *testing.T) {
	text := Help().Text()

	assert.NotContains(t, text, "<strong>")
	assert.Contains(t, text, "How to use:\n1. Choose a meeting transcript (.txt)")
	assert.Contains(t, text, "4. Copy or download the results as JSON")

	amp := Failure("Tom & Jerry <i>said</i>").Text()
	assert.Equal(t, "Tom & Jerry said", amp)
}

func TestNotice_String(t *testing.T) {
	assert.Equal(t, "success: Results copied to clipboard", Copied().String())
	assert.True(t, Failure("x").IsError())
	assert.False(t, Busy().IsError())
}
