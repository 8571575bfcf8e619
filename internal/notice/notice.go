// Package notice builds the user-visible messages shown by both surfaces.
package notice

import (
	"errors"
	"fmt"
	"html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/yildizm/MeetSum/internal/client"
	"github.com/yildizm/MeetSum/internal/presenter"
)

// Level is the severity of a notice.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Export actions named in ExportWithNoData.
const (
	ActionCopy     = "copy"
	ActionDownload = "download"
)

var (
	markupPolicy = bluemonday.UGCPolicy()
	textPolicy   = bluemonday.StrictPolicy()
	lineBreaks   = strings.NewReplacer("<br>", "\n", "<br/>", "\n", "<br />", "\n")
)

// Notice is one message for the user. Message may carry simple markup.
type Notice struct {
	Level   Level
	Message string
}

// HTML returns the message with unsafe markup removed.
func (n Notice) HTML() template.HTML {
	return template.HTML(markupPolicy.Sanitize(n.Message)) // #nosec G203 -- sanitized above
}

// Text returns the message with all markup removed, for terminals.
func (n Notice) Text() string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(lineBreaks.Replace(n.Message))))
}

// IsError reports whether the notice describes a failure.
func (n Notice) IsError() bool {
	return n.Level == LevelError
}

func (n Notice) String() string {
	return fmt.Sprintf("%s: %s", n.Level, n.Text())
}

// Info creates an informational notice.
func Info(msg string) Notice { return Notice{Level: LevelInfo, Message: msg} }

// Success creates a success notice.
func Success(msg string) Notice { return Notice{Level: LevelSuccess, Message: msg} }

// Failure creates an error notice.
func Failure(msg string) Notice { return Notice{Level: LevelError, Message: msg} }

// TransportFailure describes a failed upload or analysis. Backend supplied
// reasons are passed through.
func TransportFailure(err error) Notice {
	var te *client.TransportError
	if errors.As(err, &te) && te.Type == client.ErrTypeValidation {
		return Failure(te.Message)
	}
	return Failure("Error: " + client.UserMessage(err))
}

// ExportWithNoData is shown when copy or download is asked for with no result.
func ExportWithNoData(action string) Notice {
	return Failure("No results to " + action)
}

// ClipboardUnavailable is shown when the clipboard write failed.
func ClipboardUnavailable(error) Notice {
	return Failure("Failed to copy to clipboard")
}

// Copied confirms a clipboard write.
func Copied() Notice {
	return Success("Results copied to clipboard")
}

// Downloaded confirms a written export file.
func Downloaded(name string) Notice {
	return Success("Downloaded as " + name)
}

// DownloadFailed is shown when the export file could not be written.
func DownloadFailed(err error) Notice {
	return Failure("Failed to save results: " + err.Error())
}

// Busy is shown when an upload is attempted while one is in flight.
func Busy() Notice {
	return Info("An analysis is already in progress")
}

// ExportFailure maps an export error to the matching notice.
func ExportFailure(action string, err error) Notice {
	if errors.Is(err, presenter.ErrNothingToExport) {
		return ExportWithNoData(action)
	}
	return Failure("Failed to export results: " + err.Error())
}

// Help explains the workflow.
func Help() Notice {
	return Info("<strong>How to use:</strong><br>" +
		"1. Choose a meeting transcript (.txt)<br>" +
		"2. Start the analysis and wait for processing<br>" +
		"3. Browse the results in the tabs<br>" +
		"4. Copy or download the results as JSON")
}
