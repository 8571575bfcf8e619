package formatter

import (
	"github.com/yildizm/MeetSum/internal/presenter"
)

// jsonFormatter writes the same payload as the copy and download actions
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

func (f *jsonFormatter) Format(result presenter.AnalysisResult) ([]byte, error) {
	out, err := presenter.MarshalResult(result)
	if err != nil {
		return nil, err
	}
	return []byte(out + "\n"), nil
}
