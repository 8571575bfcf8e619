package presenter

import "sort"

// DefaultFieldOrder lists record keys that are shown ahead of the rest.
// Keys not listed here follow in sorted order.
var DefaultFieldOrder = []string{
	"description",
	"decision",
	"risk",
	"speaker",
	"owner",
	"due_date",
	"priority",
	"status",
	"rationale",
	"impact",
	"mitigation",
}

// Field is one labelled value of a record.
type Field struct {
	Key   string
	Label string
	Value string
}

// Record is one entry of an object section. Number is 1-based for list
// entries and zero for a single object.
type Record struct {
	Number int
	Fields []Field
}

// Section is the display form of one tab.
type Section struct {
	Tab     string
	Kind    Kind
	Text    string
	Items   []string
	Records []Record
}

// Interpret builds the display form of value for tab. The value is only read.
func Interpret(tab string, value any, fieldOrder []string) Section {
	s := Section{Tab: tab, Kind: Classify(value)}

	switch s.Kind {
	case KindScalar:
		s.Text = displayString(value)
	case KindStringList:
		list := value.([]any)
		s.Items = make([]string, 0, len(list))
		for _, item := range list {
			s.Items = append(s.Items, displayString(item))
		}
	case KindObjectList:
		list := value.([]any)
		s.Records = make([]Record, 0, len(list))
		for i, item := range list {
			obj, _ := item.(map[string]any)
			s.Records = append(s.Records, Record{
				Number: i + 1,
				Fields: recordFields(obj, item, fieldOrder),
			})
		}
	case KindSingleObject:
		obj := asObject(value)
		s.Records = []Record{{Fields: recordFields(obj, value, fieldOrder)}}
	}
	return s
}

func asObject(v any) map[string]any {
	switch val := v.(type) {
	case map[string]any:
		return val
	case AnalysisResult:
		return val
	}
	return nil
}

// recordFields lists the non-empty fields of obj. A list element that is not
// an object is shown as a single "Value" field.
func recordFields(obj map[string]any, raw any, fieldOrder []string) []Field {
	if obj == nil {
		text := displayString(raw)
		if text == "" {
			return nil
		}
		return []Field{{Key: "value", Label: "Value", Value: text}}
	}

	fields := make([]Field, 0, len(obj))
	for _, key := range orderedKeys(obj, fieldOrder) {
		v := obj[key]
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		fields = append(fields, Field{Key: key, Label: FormatKey(key), Value: displayString(v)})
	}
	return fields
}

func orderedKeys(obj map[string]any, preferred []string) []string {
	keys := make([]string, 0, len(obj))
	seen := make(map[string]bool, len(obj))
	for _, k := range preferred {
		if _, ok := obj[k]; ok && !seen[k] {
			keys = append(keys, k)
			seen[k] = true
		}
	}

	rest := make([]string, 0, len(obj)-len(keys))
	for k := range obj {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}
