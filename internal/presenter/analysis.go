package presenter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// WrapperKey is the envelope key the backend nests the sections under.
const WrapperKey = "minutes"

// AnalysisResult maps a section name to its decoded JSON value.
type AnalysisResult map[string]any

// Kind is the display interpretation of a section value.
type Kind int

const (
	KindEmpty Kind = iota
	KindScalar
	KindStringList
	KindObjectList
	KindSingleObject
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindStringList:
		return "string_list"
	case KindObjectList:
		return "object_list"
	case KindSingleObject:
		return "single_object"
	default:
		return "empty"
	}
}

// Classify picks the Kind of a value from its JSON shape alone.
func Classify(v any) Kind {
	switch val := v.(type) {
	case nil:
		return KindEmpty
	case string:
		if val == "" {
			return KindEmpty
		}
		return KindScalar
	case []any:
		if len(val) == 0 {
			return KindEmpty
		}
		if _, ok := val[0].(map[string]any); ok {
			return KindObjectList
		}
		return KindStringList
	case map[string]any:
		if len(val) == 0 {
			return KindEmpty
		}
		return KindSingleObject
	case AnalysisResult:
		return Classify(map[string]any(val))
	default:
		return KindScalar
	}
}

// Decode parses a JSON document keeping numbers as json.Number.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode analysis: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("failed to decode analysis: unexpected data after JSON value")
	}
	return v, nil
}

// Unwrap turns a decoded payload into an AnalysisResult. A "minutes" key
// holding an object is unwrapped once; any other object is taken as the
// section mapping itself. Non-object payloads produce an empty result.
func Unwrap(value any) AnalysisResult {
	var obj map[string]any
	switch v := value.(type) {
	case AnalysisResult:
		obj = v
	case map[string]any:
		obj = v
	default:
		return AnalysisResult{}
	}

	if inner, ok := obj[WrapperKey].(map[string]any); ok {
		obj = inner
	}

	out := make(AnalysisResult, len(obj))
	for k, v := range obj {
		out[k] = cloneValue(v)
	}
	return out
}

// Clone returns a deep copy of the result.
func (r AnalysisResult) Clone() AnalysisResult {
	if r == nil {
		return nil
	}
	out := make(AnalysisResult, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

// Keys returns the section names in sorted order.
func (r AnalysisResult) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return val
	}
}

// MarshalResult encodes a result as two-space indented JSON. Map keys are
// emitted sorted and markup characters are left unescaped.
func MarshalResult(r AnalysisResult) (string, error) {
	if r == nil {
		r = AnalysisResult{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]any(r)); err != nil {
		return "", fmt.Errorf("failed to encode analysis: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// FormatKey turns a snake_case key into Title Case ("due_date" -> "Due Date").
func FormatKey(key string) string {
	words := strings.Split(strings.ReplaceAll(key, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// EmptyMessage is the empty-state text for a tab.
func EmptyMessage(tab string) string {
	name := strings.TrimSpace(strings.ReplaceAll(tab, "_", " "))
	if name == "" {
		name = "data"
	}
	return "No " + name + " found in the transcript"
}

// displayString is the plain text form of a scalar or nested value.
func displayString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []any:
		if allScalars(val) {
			parts := make([]string, len(val))
			for i, item := range val {
				parts[i] = displayString(item)
			}
			return strings.Join(parts, ", ")
		}
		return compactJSON(val)
	case map[string]any:
		return compactJSON(val)
	default:
		return fmt.Sprint(val)
	}
}

func allScalars(items []any) bool {
	for _, item := range items {
		switch item.(type) {
		case map[string]any, []any, nil:
			return false
		}
	}
	return true
}

func compactJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
