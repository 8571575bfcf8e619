package emoji

import "sync/atomic"

// emojiMap holds emoji and fallback mappings
var emojiMap = map[string][2]string{
	// [emoji, fallback]
	"error":   {"❌", "[ERR]"},
	"warning": {"⚠️", "[WRN]"},
	"info":    {"ℹ️", "[INF]"},
	"success": {"✅", "[OK]"},
	"help":    {"❓", "[?]"},
	"rocket":  {"🚀", "[>>]"},
	"upload":  {"📤", "[UP]"},
	"copy":    {"📋", "[CPY]"},
	"save":    {"💾", "[SAV]"},
	"clock":   {"⏳", "[...]"},
	"door":    {"🚪", "[EXIT]"},

	// Analysis sections
	"executive_summary": {"📝", "[SUM]"},
	"action_items":      {"✅", "[ACT]"},
	"decisions":         {"💡", "[DEC]"},
	"risks":             {"⚠️", "[RSK]"},
	"speaker_spotlight": {"🎤", "[SPK]"},
	"metadata":          {"📊", "[META]"},
	"section":           {"📄", "[SEC]"},
}

var emojiDisabled atomic.Bool

// SetEmojiDisabled sets the global emoji disabled state
func SetEmojiDisabled(disabled bool) {
	emojiDisabled.Store(disabled)
}

// IsEmojiDisabled returns the current emoji disabled state
func IsEmojiDisabled() bool {
	return emojiDisabled.Load()
}

// GetEmoji returns emoji or fallback based on no-emoji setting
func GetEmoji(key string) string {
	if mapping, exists := emojiMap[key]; exists {
		if emojiDisabled.Load() {
			return mapping[1]
		}
		return mapping[0]
	}
	return "[?]"
}

// ForSection returns the icon for an analysis section, falling back to a
// generic document icon for sections without their own.
func ForSection(name string) string {
	if _, ok := emojiMap[name]; ok {
		return GetEmoji(name)
	}
	return GetEmoji("section")
}
