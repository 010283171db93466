package syllabus

import (
	"strings"
	"unicode/utf8"
)

// sectionGlyphs are the six emoji markers that introduce a section in the
// model's free-text response. Any of them terminates the current section.
var sectionGlyphs = []string{"🎓", "📝", "📋", "📚", "🎯", "📅"}

const bulletMarker = "•"

// minEntryLen is the shortest bullet content kept; anything shorter is
// treated as extraction noise.
const minEntryLen = 6

// ExtractSection returns the bullet items under the named section header,
// in order, stopping at the next section glyph or end of text.
//
// The scan is a two-state machine over lines: outside the section until a
// line mentions the header, then inside until a line carries a section
// glyph. Placeholder entries, echoes of the header itself, and entries
// shorter than six characters are filtered out.
func ExtractSection(text, header string) []string {
	var items []string
	inside := false

	for _, line := range strings.Split(text, "\n") {
		if !inside {
			if containsFold(line, header) {
				inside = true
			}
			continue
		}
		if hasSectionGlyph(line) {
			break
		}
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, bulletMarker) {
			continue
		}
		item := strings.TrimSpace(strings.TrimPrefix(trimmed, bulletMarker))
		if keepEntry(item, header) {
			items = append(items, item)
		}
	}
	return items
}

func keepEntry(item, header string) bool {
	if item == "" || isPlaceholder(item) {
		return false
	}
	if strings.EqualFold(item, header) {
		return false
	}
	return utf8.RuneCountInString(item) >= minEntryLen
}

func hasSectionGlyph(line string) bool {
	for _, g := range sectionGlyphs {
		if strings.Contains(line, g) {
			return true
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
