package syllabus

import (
	"regexp"
	"strings"
	"sync"
)

// Label patterns are tried in order: bare label, then the label preceded by
// the 📚 or 🎓 glyph the model sometimes prepends. The first capture wins.
var fieldPatternPrefixes = []string{``, `📚\s*`, `🎓\s*`}

var (
	fieldPatternMu    sync.Mutex
	fieldPatternCache = map[string][]*regexp.Regexp{}
)

func fieldPatterns(label string) []*regexp.Regexp {
	fieldPatternMu.Lock()
	defer fieldPatternMu.Unlock()
	if res, ok := fieldPatternCache[label]; ok {
		return res
	}
	lbl := strings.ReplaceAll(regexp.QuoteMeta(label), " ", `\s+`)
	res := make([]*regexp.Regexp, 0, len(fieldPatternPrefixes))
	for _, prefix := range fieldPatternPrefixes {
		res = append(res, regexp.MustCompile(`(?i)`+prefix+lbl+`\s*:\s*•?\s*([^`+"\n"+`•]+)`))
	}
	fieldPatternCache[label] = res
	return res
}

// ExtractField pulls a single labeled value (e.g. "Professor Name: Dr. X")
// out of free text. Matching is case-insensitive; the captured value is
// trimmed and any leading bullet marker stripped. Returns "" when the label
// is absent or yields only whitespace.
func ExtractField(text, label string) string {
	for _, re := range fieldPatterns(label) {
		m := re.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		v := strings.TrimSpace(m[1])
		v = strings.TrimSpace(strings.TrimPrefix(v, "•"))
		if v != "" {
			return v
		}
	}
	return ""
}

// isPlaceholder reports whether a value is the "not found" sentinel.
func isPlaceholder(v string) bool {
	return strings.Contains(strings.ToLower(v), strings.ToLower(Placeholder))
}
