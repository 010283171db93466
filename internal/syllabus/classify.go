package syllabus

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// timeNow is stubbed in tests; yearless dates resolve against it.
var timeNow = time.Now

const monthNames = `Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:tember)?|Sept|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?`

// Date patterns in fixed priority order. The first pattern whose match also
// parses wins; a match that fails to parse does not stop the scan.
var datePatterns = []struct {
	re       *regexp.Regexp
	yearless bool
}{
	{re: regexp.MustCompile(`(?i)\b(?:` + monthNames + `)\.?\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}\b`)},
	{re: regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`)},
	{re: regexp.MustCompile(`\b\d{1,2}-\d{1,2}-\d{4}\b`)},
	{re: regexp.MustCompile(`(?i)\b(?:` + monthNames + `)\.?\s+\d{1,2}(?:st|nd|rd|th)?\b`), yearless: true},
}

var ordinalSuffix = regexp.MustCompile(`(?i)(\d)(st|nd|rd|th)\b`)

// Classify turns one bullet line plus the section it came from into an
// Assignment. It always returns a record: when no date parses the line
// itself becomes the title and DueDate stays empty. Pure function.
func Classify(line, section string) Assignment {
	line = strings.TrimSpace(line)

	var dueDate, matched string
	for _, p := range datePatterns {
		m := p.re.FindString(line)
		if m == "" {
			continue
		}
		t, err := parseDate(m, p.yearless)
		if err != nil {
			continue
		}
		dueDate = t.Format("2006-01-02")
		matched = m
		break
	}

	title := line
	if matched != "" {
		title = cleanTitle(strings.Replace(line, matched, "", 1))
		if title == "" {
			title = line
		}
	}

	return Assignment{
		Title:       title,
		DueDate:     dueDate,
		Type:        classifyType(line, section),
		Description: line,
	}
}

// parseDate parses a matched date substring. Month names are cut down to
// their three-letter form so both "March 15, 2024" and "Mar 15 2024" land
// on the same layout. The calendar day is used as parsed, no timezone math.
func parseDate(s string, yearless bool) (time.Time, error) {
	s = ordinalSuffix.ReplaceAllString(s, "$1")
	s = strings.NewReplacer(",", " ", ".", " ").Replace(s)
	fields := strings.Fields(s)

	if strings.ContainsAny(s, "/-") && len(fields) == 1 {
		layout := "1/2/2006"
		if strings.Contains(s, "-") {
			layout = "1-2-2006"
		}
		return time.Parse(layout, fields[0])
	}

	if len(fields) < 2 {
		return time.Time{}, fmt.Errorf("not a date: %q", s)
	}
	month := fields[0]
	if len(month) > 3 {
		month = month[:3]
	}
	month = strings.ToUpper(month[:1]) + strings.ToLower(month[1:])

	if yearless {
		t, err := time.Parse("Jan 2", month+" "+fields[1])
		if err != nil {
			return time.Time{}, err
		}
		return time.Date(timeNow().Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	if len(fields) < 3 {
		return time.Time{}, fmt.Errorf("missing year: %q", s)
	}
	return time.Parse("Jan 2 2006", month+" "+fields[1]+" "+fields[2])
}

// cleanTitle collapses whitespace left behind by the removed date and strips
// the residual colon/hyphen punctuation that joined it to the title.
func cleanTitle(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.Trim(s, " \t:-–—")
}

// classifyType applies the first matching rule, testing both the section
// header and the line itself case-insensitively.
func classifyType(line, section string) AssignmentType {
	l := strings.ToLower(line)
	sec := strings.ToLower(section)
	has := func(subs ...string) bool {
		for _, sub := range subs {
			if strings.Contains(l, sub) || strings.Contains(sec, sub) {
				return true
			}
		}
		return false
	}
	switch {
	case has("test", "exam"):
		return TypeExam
	case has("assignment", "homework"):
		return TypeAssignment
	case has("reading"):
		return TypeReading
	case has("project"):
		return TypeProject
	case has("quiz"):
		return TypeQuiz
	default:
		return TypeOther
	}
}
