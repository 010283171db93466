package syllabus

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// pageSchema validates the shape of the model's JSON response before any
// values are trusted. Types only; every key is optional.
const pageSchemaJSON = `{
  "type": "object",
  "properties": {
    "course_name": {"type": "string"},
    "professor_name": {"type": "string"},
    "professor_email": {"type": "string"},
    "meeting_days": {"type": "string"},
    "office_hours": {"type": "string"},
    "plain_text": {"type": "string"},
    "assignments": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "title": {"type": "string"},
          "due_date": {"type": ["string", "null"]},
          "due_time": {"type": ["string", "null"]},
          "type": {"type": "string"},
          "description": {"type": "string"}
        }
      }
    }
  }
}`

var pageSchema = jsonschema.MustCompileString("page.json", pageSchemaJSON)

type pageJSON struct {
	CourseName     string           `json:"course_name"`
	ProfessorName  string           `json:"professor_name"`
	ProfessorEmail string           `json:"professor_email"`
	MeetingDays    string           `json:"meeting_days"`
	OfficeHours    string           `json:"office_hours"`
	Assignments    []assignmentJSON `json:"assignments"`
	PlainText      string           `json:"plain_text"`
}

type assignmentJSON struct {
	Title       string `json:"title"`
	DueDate     string `json:"due_date"`
	DueTime     string `json:"due_time"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

var codeFenceRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if m := codeFenceRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

// NormalizePage converts one page's raw model text into the canonical
// PageAnalysis. JSON is tried first; on failure the free-text path runs.
// When expectJSON is set (direct-text extraction asked the model for a JSON
// object) a failed parse is additionally flagged and the original text kept
// as a diagnostic. Never returns an error.
func NormalizePage(page int, text string, expectJSON bool) PageAnalysis {
	body := stripCodeFence(text)

	if strings.HasPrefix(body, "{") {
		if pa, ok := normalizeJSON(page, body); ok {
			return pa
		}
	}

	pa := normalizeFreeText(page, body)
	if expectJSON {
		pa.ParseFailed = true
		pa.RawResponse = text
	}
	return pa
}

func normalizeJSON(page int, body string) (PageAnalysis, bool) {
	var generic any
	if err := json.Unmarshal([]byte(body), &generic); err != nil {
		return PageAnalysis{}, false
	}
	if err := pageSchema.Validate(generic); err != nil {
		return PageAnalysis{}, false
	}

	var pj pageJSON
	if err := json.Unmarshal([]byte(body), &pj); err != nil {
		return PageAnalysis{}, false
	}

	pa := PageAnalysis{
		Page: page,
		Course: CourseFields{
			Name:        cleanField(pj.CourseName),
			Professor:   cleanField(pj.ProfessorName),
			Email:       cleanField(pj.ProfessorEmail),
			MeetingDays: cleanField(pj.MeetingDays),
			OfficeHours: cleanField(pj.OfficeHours),
		},
		PlainText: pj.PlainText,
	}
	for _, a := range pj.Assignments {
		pa.Assignments = append(pa.Assignments, Assignment{
			Title:       strings.TrimSpace(a.Title),
			DueDate:     strings.TrimSpace(a.DueDate),
			DueTime:     strings.TrimSpace(a.DueTime),
			Type:        normalizeType(a.Type),
			Description: a.Description,
		})
	}
	return pa, true
}

func normalizeFreeText(page int, body string) PageAnalysis {
	return PageAnalysis{
		Page: page,
		Course: CourseFields{
			Name:        cleanField(ExtractField(body, LabelCourseName)),
			Professor:   cleanField(ExtractField(body, LabelProfessorName)),
			Email:       cleanField(ExtractField(body, LabelProfessorEmail)),
			MeetingDays: cleanField(ExtractField(body, LabelMeetingDays)),
			OfficeHours: cleanField(ExtractField(body, LabelOfficeHours)),
		},
		Sections: SectionLines{
			TestDates:           ExtractSection(body, SectionTestDates),
			AssignmentDeadlines: ExtractSection(body, SectionAssignmentDeadlines),
			WeeklyReadings:      ExtractSection(body, SectionWeeklyReadings),
			MajorDeliverables:   ExtractSection(body, SectionMajorDeliverables),
			ImportantDates:      ExtractSection(body, SectionImportantDates),
		},
	}
}

// cleanField trims a scalar value and drops the placeholder sentinel.
func cleanField(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || isPlaceholder(v) {
		return ""
	}
	return v
}

var knownTypes = map[string]AssignmentType{
	"exam":       TypeExam,
	"assignment": TypeAssignment,
	"reading":    TypeReading,
	"project":    TypeProject,
	"quiz":       TypeQuiz,
	"other":      TypeOther,
}

func normalizeType(s string) AssignmentType {
	if t, ok := knownTypes[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t
	}
	return TypeOther
}
