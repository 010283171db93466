package syllabus

import (
	"fmt"
	"strings"
)

// Render produces the human-readable summary blob from a fixed template.
// Empty fields and lists render as the placeholder sentinel. The output is
// itself parseable by ExtractField and ExtractSection, so a rendered
// summary round-trips to the same course fields and list contents.
func Render(s Summary) string {
	var b strings.Builder

	b.WriteString("📚 SYLLABUS SUMMARY\n\n")

	fmt.Fprintf(&b, "🎓 %s\n", SectionCourseInfo)
	writeField(&b, LabelCourseName, s.Course.Name)
	writeField(&b, LabelProfessorName, s.Course.Professor)
	writeField(&b, LabelProfessorEmail, s.Course.Email)
	writeField(&b, LabelMeetingDays, s.Course.MeetingDays)
	writeField(&b, LabelOfficeHours, s.Course.OfficeHours)

	writeSection(&b, "📝", SectionTestDates, s.ExamDates)
	writeSection(&b, "📋", SectionAssignmentDeadlines, s.AssignmentDeadlines)
	writeSection(&b, "📚", SectionWeeklyReadings, s.WeeklyReadings)
	writeSection(&b, "🎯", SectionMajorDeliverables, s.MajorDeliverables)
	writeSection(&b, "📅", SectionImportantDates, s.ImportantDates)

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		value = Placeholder
	}
	fmt.Fprintf(b, "%s %s: %s\n", bulletMarker, label, value)
}

func writeSection(b *strings.Builder, glyph, header string, items []string) {
	fmt.Fprintf(b, "\n%s %s\n", glyph, header)
	if len(items) == 0 {
		fmt.Fprintf(b, "%s %s\n", bulletMarker, Placeholder)
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "%s %s\n", bulletMarker, item)
	}
}
