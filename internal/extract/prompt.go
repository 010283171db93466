package extract

import (
	"fmt"
	"strings"
)

// TextPrompt instructs the model to return one JSON object for a syllabus
// whose text was extracted directly from the PDF. The keys mirror the
// canonical page shape the normalizer consumes.
const TextPrompt = `You are given the full text of a course syllabus. Extract the course details and every dated item into a single JSON object with exactly these keys:

- "course_name": official course name/number (string)
- "professor_name": instructor's name (string)
- "professor_email": instructor's email (string)
- "meeting_days": days and times the class meets (string)
- "office_hours": office hours and location (string)
- "assignments": array of objects, one per exam, assignment, reading, project or quiz, each with:
    - "title": short name of the item (string)
    - "due_date": "YYYY-MM-DD" or null if no date is given
    - "due_time": null
    - "type": one of "exam", "assignment", "reading", "project", "quiz", "other"
    - "description": the source line this came from (string)
- "plain_text": one-paragraph plain-language summary of the course (string)

Use the string "Not specified in document" for any field the syllabus does not mention. Respond with ONLY the JSON object, no other text.`

// VisionPrompt instructs the model to describe one rasterized syllabus page
// in the emoji-sectioned format the free-text extractors parse.
const VisionPrompt = `This image is one page of a course syllabus. Report everything you can read on it in EXACTLY this format, keeping the emoji section markers and bullet characters:

🎓 COURSE INFORMATION
• Course Name: <value>
• Professor Name: <value>
• Professor Email: <value>
• Meeting Days: <value>
• Office Hours: <value>

📝 TEST DATES
• <one test or exam per bullet, with its date>

📋 ASSIGNMENT DEADLINES
• <one assignment per bullet, with its due date>

📚 WEEKLY READINGS
• <one reading per bullet>

🎯 MAJOR DELIVERABLES
• <one project or paper per bullet>

📅 IMPORTANT DATES
• <any other dated item, one per bullet>

Write "Not specified in document" for any field or section this page does not show. Do not invent information that is not on the page.`

// BuildTextPrompt appends the extracted syllabus text to the JSON prompt.
func BuildTextPrompt(filename, text string) string {
	var sb strings.Builder
	sb.WriteString(TextPrompt)
	sb.WriteString("\n\n---\n")
	if filename != "" {
		sb.WriteString(fmt.Sprintf("File: %q\n", filename))
	}
	sb.WriteString("---\n")
	sb.WriteString(text)
	return sb.String()
}
