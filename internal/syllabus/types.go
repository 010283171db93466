package syllabus

// Placeholder marks a field or list entry the model could not find in the
// source document. It must never end up in CourseFields or merged lists.
const Placeholder = "Not specified in document"

// DefaultCourseName is substituted when no course name could be extracted.
const DefaultCourseName = "Unknown Course"

// Section headers recognized in the model's free-text response.
const (
	SectionCourseInfo          = "COURSE INFORMATION"
	SectionTestDates           = "TEST DATES"
	SectionAssignmentDeadlines = "ASSIGNMENT DEADLINES"
	SectionWeeklyReadings      = "WEEKLY READINGS"
	SectionMajorDeliverables   = "MAJOR DELIVERABLES"
	SectionImportantDates      = "IMPORTANT DATES"
)

// Field labels recognized in the course information section.
const (
	LabelCourseName     = "Course Name"
	LabelProfessorName  = "Professor Name"
	LabelProfessorEmail = "Professor Email"
	LabelMeetingDays    = "Meeting Days"
	LabelOfficeHours    = "Office Hours"
)

// AssignmentType classifies what kind of deliverable an assignment is.
type AssignmentType string

const (
	TypeExam       AssignmentType = "exam"
	TypeAssignment AssignmentType = "assignment"
	TypeReading    AssignmentType = "reading"
	TypeProject    AssignmentType = "project"
	TypeQuiz       AssignmentType = "quiz"
	TypeOther      AssignmentType = "other"
)

// RawPageResult is one page's raw model response, before normalization.
type RawPageResult struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

// CourseFields holds the scalar course attributes. Empty string means the
// field was never found on any page.
type CourseFields struct {
	Name        string `json:"name"`
	Professor   string `json:"professor"`
	Email       string `json:"email"`
	MeetingDays string `json:"meetingDays"`
	OfficeHours string `json:"officeHours"`
}

// Assignment is a single dated (or undated) item extracted from a syllabus.
// DueDate is YYYY-MM-DD, empty when no date could be parsed. DueTime is
// carried for the wire format but never populated by extraction.
type Assignment struct {
	Title       string         `json:"title"`
	DueDate     string         `json:"due_date,omitempty"`
	DueTime     string         `json:"due_time,omitempty"`
	Type        AssignmentType `json:"type"`
	Description string         `json:"description"`
}

// SectionLines holds the raw bullet lines of each list section on one page.
type SectionLines struct {
	TestDates           []string
	AssignmentDeadlines []string
	WeeklyReadings      []string
	MajorDeliverables   []string
	ImportantDates      []string
}

// PageAnalysis is the canonical structured form of one page's model
// response. Both the JSON path and the free-text path normalize into it.
type PageAnalysis struct {
	Page        int
	Course      CourseFields
	Assignments []Assignment // populated on the JSON path; derived at merge time otherwise
	Sections    SectionLines
	PlainText   string
	RawResponse string // original model text, kept when structured parsing failed
	ParseFailed bool
}

// Summary is the merged, de-duplicated result for one document.
type Summary struct {
	Course              CourseFields `json:"course"`
	ExamDates           []string     `json:"examDates"`
	AssignmentDeadlines []string     `json:"assignmentDeadlines"`
	WeeklyReadings      []string     `json:"weeklyReadings"`
	MajorDeliverables   []string     `json:"majorDeliverables"`
	ImportantDates      []string     `json:"importantDates"`
	Assignments         []Assignment `json:"assignments"`
	PlainText           string       `json:"plain_text"`
}
