package syllabus

import (
	"reflect"
	"testing"
	"time"
)

func TestClassify_MonthNameDate(t *testing.T) {
	a := Classify("Midterm Exam March 15, 2024", SectionTestDates)
	if a.DueDate != "2024-03-15" {
		t.Errorf("expected due date 2024-03-15, got %q", a.DueDate)
	}
	if a.Title != "Midterm Exam" {
		t.Errorf("expected title %q, got %q", "Midterm Exam", a.Title)
	}
	if a.Type != TypeExam {
		t.Errorf("expected type exam, got %q", a.Type)
	}
}

func TestClassify_DatePrecedence(t *testing.T) {
	// Month-name dates outrank numeric ones regardless of position.
	a := Classify("Midterm March 15, 2024 (reschedule 3/20/2024)", SectionTestDates)
	if a.DueDate != "2024-03-15" {
		t.Errorf("expected due date 2024-03-15, got %q", a.DueDate)
	}
}

func TestClassify_SlashDate(t *testing.T) {
	a := Classify("Problem set 4 due 10/8/2024", SectionAssignmentDeadlines)
	if a.DueDate != "2024-10-08" {
		t.Errorf("expected due date 2024-10-08, got %q", a.DueDate)
	}
	if a.Title != "Problem set 4 due" {
		t.Errorf("expected title %q, got %q", "Problem set 4 due", a.Title)
	}
}

func TestClassify_HyphenDate(t *testing.T) {
	a := Classify("Lab report 12-6-2024", SectionAssignmentDeadlines)
	if a.DueDate != "2024-12-06" {
		t.Errorf("expected due date 2024-12-06, got %q", a.DueDate)
	}
}

func TestClassify_YearlessDate(t *testing.T) {
	restore := timeNow
	timeNow = func() time.Time { return time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC) }
	defer func() { timeNow = restore }()

	a := Classify("Reading response due October 3", SectionWeeklyReadings)
	if a.DueDate != "2024-10-03" {
		t.Errorf("expected due date 2024-10-03, got %q", a.DueDate)
	}
}

func TestClassify_UnparseableDateKeepsRecord(t *testing.T) {
	// The numeric pattern matches but the date itself is impossible; the
	// record survives with no due date.
	a := Classify("Retreat 13/45/2024 location TBD", SectionImportantDates)
	if a.DueDate != "" {
		t.Errorf("expected empty due date, got %q", a.DueDate)
	}
	if a.Description != "Retreat 13/45/2024 location TBD" {
		t.Errorf("description should keep the original line, got %q", a.Description)
	}
}

func TestClassify_NoDate(t *testing.T) {
	a := Classify("Week 3: Chapter 5-6", SectionWeeklyReadings)
	if a.DueDate != "" {
		t.Errorf("expected empty due date, got %q", a.DueDate)
	}
	if a.Title != "Week 3: Chapter 5-6" {
		t.Errorf("expected full line as title, got %q", a.Title)
	}
}

func TestClassify_TrailingColonStripped(t *testing.T) {
	a := Classify("Homework 2 Due: October 8, 2024", SectionAssignmentDeadlines)
	if a.DueDate != "2024-10-08" {
		t.Errorf("expected due date 2024-10-08, got %q", a.DueDate)
	}
	if a.Title != "Homework 2 Due" {
		t.Errorf("expected title %q, got %q", "Homework 2 Due", a.Title)
	}
}

func TestClassify_TitleFallsBackToLine(t *testing.T) {
	a := Classify("March 15, 2024", SectionImportantDates)
	if a.Title != "March 15, 2024" {
		t.Errorf("expected title to fall back to the line, got %q", a.Title)
	}
	if a.DueDate != "2024-03-15" {
		t.Errorf("expected due date 2024-03-15, got %q", a.DueDate)
	}
}

func TestClassify_Types(t *testing.T) {
	tests := []struct {
		line    string
		section string
		want    AssignmentType
	}{
		{"Final Exam due December 12, 2024", SectionImportantDates, TypeExam},
		{"Homework 2 Due: October 8, 2024", SectionAssignmentDeadlines, TypeAssignment},
		{"Week 3: Chapter 5-6", SectionWeeklyReadings, TypeReading},
		{"Capstone project kickoff", SectionMajorDeliverables, TypeProject},
		{"Pop quiz possible any week", SectionImportantDates, TypeQuiz},
		{"Guest lecture on databases", SectionImportantDates, TypeOther},
		{"Anything at all", SectionTestDates, TypeExam},
	}
	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			if got := Classify(tc.line, tc.section).Type; got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestClassify_Idempotent(t *testing.T) {
	line, section := "Essay 2 due November 1, 2024", SectionAssignmentDeadlines
	first := Classify(line, section)
	second := Classify(line, section)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("classification not idempotent: %+v vs %+v", first, second)
	}
}

func TestClassify_DueTimeNeverSet(t *testing.T) {
	a := Classify("Final Exam May 10, 2024 at 9:00am", SectionTestDates)
	if a.DueTime != "" {
		t.Errorf("expected empty due time, got %q", a.DueTime)
	}
}
