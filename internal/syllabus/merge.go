package syllabus

import (
	"sort"
	"strings"
)

// MergeRaw normalizes each raw page response and merges the results.
func MergeRaw(results []RawPageResult, expectJSON bool) Summary {
	pages := make([]PageAnalysis, 0, len(results))
	for _, r := range results {
		pages = append(pages, NormalizePage(r.Page, r.Text, expectJSON))
	}
	return Merge(pages)
}

// accumulator is the fold state for a multi-page merge. It is only ever
// owned by one Merge call; pages never share it.
type accumulator struct {
	course      CourseFields
	lists       map[string][]string
	listSeen    map[string]map[string]bool
	assignments []Assignment
	asgSeen     map[string]bool
}

// Merge combines normalized page results into one de-duplicated summary.
// Pages are processed in ascending page order: scalar course fields are
// first-wins, list sections are union-deduplicated preserving the order of
// first appearance, and assignments are dropped (not merged) when their
// trimmed source line was already seen.
func Merge(pages []PageAnalysis) Summary {
	sorted := make([]PageAnalysis, len(pages))
	copy(sorted, pages)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Page < sorted[j].Page })

	acc := &accumulator{
		lists:    map[string][]string{},
		listSeen: map[string]map[string]bool{},
		asgSeen:  map[string]bool{},
	}
	for _, page := range sorted {
		acc.fold(page)
	}

	s := Summary{
		Course:              acc.course,
		ExamDates:           acc.lists[SectionTestDates],
		AssignmentDeadlines: acc.lists[SectionAssignmentDeadlines],
		WeeklyReadings:      acc.lists[SectionWeeklyReadings],
		MajorDeliverables:   acc.lists[SectionMajorDeliverables],
		ImportantDates:      acc.lists[SectionImportantDates],
		Assignments:         acc.assignments,
	}
	s.PlainText = Render(s)
	return s
}

func (a *accumulator) fold(page PageAnalysis) {
	setFirst(&a.course.Name, page.Course.Name)
	setFirst(&a.course.Professor, page.Course.Professor)
	setFirst(&a.course.Email, page.Course.Email)
	setFirst(&a.course.MeetingDays, page.Course.MeetingDays)
	setFirst(&a.course.OfficeHours, page.Course.OfficeHours)

	a.appendList(SectionTestDates, page.Sections.TestDates)
	a.appendList(SectionAssignmentDeadlines, page.Sections.AssignmentDeadlines)
	a.appendList(SectionWeeklyReadings, page.Sections.WeeklyReadings)
	a.appendList(SectionMajorDeliverables, page.Sections.MajorDeliverables)
	a.appendList(SectionImportantDates, page.Sections.ImportantDates)

	if len(page.Assignments) > 0 {
		// JSON path: records arrive already classified.
		for _, asg := range page.Assignments {
			a.addAssignment(asg)
		}
		return
	}
	for _, sec := range []struct {
		name  string
		lines []string
	}{
		{SectionTestDates, page.Sections.TestDates},
		{SectionAssignmentDeadlines, page.Sections.AssignmentDeadlines},
		{SectionWeeklyReadings, page.Sections.WeeklyReadings},
		{SectionMajorDeliverables, page.Sections.MajorDeliverables},
		{SectionImportantDates, page.Sections.ImportantDates},
	} {
		for _, line := range sec.lines {
			a.addAssignment(Classify(line, sec.name))
		}
	}
}

// setFirst keeps the earliest non-empty, non-placeholder value.
func setFirst(dst *string, v string) {
	if *dst != "" {
		return
	}
	if v == "" || isPlaceholder(v) {
		return
	}
	*dst = v
}

func (a *accumulator) appendList(name string, items []string) {
	seen := a.listSeen[name]
	if seen == nil {
		seen = map[string]bool{}
		a.listSeen[name] = seen
	}
	for _, item := range items {
		key := strings.TrimSpace(item)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		a.lists[name] = append(a.lists[name], item)
	}
}

// addAssignment drops exact duplicates of the trimmed source line. Two
// records with different phrasing of the same item are kept as-is.
func (a *accumulator) addAssignment(asg Assignment) {
	key := strings.TrimSpace(asg.Description)
	if key == "" {
		key = strings.TrimSpace(asg.Title)
	}
	if key == "" || a.asgSeen[key] {
		return
	}
	a.asgSeen[key] = true
	a.assignments = append(a.assignments, asg)
}
