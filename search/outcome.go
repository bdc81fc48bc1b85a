package search

import "github.com/poiesic/syllabus/core"

// OutcomeKind classifies the result of a search.
type OutcomeKind int

const (
	// OutcomeHits means at least one chunk matched.
	OutcomeHits OutcomeKind = iota
	// OutcomeEmptyCollection means nothing has been indexed yet.
	OutcomeEmptyCollection
	// OutcomeNoMatch means an unfiltered search found nothing.
	OutcomeNoMatch
	// OutcomeFilterNoMatch means a course or lesson filter matched nothing.
	OutcomeFilterNoMatch
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeHits:
		return "hits"
	case OutcomeEmptyCollection:
		return "empty-collection"
	case OutcomeNoMatch:
		return "no-match"
	case OutcomeFilterNoMatch:
		return "filter-no-match"
	default:
		return "unknown"
	}
}

// Query describes one content search.
type Query struct {
	Text       string
	CourseName string // partial course name, resolved through the catalog
	Lesson     *int   // exact lesson number
	Limit      int    // zero uses the index default
}

// HasFilter reports whether the query names a course or a lesson.
func (q Query) HasFilter() bool {
	return q.CourseName != "" || q.Lesson != nil
}

// Outcome is the result of a search.
type Outcome struct {
	Kind OutcomeKind
	Hits []core.ScoredChunk

	// CourseFilter and LessonFilter echo the requested filters.
	CourseFilter string
	LessonFilter *int

	// ResolvedCourse is the catalog title the course filter resolved to.
	// Empty when no filter was given or resolution failed.
	ResolvedCourse string
}

// CourseUnresolved reports whether a course filter was given but matched no
// catalog title.
func (o *Outcome) CourseUnresolved() bool {
	return o.CourseFilter != "" && o.ResolvedCourse == ""
}
