package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/poiesic/syllabus/ai"
	"github.com/poiesic/syllabus/core"
	"github.com/poiesic/syllabus/search"
)

// SearchToolName is the name the completion service calls the search tool by.
const SearchToolName = "search_course_content"

// CourseSearchTool searches course content through an Index.
type CourseSearchTool struct {
	index *search.Index
}

var _ Tool = (*CourseSearchTool)(nil)

// NewCourseSearchTool creates the search tool.
func NewCourseSearchTool(index *search.Index) (*CourseSearchTool, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}
	return &CourseSearchTool{index: index}, nil
}

// Definition describes search_course_content.
func (t *CourseSearchTool) Definition() ai.ToolDefinition {
	return ai.ToolDefinition{
		Name:        SearchToolName,
		Description: "Search course materials with smart course name matching and lesson filtering",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "What to search for in the course content",
				},
				"course_name": map[string]any{
					"type":        "string",
					"description": "Course title (partial matches work, e.g. 'MCP', 'Introduction')",
				},
				"lesson_number": map[string]any{
					"type":        "integer",
					"description": "Specific lesson number to search within (e.g. 1, 2, 3)",
				},
			},
			"required": []string{"query"},
		},
	}
}

// SearchArgs are the arguments of search_course_content.
type SearchArgs struct {
	Query        string       `json:"query"`
	CourseName   string       `json:"course_name"`
	LessonNumber lessonNumber `json:"lesson_number"`
}

// Execute decodes the arguments and runs the search.
func (t *CourseSearchTool) Execute(ctx context.Context, arguments string) (*Result, error) {
	var args SearchArgs
	if err := decodeArguments(arguments, &args); err != nil {
		return nil, err
	}
	if strings.TrimSpace(args.Query) == "" {
		return nil, fmt.Errorf("%w: query is required", ErrInvalidArguments)
	}
	return t.Search(ctx, args.Query, args.CourseName, args.LessonNumber.ptr())
}

// Search runs a query and formats the hits with their citations.
func (t *CourseSearchTool) Search(ctx context.Context, query, courseName string, lesson *int) (*Result, error) {
	outcome, err := t.index.Search(ctx, search.Query{
		Text:       query,
		CourseName: courseName,
		Lesson:     lesson,
	})
	if err != nil {
		return nil, err
	}

	if outcome.Kind != search.OutcomeHits {
		return &Result{Text: MissMessage(outcome)}, nil
	}

	courses := make(map[string]*core.Course)
	blocks := make([]string, 0, len(outcome.Hits))
	sources := make([]core.Source, 0, len(outcome.Hits))
	for _, hit := range outcome.Hits {
		source := core.Source{
			CourseTitle:  hit.Chunk.CourseTitle,
			LessonNumber: hit.Chunk.LessonNumber,
			Link:         t.link(ctx, courses, &hit.Chunk),
		}
		sources = append(sources, source)
		blocks = append(blocks, "["+source.Label()+"]\n"+hit.Chunk.Text)
	}

	return &Result{
		Text:    strings.Join(blocks, "\n\n"),
		Sources: sources,
	}, nil
}

// link finds the lesson link of a chunk, caching catalog lookups per call.
func (t *CourseSearchTool) link(ctx context.Context, courses map[string]*core.Course, chunk *core.Chunk) string {
	course, seen := courses[chunk.CourseTitle]
	if !seen {
		course, _ = t.index.Course(ctx, chunk.CourseTitle)
		courses[chunk.CourseTitle] = course
	}
	if course == nil {
		return ""
	}
	if !chunk.HasLesson() {
		return course.Link
	}
	return course.LessonLink(chunk.LessonNumber)
}

// MissMessage renders an outcome without hits.
func MissMessage(outcome *search.Outcome) string {
	if outcome.Kind == search.OutcomeFilterNoMatch && outcome.CourseUnresolved() {
		return fmt.Sprintf("No course found matching '%s'", outcome.CourseFilter)
	}

	var sb strings.Builder
	sb.WriteString("No relevant content found")
	if outcome.CourseFilter != "" {
		fmt.Fprintf(&sb, " in course '%s'", outcome.CourseFilter)
	}
	if outcome.LessonFilter != nil {
		fmt.Fprintf(&sb, " in lesson %d", *outcome.LessonFilter)
	}
	sb.WriteString(".")
	if outcome.Kind == search.OutcomeEmptyCollection {
		sb.WriteString(" No course materials have been indexed yet.")
	}
	return sb.String()
}
