package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/poiesic/syllabus/ai"
	"github.com/poiesic/syllabus/core"
	"github.com/poiesic/syllabus/search"
)

// OutlineToolName is the name the completion service calls the outline tool by.
const OutlineToolName = "get_course_outline"

// CourseOutlineTool renders a course title, instructor, link and lesson list.
type CourseOutlineTool struct {
	index *search.Index
}

var _ Tool = (*CourseOutlineTool)(nil)

// NewCourseOutlineTool creates the outline tool.
func NewCourseOutlineTool(index *search.Index) (*CourseOutlineTool, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}
	return &CourseOutlineTool{index: index}, nil
}

// Definition describes get_course_outline.
func (t *CourseOutlineTool) Definition() ai.ToolDefinition {
	return ai.ToolDefinition{
		Name:        OutlineToolName,
		Description: "Get the complete outline of a course including title, link, and all lessons with their numbers and titles",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"course_name": map[string]any{
					"type":        "string",
					"description": "Course title (partial matches work, e.g. 'MCP', 'Introduction')",
				},
			},
			"required": []string{"course_name"},
		},
	}
}

// OutlineArgs are the arguments of get_course_outline.
type OutlineArgs struct {
	CourseName string `json:"course_name"`
}

// Execute decodes the arguments and renders the outline.
func (t *CourseOutlineTool) Execute(ctx context.Context, arguments string) (*Result, error) {
	var args OutlineArgs
	if err := decodeArguments(arguments, &args); err != nil {
		return nil, err
	}
	if strings.TrimSpace(args.CourseName) == "" {
		return nil, fmt.Errorf("%w: course_name is required", ErrInvalidArguments)
	}
	return t.Outline(ctx, args.CourseName)
}

// Outline resolves a course name and renders it.
func (t *CourseOutlineTool) Outline(ctx context.Context, courseName string) (*Result, error) {
	courses, _, err := t.index.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if courses == 0 {
		return &Result{Text: "No course metadata available"}, nil
	}

	title, ok, err := t.index.ResolveCourseName(ctx, courseName)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Result{Text: fmt.Sprintf("No course found matching '%s'", courseName)}, nil
	}

	course, err := t.index.Course(ctx, title)
	if err != nil {
		return nil, err
	}

	// Outlines cite nothing: sources only name retrieved chunks.
	return &Result{Text: FormatOutline(course)}, nil
}

// FormatOutline renders a course as a plain text outline.
func FormatOutline(course *core.Course) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Course: %s\n", course.Title)
	if course.Instructor != "" {
		fmt.Fprintf(&sb, "Instructor: %s\n", course.Instructor)
	}
	if course.Link != "" {
		fmt.Fprintf(&sb, "Course Link: %s\n", course.Link)
	}
	if len(course.Lessons) == 0 {
		sb.WriteString("Lessons: none")
		return sb.String()
	}

	sb.WriteString("Lessons:")
	for _, l := range course.Lessons {
		fmt.Fprintf(&sb, "\n  Lesson %d: %s", l.Number, l.Title)
		if l.Link != "" {
			fmt.Fprintf(&sb, " (%s)", l.Link)
		}
	}
	return sb.String()
}
