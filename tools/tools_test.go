package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/poiesic/syllabus/ai"
	"github.com/poiesic/syllabus/ai/mock"
	"github.com/poiesic/syllabus/core"
	"github.com/poiesic/syllabus/search"
	"github.com/poiesic/syllabus/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIndex(t *testing.T) *search.Index {
	t.Helper()
	catalog, content, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		catalog.Close()
		content.Close()
		backend.Close()
	})
	index, err := search.NewIndex(catalog, content, mock.NewMockEmbedder(), search.WithMaxCourseDistance(0.7))
	require.NoError(t, err)
	return index
}

func seedIndex(t *testing.T, index *search.Index) {
	t.Helper()
	ctx := context.Background()
	course := &core.Course{
		Title:      "Introduction to MCP",
		Instructor: "Elie Schoppik",
		Link:       "https://example.com/mcp",
		Lessons: []core.Lesson{
			{Number: 0, Title: "Introduction", Link: "https://example.com/mcp/0"},
			{Number: 1, Title: "Servers"},
		},
	}
	require.NoError(t, index.AddCourseCatalog(ctx, course))
	require.NoError(t, index.AddContent(ctx, []core.Chunk{
		{Text: "Lesson 0 content: mcp connects models to tools", CourseTitle: course.Title, LessonNumber: 0, Index: 0},
		{Text: "Lesson 1 content: mcp servers expose tools and resources", CourseTitle: course.Title, LessonNumber: 1, Index: 1},
	}))
}

func TestCourseSearchTool_Definition(t *testing.T) {
	tool, err := NewCourseSearchTool(newIndex(t))
	require.NoError(t, err)

	def := tool.Definition()
	assert.Equal(t, "search_course_content", def.Name)
	assert.NotEmpty(t, def.Description)
	assert.Equal(t, []string{"query"}, def.Parameters["required"])

	// The schema must be valid JSON for the wire format.
	_, err = json.Marshal(def.Parameters)
	require.NoError(t, err)

	_, err = NewCourseSearchTool(nil)
	assert.ErrorIs(t, err, ErrIndexRequired)
}

func TestCourseSearchTool_Execute(t *testing.T) {
	index := newIndex(t)
	tool, err := NewCourseSearchTool(index)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("empty index", func(t *testing.T) {
		result, err := tool.Execute(ctx, `{"query":"servers"}`)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(result.Text, "No relevant content found"))
		assert.Empty(t, result.Sources)
	})

	t.Run("empty index with course filter", func(t *testing.T) {
		result, err := tool.Execute(ctx, `{"query":"servers","course_name":"MCP"}`)
		require.NoError(t, err)
		assert.Equal(t, "No relevant content found in course 'MCP'. No course materials have been indexed yet.", result.Text)
		assert.Empty(t, result.Sources)
	})

	t.Run("negative lesson number", func(t *testing.T) {
		_, err := tool.Execute(ctx, `{"query":"servers","lesson_number":-1}`)
		assert.ErrorIs(t, err, ErrInvalidArguments)
	})

	seedIndex(t, index)

	t.Run("hits carry headers and sources", func(t *testing.T) {
		result, err := tool.Execute(ctx, `{"query":"mcp servers expose tools"}`)
		require.NoError(t, err)

		blocks := strings.Split(result.Text, "\n\n")
		require.Len(t, blocks, 2)
		require.Len(t, result.Sources, 2)
		assert.Equal(t, "[Introduction to MCP - Lesson 1]\nLesson 1 content: mcp servers expose tools and resources", blocks[0])
		assert.Equal(t, core.Source{CourseTitle: "Introduction to MCP", LessonNumber: 1, Link: "https://example.com/mcp"}, result.Sources[0])
		assert.Equal(t, "https://example.com/mcp/0", result.Sources[1].Link)
	})

	t.Run("sources follow hit order", func(t *testing.T) {
		result, err := tool.Execute(ctx, `{"query":"connects models"}`)
		require.NoError(t, err)
		for i, block := range strings.Split(result.Text, "\n\n") {
			assert.True(t, strings.HasPrefix(block, "["+result.Sources[i].Label()+"]"))
		}
	})

	t.Run("lesson filter as string", func(t *testing.T) {
		result, err := tool.Execute(ctx, `{"query":"tools","course_name":"MCP","lesson_number":"0"}`)
		require.NoError(t, err)
		require.Len(t, result.Sources, 1)
		assert.Equal(t, 0, result.Sources[0].LessonNumber)
	})

	t.Run("filter miss names the filters", func(t *testing.T) {
		result, err := tool.Execute(ctx, `{"query":"tools","course_name":"MCP","lesson_number":7}`)
		require.NoError(t, err)
		assert.Equal(t, "No relevant content found in course 'MCP' in lesson 7.", result.Text)
		assert.Empty(t, result.Sources)
	})

	t.Run("unresolved course", func(t *testing.T) {
		result, err := tool.Execute(ctx, `{"query":"tools","course_name":"quantum gardening"}`)
		require.NoError(t, err)
		assert.Equal(t, "No course found matching 'quantum gardening'", result.Text)
	})

	t.Run("missing query", func(t *testing.T) {
		_, err := tool.Execute(ctx, `{"course_name":"MCP"}`)
		assert.ErrorIs(t, err, ErrInvalidArguments)
	})

	t.Run("malformed arguments", func(t *testing.T) {
		_, err := tool.Execute(ctx, `{"query":`)
		assert.ErrorIs(t, err, ErrInvalidArguments)
	})

	t.Run("fractional lesson", func(t *testing.T) {
		_, err := tool.Execute(ctx, `{"query":"x","lesson_number":1.5}`)
		assert.ErrorIs(t, err, ErrInvalidArguments)
	})
}

func TestMissMessage(t *testing.T) {
	lesson := 2
	tests := []struct {
		name    string
		outcome *search.Outcome
		want    string
	}{
		{"no match", &search.Outcome{Kind: search.OutcomeNoMatch}, "No relevant content found."},
		{"lesson only", &search.Outcome{Kind: search.OutcomeFilterNoMatch, LessonFilter: &lesson}, "No relevant content found in lesson 2."},
		{"course and lesson", &search.Outcome{Kind: search.OutcomeFilterNoMatch, CourseFilter: "MCP", ResolvedCourse: "Introduction to MCP", LessonFilter: &lesson}, "No relevant content found in course 'MCP' in lesson 2."},
		{"unresolved", &search.Outcome{Kind: search.OutcomeFilterNoMatch, CourseFilter: "xyz"}, "No course found matching 'xyz'"},
		{"empty collection", &search.Outcome{Kind: search.OutcomeEmptyCollection}, "No relevant content found. No course materials have been indexed yet."},
		{"empty collection with course", &search.Outcome{Kind: search.OutcomeEmptyCollection, CourseFilter: "MCP"}, "No relevant content found in course 'MCP'. No course materials have been indexed yet."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MissMessage(tt.outcome))
		})
	}
}

func TestCourseOutlineTool(t *testing.T) {
	index := newIndex(t)
	tool, err := NewCourseOutlineTool(index)
	require.NoError(t, err)
	ctx := context.Background()

	result, err := tool.Execute(ctx, `{"course_name":"MCP"}`)
	require.NoError(t, err)
	assert.Equal(t, "No course metadata available", result.Text)

	seedIndex(t, index)

	result, err = tool.Execute(ctx, `{"course_name":"MCP"}`)
	require.NoError(t, err)
	assert.Equal(t, "Course: Introduction to MCP\n"+
		"Instructor: Elie Schoppik\n"+
		"Course Link: https://example.com/mcp\n"+
		"Lessons:\n"+
		"  Lesson 0: Introduction (https://example.com/mcp/0)\n"+
		"  Lesson 1: Servers", result.Text)
	assert.Empty(t, result.Sources)

	result, err = tool.Execute(ctx, `{"course_name":"quantum gardening"}`)
	require.NoError(t, err)
	assert.Equal(t, "No course found matching 'quantum gardening'", result.Text)

	_, err = tool.Execute(ctx, `{}`)
	assert.ErrorIs(t, err, ErrInvalidArguments)
}

type stubTool struct {
	name string
}

func (s stubTool) Definition() ai.ToolDefinition { return ai.ToolDefinition{Name: s.name} }

func (s stubTool) Execute(ctx context.Context, arguments string) (*Result, error) {
	return &Result{Text: s.name + ":" + arguments}, nil
}

func TestManager(t *testing.T) {
	m, err := NewManager(stubTool{"b"}, stubTool{"a"})
	require.NoError(t, err)

	defs := m.Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "b", defs[0].Name)
	assert.Equal(t, "a", defs[1].Name)

	result, err := m.Execute(context.Background(), "a", "{}")
	require.NoError(t, err)
	assert.Equal(t, "a:{}", result.Text)

	_, err = m.Execute(context.Background(), "missing", "{}")
	assert.True(t, errors.Is(err, ErrUnknownTool))

	assert.ErrorIs(t, m.Register(stubTool{"a"}), ErrDuplicateTool)
	assert.ErrorIs(t, m.Register(stubTool{""}), ErrInvalidTool)
	assert.ErrorIs(t, m.Register(nil), ErrInvalidTool)
}
