package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "simple content", content: "test content"},
		{name: "empty string", content: ""},
		{name: "long content", content: "This is a much longer piece of content that should still hash consistently"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, IDFromContent(tt.content), IDFromContent(tt.content))
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	assert.NotEqual(t, IDFromContent("content1"), IDFromContent("content2"))
}

func TestChunkID(t *testing.T) {
	a := Chunk{CourseTitle: "Demo", Index: 3, Text: "one"}
	b := Chunk{CourseTitle: "Demo", Index: 3, Text: "two"}
	c := Chunk{CourseTitle: "Demo", Index: 4, Text: "one"}
	d := Chunk{CourseTitle: "Other", Index: 3, Text: "one"}

	assert.Equal(t, a.ID(), b.ID(), "ID depends on position, not text")
	assert.NotEqual(t, a.ID(), c.ID())
	assert.NotEqual(t, a.ID(), d.ID())
}

func TestCourse_LessonLink(t *testing.T) {
	course := Course{
		Title: "Demo",
		Link:  "https://example.com/demo",
		Lessons: []Lesson{
			{Number: 0, Title: "Intro", Link: "https://example.com/demo/0"},
			{Number: 1, Title: "Next"},
		},
	}

	tests := []struct {
		name   string
		number int
		want   string
	}{
		{name: "lesson with link", number: 0, want: "https://example.com/demo/0"},
		{name: "lesson without link falls back", number: 1, want: "https://example.com/demo"},
		{name: "unknown lesson falls back", number: 9, want: "https://example.com/demo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, course.LessonLink(tt.number))
		})
	}
}

func TestCourse_CatalogText(t *testing.T) {
	assert.Equal(t, "Demo", (&Course{Title: "Demo"}).CatalogText())
	assert.Equal(t, "Demo Ada Lovelace", (&Course{Title: "Demo", Instructor: "Ada Lovelace"}).CatalogText())
}

func TestSource_Label(t *testing.T) {
	assert.Equal(t, "Demo - Lesson 2", Source{CourseTitle: "Demo", LessonNumber: 2}.Label())
	assert.Equal(t, "Demo", Source{CourseTitle: "Demo", LessonNumber: NoLesson}.Label())
}

func TestFormatHistory(t *testing.T) {
	history := []Message{
		{Role: RoleUser, Content: "What is MCP?"},
		{Role: RoleAssistant, Content: "A protocol."},
	}
	assert.Equal(t, "User: What is MCP?\nAssistant: A protocol.", FormatHistory(history))
	assert.Empty(t, FormatHistory(nil))
}
