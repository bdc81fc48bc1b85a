package storage

import (
	"testing"

	"github.com/poiesic/syllabus/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogEntryRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		entry *core.CatalogEntry
	}{
		{
			name:  "title only",
			entry: &core.CatalogEntry{Course: core.Course{Title: "Demo"}, Vector: []float32{1, 0}},
		},
		{
			name: "full course",
			entry: &core.CatalogEntry{
				Course: core.Course{
					Title:      "Building Towards Computer Use with Anthropic",
					Instructor: "Colt Steele",
					Link:       "https://example.com/course",
					Lessons: []core.Lesson{
						{Number: 0, Title: "Introduction", Link: "https://example.com/l0"},
						{Number: 1, Title: "API Basics"},
					},
				},
				Vector: []float32{0.25, -0.5, 0.125},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := UnmarshalCatalogEntry(MarshalCatalogEntry(tt.entry))
			require.NoError(t, err)
			assert.Equal(t, tt.entry, decoded)
		})
	}
}

func TestContentEntryRoundTrip(t *testing.T) {
	entry := &core.ContentEntry{
		Chunk: core.Chunk{
			Text:         "Lesson 1 content: Hello world.",
			CourseTitle:  "Demo",
			LessonNumber: 1,
			Index:        7,
		},
		Vector: []float32{0.1, 0.2, 0.3},
	}
	decoded, err := UnmarshalContentEntry(MarshalContentEntry(entry))
	require.NoError(t, err)
	assert.Equal(t, entry, decoded)

	preamble := &core.ContentEntry{
		Chunk:  core.Chunk{Text: "Overview.", CourseTitle: "Demo", LessonNumber: core.NoLesson},
		Vector: []float32{1},
	}
	decoded, err = UnmarshalContentEntry(MarshalContentEntry(preamble))
	require.NoError(t, err)
	assert.Equal(t, core.NoLesson, decoded.Chunk.LessonNumber)
}

func TestUnmarshal_Truncated(t *testing.T) {
	data := MarshalContentEntry(&core.ContentEntry{
		Chunk:  core.Chunk{Text: "text", CourseTitle: "Demo", LessonNumber: 1},
		Vector: []float32{0.5, 0.5},
	})

	for _, cut := range []int{0, 3, len(data) - 2} {
		_, err := UnmarshalContentEntry(data[:cut])
		assert.ErrorIs(t, err, ErrSerializationFailed, "cut at %d", cut)
	}

	_, err := UnmarshalCatalogEntry(nil)
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestContentFilter(t *testing.T) {
	one := 1
	chunk := &core.Chunk{CourseTitle: "Demo", LessonNumber: 1}

	assert.True(t, ContentFilter{}.Empty())
	assert.True(t, ContentFilter{}.Matches(chunk))
	assert.True(t, ContentFilter{CourseTitle: "Demo", LessonNumber: &one}.Matches(chunk))
	assert.False(t, ContentFilter{CourseTitle: "Other"}.Matches(chunk))

	two := 2
	assert.False(t, ContentFilter{LessonNumber: &two}.Matches(chunk))
	assert.False(t, ContentFilter{LessonNumber: &two}.Empty())
}
