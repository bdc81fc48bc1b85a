package core

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing so re-ingesting identical
// material produces identical keys.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// NoLesson marks a chunk or source that is not attached to a lesson.
const NoLesson = -1

// Lesson is a numbered unit within a course.
type Lesson struct {
	Number int
	Title  string
	Link   string // optional
}

// Course is the unit of ingestion. Title is the global key.
type Course struct {
	Title      string
	Instructor string   // optional
	Link       string   // optional
	Lessons    []Lesson // ordered as they appear in the source document
}

// ID returns the catalog identifier of the course.
func (c *Course) ID() ID {
	return IDFromContent(c.Title)
}

// Lesson returns the lesson with the given number.
func (c *Course) Lesson(number int) (Lesson, bool) {
	for _, l := range c.Lessons {
		if l.Number == number {
			return l, true
		}
	}
	return Lesson{}, false
}

// LessonLink returns the link for a lesson, falling back to the course link.
func (c *Course) LessonLink(number int) string {
	if l, ok := c.Lesson(number); ok && l.Link != "" {
		return l.Link
	}
	return c.Link
}

// CatalogText is the text embedded for course name resolution.
func (c *Course) CatalogText() string {
	if c.Instructor == "" {
		return c.Title
	}
	return c.Title + " " + c.Instructor
}

// Chunk is a bounded slice of lesson text ready for embedding.
type Chunk struct {
	Text         string
	CourseTitle  string
	LessonNumber int // NoLesson when the text precedes any lesson marker
	Index        int // strictly increasing within a course
}

// ID returns the content identifier of the chunk.
// It depends only on the owning course and the chunk position.
func (c *Chunk) ID() ID {
	return ChunkID(c.CourseTitle, c.Index)
}

// HasLesson reports whether the chunk belongs to a lesson.
func (c *Chunk) HasLesson() bool {
	return c.LessonNumber != NoLesson
}

// ChunkID builds the content identifier for a chunk position in a course.
func ChunkID(courseTitle string, index int) ID {
	return IDFromContent(fmt.Sprintf("%s\x00%d", courseTitle, index))
}

// CatalogEntry is a course together with its catalog embedding.
type CatalogEntry struct {
	Course Course
	Vector []float32
}

// ContentEntry is a chunk together with its content embedding.
type ContentEntry struct {
	Chunk  Chunk
	Vector []float32
}

// ScoredCourse is a catalog lookup hit. Lower distance is closer.
type ScoredCourse struct {
	Course   Course
	Distance float32
}

// ScoredChunk is a content search hit. Lower distance is more relevant.
type ScoredChunk struct {
	Chunk    Chunk
	Distance float32
}

// Source is a citation for retrieved content.
type Source struct {
	CourseTitle  string `json:"course_title"`
	LessonNumber int    `json:"lesson_number"`
	Link         string `json:"link,omitempty"`
}

// Label renders the source the way it is shown to users.
func (s Source) Label() string {
	if s.LessonNumber == NoLesson {
		return s.CourseTitle
	}
	return fmt.Sprintf("%s - Lesson %d", s.CourseTitle, s.LessonNumber)
}

// Role identifies the author of a conversation message.
type Role string

const (
	// RoleUser is a message written by the person asking questions.
	RoleUser Role = "user"
	// RoleAssistant is a message produced by the assistant.
	RoleAssistant Role = "assistant"
)

// Message is one entry of a conversation history.
type Message struct {
	Role    Role
	Content string
}

// FormatHistory renders messages as "User: ..." / "Assistant: ..." lines.
func FormatHistory(messages []Message) string {
	var sb strings.Builder
	for i, m := range messages {
		if i > 0 {
			sb.WriteByte('\n')
		}
		switch m.Role {
		case RoleAssistant:
			sb.WriteString("Assistant: ")
		default:
			sb.WriteString("User: ")
		}
		sb.WriteString(m.Content)
	}
	return sb.String()
}
