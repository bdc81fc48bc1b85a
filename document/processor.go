package document

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/poiesic/syllabus/core"
)

const (
	// DefaultChunkSize is the default maximum chunk size in characters.
	DefaultChunkSize = 800
	// DefaultChunkOverlap is the default overlap width in characters.
	DefaultChunkOverlap = 100

	maxLineLength = 1 << 20
)

var (
	titleRe      = regexp.MustCompile(`(?i)^course title:\s*(.*)$`)
	courseLinkRe = regexp.MustCompile(`(?i)^course link:\s*(.*)$`)
	instructorRe = regexp.MustCompile(`(?i)^course instructor:\s*(.*)$`)
	lessonRe     = regexp.MustCompile(`(?i)^lesson\s+(\d+):\s*(.*)$`)
	lessonLinkRe = regexp.MustCompile(`(?i)^lesson link:\s*(.*)$`)
)

// Processor turns course documents into a Course and its ordered chunks.
type Processor struct {
	chunkSize    int
	chunkOverlap int
	chunker      *Chunker
	logger       *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor) error

// WithChunkSize sets the maximum chunk size in characters.
// Default is DefaultChunkSize.
func WithChunkSize(size int) Option {
	return func(p *Processor) error {
		p.chunkSize = size
		return nil
	}
}

// WithChunkOverlap sets the overlap width in characters.
// Default is DefaultChunkOverlap.
func WithChunkOverlap(overlap int) Option {
	return func(p *Processor) error {
		p.chunkOverlap = overlap
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewProcessor creates a document processor.
func NewProcessor(opts ...Option) (*Processor, error) {
	p := &Processor{
		chunkSize:    DefaultChunkSize,
		chunkOverlap: DefaultChunkOverlap,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	chunker, err := NewChunker(p.chunkSize, p.chunkOverlap)
	if err != nil {
		return nil, err
	}
	p.chunker = chunker
	p.logger = p.logger.With("component", "document-processor")
	return p, nil
}

// Parse reads the document at path.
// A malformed document yields a *ParseError.
func (p *Processor) Parse(path string) (*core.Course, []core.Chunk, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return p.ParseReader(f, path)
}

// ParseReader reads a document from r. name is used in errors and logs.
func (p *Processor) ParseReader(r io.Reader, name string) (*core.Course, []core.Chunk, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", name, err)
	}

	i := nextNonBlank(lines, 0)
	if i == len(lines) {
		return nil, nil, &ParseError{Path: name, Err: ErrEmptyDocument}
	}
	m := titleRe.FindStringSubmatch(lines[i])
	if m == nil || strings.TrimSpace(m[1]) == "" {
		return nil, nil, &ParseError{Path: name, Line: i + 1, Err: ErrMissingTitle}
	}
	course := &core.Course{Title: strings.TrimSpace(m[1])}

	// Optional headers, in any order, directly after the title.
	for i = nextNonBlank(lines, i+1); i < len(lines); i = nextNonBlank(lines, i+1) {
		if m := courseLinkRe.FindStringSubmatch(lines[i]); m != nil {
			course.Link = strings.TrimSpace(m[1])
		} else if m := instructorRe.FindStringSubmatch(lines[i]); m != nil {
			course.Instructor = strings.TrimSpace(m[1])
		} else {
			break
		}
	}

	b := &builder{course: course, chunker: p.chunker}
	for ; i < len(lines); i++ {
		line := lines[i]
		m := lessonRe.FindStringSubmatch(line)
		if m == nil {
			b.appendLine(line)
			continue
		}

		number, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, nil, &ParseError{Path: name, Line: i + 1, Err: err}
		}
		lesson := core.Lesson{Number: number, Title: strings.TrimSpace(m[2])}
		if j := nextNonBlank(lines, i+1); j < len(lines) {
			if lm := lessonLinkRe.FindStringSubmatch(lines[j]); lm != nil {
				lesson.Link = strings.TrimSpace(lm[1])
				i = j
			}
		}
		b.startLesson(lesson)
	}
	chunks := b.finish()

	if err := core.ValidateCourse(course); err != nil {
		return nil, nil, &ParseError{Path: name, Err: err}
	}

	p.logger.Debug("parsed course document",
		"path", name, "course", course.Title, "lessons", len(course.Lessons), "chunks", len(chunks))
	return course, chunks, nil
}

// builder accumulates lesson bodies and emits chunks with a course-wide index.
type builder struct {
	course   *core.Course
	chunker  *Chunker
	current  *core.Lesson
	body     []string
	preamble []string
	chunks   []core.Chunk
}

func (b *builder) appendLine(line string) {
	if b.current == nil {
		b.preamble = append(b.preamble, line)
		return
	}
	b.body = append(b.body, line)
}

func (b *builder) startLesson(lesson core.Lesson) {
	b.flush()
	b.current = &lesson
}

func (b *builder) flush() {
	if b.current == nil {
		return
	}
	b.course.Lessons = append(b.course.Lessons, *b.current)
	for n, text := range b.chunker.Split(strings.Join(b.body, "\n")) {
		if n == 0 {
			text = LessonPrefix(b.current.Number) + text
		}
		b.emit(text, b.current.Number)
	}
	b.current = nil
	b.body = nil
}

func (b *builder) finish() []core.Chunk {
	b.flush()
	// Documents without lesson markers are indexed as course-level text.
	if len(b.course.Lessons) == 0 {
		for _, text := range b.chunker.Split(strings.Join(b.preamble, "\n")) {
			b.emit(text, core.NoLesson)
		}
	}
	return b.chunks
}

func (b *builder) emit(text string, lesson int) {
	b.chunks = append(b.chunks, core.Chunk{
		Text:         text,
		CourseTitle:  b.course.Title,
		LessonNumber: lesson,
		Index:        len(b.chunks),
	})
}

// LessonPrefix is the context marker placed before the first chunk of a lesson.
func LessonPrefix(number int) string {
	return fmt.Sprintf("Lesson %d content: ", number)
}

func readLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	return lines, scanner.Err()
}

func nextNonBlank(lines []string, from int) int {
	for from < len(lines) && lines[from] == "" {
		from++
	}
	return from
}
