// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/syllabus/core"
)

// Records are encoded with mus-go primitives in field order. Slices are
// written as a varint length followed by their elements.

// MarshalCatalogEntry serializes a CatalogEntry to bytes.
func MarshalCatalogEntry(entry *core.CatalogEntry) []byte {
	buf := make([]byte, sizeCourse(&entry.Course)+sizeVector(entry.Vector))
	n := marshalCourse(&entry.Course, buf)
	marshalVector(entry.Vector, buf[n:])
	return buf
}

// UnmarshalCatalogEntry deserializes a CatalogEntry from bytes.
func UnmarshalCatalogEntry(data []byte) (*core.CatalogEntry, error) {
	entry := &core.CatalogEntry{}
	n, err := unmarshalCourse(data, &entry.Course)
	if err != nil {
		return nil, fmt.Errorf("%w: course: %w", ErrSerializationFailed, err)
	}
	if entry.Vector, _, err = unmarshalVector(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: vector: %w", ErrSerializationFailed, err)
	}
	return entry, nil
}

// MarshalContentEntry serializes a ContentEntry to bytes.
func MarshalContentEntry(entry *core.ContentEntry) []byte {
	buf := make([]byte, sizeChunk(&entry.Chunk)+sizeVector(entry.Vector))
	n := marshalChunk(&entry.Chunk, buf)
	marshalVector(entry.Vector, buf[n:])
	return buf
}

// UnmarshalContentEntry deserializes a ContentEntry from bytes.
func UnmarshalContentEntry(data []byte) (*core.ContentEntry, error) {
	entry := &core.ContentEntry{}
	n, err := unmarshalChunk(data, &entry.Chunk)
	if err != nil {
		return nil, fmt.Errorf("%w: chunk: %w", ErrSerializationFailed, err)
	}
	if entry.Vector, _, err = unmarshalVector(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: vector: %w", ErrSerializationFailed, err)
	}
	return entry, nil
}

func sizeCourse(c *core.Course) int {
	size := ord.String.Size(c.Title) +
		ord.String.Size(c.Instructor) +
		ord.String.Size(c.Link) +
		varint.Int.Size(len(c.Lessons))
	for _, l := range c.Lessons {
		size += varint.Int.Size(l.Number) + ord.String.Size(l.Title) + ord.String.Size(l.Link)
	}
	return size
}

func marshalCourse(c *core.Course, bs []byte) (n int) {
	n = ord.String.Marshal(c.Title, bs)
	n += ord.String.Marshal(c.Instructor, bs[n:])
	n += ord.String.Marshal(c.Link, bs[n:])
	n += varint.Int.Marshal(len(c.Lessons), bs[n:])
	for _, l := range c.Lessons {
		n += varint.Int.Marshal(l.Number, bs[n:])
		n += ord.String.Marshal(l.Title, bs[n:])
		n += ord.String.Marshal(l.Link, bs[n:])
	}
	return n
}

func unmarshalCourse(bs []byte, c *core.Course) (n int, err error) {
	var m int
	if c.Title, m, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	n += m
	if c.Instructor, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	if c.Link, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m

	count, m, err := unmarshalLength(bs[n:])
	if err != nil {
		return
	}
	n += m
	if count > 0 {
		c.Lessons = make([]core.Lesson, count)
	}
	for i := range c.Lessons {
		l := &c.Lessons[i]
		if l.Number, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
			return
		}
		n += m
		if l.Title, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return
		}
		n += m
		if l.Link, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return
		}
		n += m
	}
	return n, nil
}

func sizeChunk(c *core.Chunk) int {
	return ord.String.Size(c.Text) +
		ord.String.Size(c.CourseTitle) +
		varint.Int.Size(c.LessonNumber) +
		varint.Int.Size(c.Index)
}

func marshalChunk(c *core.Chunk, bs []byte) (n int) {
	n = ord.String.Marshal(c.Text, bs)
	n += ord.String.Marshal(c.CourseTitle, bs[n:])
	n += varint.Int.Marshal(c.LessonNumber, bs[n:])
	n += varint.Int.Marshal(c.Index, bs[n:])
	return n
}

func unmarshalChunk(bs []byte, c *core.Chunk) (n int, err error) {
	var m int
	if c.Text, m, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	n += m
	if c.CourseTitle, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	if c.LessonNumber, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	if c.Index, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += m
	return n, nil
}

func sizeVector(v []float32) int {
	size := varint.Int.Size(len(v))
	for _, f := range v {
		size += raw.Float32.Size(f)
	}
	return size
}

func marshalVector(v []float32, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, f := range v {
		n += raw.Float32.Marshal(f, bs[n:])
	}
	return n
}

func unmarshalVector(bs []byte) (v []float32, n int, err error) {
	count, n, err := unmarshalLength(bs)
	if err != nil {
		return nil, n, err
	}
	if count == 0 {
		return nil, n, nil
	}
	v = make([]float32, count)
	for i := range v {
		var m int
		if v[i], m, err = raw.Float32.Unmarshal(bs[n:]); err != nil {
			return nil, n, err
		}
		n += m
	}
	return v, n, nil
}

// unmarshalLength reads a slice length and rejects values the remaining
// input cannot hold.
func unmarshalLength(bs []byte) (int, int, error) {
	count, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return 0, n, err
	}
	if count < 0 || count > len(bs)-n {
		return 0, n, ErrTruncatedData
	}
	return count, n, nil
}
