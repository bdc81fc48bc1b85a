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


package core

import (
	"fmt"
)

// ValidateCourse validates a Course according to domain rules.
//
// Validation rules:
//   - Title must not be empty
//   - Lesson numbers must be non-negative and unique
//
// Instructor, Link and lesson links are optional.
func ValidateCourse(course *Course) error {
	if course == nil {
		return fmt.Errorf("%w: course is nil", ErrInvalidCourse)
	}

	if course.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCourse, ErrEmptyTitle)
	}

	seen := make(map[int]struct{}, len(course.Lessons))
	for _, lesson := range course.Lessons {
		if lesson.Number < 0 {
			return fmt.Errorf("%w: %w: %d", ErrInvalidCourse, ErrInvalidLessonNumber, lesson.Number)
		}
		if _, dup := seen[lesson.Number]; dup {
			return fmt.Errorf("%w: %w: %d", ErrInvalidCourse, ErrDuplicateLesson, lesson.Number)
		}
		seen[lesson.Number] = struct{}{}
	}

	return nil
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - CourseTitle must not be empty
//   - Index must be non-negative
//   - LessonNumber must be NoLesson or non-negative
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyContent)
	}

	if chunk.CourseTitle == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyTitle)
	}

	if chunk.Index < 0 {
		return fmt.Errorf("%w: %w: %d", ErrInvalidChunk, ErrInvalidChunkIndex, chunk.Index)
	}

	if chunk.LessonNumber < NoLesson {
		return fmt.Errorf("%w: %w: %d", ErrInvalidChunk, ErrInvalidLessonNumber, chunk.LessonNumber)
	}

	return nil
}
