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

import "errors"

// Domain validation errors
var (
	// ErrInvalidCourse indicates a Course failed validation.
	ErrInvalidCourse = errors.New("invalid course")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrEmptyTitle indicates the course Title field is empty.
	ErrEmptyTitle = errors.New("course title cannot be empty")

	// ErrDuplicateLesson indicates two lessons share a number within a course.
	ErrDuplicateLesson = errors.New("duplicate lesson number")

	// ErrInvalidLessonNumber indicates a negative lesson number.
	ErrInvalidLessonNumber = errors.New("invalid lesson number")

	// ErrEmptyContent indicates the chunk Text field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidChunkIndex indicates a negative chunk index.
	ErrInvalidChunkIndex = errors.New("invalid chunk index")
)
