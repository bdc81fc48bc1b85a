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


package document

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingTitle is returned when a document has no "Course Title:" header.
	ErrMissingTitle = errors.New("missing course title header")

	// ErrEmptyDocument is returned when a document has no non-blank lines.
	ErrEmptyDocument = errors.New("empty document")

	// ErrInvalidChunking is returned for unusable chunk size or overlap settings.
	ErrInvalidChunking = errors.New("invalid chunking configuration")
)

// ParseError reports a document that cannot be turned into a course.
// Callers skip the file and continue with the rest of a batch.
type ParseError struct {
	Path string
	Line int // 1-based, 0 when not tied to a line
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
