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


// Package document parses course documents into courses and retrievable chunks.
//
// A document is UTF-8 text with a header block followed by lesson blocks:
//
//	Course Title: Building Towards Computer Use
//	Course Link: https://example.com/course
//	Course Instructor: Colt Steele
//
//	Lesson 0: Introduction
//	Lesson Link: https://example.com/course/lesson0
//	Welcome to the course...
//
// Lesson bodies are split into sentences and packed greedily into chunks of
// bounded size with a trailing overlap of whole sentences. Chunk indices run
// across the whole course and the first chunk of every lesson is prefixed
// with "Lesson N content: ".
package document
