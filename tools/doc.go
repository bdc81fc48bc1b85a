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


// Package tools exposes local functions to the completion service.
//
// A Tool publishes an ai.ToolDefinition (name, description and JSON schema)
// and executes raw JSON arguments. Execute returns the text handed back to the
// model together with the citations produced by that one call, so a tool value
// can be shared by concurrent queries.
//
// The Manager keeps the registered tools and dispatches calls by name.
//
// Two tools are provided:
//   - CourseSearchTool ("search_course_content") searches chunk content
//   - CourseOutlineTool ("get_course_outline") renders a course and its lessons
//
// A retrieval miss is a normal result with explanatory text, not an error.
package tools
