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


package tools

import "errors"

var (
	// ErrUnknownTool is returned when no tool is registered under a name.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrDuplicateTool is returned when registering a name twice.
	ErrDuplicateTool = errors.New("tool already registered")

	// ErrInvalidTool is returned when a tool has no name.
	ErrInvalidTool = errors.New("invalid tool")

	// ErrInvalidArguments is returned when tool arguments cannot be decoded
	// or lack a required field.
	ErrInvalidArguments = errors.New("invalid tool arguments")

	// ErrIndexRequired is returned when a course tool is built without an index.
	ErrIndexRequired = errors.New("index required")
)
