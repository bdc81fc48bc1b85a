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


// Package ingestion loads course documents into the index.
//
// The Pipeline type manages the ingestion workflow for a folder of course
// files:
//   - Parsing each file into a course and its chunks
//   - Skipping courses whose title is already indexed
//   - Embedding and storing chunks, then the catalog entry
//
// Files are processed concurrently using a worker pool. A file that fails to
// parse or embed is recorded in the Report and does not stop the batch.
//
// The Watcher keeps a folder and the index in step, re-ingesting course files
// as they are created or changed.
package ingestion
