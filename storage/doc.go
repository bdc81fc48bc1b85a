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


// Package storage provides the storage abstraction layer for syllabus.
//
// This package defines repository interfaces that decouple the vector index
// from business logic. The index is split into two collections:
//
//   - CatalogRepository: one entry per course, embedded from the course title
//     and instructor, used only to resolve fuzzy course names
//   - ContentRepository: one entry per chunk, used to answer queries
//
// Keeping the collections apart stops short catalog strings from crowding
// chunk results in nearest-neighbor ranking.
//
// MetadataRepository holds small named values about the index itself, such as
// the embedding model that produced the stored vectors.
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	catalog, _ := badger.NewCatalogRepository(backend)
//	content, _ := badger.NewContentRepository(backend)
//
// Use in tests with in-memory storage:
//
//	catalog, content, backend, err := badger.NewMemoryRepositories()
//
// # Distances
//
// Search results carry a distance of 1 - cosine similarity. Lower is more
// relevant. Distances are only meaningful for ordering.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent reads from multiple goroutines.
package storage
