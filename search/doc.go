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


// Package search provides the dual-collection course index.
//
// The Index type keeps two collections behind one API:
//   - a catalog with one embedding per course, used to resolve partial or
//     misspelled course names to an exact title
//   - a content collection with one embedding per chunk, used to answer queries
//
// Search resolves the course filter through the catalog, applies the resolved
// title and the lesson number as exact filters, and ranks the remaining chunks
// by embedding distance. The Outcome of a search tells an empty index apart
// from a query that matched nothing and from a filter that matched nothing.
package search
