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


package reembed

import (
	"context"

	"github.com/poiesic/syllabus/core"
	"github.com/poiesic/syllabus/storage"
)

const (
	// DefaultBatchSize is the default number of entries handed to each batch
	DefaultBatchSize = 100
)

// EntryIterator iterates over every entry of one collection in batches.
// Entries are read up front so batches can be written back while iterating.
type EntryIterator[T any] struct {
	scan      func(ctx context.Context, fn func(T) error) error
	batchSize int
}

// NewCatalogIterator creates an iterator over the course catalog.
// batchSize: number of entries in each batch (defaults when <= 0)
func NewCatalogIterator(repo storage.CatalogRepository, batchSize int) *EntryIterator[*core.CatalogEntry] {
	return newEntryIterator(repo.ForEach, batchSize)
}

// NewContentIterator creates an iterator over the course content.
// batchSize: number of entries in each batch (defaults when <= 0)
func NewContentIterator(repo storage.ContentRepository, batchSize int) *EntryIterator[*core.ContentEntry] {
	return newEntryIterator(repo.ForEach, batchSize)
}

func newEntryIterator[T any](scan func(context.Context, func(T) error) error, batchSize int) *EntryIterator[T] {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &EntryIterator[T]{scan: scan, batchSize: batchSize}
}

// ForEach iterates over all entries, calling fn for each batch.
// Iteration stops on first error from fn or when all entries are processed.
// Context cancellation is checked between batches.
func (it *EntryIterator[T]) ForEach(ctx context.Context, fn func([]T) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var entries []T
	err := it.scan(ctx, func(entry T) error {
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return err
	}

	for i := 0; i < len(entries); i += it.batchSize {
		end := min(i+it.batchSize, len(entries))
		if err := fn(entries[i:end]); err != nil {
			return err
		}

		if err := ctx.Err(); err != nil {
			return err
		}
	}

	return nil
}
