// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"strings"
	"sync"

	"github.com/sovereign-mesh/zhtp/types"
)

type storedContent struct {
	bytes []byte
	meta  types.ContentMetadata
}

// ContentStore is a node's local ContentId -> (bytes, metadata)
// store, distinct from the distributed DHT registry: this is the
// node's own copy of data it actually holds.
type ContentStore struct {
	mu      sync.RWMutex
	entries map[types.ContentID]storedContent
	now     func() int64
}

// NewContentStore returns an empty local content store.
func NewContentStore(now func() int64) *ContentStore {
	return &ContentStore{
		entries: make(map[types.ContentID]storedContent),
		now:     now,
	}
}

// Store saves bytes under their content address, stamping
// last_verified with the current time, and returns the id.
func (s *ContentStore) Store(data []byte, contentType string, tags []string) types.ContentID {
	id := types.HashContent(data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = storedContent{
		bytes: append([]byte(nil), data...),
		meta: types.ContentMetadata{
			ID:           id,
			Size:         uint64(len(data)),
			ContentType:  contentType,
			LastVerified: s.now(),
			Tags:         append([]string(nil), tags...),
		},
	}
	return id
}

// Get returns a stored blob and its metadata.
func (s *ContentStore) Get(id types.ContentID) ([]byte, types.ContentMetadata, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, types.ContentMetadata{}, false
	}
	return append([]byte(nil), entry.bytes...), entry.meta, true
}

// Search scans the local store for metadata whose content type
// contains query, or whose tag list contains query as a substring.
func (s *ContentStore) Search(query string) []types.ContentMetadata {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []types.ContentMetadata
	for _, entry := range s.entries {
		if strings.Contains(entry.meta.ContentType, query) {
			out = append(out, entry.meta)
			continue
		}
		for _, tag := range entry.meta.Tags {
			if strings.Contains(tag, query) {
				out = append(out, entry.meta)
				break
			}
		}
	}
	return out
}
