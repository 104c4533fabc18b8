// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package dht implements ZHTP's content-addressed storage layer: a
// registry mapping ContentId to metadata with four secondary indices,
// a node capacity/chunk-placement model, and a separate append-only
// service registry.
package dht

import (
	"sort"
	"sync"

	"github.com/sovereign-mesh/zhtp/types"
	"github.com/sovereign-mesh/zhtp/zhtperr"
)

// Store is a narrow key-value persistence surface with the same
// Reader/Writer shape as github.com/luxfi/database, satisfied by
// PebbleStore. Registry holds the Store passed to NewRegistry but never
// calls it: all registry state lives in memory.
type Store interface {
	Has(key []byte) (bool, error)
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
}

// Registry is the content-addressed metadata store. One RWMutex
// guards the primary map and all four secondary indices together, per
// the node→ledger→storage→consensus lock-ordering rule: nothing here
// ever blocks while holding a consensus or ledger lock.
type Registry struct {
	mu sync.RWMutex

	byID        map[types.ContentID]*types.ContentMetadata
	byType      map[string]map[types.ContentID]struct{}
	bySizeKB    map[uint64]map[types.ContentID]struct{}
	byTag       map[string]map[types.ContentID]struct{}
	accessCount map[types.ContentID]uint64

	store Store
	now   func() int64
}

// NewRegistry returns an empty registry. now supplies the clock used
// for last_verified timestamps (injected so tests are deterministic).
func NewRegistry(now func() int64, store Store) *Registry {
	return &Registry{
		byID:        make(map[types.ContentID]*types.ContentMetadata),
		byType:      make(map[string]map[types.ContentID]struct{}),
		bySizeKB:    make(map[uint64]map[types.ContentID]struct{}),
		byTag:       make(map[string]map[types.ContentID]struct{}),
		accessCount: make(map[types.ContentID]uint64),
		store:       store,
		now:         now,
	}
}

// Register records a piece of content under its content address. If
// the id already exists, the node is merely appended to its location
// set (deduplicated) and last_verified is refreshed; indices are only
// populated on first registration.
func (r *Registry) Register(data []byte, contentType string, node types.NodeID, tags []string) types.ContentID {
	id := types.HashContent(data)

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byID[id]; ok {
		if !existing.HasLocation(node) {
			existing.Locations = append(existing.Locations, node)
		}
		existing.LastVerified = r.now()
		return id
	}

	meta := &types.ContentMetadata{
		ID:           id,
		Size:         uint64(len(data)),
		ContentType:  contentType,
		Locations:    []types.NodeID{node},
		LastVerified: r.now(),
		Tags:         append([]string(nil), tags...),
	}
	r.byID[id] = meta
	r.accessCount[id] = 0

	indexSet(r.byType, contentType, id)
	indexSet(r.bySizeKB, meta.Size/1024, id)
	for _, tag := range tags {
		indexSet(r.byTag, tag, id)
	}

	return id
}

func indexSet[K comparable](index map[K]map[types.ContentID]struct{}, key K, id types.ContentID) {
	set, ok := index[key]
	if !ok {
		set = make(map[types.ContentID]struct{})
		index[key] = set
	}
	set[id] = struct{}{}
}

// VerifyContent reports whether node is among id's recorded locations,
// refreshing last_verified as a side effect regardless of the
// outcome's content (only a positive hit touches the timestamp, per
// the reference: verification is a presence check, not an assertion).
func (r *Registry) VerifyContent(id types.ContentID, node types.NodeID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	meta, ok := r.byID[id]
	if !ok {
		return false
	}
	present := meta.HasLocation(node)
	meta.LastVerified = r.now()
	return present
}

// Find looks up content metadata by id, incrementing its access count
// on a hit.
func (r *Registry) Find(id types.ContentID) (types.ContentMetadata, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	meta, ok := r.byID[id]
	if !ok {
		return types.ContentMetadata{}, false
	}
	r.accessCount[id]++
	return *meta, true
}

// ByType returns metadata for every id registered under an exact
// content-type match.
func (r *Registry) ByType(contentType string) []types.ContentMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(r.byType[contentType])
}

// SearchType scans the primary map for any content type containing
// query as a substring, for callers that don't know the exact type.
func (r *Registry) SearchType(query string) []types.ContentMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []types.ContentMetadata
	for _, meta := range r.byID {
		if containsFold(meta.ContentType, query) {
			out = append(out, *meta)
		}
	}
	return out
}

// ByTag returns metadata for every id registered under the given tag.
func (r *Registry) ByTag(tag string) []types.ContentMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(r.byTag[tag])
}

// BySizeRange returns metadata for ids whose size bucket (KB) falls in
// [minKB, maxKB], sorted ascending by bucket for a stable range scan.
func (r *Registry) BySizeRange(minKB, maxKB uint64) []types.ContentMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var buckets []uint64
	for bucket := range r.bySizeKB {
		if bucket >= minKB && bucket <= maxKB {
			buckets = append(buckets, bucket)
		}
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i] < buckets[j] })

	var out []types.ContentMetadata
	for _, bucket := range buckets {
		out = append(out, r.collect(r.bySizeKB[bucket])...)
	}
	return out
}

// PopularContent returns every (id, metadata) pair whose access count
// is at least threshold.
func (r *Registry) PopularContent(threshold uint64) []types.ContentMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []types.ContentMetadata
	for id, meta := range r.byID {
		if r.accessCount[id] >= threshold {
			out = append(out, *meta)
		}
	}
	return out
}

func (r *Registry) collect(ids map[types.ContentID]struct{}) []types.ContentMetadata {
	if len(ids) == 0 {
		return nil
	}
	out := make([]types.ContentMetadata, 0, len(ids))
	for id := range ids {
		if meta, ok := r.byID[id]; ok {
			out = append(out, *meta)
		}
	}
	return out
}

func containsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	hl, nl := len(haystack), len(needle)
	if nl > hl {
		return false
	}
	for i := 0; i+nl <= hl; i++ {
		if equalFold(haystack[i:i+nl], needle) {
			return true
		}
	}
	return false
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// Nodes tracks each DHT participant's declared storage capacity and
// placed chunks, guarded by its own RWMutex (distinct from Registry's,
// per the no-two-locks-across-a-suspension-point rule).
type Nodes struct {
	mu    sync.RWMutex
	nodes map[types.NodeID]*types.DHTNode
}

// NewNodes returns an empty node-capacity table.
func NewNodes() *Nodes {
	return &Nodes{nodes: make(map[types.NodeID]*types.DHTNode)}
}

// AddNode registers a node's declared storage capacity.
func (n *Nodes) AddNode(id types.NodeID, capacity uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.nodes[id]; ok {
		return
	}
	n.nodes[id] = &types.DHTNode{
		ID:       id,
		Capacity: capacity,
		Chunks:   make(map[types.ContentID]struct{}),
	}
}

// StoreChunk places a chunk at targetNode if it is registered and has
// remaining capacity for it.
func (n *Nodes) StoreChunk(chunk types.DataChunk, targetNode types.NodeID) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	node, ok := n.nodes[targetNode]
	if !ok {
		return zhtperr.ErrNotFound
	}
	size := uint64(len(chunk.Payload))
	if node.Remaining() < size {
		return zhtperr.ErrCapacityExhausted
	}

	node.Chunks[chunk.ID] = struct{}{}
	node.Used += size
	return nil
}

// Node returns a copy of a node's current capacity record.
func (n *Nodes) Node(id types.NodeID) (types.DHTNode, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	node, ok := n.nodes[id]
	if !ok {
		return types.DHTNode{}, false
	}
	cp := *node
	cp.Chunks = make(map[types.ContentID]struct{}, len(node.Chunks))
	for k := range node.Chunks {
		cp.Chunks[k] = struct{}{}
	}
	return cp, true
}

// ServiceRegistry is the append-only service-type → records index.
type ServiceRegistry struct {
	mu     sync.RWMutex
	byType map[string][]types.ServiceRecord
}

// NewServiceRegistry returns an empty service registry.
func NewServiceRegistry() *ServiceRegistry {
	return &ServiceRegistry{byType: make(map[string][]types.ServiceRecord)}
}

// Register appends a service record under its service type. Existing
// records for the same type or id are never mutated or removed.
func (s *ServiceRegistry) Register(rec types.ServiceRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byType[rec.ServiceType] = append(s.byType[rec.ServiceType], rec)
}

// ByType returns every record registered under a service type, in
// registration order.
func (s *ServiceRegistry) ByType(serviceType string) []types.ServiceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.ServiceRecord, len(s.byType[serviceType]))
	copy(out, s.byType[serviceType])
	return out
}
