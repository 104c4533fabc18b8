// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package dht

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sovereign-mesh/zhtp/types"
	"github.com/sovereign-mesh/zhtp/zhtperr"
)

func fixedClock(ts int64) func() int64 {
	return func() int64 { return ts }
}

func TestRegisterNewContentPopulatesIndices(t *testing.T) {
	r := NewRegistry(fixedClock(100), nil)

	data := []byte("hello world, this is content")
	id := r.Register(data, "text/plain", "node-1", []string{"greeting", "demo"})

	meta, ok := r.Find(id)
	require.True(t, ok)
	require.Equal(t, uint64(len(data)), meta.Size)
	require.Equal(t, []types.NodeID{"node-1"}, meta.Locations)
	require.Equal(t, int64(100), meta.LastVerified)

	require.Len(t, r.ByType("text/plain"), 1)
	require.Len(t, r.ByTag("greeting"), 1)
	require.Len(t, r.ByTag("demo"), 1)
	require.Empty(t, r.ByTag("nonexistent"))

	bucket := meta.Size / 1024
	matches := r.BySizeRange(bucket, bucket)
	require.Len(t, matches, 1)
	require.Equal(t, id, matches[0].ID)
}

func TestRegisterExistingContentMergesLocations(t *testing.T) {
	clock := int64(1)
	r := NewRegistry(func() int64 { clock++; return clock }, nil)

	data := []byte("shared content")
	id1 := r.Register(data, "text/plain", "node-1", []string{"a"})
	id2 := r.Register(data, "text/plain", "node-2", []string{"a"})
	require.Equal(t, id1, id2)

	// Re-registering from the same node is a no-op on locations.
	id3 := r.Register(data, "text/plain", "node-1", nil)
	require.Equal(t, id1, id3)

	meta, ok := r.Find(id1)
	require.True(t, ok)
	require.ElementsMatch(t, []types.NodeID{"node-1", "node-2"}, meta.Locations)

	// Indices are only populated on first registration; a second tag
	// list on re-registration never retroactively indexes.
	require.Len(t, r.ByTag("a"), 1)
}

func TestVerifyContentChecksLocationMembership(t *testing.T) {
	r := NewRegistry(fixedClock(5), nil)
	id := r.Register([]byte("payload"), "application/octet-stream", "node-1", nil)

	require.True(t, r.VerifyContent(id, "node-1"))
	require.False(t, r.VerifyContent(id, "node-2"))
	require.False(t, r.VerifyContent(types.HashContent([]byte("nope")), "node-1"))
}

func TestFindIncrementsAccessCount(t *testing.T) {
	r := NewRegistry(fixedClock(1), nil)
	id := r.Register([]byte("popular"), "text/plain", "node-1", nil)

	for i := 0; i < 5; i++ {
		_, ok := r.Find(id)
		require.True(t, ok)
	}

	popular := r.PopularContent(5)
	require.Len(t, popular, 1)
	require.Equal(t, id, popular[0].ID)

	require.Empty(t, r.PopularContent(6))
}

func TestSearchTypeIsCaseInsensitiveSubstring(t *testing.T) {
	r := NewRegistry(fixedClock(1), nil)
	r.Register([]byte("a"), "application/json", "node-1", nil)
	r.Register([]byte("b"), "text/plain", "node-1", nil)

	matches := r.SearchType("JSON")
	require.Len(t, matches, 1)
	require.Equal(t, "application/json", matches[0].ContentType)
}

func TestStoreChunkRespectsCapacity(t *testing.T) {
	nodes := NewNodes()
	nodes.AddNode("node-1", 10)

	err := nodes.StoreChunk(types.DataChunk{ID: types.HashContent([]byte("c1")), Payload: make([]byte, 6)}, "node-1")
	require.NoError(t, err)

	err = nodes.StoreChunk(types.DataChunk{ID: types.HashContent([]byte("c2")), Payload: make([]byte, 6)}, "node-1")
	require.ErrorIs(t, err, zhtperr.ErrCapacityExhausted)

	err = nodes.StoreChunk(types.DataChunk{ID: types.HashContent([]byte("c3")), Payload: make([]byte, 2)}, "node-1")
	require.NoError(t, err)

	node, ok := nodes.Node("node-1")
	require.True(t, ok)
	require.Equal(t, uint64(8), node.Used)
	require.Len(t, node.Chunks, 2)
}

func TestStoreChunkUnknownNode(t *testing.T) {
	nodes := NewNodes()
	err := nodes.StoreChunk(types.DataChunk{ID: types.HashContent([]byte("c1")), Payload: []byte("x")}, "ghost")
	require.ErrorIs(t, err, zhtperr.ErrNotFound)
}

func TestServiceRegistryIsAppendOnlyByType(t *testing.T) {
	svc := NewServiceRegistry()
	svc.Register(types.ServiceRecord{ID: types.HashContent([]byte("s1")), ServiceType: "relay", Provider: "node-1"})
	svc.Register(types.ServiceRecord{ID: types.HashContent([]byte("s2")), ServiceType: "relay", Provider: "node-2"})
	svc.Register(types.ServiceRecord{ID: types.HashContent([]byte("s3")), ServiceType: "storage", Provider: "node-3"})

	relays := svc.ByType("relay")
	require.Len(t, relays, 2)
	require.Equal(t, types.NodeID("node-1"), relays[0].Provider)
	require.Equal(t, types.NodeID("node-2"), relays[1].Provider)

	require.Len(t, svc.ByType("storage"), 1)
	require.Empty(t, svc.ByType("unknown"))
}
