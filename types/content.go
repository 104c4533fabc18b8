// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package types

// ContentMetadata describes a piece of content registered in the DHT:
// its size and declared type, which nodes hold a copy, and when it was
// last verified present at one of them.
type ContentMetadata struct {
	ID           ContentID
	Size         uint64
	ContentType  string
	Locations    []NodeID
	LastVerified int64
	Tags         []string
}

// HasLocation reports whether a node is already recorded as holding
// this content.
func (m *ContentMetadata) HasLocation(node NodeID) bool {
	for _, loc := range m.Locations {
		if loc == node {
			return true
		}
	}
	return false
}

// DHTNode is a node's storage-capacity record in the DHT: how much
// space it offers, how much is in use, and which chunk keys it holds.
type DHTNode struct {
	ID       NodeID
	Capacity uint64
	Used     uint64
	Chunks   map[ContentID]struct{}
}

// Remaining returns the node's free capacity.
func (n *DHTNode) Remaining() uint64 {
	if n.Used >= n.Capacity {
		return 0
	}
	return n.Capacity - n.Used
}

// DataChunk is a unit of storable content along with its desired
// replication factor.
type DataChunk struct {
	ID          ContentID
	Payload     []byte
	Owner       NodeID
	Replication int
}

// ServiceRecord is an entry in the DHT's service registry: a provider
// advertising a capability at a network endpoint.
type ServiceRecord struct {
	ID           ContentID
	ServiceType  string
	Provider     NodeID
	Endpoint     string
	Capabilities []string
	LastVerified int64
}

// StorageConfig holds the tunable parameters of the DHT's placement
// policy.
type StorageConfig struct {
	ReplicationFactor int
	MinProofs         int
	MaxNodeStorage    uint64
}

// DefaultStorageConfig matches the reference defaults: 3x replication,
// 2 verifications required, 1 GiB cap per node.
func DefaultStorageConfig() StorageConfig {
	return StorageConfig{
		ReplicationFactor: 3,
		MinProofs:         2,
		MaxNodeStorage:    1 << 30,
	}
}
