// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package wire

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sovereign-mesh/zhtp/types"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	src := &types.NodeAddress{IP: net.ParseIP("127.0.0.1"), Port: 9000}
	dst := types.NodeAddress{IP: net.ParseIP("127.0.0.2"), Port: 9001}

	tests := []struct {
		name   string
		packet *types.Packet
	}{
		{
			name: "full packet with proof",
			packet: &types.Packet{
				ID:                    []byte("0123456789012345678901234567890"),
				Source:                src,
				DestinationCommitment: types.CommitAddress(dst),
				TTL:                   types.DefaultTTL,
				RoutingMetadata:       []byte("meta"),
				Payload:               []byte("hello world"),
				KeyPackage:            []byte("kempkg"),
				RoutingProof: types.ByteRoutingProof{
					Commitments:  [][]byte{[]byte("c1"), []byte("c2")},
					Evaluations:  [][]byte{[]byte("e1")},
					PublicInputs: [][]byte{[]byte("pi1"), []byte("pi2"), []byte("pi3")},
				},
				Signature: []byte("sig"),
			},
		},
		{
			name: "packet without source or proof",
			packet: &types.Packet{
				ID:                    []byte("abcdefghijabcdefghijabcdefghijab"),
				Source:                nil,
				DestinationCommitment: types.CommitAddress(dst),
				TTL:                   types.DefaultTTL,
				Payload:               []byte{},
				Signature:             []byte("sig2"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := Encode(tt.packet)
			require.NoError(t, err)
			require.LessOrEqual(t, len(encoded), MaxDatagramSize)

			decoded, err := Decode(encoded)
			require.NoError(t, err)

			require.Equal(t, tt.packet.ID, decoded.ID)
			require.Equal(t, tt.packet.DestinationCommitment, decoded.DestinationCommitment)
			require.Equal(t, tt.packet.TTL, decoded.TTL)
			require.Equal(t, tt.packet.Payload, decoded.Payload)
			require.Equal(t, tt.packet.Signature, decoded.Signature)

			if tt.packet.Source == nil {
				require.Nil(t, decoded.Source)
			} else {
				require.Equal(t, tt.packet.Source.Port, decoded.Source.Port)
			}
		})
	}
}

func TestDecodeRejectsTruncatedInput(t *testing.T) {
	_, err := Decode([]byte{0, 0})
	require.Error(t, err)
}
