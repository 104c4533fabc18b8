// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"context"
	"time"

	"github.com/luxfi/log"

	"github.com/sovereign-mesh/zhtp/types"
	"github.com/sovereign-mesh/zhtp/wire"
)

// Listen runs the node's receive loop until ctx is cancelled. Every
// suspension point (the blocking socket read) is bounded by
// pollInterval so cancellation is observed promptly rather than only
// between datagrams. Malformed packets are dropped silently; a
// handshake packet is acknowledged and its sender recorded; anything
// else is dispatched to local delivery or OnForward depending on
// whether its destination commitment matches this node's own address.
func (n *Node) Listen(ctx context.Context) error {
	ownCommitment := types.CommitAddress(n.Address)
	buf := make([]byte, wire.MaxDatagramSize)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := n.conn.SetReadDeadline(time.Now().Add(pollInterval)); err != nil {
			return err
		}
		read, from, err := n.conn.ReadFromUDP(buf)
		if err != nil {
			if isTimeout(err) {
				continue
			}
			return err
		}

		pkt, err := wire.Decode(buf[:read])
		if err != nil {
			n.Log.Debug("node: dropped malformed packet", log.Err(err))
			continue
		}
		n.dispatch(pkt, addrFromUDP(from), ownCommitment)
	}
}

func (n *Node) dispatch(pkt *types.Packet, from types.NodeAddress, ownCommitment types.DestinationCommitment) {
	if pkt.IsHandshake() {
		_ = n.acknowledgeHandshake(from)
		return
	}
	if pkt.IsAck() {
		// A stray ack outside of Handshake's own read: nothing to do
		// beyond recording the peer.
		n.Routing.Add(from, n.now())
		return
	}

	if pkt.DestinationCommitment == ownCommitment {
		select {
		case n.Inbound <- InboundPayload{Source: from, Payload: pkt.Payload}:
		default:
			n.Log.Warn("node: inbound channel full, dropping packet")
		}
		return
	}

	if n.OnForward != nil {
		n.OnForward(pkt, from)
	}
}
