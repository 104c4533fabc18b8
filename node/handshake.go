// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"fmt"
	"time"

	"github.com/sovereign-mesh/zhtp/types"
	"github.com/sovereign-mesh/zhtp/wire"
	"github.com/sovereign-mesh/zhtp/zhtperr"
)

// HandshakeTimeout bounds how long Handshake waits for a peer's reply.
const HandshakeTimeout = 5 * time.Second

// Handshake sends a ZHTP_HANDSHAKE packet to peer and waits up to
// HandshakeTimeout for a reply. A reply from any address other than
// peer is a protocol error (ErrProtocol), and no reply within the
// timeout returns ErrTimedOut: the handshake never silently keeps
// waiting past the first stray datagram. On success both ends are recorded as connected in the
// node's routing table.
func (n *Node) Handshake(peer types.NodeAddress) error {
	id, err := types.NewPacketID()
	if err != nil {
		return fmt.Errorf("node: handshake packet id: %w", err)
	}

	pkt := &types.Packet{
		ID:                     id,
		Source:                 &n.Address,
		DestinationCommitment:  types.CommitAddress(peer),
		TTL:                    types.DefaultTTL,
		Payload:                types.HandshakeLiteral,
	}
	if err := n.send(peer, pkt); err != nil {
		return err
	}

	if err := n.conn.SetReadDeadline(time.Now().Add(HandshakeTimeout)); err != nil {
		return fmt.Errorf("node: set handshake deadline: %w", err)
	}
	defer n.conn.SetReadDeadline(time.Time{})

	buf := make([]byte, wire.MaxDatagramSize)
	read, from, err := n.conn.ReadFromUDP(buf)
	if err != nil {
		if isTimeout(err) {
			return zhtperr.ErrTimedOut
		}
		return fmt.Errorf("node: handshake read: %w", err)
	}

	replyAddr := addrFromUDP(from)
	if replyAddr.String() != peer.String() {
		return zhtperr.ErrProtocol
	}

	reply, err := wire.Decode(buf[:read])
	if err != nil {
		return fmt.Errorf("node: decode handshake reply: %w", err)
	}
	if !reply.IsAck() {
		return zhtperr.ErrProtocol
	}

	n.Routing.Connect(n.Address, peer, n.now())
	return nil
}

// acknowledgeHandshake replies to a peer's handshake packet with
// ZHTP_ACK and records the connection.
func (n *Node) acknowledgeHandshake(peer types.NodeAddress) error {
	id, err := types.NewPacketID()
	if err != nil {
		return fmt.Errorf("node: ack packet id: %w", err)
	}

	pkt := &types.Packet{
		ID:                     id,
		Source:                 &n.Address,
		DestinationCommitment:  types.CommitAddress(peer),
		TTL:                    types.DefaultTTL,
		Payload:                types.AckLiteral,
	}
	if err := n.send(peer, pkt); err != nil {
		return err
	}

	n.Routing.Connect(n.Address, peer, n.now())
	return nil
}
