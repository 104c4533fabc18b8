// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package wire implements ZHTP's packet wire format: a compact,
// length-prefixed binary encoding that fixes field order so independent
// implementations of the handshake can interoperate. It deliberately
// does not use a generic serializer (gob, protobuf) since the spec
// pins the exact byte layout; see DESIGN.md for why that rules out
// reaching for a pack library here.
package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"net"

	"github.com/sovereign-mesh/zhtp/types"
)

// MaxDatagramSize is the UDP receive buffer size; a single datagram
// carries exactly one packet.
const MaxDatagramSize = 65535

// Encode serializes a Packet in wire order: header (id, optional
// source address, destination commitment, ttl, routing metadata),
// payload, optional key package, routing proof (three byte-list
// vectors), signature.
func Encode(p *types.Packet) ([]byte, error) {
	var buf bytes.Buffer

	if err := writeBytes(&buf, p.ID); err != nil {
		return nil, err
	}

	if err := writeOptionalAddress(&buf, p.Source); err != nil {
		return nil, err
	}

	if _, err := buf.Write(p.DestinationCommitment[:]); err != nil {
		return nil, err
	}

	if err := buf.WriteByte(p.TTL); err != nil {
		return nil, err
	}

	if err := writeBytes(&buf, p.RoutingMetadata); err != nil {
		return nil, err
	}

	if err := writeBytes(&buf, p.Payload); err != nil {
		return nil, err
	}

	if err := writeBytes(&buf, p.KeyPackage); err != nil {
		return nil, err
	}

	if err := writeByteVector(&buf, p.RoutingProof.Commitments); err != nil {
		return nil, err
	}
	if err := writeByteVector(&buf, p.RoutingProof.Evaluations); err != nil {
		return nil, err
	}
	if err := writeByteVector(&buf, p.RoutingProof.PublicInputs); err != nil {
		return nil, err
	}

	if err := writeBytes(&buf, p.Signature); err != nil {
		return nil, err
	}

	if buf.Len() > MaxDatagramSize {
		return nil, fmt.Errorf("wire: encoded packet exceeds datagram size: %d", buf.Len())
	}

	return buf.Bytes(), nil
}

// Decode deserializes a Packet from its wire form. A truncated or
// malformed buffer returns an error; callers treat that as a protocol
// error and drop the packet.
func Decode(data []byte) (*types.Packet, error) {
	r := bytes.NewReader(data)
	p := &types.Packet{}

	id, err := readBytes(r)
	if err != nil {
		return nil, fmt.Errorf("wire: decode id: %w", err)
	}
	p.ID = id

	src, err := readOptionalAddress(r)
	if err != nil {
		return nil, fmt.Errorf("wire: decode source: %w", err)
	}
	p.Source = src

	if _, err := r.Read(p.DestinationCommitment[:]); err != nil {
		return nil, fmt.Errorf("wire: decode destination commitment: %w", err)
	}

	ttl, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("wire: decode ttl: %w", err)
	}
	p.TTL = ttl

	if p.RoutingMetadata, err = readBytes(r); err != nil {
		return nil, fmt.Errorf("wire: decode routing metadata: %w", err)
	}
	if p.Payload, err = readBytes(r); err != nil {
		return nil, fmt.Errorf("wire: decode payload: %w", err)
	}
	if p.KeyPackage, err = readBytes(r); err != nil {
		return nil, fmt.Errorf("wire: decode key package: %w", err)
	}

	if p.RoutingProof.Commitments, err = readByteVector(r); err != nil {
		return nil, fmt.Errorf("wire: decode proof commitments: %w", err)
	}
	if p.RoutingProof.Evaluations, err = readByteVector(r); err != nil {
		return nil, fmt.Errorf("wire: decode proof evaluations: %w", err)
	}
	if p.RoutingProof.PublicInputs, err = readByteVector(r); err != nil {
		return nil, fmt.Errorf("wire: decode proof public inputs: %w", err)
	}

	if p.Signature, err = readBytes(r); err != nil {
		return nil, fmt.Errorf("wire: decode signature: %w", err)
	}

	return p, nil
}

func writeBytes(buf *bytes.Buffer, b []byte) error {
	if err := binary.Write(buf, binary.BigEndian, uint32(len(b))); err != nil {
		return err
	}
	_, err := buf.Write(b)
	return err
}

func readBytes(r *bytes.Reader) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, err
	}
	if int(n) > r.Len() {
		return nil, fmt.Errorf("wire: length %d exceeds remaining buffer", n)
	}
	b := make([]byte, n)
	if _, err := r.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

func writeByteVector(buf *bytes.Buffer, vec [][]byte) error {
	if err := binary.Write(buf, binary.BigEndian, uint32(len(vec))); err != nil {
		return err
	}
	for _, elem := range vec {
		if err := writeBytes(buf, elem); err != nil {
			return err
		}
	}
	return nil
}

func readByteVector(r *bytes.Reader) ([][]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, err
	}
	vec := make([][]byte, n)
	for i := range vec {
		elem, err := readBytes(r)
		if err != nil {
			return nil, err
		}
		vec[i] = elem
	}
	return vec, nil
}

func writeOptionalAddress(buf *bytes.Buffer, addr *types.NodeAddress) error {
	if addr == nil {
		return buf.WriteByte(0)
	}
	if err := buf.WriteByte(1); err != nil {
		return err
	}
	ip := addr.IP.To4()
	if ip == nil {
		ip = addr.IP.To16()
	}
	if err := writeBytes(buf, ip); err != nil {
		return err
	}
	return binary.Write(buf, binary.BigEndian, addr.Port)
}

func readOptionalAddress(r *bytes.Reader) (*types.NodeAddress, error) {
	present, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if present == 0 {
		return nil, nil
	}
	ipBytes, err := readBytes(r)
	if err != nil {
		return nil, err
	}
	var port uint16
	if err := binary.Read(r, binary.BigEndian, &port); err != nil {
		return nil, err
	}
	return &types.NodeAddress{IP: net.IP(ipBytes), Port: port}, nil
}
