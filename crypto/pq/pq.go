// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pq wraps the lattice-based post-quantum signature and
// key-encapsulation primitives used throughout ZHTP: node identity
// signing, packet authentication, and key-encapsulation for payload
// secrecy. It forwards to the lattice scheme implementation in
// github.com/luxfi/lattice/v7, the way the wider Lux stack's ringtail
// package forwards to github.com/luxfi/crypto/ringtail.
package pq

import (
	"fmt"
	"time"

	lattice "github.com/luxfi/lattice/v7"

	"github.com/sovereign-mesh/zhtp/zhtperr"
)

// RotationInterval is how long a freshly generated keypair remains
// usable before sign/encapsulate start failing with
// ErrKeyRotationRequired.
const RotationInterval = 24 * time.Hour

// Keypair is a node's signing and key-encapsulation material. Both
// halves rotate together.
type Keypair struct {
	SignPublic []byte
	SignSecret []byte
	KEMPublic  []byte
	KEMSecret  []byte

	CreatedAt   int64
	RotationDue int64
}

// Status is a point-in-time snapshot of a keypair's rotation state.
type Status struct {
	CreatedAt     int64
	RotationDue   int64
	NeedsRotation bool
}

// KeyPackage is the output of EncapsulateTo: the KEM ciphertext a peer
// attaches to a packet so the recipient can recover the shared secret.
type KeyPackage struct {
	Ciphertext []byte
}

func signScheme() lattice.SignatureScheme { return lattice.NewSignatureScheme() }
func kemScheme() lattice.KEMScheme        { return lattice.NewKEMScheme() }

// Generate samples a fresh signing and KEM keypair. created_at is set
// to now and rotation_due to now + RotationInterval.
func Generate() (*Keypair, error) {
	sigSk, sigPk, err := signScheme().KeyGen()
	if err != nil {
		return nil, fmt.Errorf("pq: generate signing keys: %w", err)
	}
	kemSk, kemPk, err := kemScheme().KeyGen()
	if err != nil {
		return nil, fmt.Errorf("pq: generate kem keys: %w", err)
	}

	now := time.Now().Unix()
	return &Keypair{
		SignPublic:  sigPk,
		SignSecret:  sigSk,
		KEMPublic:   kemPk,
		KEMSecret:   kemSk,
		CreatedAt:   now,
		RotationDue: now + int64(RotationInterval/time.Second),
	}, nil
}

// Rotate discards a keypair's material and returns a freshly generated
// replacement. Equivalent to Generate.
func Rotate(*Keypair) (*Keypair, error) {
	return Generate()
}

// ForceRotation marks a keypair as immediately due for rotation.
func ForceRotation(kp *Keypair) {
	kp.RotationDue = 0
}

// GetStatus reports a keypair's rotation state, independent of whether
// any operation has actually failed yet.
func GetStatus(kp *Keypair) Status {
	return Status{
		CreatedAt:     kp.CreatedAt,
		RotationDue:   kp.RotationDue,
		NeedsRotation: time.Now().Unix() > kp.RotationDue,
	}
}

// Sign signs bytes with a keypair's signing secret. Fails with
// ErrKeyRotationRequired once the keypair is past its rotation_due;
// verification is otherwise unaffected by rotation state.
func Sign(kp *Keypair, msg []byte) ([]byte, error) {
	if time.Now().Unix() > kp.RotationDue {
		return nil, zhtperr.ErrKeyRotationRequired
	}
	sig, err := signScheme().Sign(kp.SignSecret, msg)
	if err != nil {
		return nil, fmt.Errorf("pq: sign: %w", err)
	}
	return sig, nil
}

// Verify checks a detached signature against a public key. Verification
// never consults rotation state: a signature made before a key rotated
// away must continue to verify.
func Verify(public, msg, signature []byte) bool {
	return signScheme().Verify(public, msg, signature)
}

// EncapsulateTo derives a fresh shared secret for the holder of
// kemPublic and returns the key package the recipient needs to recover
// it.
func EncapsulateTo(kemPublic []byte) (sharedSecret []byte, pkg *KeyPackage, err error) {
	secret, ciphertext, err := kemScheme().Encapsulate(kemPublic)
	if err != nil {
		return nil, nil, fmt.Errorf("pq: encapsulate: %w", err)
	}
	return secret, &KeyPackage{Ciphertext: ciphertext}, nil
}

// Decapsulate recovers the shared secret a peer encapsulated to our KEM
// public key. For a correctly matched keypair and package, the result is
// bitwise equal to the secret EncapsulateTo produced.
func Decapsulate(kemSecret []byte, pkg *KeyPackage) ([]byte, error) {
	secret, err := kemScheme().Decapsulate(kemSecret, pkg.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("pq: decapsulate: %w", err)
	}
	return secret, nil
}
