// Copyright (C) 2020-2026, ZHTP Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package pq

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sovereign-mesh/zhtp/zhtperr"
)

func TestGenerateSetsRotationWindow(t *testing.T) {
	kp, err := Generate()
	require.NoError(t, err)
	require.NotEmpty(t, kp.SignPublic)
	require.NotEmpty(t, kp.KEMPublic)
	require.Equal(t, kp.CreatedAt+int64(RotationInterval/time.Second), kp.RotationDue)

	status := GetStatus(kp)
	require.False(t, status.NeedsRotation)
}

func TestSignFailsPastRotationDue(t *testing.T) {
	kp, err := Generate()
	require.NoError(t, err)

	ForceRotation(kp)
	require.True(t, GetStatus(kp).NeedsRotation)

	_, err = Sign(kp, []byte("hello"))
	require.ErrorIs(t, err, zhtperr.ErrKeyRotationRequired)
}

func TestVerifyIgnoresRotationState(t *testing.T) {
	kp, err := Generate()
	require.NoError(t, err)

	sig, err := Sign(kp, []byte("payload"))
	require.NoError(t, err)

	ForceRotation(kp)
	require.True(t, Verify(kp.SignPublic, []byte("payload"), sig))
}

func TestEncapsulateDecapsulateRoundTrip(t *testing.T) {
	kp, err := Generate()
	require.NoError(t, err)

	secret, pkg, err := EncapsulateTo(kp.KEMPublic)
	require.NoError(t, err)

	recovered, err := Decapsulate(kp.KEMSecret, pkg)
	require.NoError(t, err)
	require.Equal(t, secret, recovered)
}

func TestRotateProducesFreshMaterial(t *testing.T) {
	kp, err := Generate()
	require.NoError(t, err)

	rotated, err := Rotate(kp)
	require.NoError(t, err)
	require.NotEqual(t, kp.SignPublic, rotated.SignPublic)
}
