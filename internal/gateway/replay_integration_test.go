//go:build integration

package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swapsecure/pkg/testutil/containers"
)

func TestReplayGuardFirstDelivery(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	guard := NewReplayGuard(rc.Client)
	ctx := context.Background()

	first, err := guard.FirstDelivery(ctx, "sig-aaa")
	require.NoError(t, err)
	assert.True(t, first)

	// Same signature again is a replay.
	second, err := guard.FirstDelivery(ctx, "sig-aaa")
	require.NoError(t, err)
	assert.False(t, second)

	// A different signature is unaffected.
	other, err := guard.FirstDelivery(ctx, "sig-bbb")
	require.NoError(t, err)
	assert.True(t, other)
}

func TestReplayGuardForget(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	guard := NewReplayGuard(rc.Client)
	ctx := context.Background()

	first, err := guard.FirstDelivery(ctx, "sig-retry")
	require.NoError(t, err)
	require.True(t, first)

	// Forgetting the fingerprint lets the vendor's retry through.
	require.NoError(t, guard.Forget(ctx, "sig-retry"))

	retry, err := guard.FirstDelivery(ctx, "sig-retry")
	require.NoError(t, err)
	assert.True(t, retry)
}
