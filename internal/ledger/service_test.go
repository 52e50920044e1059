package ledger

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(store Store) *Service {
	return NewService(store, slog.Default())
}

func TestAppendLinksBlocks(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	svc := newTestService(store)

	require.NoError(t, svc.Append(ctx, "SWAP_INITIATED", "254712345678"))
	require.NoError(t, svc.Append(ctx, "PRIMARY_PASSED", "254712345678"))
	require.NoError(t, svc.Append(ctx, "SWAP_INITIATED", "254101234567"))

	blocks, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, blocks, 3)

	assert.Equal(t, int64(1), blocks[0].Index)
	assert.Equal(t, "0", blocks[0].PreviousHash)
	assert.Equal(t, blocks[0].Hash, blocks[1].PreviousHash)
	assert.Equal(t, blocks[1].Hash, blocks[2].PreviousHash)
	for _, b := range blocks {
		assert.True(t, b.Verify())
	}
}

func TestVerifyChainValid(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	svc := newTestService(store)

	events := []string{"SWAP_INITIATED", "PRIMARY_PASSED", "SECONDARY_PASSED", "FACE_PASSED", "SWAP_COMPLETED"}
	for _, event := range events {
		require.NoError(t, svc.Append(ctx, event, "254712345678"))
	}

	result, err := svc.VerifyChain(ctx)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, len(events), result.Length)
	assert.Zero(t, result.BadAt)
}

func TestVerifyChainEmpty(t *testing.T) {
	svc := newTestService(NewInMemoryStore())
	result, err := svc.VerifyChain(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Zero(t, result.Length)
}

func TestVerifyChainDetectsTampering(t *testing.T) {
	mutations := map[string]func(*Block){
		"event":         func(b *Block) { b.Event = "SWAP_COMPLETED" },
		"subject":       func(b *Block) { b.Subject = "254799999999" },
		"timestamp":     func(b *Block) { b.Timestamp = b.Timestamp.Add(time.Second) },
		"index":         func(b *Block) { b.Index++ },
		"previous_hash": func(b *Block) { b.PreviousHash = "deadbeef" },
		"hash":          func(b *Block) { b.Hash = "deadbeef" },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := NewInMemoryStore()
			svc := newTestService(store)
			for range 5 {
				require.NoError(t, svc.Append(ctx, "SWAP_INITIATED", "254712345678"))
			}

			store.Tamper(3, mutate)

			result, err := svc.VerifyChain(ctx)
			require.NoError(t, err)
			assert.False(t, result.Valid)
		})
	}
}

func TestVerifyChainDetectsTamperingAtAnyPosition(t *testing.T) {
	ctx := context.Background()
	for tampered := int64(1); tampered <= 4; tampered++ {
		store := NewInMemoryStore()
		svc := newTestService(store)
		for range 4 {
			require.NoError(t, svc.Append(ctx, "PRIMARY_FAILED", "254712345678"))
		}

		store.Tamper(tampered, func(b *Block) { b.Event = "PRIMARY_PASSED" })

		result, err := svc.VerifyChain(ctx)
		require.NoError(t, err)
		assert.False(t, result.Valid, "tampered block %d", tampered)
		assert.Equal(t, tampered, result.BadAt)
	}
}

func TestTrailFiltersBySubject(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(NewInMemoryStore())

	require.NoError(t, svc.Append(ctx, "SWAP_INITIATED", "254712345678"))
	require.NoError(t, svc.Append(ctx, "SWAP_INITIATED", "254101234567"))
	require.NoError(t, svc.Append(ctx, "SWAP_COMPLETED", "254712345678"))

	trail, err := svc.Trail(ctx, "254712345678")
	require.NoError(t, err)
	require.Len(t, trail, 2)
	assert.Equal(t, "SWAP_INITIATED", trail[0].Event)
	assert.Equal(t, "SWAP_COMPLETED", trail[1].Event)
}

func TestIndexGaugeTracksTip(t *testing.T) {
	ctx := context.Background()
	var latest int64
	svc := NewService(NewInMemoryStore(), slog.Default(), WithIndexGauge(func(i int64) { latest = i }))

	require.NoError(t, svc.Append(ctx, "SWAP_INITIATED", "254712345678"))
	require.NoError(t, svc.Append(ctx, "SWAP_COMPLETED", "254712345678"))
	assert.Equal(t, int64(2), latest)
}
