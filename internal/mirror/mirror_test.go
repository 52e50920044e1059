package mirror

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swapsecure/pkg/platform/circuit"
)

func TestDemoRefDeterministic(t *testing.T) {
	ctx := context.Background()
	demo := NewDemo(NewInMemoryStore(), "0xCONTRACT", slog.Default())

	first := demo.InitiateSwap(ctx, "swap-1", "254712345678")
	second := demo.InitiateSwap(ctx, "swap-1", "254712345678")
	other := demo.InitiateSwap(ctx, "swap-2", "254712345678")

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	assert.True(t, strings.HasPrefix(first, "0x"))
	assert.Len(t, first, 66)
}

func TestDemoRecordsConfirmed(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	demo := NewDemo(store, "0xCONTRACT", slog.Default())

	ref := demo.ApproveSwap(ctx, "swap-1")
	require.NotEmpty(t, ref)

	tx, err := store.Get(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, tx.Status)
	assert.Equal(t, FuncApproveSwap, tx.FunctionName)
	assert.Equal(t, "0xCONTRACT", tx.ContractAddress)
}

func TestDemoFunctionsProduceDistinctRefs(t *testing.T) {
	ctx := context.Background()
	demo := NewDemo(NewInMemoryStore(), "0xCONTRACT", slog.Default())

	refs := map[string]bool{
		demo.RegisterIdentity(ctx, "user-1", "254712345678"): true,
		demo.InitiateSwap(ctx, "swap-1", "254712345678"):     true,
		demo.RecordVerification(ctx, "swap-1", "FACE", true): true,
		demo.ApproveSwap(ctx, "swap-1"):                      true,
	}
	assert.Len(t, refs, 4)
}

func TestLiveRecordsPending(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/invoke", r.URL.Path)
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"transaction_ref":"0xabc123"}`))
	}))
	defer srv.Close()

	store := NewInMemoryStore()
	live := NewLive(store, srv.URL, "0xCONTRACT", time.Second, slog.Default())

	ref := live.InitiateSwap(context.Background(), "swap-1", "254712345678")
	require.Equal(t, "0xabc123", ref)

	tx, err := store.Get(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, tx.Status)
}

func TestLiveGatewayDownReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	var failed []string
	live := NewLive(NewInMemoryStore(), srv.URL, "0xCONTRACT", time.Second, slog.Default(),
		WithFailureCounter(func(op string) { failed = append(failed, op) }))

	ref := live.ApproveSwap(context.Background(), "swap-1")
	assert.Empty(t, ref)
	assert.Equal(t, []string{FuncApproveSwap}, failed)
}

func TestLiveBreakerSkipsCallsWhenOpen(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	live := NewLive(NewInMemoryStore(), srv.URL, "0xCONTRACT", time.Second, slog.Default(),
		WithBreaker(circuit.New("test", circuit.WithFailureThreshold(2))))

	ctx := context.Background()
	assert.Empty(t, live.ApproveSwap(ctx, "swap-1"))
	assert.Empty(t, live.ApproveSwap(ctx, "swap-1"))
	assert.Empty(t, live.ApproveSwap(ctx, "swap-1"))
	assert.Equal(t, 2, calls)
}

// A gateway outage opens the breaker; once the gateway recovers, the breaker
// must admit a probe after the cooldown and close again instead of staying
// open until restart.
func TestLiveBreakerRecoversAfterCooldown(t *testing.T) {
	var calls, failures int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if failures > 0 {
			failures--
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"transaction_ref":"0xrecovered"}`))
	}))
	defer srv.Close()

	clock := time.Unix(1000, 0)
	live := NewLive(NewInMemoryStore(), srv.URL, "0xCONTRACT", time.Second, slog.Default(),
		WithBreaker(circuit.New("test",
			circuit.WithFailureThreshold(2),
			circuit.WithCooldown(30*time.Second),
			circuit.WithClock(func() time.Time { return clock }))))

	ctx := context.Background()
	failures = 2
	assert.Empty(t, live.ApproveSwap(ctx, "swap-1"))
	assert.Empty(t, live.ApproveSwap(ctx, "swap-1"))

	// Open: skipped without touching the gateway.
	assert.Empty(t, live.ApproveSwap(ctx, "swap-1"))
	require.Equal(t, 2, calls)

	// Cooldown elapsed and the gateway is healthy again.
	clock = clock.Add(31 * time.Second)
	assert.Equal(t, "0xrecovered", live.ApproveSwap(ctx, "swap-1"))
	assert.Equal(t, "0xrecovered", live.ApproveSwap(ctx, "swap-1"))
	assert.Equal(t, 4, calls)
}
