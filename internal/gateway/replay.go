package gateway

import (
	"context"
	"fmt"
	"time"

	"swapsecure/internal/platform/redis"
)

// replayWindow bounds how long a delivery fingerprint is remembered. The
// vendor retries failed deliveries for at most a day.
const replayWindow = 24 * time.Hour

// ReplayGuard rejects webhook deliveries whose signature has been seen
// before. Backed by Redis SETNX; with a nil client the guard is disabled and
// every delivery is treated as first-seen.
type ReplayGuard struct {
	client *redis.Client
}

// NewReplayGuard constructs a replay guard. A nil client disables it.
func NewReplayGuard(client *redis.Client) *ReplayGuard {
	return &ReplayGuard{client: client}
}

// FirstDelivery reports whether this signature has not been seen inside the
// replay window, recording it as seen. Guard errors fail open: a Redis
// outage must not take down webhook ingestion.
func (g *ReplayGuard) FirstDelivery(ctx context.Context, signature string) (bool, error) {
	if g.client == nil {
		return true, nil
	}
	ok, err := g.client.SetNX(ctx, seenKey(signature), 1, replayWindow).Result()
	if err != nil {
		return true, fmt.Errorf("replay guard setnx: %w", err)
	}
	return ok, nil
}

// Forget drops a delivery fingerprint. Called when processing a first
// delivery fails, so the vendor's retry of the same delivery is processed
// instead of being acknowledged as a replay.
func (g *ReplayGuard) Forget(ctx context.Context, signature string) error {
	if g.client == nil {
		return nil
	}
	if err := g.client.Del(ctx, seenKey(signature)).Err(); err != nil {
		return fmt.Errorf("replay guard del: %w", err)
	}
	return nil
}

func seenKey(signature string) string {
	return fmt.Sprintf("webhook:seen:%s", signature)
}
