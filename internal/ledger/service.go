package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	dErrors "swapsecure/pkg/domain-errors"
	"swapsecure/pkg/platform/sentinel"
	txcontext "swapsecure/pkg/platform/tx"
)

// Feed receives a copy of every appended block, best-effort. Implementations
// must not block appends for longer than their own timeout.
type Feed interface {
	Publish(ctx context.Context, block *Block)
}

// NopFeed discards blocks. Used when no broker is configured.
type NopFeed struct{}

func (NopFeed) Publish(context.Context, *Block) {}

// Service builds and appends chain blocks. A process-wide mutex serializes
// in-memory block construction; the Postgres store additionally holds a
// chain lock from tip read to transaction commit, so appends riding
// concurrent transactions cannot build on the same tip. The index collision
// check backstops writers outside either mechanism.
type Service struct {
	mu      sync.Mutex
	store   Store
	feed    Feed
	logger  *slog.Logger
	now     func() time.Time
	onIndex func(int64)
}

// Option configures the ledger service.
type Option func(*Service)

// WithClock overrides the block timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithFeed streams appended blocks to an external consumer.
func WithFeed(feed Feed) Option {
	return func(s *Service) { s.feed = feed }
}

// WithIndexGauge reports the newest chain index after each append.
func WithIndexGauge(set func(int64)) Option {
	return func(s *Service) { s.onIndex = set }
}

// NewService constructs the ledger service.
func NewService(store Store, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:  store,
		feed:   NopFeed{},
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append writes the next block for the given event and subject. The new
// block's previous hash is the current tip's hash, or "0" for the first
// block. Append never updates or deletes existing blocks.
func (s *Service) Append(ctx context.Context, event, subject string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := int64(1)
	previousHash := genesisPreviousHash
	last, err := s.store.Last(ctx)
	switch {
	case err == nil:
		index = last.Index + 1
		previousHash = last.Hash
	case errors.Is(err, sentinel.ErrNotFound):
		// first block
	default:
		return fmt.Errorf("read chain tip: %w", err)
	}

	block := &Block{
		Index:        index,
		Timestamp:    s.now().UTC(),
		Event:        event,
		Subject:      subject,
		PreviousHash: previousHash,
	}
	block.Hash = block.ComputeHash()

	if err := s.store.Append(ctx, block); err != nil {
		return fmt.Errorf("append block %d: %w", index, err)
	}
	if s.onIndex != nil {
		s.onIndex(index)
	}

	// A block written inside a transaction is not part of the chain until
	// that transaction commits; publishing it earlier would leak blocks
	// from rolled-back units into the feed.
	publish := func() { s.feed.Publish(context.WithoutCancel(ctx), block) }
	if !txcontext.OnCommit(ctx, publish) {
		publish()
	}
	return nil
}

// VerifyChainResult reports the outcome of a full chain walk.
type VerifyChainResult struct {
	Valid  bool  `json:"valid"`
	Length int   `json:"length"`
	BadAt  int64 `json:"bad_at,omitempty"` // index of first bad block, 0 when valid
}

// VerifyChain recomputes every block hash and checks linkage from genesis.
// Any mutated field or broken link fails verification at the first bad block.
func (s *Service) VerifyChain(ctx context.Context) (VerifyChainResult, error) {
	blocks, err := s.store.List(ctx)
	if err != nil {
		return VerifyChainResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "list chain")
	}

	result := VerifyChainResult{Valid: true, Length: len(blocks)}
	previousHash := genesisPreviousHash
	for i, b := range blocks {
		if b.Index != int64(i)+1 || b.PreviousHash != previousHash || !b.Verify() {
			result.Valid = false
			result.BadAt = b.Index
			return result, nil
		}
		previousHash = b.Hash
	}
	return result, nil
}

// Trail returns every block recorded for a subject MSISDN, oldest first.
func (s *Service) Trail(ctx context.Context, subject string) ([]*Block, error) {
	blocks, err := s.store.ListBySubject(ctx, subject)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list trail")
	}
	return blocks, nil
}

// List returns the full chain, oldest first.
func (s *Service) List(ctx context.Context) ([]*Block, error) {
	blocks, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list chain")
	}
	return blocks, nil
}
