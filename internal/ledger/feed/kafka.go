// Package feed streams audit blocks to Kafka for downstream fraud analytics.
// Delivery is best-effort: the chain in Postgres is the system of record and
// a broker outage must never block an append.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"swapsecure/internal/ledger"
)

// Publisher produces one record per audit block, keyed by subject MSISDN so
// a subscriber's events stay ordered within a partition.
type Publisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

type blockRecord struct {
	Index        int64     `json:"index"`
	Timestamp    time.Time `json:"timestamp"`
	Event        string    `json:"event"`
	MSISDN       string    `json:"msisdn"`
	PreviousHash string    `json:"previous_hash"`
	Hash         string    `json:"hash"`
}

// NewPublisher connects to the brokers and ensures the topic exists.
func NewPublisher(ctx context.Context, seeds []string, topic string, logger *slog.Logger) (*Publisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(seeds...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	admin := kadm.NewClient(client)
	resp, err := admin.CreateTopics(ctx, 1, 1, nil, topic)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("create topic %q: %w", topic, err)
	}
	for _, res := range resp {
		if res.Err != nil && !errors.Is(res.Err, kerr.TopicAlreadyExists) {
			logger.WarnContext(ctx, "topic create response", "topic", res.Topic, "error", res.Err)
		}
	}

	return &Publisher{client: client, topic: topic, logger: logger}, nil
}

// Publish produces the block asynchronously. Failures are logged, never
// returned: the feed is an observer of the chain, not a participant.
func (p *Publisher) Publish(ctx context.Context, block *ledger.Block) {
	payload, err := json.Marshal(blockRecord{
		Index:        block.Index,
		Timestamp:    block.Timestamp,
		Event:        block.Event,
		MSISDN:       block.Subject,
		PreviousHash: block.PreviousHash,
		Hash:         block.Hash,
	})
	if err != nil {
		p.logger.ErrorContext(ctx, "marshal block record", "index", block.Index, "error", err)
		return
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(block.Subject),
		Value: payload,
	}
	p.client.Produce(context.WithoutCancel(ctx), record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.logger.Error("audit block publish failed", "index", block.Index, "error", err)
		}
	})
}

// Close flushes buffered records and releases the client.
func (p *Publisher) Close(ctx context.Context) error {
	if err := p.client.Flush(ctx); err != nil {
		return fmt.Errorf("flush kafka producer: %w", err)
	}
	p.client.Close()
	return nil
}
