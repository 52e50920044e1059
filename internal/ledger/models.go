// Package ledger implements the append-only hash-chained audit ledger. Each
// block's hash covers the previous block's hash, so any retroactive edit
// breaks verification. The chain is the system of record for fraud
// investigations; it has no update or delete operation.
package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// genesisPreviousHash seeds the chain before any block exists.
const genesisPreviousHash = "0"

// Block is one chain node. Index starts at 1 and increases by exactly one
// per append.
type Block struct {
	Index        int64
	Timestamp    time.Time
	Event        string
	Subject      string // canonical MSISDN
	PreviousHash string
	Hash         string
}

// hashTimestampFormat fixes the byte representation of the timestamp inside
// the hash input. Changing it invalidates every previously written chain.
const hashTimestampFormat = time.RFC3339Nano

// ComputeHash returns the hex SHA-256 over the block's chained fields:
// index, timestamp, event, subject, and previous hash, concatenated in that
// order.
func (b *Block) ComputeHash() string {
	data := strconv.FormatInt(b.Index, 10) +
		b.Timestamp.UTC().Format(hashTimestampFormat) +
		b.Event +
		b.Subject +
		b.PreviousHash
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

// Verify reports whether the stored hash matches the recomputed one.
func (b *Block) Verify() bool {
	return b.Hash == b.ComputeHash()
}
