package vetting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"swapsecure/internal/subscriber"
)

func cents(v int64) *int64 { return &v }

func TestWithinTolerance(t *testing.T) {
	tests := []struct {
		name     string
		actual   int64
		provided int64
		want     bool
	}{
		{"small balance inside band", 80_00, 88_00, true},
		{"small balance outside band", 80_00, 91_00, false},
		{"mid balance inside band", 500_00, 545_00, true},
		{"mid balance outside band", 500_00, 560_00, false},
		{"large balance inside band", 9_000_00, 9_099_00, true},
		{"large balance outside band", 9_000_00, 9_150_00, false},
		{"huge balance within ten percent", 50_000_00, 54_000_00, true},
		{"huge balance beyond ten percent", 50_000_00, 56_000_00, false},
		{"exact match always passes", 500_00, 500_00, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, withinTolerance(tt.actual, tt.provided))
		})
	}
}

func testWallet() *subscriber.WalletProfile {
	return &subscriber.WalletProfile{
		MpesaCents:    500_00,
		AirtimeCents:  120_00,
		FulizaCents:   cents(1_000_00),
		FulizaOptedIn: true,
		MshwariCents:  cents(5_000_00),
	}
}

func TestEvaluateSecondary(t *testing.T) {
	t.Run("three correct answers pass", func(t *testing.T) {
		answers := Answers{
			MpesaCents:   cents(545_00),
			AirtimeCents: cents(130_00),
			FulizaCents:  cents(1_000_00),
		}
		assert.True(t, EvaluateSecondary(testWallet(), answers))
	})

	t.Run("two correct answers fail", func(t *testing.T) {
		answers := Answers{
			MpesaCents:   cents(545_00),
			AirtimeCents: cents(130_00),
		}
		assert.False(t, EvaluateSecondary(testWallet(), answers))
	})

	t.Run("facility answer ignored without opt-in", func(t *testing.T) {
		// Mshwari limit is on file but the customer never opted in, so the
		// answer cannot count toward the pass mark.
		answers := Answers{
			MpesaCents:   cents(500_00),
			AirtimeCents: cents(120_00),
			MshwariCents: cents(5_000_00),
		}
		assert.False(t, EvaluateSecondary(testWallet(), answers))
	})

	t.Run("facility answer must match exactly", func(t *testing.T) {
		answers := Answers{
			MpesaCents:   cents(500_00),
			AirtimeCents: cents(120_00),
			FulizaCents:  cents(1_000_01),
		}
		assert.False(t, EvaluateSecondary(testWallet(), answers))
	})

	t.Run("no answers fail", func(t *testing.T) {
		assert.False(t, EvaluateSecondary(testWallet(), Answers{}))
	})
}
