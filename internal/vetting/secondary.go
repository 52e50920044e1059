package vetting

import "swapsecure/internal/subscriber"

// Answers carries the knowledge-based answers for the secondary stage.
// All amounts are in cents; nil means the question was not answered.
type Answers struct {
	MpesaCents   *int64 `json:"mpesa_balance"`
	AirtimeCents *int64 `json:"airtime_balance"`
	FulizaCents  *int64 `json:"fuliza_limit"`
	MshwariCents *int64 `json:"mshwari_limit"`
	KCBCents     *int64 `json:"kcb_limit"`
}

// secondaryPassMark is how many answers must score for the stage to pass.
const secondaryPassMark = 3

// withinTolerance scores an approximate balance answer. Bands widen with the
// actual amount: within 10 units up to 100, within 50 up to 1,000, within
// 100 up to 10,000, and within 10% beyond that. Amounts are cents, so the
// unit thresholds are scaled by 100.
func withinTolerance(actualCents, providedCents int64) bool {
	diff := actualCents - providedCents
	if diff < 0 {
		diff = -diff
	}

	switch {
	case actualCents <= 100_00:
		return diff <= 10_00
	case actualCents <= 1_000_00:
		return diff <= 50_00
	case actualCents <= 10_000_00:
		return diff <= 100_00
	default:
		return diff*10 <= actualCents
	}
}

// EvaluateSecondary scores the provided answers against the wallet profile.
// Balance questions use tolerance bands; credit-facility limits are scored
// only when the customer opted into the facility and must match exactly.
func EvaluateSecondary(wallet *subscriber.WalletProfile, answers Answers) bool {
	correct := 0

	if answers.MpesaCents != nil && withinTolerance(wallet.MpesaCents, *answers.MpesaCents) {
		correct++
	}
	if answers.AirtimeCents != nil && withinTolerance(wallet.AirtimeCents, *answers.AirtimeCents) {
		correct++
	}
	if answers.FulizaCents != nil && wallet.FulizaOptedIn && wallet.FulizaCents != nil &&
		*wallet.FulizaCents == *answers.FulizaCents {
		correct++
	}
	if answers.MshwariCents != nil && wallet.MshwariOptedIn && wallet.MshwariCents != nil &&
		*wallet.MshwariCents == *answers.MshwariCents {
		correct++
	}
	if answers.KCBCents != nil && wallet.KCBOptedIn && wallet.KCBCents != nil &&
		*wallet.KCBCents == *answers.KCBCents {
		correct++
	}

	return correct >= secondaryPassMark
}
