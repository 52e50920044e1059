package swap

import "swapsecure/internal/subscriber"

// Denial reasons returned by the eligibility policy. A denial is a normal
// outcome, never an error.
const (
	DenyGoldenNumber    = "Golden number"
	DenyWhitelisted     = "Whitelisted"
	DenyLineNotActive   = "Line not active"
	DenyFraudLocation   = "Fraud location flagged"
	DenyIPRSNotVerified = "IPRS not verified"
	DenyIPRSNotApproved = "IPRS not approved"
	DenyRoaming         = "Line roaming"
	DenyNotOnINData     = "Not on IN data"
)

// Eligible runs the ordered eligibility checklist. Checks run in a fixed
// order and the first failing check wins; its reason is the one reported.
func Eligible(line *subscriber.Line, customer *subscriber.Customer) (bool, string) {
	if line.IsGoldenNumber {
		return false, DenyGoldenNumber
	}
	if line.IsWhitelisted {
		return false, DenyWhitelisted
	}
	if line.Status != subscriber.LineStatusActive {
		return false, DenyLineNotActive
	}
	if customer.FraudLocation == subscriber.FraudLocationPrisonSite ||
		customer.FraudLocation == subscriber.FraudLocationDetached {
		return false, DenyFraudLocation
	}
	if !customer.IPRSVerified {
		return false, DenyIPRSNotVerified
	}
	if !customer.IPRSApproved {
		return false, DenyIPRSNotApproved
	}
	if line.IsRoaming {
		return false, DenyRoaming
	}
	if !line.OnINData {
		return false, DenyNotOnINData
	}
	return true, ""
}
