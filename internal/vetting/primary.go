// Package vetting holds the pure verification predicates for each swap
// stage. Predicates take subscriber facts and caller-supplied answers and
// return pass/fail; all state handling lives in the swap state machine.
package vetting

import (
	"sort"
	"strings"

	"swapsecure/internal/subscriber"
)

// PrimaryInput is the identity claim checked by the primary stage.
type PrimaryInput struct {
	FullName    string `json:"full_name"`
	IDNumber    string `json:"id_number"`
	YearOfBirth int    `json:"yob"`
}

// normalizeName lowercases, trims, and sorts name tokens so word order and
// casing do not affect the match.
func normalizeName(name string) []string {
	tokens := strings.Fields(strings.ToLower(strings.TrimSpace(name)))
	sort.Strings(tokens)
	return tokens
}

// EvaluatePrimary requires a token-set name match plus exact ID number and
// year of birth.
func EvaluatePrimary(customer *subscriber.Customer, in PrimaryInput) bool {
	provided := normalizeName(in.FullName)
	stored := normalizeName(customer.FullName)

	if len(provided) != len(stored) {
		return false
	}
	for i := range stored {
		if provided[i] != stored[i] {
			return false
		}
	}
	return customer.IDNumber == in.IDNumber && customer.YearOfBirth == in.YearOfBirth
}
