// Package swap implements the SIM-swap verification workflow: eligibility
// screening, the staged vetting state machine with attempt budgets, terminal
// lockout, and completion.
package swap

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"swapsecure/pkg/platform/sentinel"
)

// Stage is the session's position in the verification pipeline.
type Stage string

const (
	StageStarted         Stage = "STARTED"
	StagePrimaryPassed   Stage = "PRIMARY_PASSED"
	StagePrimaryFailed   Stage = "PRIMARY_FAILED"
	StageSecondaryPassed Stage = "SECONDARY_PASSED"
	StageSecondaryFailed Stage = "SECONDARY_FAILED"
	StageFacePassed      Stage = "FACE_PASSED"
	StageFaceFailed      Stage = "FACE_FAILED"
	StageIDPassed        Stage = "ID_PASSED"
	StageIDFailed        Stage = "ID_FAILED"
	StageKYCPending      Stage = "KYC_PENDING"
	StageKYCPassed       Stage = "KYC_PASSED"
	StageKYCFailed       Stage = "KYC_FAILED"
	StageCompleted       Stage = "COMPLETED"
)

// Event names a state-machine input.
type Event string

const (
	EventPrimaryPass   Event = "primary_pass"
	EventPrimaryFail   Event = "primary_fail"
	EventSecondaryPass Event = "secondary_pass"
	EventSecondaryFail Event = "secondary_fail"
	EventFacePass      Event = "face_pass"
	EventFaceFail      Event = "face_fail"
	EventIDPass        Event = "id_pass"
	EventIDFail        Event = "id_fail"
	EventKYCStart      Event = "kyc_start"
	EventKYCPass       Event = "kyc_pass"
	EventKYCFail       Event = "kyc_fail"
	EventComplete      Event = "complete"
)

// transitions is the closed transition table. A failed stage that has budget
// left re-enters the same evaluation; terminal failures carry no outgoing
// edges because the session locks instead.
var transitions = map[Stage]map[Event]Stage{
	StageStarted: {
		EventPrimaryPass: StagePrimaryPassed,
		EventPrimaryFail: StagePrimaryFailed,
	},
	StagePrimaryPassed: {
		EventSecondaryPass: StageSecondaryPassed,
		EventSecondaryFail: StageSecondaryFailed,
	},
	StageSecondaryFailed: {
		EventSecondaryPass: StageSecondaryPassed,
		EventSecondaryFail: StageSecondaryFailed,
	},
	StageSecondaryPassed: {
		EventFacePass: StageFacePassed,
		EventFaceFail: StageFaceFailed,
		EventKYCStart: StageKYCPending,
	},
	StageFaceFailed: {
		EventFacePass: StageFacePassed,
		EventFaceFail: StageFaceFailed,
	},
	StageFacePassed: {
		EventIDPass: StageIDPassed,
		EventIDFail: StageIDFailed,
	},
	StageIDFailed: {
		EventIDPass: StageIDPassed,
		EventIDFail: StageIDFailed,
	},
	StageIDPassed: {
		EventComplete: StageCompleted,
	},
	StageKYCPending: {
		EventKYCPass: StageKYCPassed,
		EventKYCFail: StageKYCFailed,
	},
	StageKYCPassed: {
		EventComplete: StageCompleted,
	},
}

// Attempt budgets per stage. A failure that exhausts the budget locks the
// session permanently.
const (
	maxPrimaryAttempts   = 1
	maxSecondaryAttempts = 2
	maxFaceAttempts      = 3
	maxIDAttempts        = 2
)

// Session is one swap verification attempt for a line. Attempt counters are
// cumulative for the session's lifetime and never reset.
type Session struct {
	ID                uuid.UUID
	LineID            uuid.UUID
	MSISDN            string
	Stage             Stage
	PrimaryAttempts   int
	SecondaryAttempts int
	FaceAttempts      int
	IDAttempts        int
	IsLocked          bool
	VendorSessionID   string
	VendorStatus      string
	VendorPayload     []byte
	LedgerSwapRef     string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Apply advances the session along the transition table. An event with no
// edge from the current stage is an invalid-state error; locked and
// completed sessions accept no events at all.
func (s *Session) Apply(event Event) error {
	if s.IsLocked {
		return fmt.Errorf("session %s is locked: %w", s.ID, sentinel.ErrInvalidState)
	}
	next, ok := transitions[s.Stage][event]
	if !ok {
		return fmt.Errorf("event %s not allowed in stage %s: %w", event, s.Stage, sentinel.ErrInvalidState)
	}
	s.Stage = next
	return nil
}

// Lock marks the session permanently locked in place. The stage keeps its
// failed value so the lockout cause stays visible.
func (s *Session) Lock() {
	s.IsLocked = true
}
