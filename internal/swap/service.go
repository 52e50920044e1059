package swap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"swapsecure/internal/gateway"
	"swapsecure/internal/mirror"
	"swapsecure/internal/platform/metrics"
	"swapsecure/internal/subscriber"
	"swapsecure/internal/vetting"
	dErrors "swapsecure/pkg/domain-errors"
	"swapsecure/pkg/msisdn"
	"swapsecure/pkg/platform/sentinel"
)

// redirectRetail is the out-of-band resolution channel. Anything this
// workflow cannot verify ends up at a retail shop with physical ID in hand.
const redirectRetail = "retail"

// Auditor appends a domain event to the tamper-evident audit ledger. When
// called inside a session mutation it joins the mutation's transaction.
type Auditor interface {
	Append(ctx context.Context, event, subject string) error
}

// VendorClient opens external KYC sessions with the verification vendor.
type VendorClient interface {
	CreateSession(ctx context.Context, vendorData string) (*gateway.Session, error)
}

// Service drives the swap verification workflow.
type Service struct {
	store       Store
	subscribers subscriber.Store
	audit       Auditor
	mirror      mirror.Mirror
	vendor      VendorClient
	metrics     *metrics.Metrics
	logger      *slog.Logger
	tracer      trace.Tracer

	// treatReviewAsPassed maps the vendor's review status to a passed KYC
	// stage instead of a failed one.
	treatReviewAsPassed bool
}

// Option configures the swap service.
type Option func(*Service)

// WithVendor wires the external KYC vendor client.
func WithVendor(vendor VendorClient) Option {
	return func(s *Service) { s.vendor = vendor }
}

// WithMetrics wires workflow metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithReviewAsPassed controls how the vendor's review status maps onto the
// KYC stage outcome.
func WithReviewAsPassed(v bool) Option {
	return func(s *Service) { s.treatReviewAsPassed = v }
}

// NewService constructs the swap workflow service.
func NewService(store Store, subscribers subscriber.Store, audit Auditor, m mirror.Mirror, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:               store,
		subscribers:         subscribers,
		audit:               audit,
		mirror:              m,
		logger:              logger,
		tracer:              otel.Tracer("swapsecure/swap"),
		treatReviewAsPassed: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartResult is the outcome of a swap start request. A denial is a normal
// result carrying the policy reason, not an error.
type StartResult struct {
	Allowed   bool       `json:"allowed"`
	Reason    string     `json:"reason,omitempty"`
	Redirect  string     `json:"redirect,omitempty"`
	SessionID *uuid.UUID `json:"session_id,omitempty"`
	NextStep  string     `json:"next_step,omitempty"`
}

// Start screens the line through the eligibility policy and opens a session.
func (s *Service) Start(ctx context.Context, rawMSISDN string) (*StartResult, error) {
	ctx, span := s.tracer.Start(ctx, "swap.start")
	defer span.End()

	normalized, err := msisdn.Normalize(rawMSISDN)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid msisdn")
	}
	span.SetAttributes(attribute.String("swap.msisdn", normalized))

	line, customer, err := s.subscribers.GetLine(ctx, normalized)
	if errors.Is(err, sentinel.ErrNotFound) {
		return &StartResult{Allowed: false, Reason: "Line not found"}, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load line")
	}

	if allowed, reason := Eligible(line, customer); !allowed {
		s.countDenial(reason)
		s.logger.InfoContext(ctx, "swap denied", "msisdn", normalized, "reason", reason)
		return &StartResult{Allowed: false, Reason: reason}, nil
	}

	locked, err := s.store.HasLockedForLine(ctx, line.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "check locked sessions")
	}
	if locked {
		s.countDenial("locked_session")
		return &StartResult{Allowed: false, Redirect: redirectRetail}, nil
	}

	now := time.Now().UTC()
	session := &Session{
		ID:        uuid.New(),
		LineID:    line.ID,
		MSISDN:    normalized,
		Stage:     StageStarted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Create(ctx, session); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "create session")
	}

	if err := s.audit.Append(ctx, "SWAP_STARTED", normalized); err != nil {
		s.logger.WarnContext(ctx, "audit append failed", "event", "SWAP_STARTED", "error", err)
	}
	if s.metrics != nil {
		s.metrics.SessionsStarted.Inc()
	}

	if ref := s.mirror.InitiateSwap(ctx, session.ID.String(), normalized); ref != "" {
		if err := s.store.Mutate(ctx, session.ID, func(_ context.Context, sess *Session) error {
			sess.LedgerSwapRef = ref
			return nil
		}); err != nil {
			s.logger.WarnContext(ctx, "store swap mirror ref", "session_id", session.ID, "error", err)
		}
	}

	return &StartResult{Allowed: true, SessionID: &session.ID, NextStep: "PRIMARY"}, nil
}

func (s *Service) countDenial(reason string) {
	if s.metrics != nil {
		s.metrics.SwapsDenied.WithLabelValues(reason).Inc()
	}
}

// StageResult is the outcome of one vetting stage attempt.
type StageResult struct {
	Passed            bool   `json:"passed"`
	Locked            bool   `json:"locked,omitempty"`
	Redirect          string `json:"redirect,omitempty"`
	NextStep          string `json:"next_step,omitempty"`
	RemainingAttempts int    `json:"remaining_attempts,omitempty"`
}

// stageSpec ties a vetting stage to its state-machine events and budget.
type stageSpec struct {
	name      string
	max       int
	passEvent Event
	failEvent Event
	nextStep  string
	counter   func(*Session) *int
}

var (
	stagePrimary = stageSpec{
		name: "PRIMARY", max: maxPrimaryAttempts,
		passEvent: EventPrimaryPass, failEvent: EventPrimaryFail,
		nextStep: "SECONDARY",
		counter:  func(s *Session) *int { return &s.PrimaryAttempts },
	}
	stageSecondary = stageSpec{
		name: "SECONDARY", max: maxSecondaryAttempts,
		passEvent: EventSecondaryPass, failEvent: EventSecondaryFail,
		nextStep: "FACE",
		counter:  func(s *Session) *int { return &s.SecondaryAttempts },
	}
	stageFace = stageSpec{
		name: "FACE", max: maxFaceAttempts,
		passEvent: EventFacePass, failEvent: EventFaceFail,
		nextStep: "ID",
		counter:  func(s *Session) *int { return &s.FaceAttempts },
	}
	stageID = stageSpec{
		name: "ID", max: maxIDAttempts,
		passEvent: EventIDPass, failEvent: EventIDFail,
		nextStep: "COMPLETE",
		counter:  func(s *Session) *int { return &s.IDAttempts },
	}
)

// Primary runs the identity-claim check. A single failure locks the session.
func (s *Service) Primary(ctx context.Context, sessionID uuid.UUID, in vetting.PrimaryInput) (*StageResult, error) {
	return s.runStage(ctx, sessionID, stagePrimary, func(ctx context.Context, sess *Session) (bool, error) {
		_, customer, err := s.subscribers.GetLine(ctx, sess.MSISDN)
		if err != nil {
			return false, fmt.Errorf("load customer: %w", err)
		}
		return vetting.EvaluatePrimary(customer, in), nil
	})
}

// Secondary runs the knowledge-based wallet questions.
func (s *Service) Secondary(ctx context.Context, sessionID uuid.UUID, answers vetting.Answers) (*StageResult, error) {
	return s.runStage(ctx, sessionID, stageSecondary, func(ctx context.Context, sess *Session) (bool, error) {
		_, customer, err := s.subscribers.GetLine(ctx, sess.MSISDN)
		if err != nil {
			return false, fmt.Errorf("load customer: %w", err)
		}
		wallet, err := s.subscribers.GetWallet(ctx, customer.ID)
		if err != nil {
			return false, fmt.Errorf("load wallet: %w", err)
		}
		return vetting.EvaluateSecondary(wallet, answers), nil
	})
}

// Face runs the face-match check.
func (s *Service) Face(ctx context.Context, sessionID uuid.UUID, scan vetting.FaceScan) (*StageResult, error) {
	return s.runStage(ctx, sessionID, stageFace, func(context.Context, *Session) (bool, error) {
		return vetting.EvaluateFace(scan), nil
	})
}

// IDDocument runs the ID-document OCR check.
func (s *Service) IDDocument(ctx context.Context, sessionID uuid.UUID, scan vetting.IDScan) (*StageResult, error) {
	return s.runStage(ctx, sessionID, stageID, func(context.Context, *Session) (bool, error) {
		return vetting.EvaluateID(scan), nil
	})
}

// runStage executes one attempt of a vetting stage under the session's
// exclusive lock. The counter bump, stage transition, and audit events
// commit atomically; the mirror hears about the outcome after commit.
func (s *Service) runStage(ctx context.Context, sessionID uuid.UUID, spec stageSpec, evaluate func(ctx context.Context, sess *Session) (bool, error)) (*StageResult, error) {
	ctx, span := s.tracer.Start(ctx, "swap."+strings.ToLower(spec.name))
	defer span.End()

	var (
		result    StageResult
		evaluated bool
	)
	err := s.store.Mutate(ctx, sessionID, func(ctx context.Context, sess *Session) error {
		if sess.IsLocked {
			result = StageResult{Locked: true, Redirect: redirectRetail}
			return nil
		}
		if !sess.can(spec.passEvent) {
			return fmt.Errorf("stage %s cannot run %s vetting: %w", sess.Stage, spec.name, sentinel.ErrInvalidState)
		}

		passed, err := evaluate(ctx, sess)
		if err != nil {
			return err
		}
		evaluated = true
		counter := spec.counter(sess)
		*counter++

		if passed {
			if err := sess.Apply(spec.passEvent); err != nil {
				return err
			}
			if err := s.audit.Append(ctx, spec.name+"_PASSED", sess.MSISDN); err != nil {
				return fmt.Errorf("audit %s: %w", spec.name, err)
			}
			result = StageResult{Passed: true, NextStep: spec.nextStep}
			return nil
		}

		if err := sess.Apply(spec.failEvent); err != nil {
			return err
		}
		if err := s.audit.Append(ctx, spec.name+"_FAILED", sess.MSISDN); err != nil {
			return fmt.Errorf("audit %s: %w", spec.name, err)
		}

		if *counter >= spec.max {
			sess.Lock()
			if err := s.audit.Append(ctx, "SESSION_LOCKED", sess.MSISDN); err != nil {
				return fmt.Errorf("audit lock: %w", err)
			}
			result = StageResult{Locked: true, Redirect: redirectRetail}
			return nil
		}
		result = StageResult{RemainingAttempts: spec.max - *counter}
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}

	if evaluated {
		s.countStage(spec.name, result.Passed)
		if result.Locked {
			s.countLock()
		}
		s.mirror.RecordVerification(ctx, sessionID.String(), spec.name, result.Passed)
	}
	return &result, nil
}

func (s *Service) countStage(stage string, passed bool) {
	if s.metrics == nil {
		return
	}
	outcome := "failed"
	if passed {
		outcome = "passed"
	}
	s.metrics.StageOutcomes.WithLabelValues(stage, outcome).Inc()
}

func (s *Service) countLock() {
	if s.metrics != nil {
		s.metrics.SessionsLocked.Inc()
	}
}

// ExternalStartResult is the outcome of opening a vendor KYC session.
type ExternalStartResult struct {
	Locked          bool   `json:"locked,omitempty"`
	Redirect        string `json:"redirect,omitempty"`
	VendorSessionID string `json:"vendor_session_id,omitempty"`
	URL             string `json:"url,omitempty"`
}

// StartExternal opens a vendor KYC session as an alternative to the on-device
// face and ID scans. The vendor round-trip happens before the session lock is
// taken; the stage is re-validated once the lock is held.
func (s *Service) StartExternal(ctx context.Context, sessionID uuid.UUID) (*ExternalStartResult, error) {
	ctx, span := s.tracer.Start(ctx, "swap.start_external")
	defer span.End()

	if s.vendor == nil {
		return nil, dErrors.New(dErrors.CodeUnavailable, "verification vendor not configured")
	}

	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, translate(err)
	}
	if session.IsLocked {
		return &ExternalStartResult{Locked: true, Redirect: redirectRetail}, nil
	}
	if !session.can(EventKYCStart) {
		return nil, dErrors.Newf(dErrors.CodeConflict, "stage %s cannot start external verification", session.Stage)
	}

	vendorSession, err := s.vendor.CreateSession(ctx, sessionID.String())
	if err != nil {
		return nil, err
	}

	var result ExternalStartResult
	err = s.store.Mutate(ctx, sessionID, func(ctx context.Context, sess *Session) error {
		if sess.IsLocked {
			result = ExternalStartResult{Locked: true, Redirect: redirectRetail}
			return nil
		}
		if err := sess.Apply(EventKYCStart); err != nil {
			return err
		}
		sess.VendorSessionID = vendorSession.ID
		if err := s.audit.Append(ctx, "KYC_STARTED", sess.MSISDN); err != nil {
			return fmt.Errorf("audit kyc start: %w", err)
		}
		result = ExternalStartResult{VendorSessionID: vendorSession.ID, URL: vendorSession.URL}
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return &result, nil
}

// WebhookResult is the outcome of resolving a vendor KYC callback.
type WebhookResult struct {
	SessionID uuid.UUID `json:"session_id"`
	Passed    bool      `json:"passed"`
	Locked    bool      `json:"locked,omitempty"`
}

// ResolveExternal applies a verified vendor webhook to the session it
// references. Approved passes; review passes or fails per policy; anything
// else fails and locks the session immediately, with no retry budget. The
// raw payload is stored verbatim on the session. Replayed deliveries for an
// already resolved session are acknowledged without effect.
func (s *Service) ResolveExternal(ctx context.Context, vendorSessionID, status string, rawPayload []byte) (*WebhookResult, error) {
	ctx, span := s.tracer.Start(ctx, "swap.resolve_external")
	defer span.End()

	session, err := s.store.GetByVendorSession(ctx, vendorSessionID)
	if err != nil {
		return nil, translate(err)
	}

	var (
		result   WebhookResult
		resolved bool
	)
	err = s.store.Mutate(ctx, session.ID, func(ctx context.Context, sess *Session) error {
		result.SessionID = sess.ID
		if sess.Stage != StageKYCPending {
			result.Passed = sess.Stage == StageKYCPassed
			result.Locked = sess.IsLocked
			return nil
		}

		passed := s.vendorStatusPassed(status)
		sess.VendorStatus = status
		sess.VendorPayload = append([]byte(nil), rawPayload...)

		if passed {
			if err := sess.Apply(EventKYCPass); err != nil {
				return err
			}
			if err := s.audit.Append(ctx, "KYC_PASSED", sess.MSISDN); err != nil {
				return fmt.Errorf("audit kyc pass: %w", err)
			}
			result.Passed = true
		} else {
			if err := sess.Apply(EventKYCFail); err != nil {
				return err
			}
			sess.Lock()
			if err := s.audit.Append(ctx, "KYC_FAILED", sess.MSISDN); err != nil {
				return fmt.Errorf("audit kyc fail: %w", err)
			}
			if err := s.audit.Append(ctx, "SESSION_LOCKED", sess.MSISDN); err != nil {
				return fmt.Errorf("audit lock: %w", err)
			}
			result.Locked = true
		}
		resolved = true
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}

	if resolved {
		s.countStage("KYC", result.Passed)
		if result.Locked {
			s.countLock()
		}
		s.mirror.RecordVerification(ctx, session.ID.String(), "KYC", result.Passed)
	}
	return &result, nil
}

// vendorStatusPassed maps a vendor decision status onto the KYC outcome.
func (s *Service) vendorStatusPassed(status string) bool {
	switch strings.ToLower(strings.ReplaceAll(status, "_", " ")) {
	case "approved":
		return true
	case "in review", "on review", "review":
		return s.treatReviewAsPassed
	default:
		return false
	}
}

// CompleteResult is the outcome of a completion request.
type CompleteResult struct {
	Success bool `json:"success"`
}

// Complete finalizes a fully verified session and stamps the line's last
// swap time. Completing an already completed session succeeds without any
// further side effects.
func (s *Service) Complete(ctx context.Context, sessionID uuid.UUID) (*CompleteResult, error) {
	ctx, span := s.tracer.Start(ctx, "swap.complete")
	defer span.End()

	var completedNow bool
	var subject string
	err := s.store.Mutate(ctx, sessionID, func(ctx context.Context, sess *Session) error {
		if sess.Stage == StageCompleted {
			return nil
		}
		if err := sess.Apply(EventComplete); err != nil {
			return err
		}

		line, _, err := s.subscribers.GetLine(ctx, sess.MSISDN)
		if err != nil {
			return fmt.Errorf("load line: %w", err)
		}
		now := time.Now().UTC()
		line.LastSwapAt = &now
		if err := s.subscribers.UpdateLine(ctx, line); err != nil {
			return fmt.Errorf("stamp line swap time: %w", err)
		}

		if err := s.audit.Append(ctx, "SWAP_COMPLETED", sess.MSISDN); err != nil {
			return fmt.Errorf("audit completion: %w", err)
		}
		completedNow = true
		subject = sess.MSISDN
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}

	if completedNow {
		if s.metrics != nil {
			s.metrics.SwapsCompleted.Inc()
		}
		s.mirror.ApproveSwap(ctx, sessionID.String())
		s.logger.InfoContext(ctx, "swap completed", "session_id", sessionID, "msisdn", subject)
	}
	return &CompleteResult{Success: true}, nil
}

// StatusResult is the session's externally visible state.
type StatusResult struct {
	Stage  Stage `json:"stage"`
	Locked bool  `json:"locked"`
}

// Status reports the session's stage and lock flag.
func (s *Service) Status(ctx context.Context, sessionID uuid.UUID) (*StatusResult, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, translate(err)
	}
	return &StatusResult{Stage: session.Stage, Locked: session.IsLocked}, nil
}

// OperatorLock locks a session out-of-band. It is the escape hatch for
// sessions stuck in the external KYC stage, and idempotent.
func (s *Service) OperatorLock(ctx context.Context, sessionID uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "swap.operator_lock")
	defer span.End()

	var lockedNow bool
	err := s.store.Mutate(ctx, sessionID, func(ctx context.Context, sess *Session) error {
		if sess.IsLocked {
			return nil
		}
		sess.Lock()
		if err := s.audit.Append(ctx, "SESSION_LOCKED_BY_OPERATOR", sess.MSISDN); err != nil {
			return fmt.Errorf("audit operator lock: %w", err)
		}
		lockedNow = true
		return nil
	})
	if err != nil {
		return translate(err)
	}
	if lockedNow {
		s.countLock()
	}
	return nil
}

// can reports whether the transition table has an edge for event from the
// session's current stage.
func (s *Session) can(event Event) bool {
	_, ok := transitions[s.Stage][event]
	return ok
}

// translate maps store and state-machine errors onto coded domain errors.
func translate(err error) error {
	var coded *dErrors.Error
	switch {
	case errors.As(err, &coded):
		return err
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, "session not found")
	case errors.Is(err, sentinel.ErrInvalidState):
		return dErrors.Wrap(err, dErrors.CodeConflict, "invalid stage for this operation")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "swap workflow failure")
	}
}
