// Package http wires the service layer to chi routes. Handlers stay thin:
// decode, delegate, translate errors through httputil.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"swapsecure/internal/gateway"
	"swapsecure/internal/ledger"
	"swapsecure/internal/mirror"
	"swapsecure/internal/platform/metrics"
	"swapsecure/internal/platform/middleware"
	"swapsecure/internal/subscriber"
	"swapsecure/internal/swap"
	"swapsecure/internal/vetting"
)

// SwapWorkflow is the swap service surface the transport depends on.
type SwapWorkflow interface {
	Start(ctx context.Context, msisdn string) (*swap.StartResult, error)
	Primary(ctx context.Context, sessionID uuid.UUID, in vetting.PrimaryInput) (*swap.StageResult, error)
	Secondary(ctx context.Context, sessionID uuid.UUID, answers vetting.Answers) (*swap.StageResult, error)
	Face(ctx context.Context, sessionID uuid.UUID, scan vetting.FaceScan) (*swap.StageResult, error)
	IDDocument(ctx context.Context, sessionID uuid.UUID, scan vetting.IDScan) (*swap.StageResult, error)
	StartExternal(ctx context.Context, sessionID uuid.UUID) (*swap.ExternalStartResult, error)
	ResolveExternal(ctx context.Context, vendorSessionID, status string, rawPayload []byte) (*swap.WebhookResult, error)
	Complete(ctx context.Context, sessionID uuid.UUID) (*swap.CompleteResult, error)
	Status(ctx context.Context, sessionID uuid.UUID) (*swap.StatusResult, error)
	OperatorLock(ctx context.Context, sessionID uuid.UUID) error
}

// SubscriberRegistry is the subscriber service surface.
type SubscriberRegistry interface {
	Register(ctx context.Context, in subscriber.RegisterInput) (*subscriber.Customer, error)
	List(ctx context.Context) ([]*subscriber.Customer, error)
}

// LedgerReader exposes the audit chain read operations.
type LedgerReader interface {
	List(ctx context.Context) ([]*ledger.Block, error)
	Trail(ctx context.Context, subject string) ([]*ledger.Block, error)
	VerifyChain(ctx context.Context) (ledger.VerifyChainResult, error)
}

// MirrorReader exposes the mirrored transaction projections.
type MirrorReader interface {
	ListRecent(ctx context.Context, limit int) ([]*mirror.Transaction, error)
	ListByUser(ctx context.Context, userID string) ([]*mirror.Transaction, error)
}

// OperatorAuth issues and validates operator tokens.
type OperatorAuth interface {
	Login(password, operatorID string) (string, error)
	Validate(token string) (string, error)
}

// ReplayFilter classifies webhook deliveries. Forget releases a fingerprint
// recorded by FirstDelivery when processing the delivery failed.
type ReplayFilter interface {
	FirstDelivery(ctx context.Context, signature string) (bool, error)
	Forget(ctx context.Context, signature string) error
}

// Handlers aggregates everything the router serves.
type Handlers struct {
	Swap          SwapWorkflow
	Subscribers   SubscriberRegistry
	Ledger        LedgerReader
	Mirror        MirrorReader
	Operator      OperatorAuth
	WebhookSecret string
	Replay        ReplayFilter
	Archive       *gateway.Archiver
	Metrics       *metrics.Metrics
	Logger        *slog.Logger
}

// requestTimeout bounds handler time; vendor round-trips fit well inside it.
const requestTimeout = 30 * time.Second

// NewRouter builds the full route tree with the standard middleware chain.
func NewRouter(h *Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Recovery(h.Logger))
	r.Use(middleware.Logger(h.Logger))
	r.Use(middleware.Timeout(requestTimeout))
	if h.Metrics != nil {
		r.Use(middleware.Duration(func(route, status string, seconds float64) {
			h.Metrics.RequestDuration.WithLabelValues(route, status).Observe(seconds)
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/customers", h.registerCustomer)
		r.Get("/customers", h.listCustomers)

		r.Route("/swap", func(r chi.Router) {
			r.Post("/start", h.startSwap)
			r.Post("/complete", h.completeSwap)
			r.Get("/sessions/{sessionID}", h.sessionStatus)
			r.Post("/sessions/{sessionID}/kyc", h.startExternalKYC)
		})

		r.Route("/vetting", func(r chi.Router) {
			r.Post("/primary", h.primaryVetting)
			r.Post("/secondary", h.secondaryVetting)
			r.Post("/face", h.faceVetting)
			r.Post("/id", h.idVetting)
		})

		r.Route("/ledger", func(r chi.Router) {
			r.Get("/blocks", h.listBlocks)
			r.Get("/verify", h.verifyChain)
			r.Get("/trail/{msisdn}", h.auditTrail)
			r.Get("/transactions", h.recentTransactions)
			r.Get("/transactions/user/{userID}", h.userTransactions)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", h.operatorLogin)
			r.Group(func(r chi.Router) {
				r.Use(h.requireOperator)
				r.Post("/sessions/{sessionID}/lock", h.lockSession)
			})
		})
	})

	r.Post("/webhooks/didit", h.diditWebhook)

	return r
}
