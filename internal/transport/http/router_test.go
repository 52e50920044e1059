package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"swapsecure/internal/gateway"
	"swapsecure/internal/ledger"
	"swapsecure/internal/mirror"
	"swapsecure/internal/subscriber"
	"swapsecure/internal/swap"
	"swapsecure/internal/transport/http/mocks"
	dErrors "swapsecure/pkg/domain-errors"
	"swapsecure/pkg/testutil"
)

const webhookSecret = "whsec_test"

func newMockedHandlers(t *testing.T) (*Handlers, *mocks.MockSwapWorkflow, *mocks.MockOperatorAuth) {
	t.Helper()
	ctrl := gomock.NewController(t)
	swapMock := mocks.NewMockSwapWorkflow(ctrl)
	operatorMock := mocks.NewMockOperatorAuth(ctrl)
	h := &Handlers{
		Swap:          swapMock,
		Operator:      operatorMock,
		WebhookSecret: webhookSecret,
		Replay:        gateway.NewReplayGuard(nil),
		Logger:        slog.Default(),
	}
	return h, swapMock, operatorMock
}

func webhookRequest(body []byte) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/didit", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func signBody(body []byte) string {
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestWebhookValidSignature(t *testing.T) {
	h, swapMock, _ := newMockedHandlers(t)
	router := NewRouter(h)

	body := []byte(`{"session_id":"sess-1","status":"Approved"}`)
	swapMock.EXPECT().
		ResolveExternal(gomock.Any(), "sess-1", "Approved", body).
		Return(&swap.WebhookResult{SessionID: uuid.New(), Passed: true}, nil)

	req := webhookRequest(body)
	req.Header.Set("X-Signature", signBody(body))

	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusOK)

	resp := testutil.UnmarshalResponse[swap.WebhookResult](t, rr)
	assert.True(t, resp.Passed)
}

func TestWebhookMissingSignature(t *testing.T) {
	h, _, _ := newMockedHandlers(t)
	router := NewRouter(h)

	body := []byte(`{"session_id":"sess-1","status":"Approved"}`)
	req := webhookRequest(body)

	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusForbidden)
	testutil.AssertErrorCode(t, rr, "forbidden")
}

func TestWebhookTamperedBody(t *testing.T) {
	h, _, _ := newMockedHandlers(t)
	router := NewRouter(h)

	body := []byte(`{"session_id":"sess-1","status":"Declined"}`)
	signature := signBody(body)
	tampered := []byte(`{"session_id":"sess-1","status":"Approved"}`)

	req := webhookRequest(tampered)
	req.Header.Set("X-Signature", signature)

	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusForbidden)
}

func TestWebhookMalformedPayload(t *testing.T) {
	h, _, _ := newMockedHandlers(t)
	router := NewRouter(h)

	body := []byte(`not json at all`)
	req := webhookRequest(body)
	req.Header.Set("X-Signature", signBody(body))

	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

type replayRecorder struct {
	duplicate bool
	forgotten []string
}

func (r *replayRecorder) FirstDelivery(_ context.Context, _ string) (bool, error) {
	return !r.duplicate, nil
}

func (r *replayRecorder) Forget(_ context.Context, signature string) error {
	r.forgotten = append(r.forgotten, signature)
	return nil
}

// A transient resolution failure must release the delivery fingerprint,
// otherwise the vendor's retry of the same decision is acknowledged as a
// duplicate and the decision is lost.
func TestWebhookFailedResolutionReleasesFingerprint(t *testing.T) {
	h, swapMock, _ := newMockedHandlers(t)
	replay := &replayRecorder{}
	h.Replay = replay
	router := NewRouter(h)

	body := []byte(`{"session_id":"sess-1","status":"Approved"}`)
	swapMock.EXPECT().
		ResolveExternal(gomock.Any(), "sess-1", "Approved", body).
		Return(nil, dErrors.New(dErrors.CodeUnavailable, "store unavailable"))

	req := webhookRequest(body)
	signature := signBody(body)
	req.Header.Set("X-Signature", signature)

	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	assert.Equal(t, []string{signature}, replay.forgotten)
}

func TestWebhookSuccessKeepsFingerprint(t *testing.T) {
	h, swapMock, _ := newMockedHandlers(t)
	replay := &replayRecorder{}
	h.Replay = replay
	router := NewRouter(h)

	body := []byte(`{"session_id":"sess-1","status":"Approved"}`)
	swapMock.EXPECT().
		ResolveExternal(gomock.Any(), "sess-1", "Approved", body).
		Return(&swap.WebhookResult{SessionID: uuid.New(), Passed: true}, nil)

	req := webhookRequest(body)
	req.Header.Set("X-Signature", signBody(body))

	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.Empty(t, replay.forgotten)
}

func TestWebhookDuplicateDelivery(t *testing.T) {
	h, _, _ := newMockedHandlers(t)
	h.Replay = &replayRecorder{duplicate: true}
	router := NewRouter(h)

	body := []byte(`{"session_id":"sess-1","status":"Approved"}`)
	req := webhookRequest(body)
	req.Header.Set("X-Signature", signBody(body))

	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusOK)

	resp := testutil.UnmarshalResponse[map[string]string](t, rr)
	assert.Equal(t, "duplicate", (*resp)["status"])
}

func TestWebhookUnknownSession(t *testing.T) {
	h, swapMock, _ := newMockedHandlers(t)
	router := NewRouter(h)

	body := []byte(`{"session_id":"sess-unknown","status":"Approved"}`)
	swapMock.EXPECT().
		ResolveExternal(gomock.Any(), "sess-unknown", "Approved", body).
		Return(nil, dErrors.New(dErrors.CodeNotFound, "session not found"))

	req := webhookRequest(body)
	req.Header.Set("X-Signature", signBody(body))

	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestOperatorLoginIssuesToken(t *testing.T) {
	h, _, operatorMock := newMockedHandlers(t)
	router := NewRouter(h)

	operatorMock.EXPECT().Login("hunter2", "op-7").Return("token-xyz", nil)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/admin/login",
		map[string]string{"operator_id": "op-7", "password": "hunter2"})
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusOK)

	resp := testutil.UnmarshalResponse[map[string]string](t, rr)
	assert.Equal(t, "token-xyz", (*resp)["token"])
}

func TestLockSessionRequiresToken(t *testing.T) {
	h, _, _ := newMockedHandlers(t)
	router := NewRouter(h)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/admin/sessions/"+uuid.NewString()+"/lock", nil)
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)
}

func TestLockSessionWithToken(t *testing.T) {
	h, swapMock, operatorMock := newMockedHandlers(t)
	router := NewRouter(h)

	sessionID := uuid.New()
	operatorMock.EXPECT().Validate("token-xyz").Return("op-7", nil)
	swapMock.EXPECT().OperatorLock(gomock.Any(), sessionID).Return(nil)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/admin/sessions/"+sessionID.String()+"/lock", nil)
	req.Header.Set("Authorization", "Bearer token-xyz")
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestStartSwapBadSessionID(t *testing.T) {
	h, _, _ := newMockedHandlers(t)
	router := NewRouter(h)

	req := testutil.NewJSONRequest(t, http.MethodGet, "/api/swap/sessions/not-a-uuid", nil)
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

// The transactions view rebuilds a linked chain over the newest records,
// oldest first, seeded from the all-zero genesis hash.
func TestRecentTransactionsChainDisplay(t *testing.T) {
	ctx := context.Background()
	store := mirror.NewInMemoryStore()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	confirmed := int64(777)

	require.NoError(t, store.Upsert(ctx, &mirror.Transaction{
		Ref: "0xaaa", FunctionName: mirror.FuncInitiateSwap, UserID: "254712345678",
		Status: mirror.StatusConfirmed, CreatedAt: base, UpdatedAt: base,
	}))
	require.NoError(t, store.Upsert(ctx, &mirror.Transaction{
		Ref: "0xbbb", FunctionName: mirror.FuncRecordVerification,
		Status: mirror.StatusConfirmed, CreatedAt: base.Add(time.Minute), UpdatedAt: base.Add(time.Minute),
	}))
	require.NoError(t, store.Upsert(ctx, &mirror.Transaction{
		Ref: "0xccc", FunctionName: mirror.FuncApproveSwap, BlockNumber: &confirmed,
		Status: mirror.StatusConfirmed, CreatedAt: base.Add(2 * time.Minute), UpdatedAt: base.Add(2 * time.Minute),
	}))

	router := NewRouter(&Handlers{Mirror: store, Logger: slog.Default()})

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/api/ledger/transactions?limit=2", nil))
	testutil.AssertStatus(t, rr, http.StatusOK)

	type chainView struct {
		Transactions []transactionDisplay `json:"transactions"`
		Length       int                  `json:"length"`
	}
	resp := testutil.UnmarshalResponse[chainView](t, rr)
	require.Equal(t, 2, resp.Length)

	// Newest two records, displayed oldest first.
	first, second := resp.Transactions[0], resp.Transactions[1]
	assert.Equal(t, 1, first.Index)
	assert.Equal(t, "0xbbb", first.RecordHash)
	assert.Equal(t, genesisDisplayHash, first.PreviousHash)
	assert.Equal(t, "system", first.Actor)
	assert.Equal(t, int64(displayBlockBase), first.BlockNumber)

	assert.Equal(t, 2, second.Index)
	assert.Equal(t, "0xccc", second.RecordHash)
	assert.Equal(t, "0xbbb", second.PreviousHash)
	assert.Equal(t, int64(777), second.BlockNumber)
	assert.Equal(t, mirror.FuncApproveSwap, second.Action)
}

type fakeVendor struct{}

func (fakeVendor) CreateSession(_ context.Context, vendorData string) (*gateway.Session, error) {
	return &gateway.Session{ID: "didit-" + vendorData, URL: "https://verify.example/" + vendorData}, nil
}

// End-to-end walk over the real services: register-free provisioning, swap
// start, all four vetting stages, completion, and chain verification.
func TestRouterEndToEndSwapFlow(t *testing.T) {
	ctx := context.Background()

	subscribers := subscriber.NewInMemoryStore()
	customerID := uuid.New()
	fuliza := int64(2_000_00)
	require.NoError(t, subscribers.Provision(ctx,
		&subscriber.Customer{
			ID: customerID, MSISDN: "254712345678",
			FullName: "Jane Wanjiku Doe", IDNumber: "12345678", YearOfBirth: 1990,
			IPRSVerified: true, IPRSApproved: true,
			FraudLocation: subscriber.FraudLocationNormal,
		},
		&subscriber.Line{
			ID: uuid.New(), MSISDN: "254712345678", CustomerID: customerID,
			IsPrepaid: true, OnINData: true, Status: subscriber.LineStatusActive,
		},
		&subscriber.WalletProfile{
			CustomerID: customerID, MpesaCents: 500_00, AirtimeCents: 80_00,
			FulizaCents: &fuliza, FulizaOptedIn: true,
		},
	))

	chain := ledger.NewInMemoryStore()
	auditor := ledger.NewService(chain, slog.Default())
	mirrorStore := mirror.NewInMemoryStore()
	demoMirror := mirror.NewDemo(mirrorStore, "0xCONTRACT", slog.Default())
	swapSvc := swap.NewService(swap.NewInMemoryStore(), subscribers, auditor, demoMirror,
		slog.Default(), swap.WithVendor(fakeVendor{}))
	subscriberSvc := subscriber.NewService(subscribers, auditor, demoMirror, slog.Default())

	router := NewRouter(&Handlers{
		Swap:          swapSvc,
		Subscribers:   subscriberSvc,
		Ledger:        auditor,
		Mirror:        mirrorStore,
		WebhookSecret: webhookSecret,
		Replay:        gateway.NewReplayGuard(nil),
		Logger:        slog.Default(),
	})

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/api/swap/start",
		map[string]string{"msisdn": "0712345678"}))
	testutil.AssertStatus(t, rr, http.StatusOK)
	start := testutil.UnmarshalResponse[swap.StartResult](t, rr)
	require.True(t, start.Allowed)
	sessionID := start.SessionID.String()

	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/api/vetting/primary",
		map[string]any{"session_id": sessionID, "full_name": "Jane Wanjiku Doe", "id_number": "12345678", "yob": 1990}))
	testutil.AssertStatus(t, rr, http.StatusOK)
	require.True(t, testutil.UnmarshalResponse[swap.StageResult](t, rr).Passed)

	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/api/vetting/secondary",
		map[string]any{"session_id": sessionID, "answers": map[string]int64{
			"mpesa_balance": 500_00, "airtime_balance": 80_00, "fuliza_limit": 2_000_00,
		}}))
	testutil.AssertStatus(t, rr, http.StatusOK)
	require.True(t, testutil.UnmarshalResponse[swap.StageResult](t, rr).Passed)

	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/api/vetting/face",
		map[string]any{"session_id": sessionID, "confidence": 0.95}))
	testutil.AssertStatus(t, rr, http.StatusOK)
	require.True(t, testutil.UnmarshalResponse[swap.StageResult](t, rr).Passed)

	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/api/vetting/id",
		map[string]any{"session_id": sessionID, "ocr_match_score": 0.95, "id_number_match": true}))
	testutil.AssertStatus(t, rr, http.StatusOK)
	require.True(t, testutil.UnmarshalResponse[swap.StageResult](t, rr).Passed)

	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/api/swap/complete",
		map[string]string{"session_id": sessionID}))
	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.True(t, testutil.UnmarshalResponse[swap.CompleteResult](t, rr).Success)

	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/api/swap/sessions/"+sessionID, nil))
	testutil.AssertStatus(t, rr, http.StatusOK)
	status := testutil.UnmarshalResponse[swap.StatusResult](t, rr)
	assert.Equal(t, swap.StageCompleted, status.Stage)

	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/api/ledger/verify", nil))
	testutil.AssertStatus(t, rr, http.StatusOK)
	verify := testutil.UnmarshalResponse[ledger.VerifyChainResult](t, rr)
	assert.True(t, verify.Valid)
	assert.NotZero(t, verify.Length)

	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/api/ledger/trail/254712345678", nil))
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/api/ledger/transactions", nil))
	testutil.AssertStatus(t, rr, http.StatusOK)
}
