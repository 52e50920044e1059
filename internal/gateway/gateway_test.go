package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "swapsecure/pkg/domain-errors"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"session_id":"abc","status":"Approved","vendor_data":"swap-1"}`)

	assert.True(t, VerifySignature(secret, sign(secret, body), body))
	assert.False(t, VerifySignature(secret, sign("other", body), body))
	assert.False(t, VerifySignature(secret, sign(secret, body), []byte(`{"status":"Approved"}`)))
	assert.False(t, VerifySignature("", sign(secret, body), body))
	assert.False(t, VerifySignature(secret, "", body))
}

func TestVerifySignatureRejectsAnyBitFlip(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"session_id":"abc","status":"Approved"}`)
	signature := sign(secret, body)

	for i := range body {
		for bit := range 8 {
			mutated := append([]byte(nil), body...)
			mutated[i] ^= 1 << bit
			assert.False(t, VerifySignature(secret, signature, mutated),
				"byte %d bit %d", i, bit)
		}
	}
}

func TestCreateSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/session/", r.URL.Path)
		assert.Equal(t, "key-123", r.Header.Get("x-api-key"))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"session_id":"sess-1","url":"https://verify.example/sess-1"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key-123", "wf-1", "https://api.example/webhooks/didit", time.Second)
	session, err := client.CreateSession(context.Background(), "swap-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", session.ID)
	assert.Equal(t, "https://verify.example/sess-1", session.URL)
}

func TestCreateSessionVendorError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key-123", "wf-1", "", time.Second)
	_, err := client.CreateSession(context.Background(), "swap-1")
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeUnavailable, dErrors.CodeOf(err))
}

func TestCreateSessionUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "key-123", "wf-1", "", 100*time.Millisecond)
	_, err := client.CreateSession(context.Background(), "swap-1")
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeUnavailable, dErrors.CodeOf(err))
}

func TestReplayGuardDisabledWithoutRedis(t *testing.T) {
	guard := NewReplayGuard(nil)
	first, err := guard.FirstDelivery(context.Background(), "sig-1")
	require.NoError(t, err)
	assert.True(t, first)

	again, err := guard.FirstDelivery(context.Background(), "sig-1")
	require.NoError(t, err)
	assert.True(t, again)
}
