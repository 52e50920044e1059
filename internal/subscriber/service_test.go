package subscriber

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swapsecure/internal/ledger"
	"swapsecure/internal/mirror"
	dErrors "swapsecure/pkg/domain-errors"
)

func newTestService(t *testing.T) (*Service, *ledger.Service) {
	t.Helper()
	audit := ledger.NewService(ledger.NewInMemoryStore(), slog.Default())
	return NewService(NewInMemoryStore(), audit, mirror.Nop{}, slog.Default()), audit
}

func TestRegisterProvisionsCustomerLineAndWallet(t *testing.T) {
	svc, audit := newTestService(t)
	ctx := context.Background()

	customer, err := svc.Register(ctx, RegisterInput{
		MSISDN:      "0712345678",
		FullName:    "Jane Wanjiku Doe",
		IDNumber:    "12345678",
		YearOfBirth: 1990,
	})
	require.NoError(t, err)
	assert.Equal(t, "254712345678", customer.MSISDN)
	assert.Equal(t, FraudLocationNormal, customer.FraudLocation)

	line, owner, err := svc.store.GetLine(ctx, "254712345678")
	require.NoError(t, err)
	assert.Equal(t, customer.ID, owner.ID)
	assert.Equal(t, LineStatusActive, line.Status)
	assert.True(t, line.IsPrepaid)
	assert.True(t, line.OnINData)

	wallet, err := svc.store.GetWallet(ctx, customer.ID)
	require.NoError(t, err)
	assert.Zero(t, wallet.MpesaCents)

	trail, err := audit.Trail(ctx, "254712345678")
	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.Equal(t, "CUSTOMER_REGISTERED", trail[0].Event)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{MSISDN: "12", FullName: "Jane", IDNumber: "1"})
	assert.Equal(t, dErrors.CodeBadRequest, dErrors.CodeOf(err))

	_, err = svc.Register(ctx, RegisterInput{MSISDN: "0712345678", FullName: "", IDNumber: "1"})
	assert.Equal(t, dErrors.CodeBadRequest, dErrors.CodeOf(err))

	_, err = svc.Register(ctx, RegisterInput{MSISDN: "0712345678", FullName: "Jane", IDNumber: ""})
	assert.Equal(t, dErrors.CodeBadRequest, dErrors.CodeOf(err))
}

func TestRegisterDuplicateMSISDN(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	in := RegisterInput{MSISDN: "0712345678", FullName: "Jane Wanjiku Doe", IDNumber: "12345678", YearOfBirth: 1990}
	_, err := svc.Register(ctx, in)
	require.NoError(t, err)

	_, err = svc.Register(ctx, in)
	assert.Equal(t, dErrors.CodeConflict, dErrors.CodeOf(err))

	// The 07... and 2547... spellings are the same line.
	in.MSISDN = "254712345678"
	_, err = svc.Register(ctx, in)
	assert.Equal(t, dErrors.CodeConflict, dErrors.CodeOf(err))
}

func TestListOrdersByCreation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, m := range []string{"0712345678", "0712345679", "0712345680"} {
		_, err := svc.Register(ctx, RegisterInput{MSISDN: m, FullName: "Jane Wanjiku Doe", IDNumber: "12345678", YearOfBirth: 1990})
		require.NoError(t, err)
	}

	customers, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 3)
	assert.Equal(t, "254712345678", customers[0].MSISDN)
	assert.Equal(t, "254712345680", customers[2].MSISDN)
}
