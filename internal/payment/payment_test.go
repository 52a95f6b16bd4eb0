package payment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowedSchemes_HasAndWith(t *testing.T) {
	a := AllowedSchemesOf(Bacs, Chaps)

	assert.True(t, a.Has(Bacs))
	assert.True(t, a.Has(Chaps))
	assert.False(t, a.Has(FasterPayments))
	assert.False(t, a.Has(PaymentScheme(42)))

	assert.True(t, a.With(FasterPayments).Has(FasterPayments))
	assert.False(t, a.Has(FasterPayments), "With must not mutate the receiver")
	assert.Equal(t, a, a.With(PaymentScheme(-1)))
}

func TestAllowedSchemes_String(t *testing.T) {
	assert.Equal(t, "none", AllowedSchemes(0).String())
	assert.Equal(t, "FasterPayments|Bacs|Chaps", AllowedSchemesOf(Chaps, Bacs, FasterPayments).String())
}

func TestParseScheme(t *testing.T) {
	s, err := ParseScheme("chaps")
	require.NoError(t, err)
	assert.Equal(t, Chaps, s)

	s, err = ParseScheme(" FasterPayments ")
	require.NoError(t, err)
	assert.Equal(t, FasterPayments, s)

	_, err = ParseScheme("swift")
	assert.Error(t, err)
}

func TestPaymentScheme_Valid(t *testing.T) {
	for _, s := range SupportedSchemes {
		assert.True(t, s.Valid(), s.String())
	}
	assert.False(t, PaymentScheme(3).Valid())
	assert.Equal(t, "Unsupported(3)", PaymentScheme(3).String())
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("inboundpaymentsonly")
	require.NoError(t, err)
	assert.Equal(t, InboundPaymentsOnly, s)

	_, err = ParseStatus("frozen")
	assert.Error(t, err)
}

func TestAccount_DebitReturnsCopy(t *testing.T) {
	acct := Account{ID: "1001", Balance: decimal.NewFromInt(200)}

	debited := acct.Debit(decimal.NewFromInt(300))

	assert.True(t, debited.Balance.Equal(decimal.NewFromInt(-100)))
	assert.True(t, acct.Balance.Equal(decimal.NewFromInt(200)))
}

func TestResultFor(t *testing.T) {
	assert.True(t, ResultFor(OutcomeAuthorized).Success)
	for _, o := range []Outcome{OutcomeRejected, OutcomeUnsupportedScheme, OutcomeStoreFailure} {
		r := ResultFor(o)
		assert.False(t, r.Success, o.String())
		assert.Equal(t, o, r.Outcome)
	}
}
