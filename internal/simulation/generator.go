package simulation

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/paysim/internal/payment"
)

// CreditorAccountID is the creditor on every generated request.
const CreditorAccountID = "00000"

// Generator produces the synthetic request stream.
//
// Amounts are whole units in [0, 100), schemes are uniform over the
// supported set and debtors are drawn from the fifteen reference accounts
// (1001-1005, 2001-2005, 3001-3005). Request ids are random UUIDs drawn
// from the same seeded stream.
//
// Thread-safety: not safe for concurrent use. The dispatcher is the only
// caller.
type Generator struct {
	rng *rand.Rand
	ids payment.IDGenerator
	now func() time.Time
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithClock sets the source of request dates. Default: time.Now.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithIDGenerator replaces the seeded request id stream.
func WithIDGenerator(ids payment.IDGenerator) GeneratorOption {
	return func(g *Generator) {
		if ids != nil {
			g.ids = ids
		}
	}
}

// NewGenerator returns a generator whose output is fully determined by
// seed, apart from request dates.
func NewGenerator(seed uint64, opts ...GeneratorOption) *Generator {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	src := rand.NewChaCha8(key)

	g := &Generator{
		rng: rand.New(src),
		ids: payment.NewReaderGenerator(src),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Next returns the next request.
func (g *Generator) Next() payment.MakePaymentRequest {
	id := g.ids.Generate()
	amount := decimal.NewFromInt(int64(g.rng.IntN(100)))
	scheme := payment.SupportedSchemes[g.rng.IntN(len(payment.SupportedSchemes))]
	debtor := fmt.Sprintf("%d00%d", 1+g.rng.IntN(3), 1+g.rng.IntN(5))

	return payment.MakePaymentRequest{
		ID:                id,
		DebtorAccountID:   debtor,
		CreditorAccountID: CreditorAccountID,
		Amount:            amount,
		Scheme:            scheme,
		Date:              g.now(),
	}
}
