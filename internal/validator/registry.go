package validator

import "github.com/roach88/paysim/internal/payment"

// Registry maps each supported scheme to its validator. It is a fixed
// table built once and never modified, so one Registry can be shared by
// every worker.
type Registry struct {
	table [payment.Chaps + 1]Validator
}

// NewRegistry returns the registry with the three standard policies.
func NewRegistry() *Registry {
	return NewRegistryWith(map[payment.PaymentScheme]Validator{
		payment.FasterPayments: FasterPayments{},
		payment.Bacs:           Bacs{},
		payment.Chaps:          Chaps{},
	})
}

// NewRegistryWith builds a registry from an explicit mapping. Entries for
// unsupported schemes are dropped; schemes missing from the mapping are
// unregistered and always fail.
func NewRegistryWith(validators map[payment.PaymentScheme]Validator) *Registry {
	r := &Registry{}
	for scheme, v := range validators {
		if !scheme.Valid() || v == nil {
			continue
		}
		r.table[scheme] = v
	}
	return r
}

// Lookup returns the validator for scheme, or false when the scheme is
// unsupported or has no registered validator.
func (r *Registry) Lookup(scheme payment.PaymentScheme) (Validator, bool) {
	if r == nil || !scheme.Valid() {
		return nil, false
	}
	v := r.table[scheme]
	return v, v != nil
}
