package billing

// PaymentMethod represents how a bill settles into receivables
type PaymentMethod string

const (
	// PaymentMethodInvoice settles at the end of the month following the
	// billing reference date, with no agency fee.
	PaymentMethodInvoice PaymentMethod = "invoice"
	// PaymentMethodComplete settles same-day at billing confirmation with a
	// 5% agency fee on the subcontractor leg.
	PaymentMethodComplete PaymentMethod = "complete"
	// PaymentMethodStartAndComplete splits the settlement: a 30% advance at
	// construction start and the remaining 70% at billing confirmation, each
	// with a 5% agency fee on the subcontractor leg.
	PaymentMethodStartAndComplete PaymentMethod = "start_and_complete"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodInvoice, PaymentMethodComplete, PaymentMethodStartAndComplete:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// HasStartAdvance returns true if the method pays a partial amount at construction start
func (m PaymentMethod) HasStartAdvance() bool {
	return m == PaymentMethodStartAndComplete
}
