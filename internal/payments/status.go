package payments

import (
	"github.com/shopspring/decimal"

	"github.com/clinicdesk/clinicdesk/pkg/enums"
	"github.com/clinicdesk/clinicdesk/pkg/types"
)

// ClassifyStatus buckets a payment from its bridge-supplied balance figures:
// completed once nothing remains on a real amount due, partial when some
// money arrived but a balance is open, pending otherwise.
func ClassifyStatus(p types.Payment) enums.PaymentStatus {
	switch {
	case p.RemainingBalance.LessThanOrEqual(decimal.Zero) && p.TotalAmountDue.GreaterThan(decimal.Zero):
		return enums.PaymentStatusCompleted
	case p.AmountPaid.GreaterThan(decimal.Zero) && p.RemainingBalance.GreaterThan(decimal.Zero):
		return enums.PaymentStatusPartial
	default:
		return enums.PaymentStatusPending
	}
}

// Reconciles reports whether the balance figures add up: for any settled or
// partial payment, amount paid plus remaining balance equals the total due.
func Reconciles(p types.Payment) bool {
	if ClassifyStatus(p) == enums.PaymentStatusPending {
		return true
	}
	return p.AmountPaid.Add(p.RemainingBalance).Equal(p.TotalAmountDue)
}
