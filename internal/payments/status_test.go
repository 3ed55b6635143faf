package payments

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/clinicdesk/clinicdesk/pkg/enums"
	"github.com/clinicdesk/clinicdesk/pkg/types"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestClassifyStatus(t *testing.T) {
	cases := []struct {
		name      string
		due       string
		paid      string
		remaining string
		want      enums.PaymentStatus
	}{
		{"fully settled", "100", "100", "0", enums.PaymentStatusCompleted},
		{"overpaid", "100", "120", "-20", enums.PaymentStatusCompleted},
		{"partially paid", "100", "40", "60", enums.PaymentStatusPartial},
		{"nothing paid", "100", "0", "100", enums.PaymentStatusPending},
		{"zero invoice", "0", "0", "0", enums.PaymentStatusPending},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payment := types.Payment{
				TotalAmountDue:   money(tc.due),
				AmountPaid:       money(tc.paid),
				RemainingBalance: money(tc.remaining),
			}
			if got := ClassifyStatus(payment); got != tc.want {
				t.Fatalf("ClassifyStatus(%s paid %s of %s) = %s, want %s",
					tc.name, tc.paid, tc.due, got, tc.want)
			}
		})
	}
}

func TestReconcilesHoldsForNonPendingPayments(t *testing.T) {
	cases := []struct {
		name      string
		due       string
		paid      string
		remaining string
		want      bool
	}{
		{"completed balances", "100", "100", "0", true},
		{"partial balances", "100", "40", "60", true},
		{"pending exempt", "100", "0", "30", true},
		{"partial mismatch", "100", "40", "70", false},
		{"completed mismatch", "100", "110", "0", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payment := types.Payment{
				TotalAmountDue:   money(tc.due),
				AmountPaid:       money(tc.paid),
				RemainingBalance: money(tc.remaining),
			}
			if got := Reconciles(payment); got != tc.want {
				t.Fatalf("Reconciles(due %s, paid %s, remaining %s) = %v, want %v",
					tc.due, tc.paid, tc.remaining, got, tc.want)
			}
		})
	}
}
