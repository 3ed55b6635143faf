package enums

import "fmt"

// PaymentStatus reflects how much of the amount due has been settled.
type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusPartial   PaymentStatus = "partial"
	PaymentStatusPending   PaymentStatus = "pending"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusCompleted,
	PaymentStatusPartial,
	PaymentStatusPending,
}

// String implements fmt.Stringer.
func (p PaymentStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is known.
func (p PaymentStatus) IsValid() bool {
	for _, candidate := range validPaymentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentStatus converts raw input into a PaymentStatus.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	for _, candidate := range validPaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment status %q", value)
}
