package enums

import "fmt"

// LabOrderStatus tracks an order sent to an external dental lab.
type LabOrderStatus string

const (
	LabOrderStatusPending    LabOrderStatus = "pending"
	LabOrderStatusInProgress LabOrderStatus = "in_progress"
	LabOrderStatusCompleted  LabOrderStatus = "completed"
	LabOrderStatusDelivered  LabOrderStatus = "delivered"
	LabOrderStatusCancelled  LabOrderStatus = "cancelled"
)

var validLabOrderStatuses = []LabOrderStatus{
	LabOrderStatusPending,
	LabOrderStatusInProgress,
	LabOrderStatusCompleted,
	LabOrderStatusDelivered,
	LabOrderStatusCancelled,
}

// String implements fmt.Stringer.
func (l LabOrderStatus) String() string {
	return string(l)
}

// IsValid reports whether the value is known.
func (l LabOrderStatus) IsValid() bool {
	for _, candidate := range validLabOrderStatuses {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLabOrderStatus converts raw input into a LabOrderStatus.
func ParseLabOrderStatus(value string) (LabOrderStatus, error) {
	for _, candidate := range validLabOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid lab order status %q", value)
}
