package enums

import "fmt"

// LabOrderPriority orders lab work queues.
type LabOrderPriority string

const (
	LabOrderPriorityLow    LabOrderPriority = "low"
	LabOrderPriorityNormal LabOrderPriority = "normal"
	LabOrderPriorityHigh   LabOrderPriority = "high"
	LabOrderPriorityUrgent LabOrderPriority = "urgent"
)

var validLabOrderPriorities = []LabOrderPriority{
	LabOrderPriorityLow,
	LabOrderPriorityNormal,
	LabOrderPriorityHigh,
	LabOrderPriorityUrgent,
}

// String implements fmt.Stringer.
func (l LabOrderPriority) String() string {
	return string(l)
}

// IsValid reports whether the value is known.
func (l LabOrderPriority) IsValid() bool {
	for _, candidate := range validLabOrderPriorities {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLabOrderPriority converts raw input into a LabOrderPriority.
func ParseLabOrderPriority(value string) (LabOrderPriority, error) {
	for _, candidate := range validLabOrderPriorities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid lab order priority %q", value)
}
