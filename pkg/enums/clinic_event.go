package enums

import "fmt"

// ClinicEventType names the cross-store invalidation events published on the
// in-process bus after a successful mutation.
type ClinicEventType string

const (
	EventPatientDeleted     ClinicEventType = "patient-deleted"
	EventAppointmentAdded   ClinicEventType = "appointment-added"
	EventAppointmentUpdated ClinicEventType = "appointment-updated"
	EventAppointmentDeleted ClinicEventType = "appointment-deleted"
	EventAppointmentChanged ClinicEventType = "appointment-changed"
	EventInventoryChanged   ClinicEventType = "inventory-changed"
	EventPaymentChanged     ClinicEventType = "payment-changed"
	EventLabOrderChanged    ClinicEventType = "laborder-changed"
	EventSettingsChanged    ClinicEventType = "settings-changed"
)

var validClinicEventTypes = []ClinicEventType{
	EventPatientDeleted,
	EventAppointmentAdded,
	EventAppointmentUpdated,
	EventAppointmentDeleted,
	EventAppointmentChanged,
	EventInventoryChanged,
	EventPaymentChanged,
	EventLabOrderChanged,
	EventSettingsChanged,
}

// String implements fmt.Stringer.
func (c ClinicEventType) String() string {
	return string(c)
}

// IsValid reports whether the value is known.
func (c ClinicEventType) IsValid() bool {
	for _, candidate := range validClinicEventTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseClinicEventType converts raw input into a ClinicEventType.
func ParseClinicEventType(value string) (ClinicEventType, error) {
	for _, candidate := range validClinicEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid clinic event type %q", value)
}
