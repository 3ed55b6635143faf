package enums

import "testing"

func TestParseAppointmentStatus(t *testing.T) {
	status, err := ParseAppointmentStatus("no_show")
	if err != nil {
		t.Fatalf("ParseAppointmentStatus: %v", err)
	}
	if status != AppointmentStatusNoShow {
		t.Fatalf("expected no_show, got %s", status)
	}

	if _, err := ParseAppointmentStatus("rescheduled"); err == nil {
		t.Fatal("expected unknown status to fail")
	}
}

func TestInventoryStatusValidity(t *testing.T) {
	for _, status := range validInventoryStatuses {
		if !status.IsValid() {
			t.Fatalf("expected %s to be valid", status)
		}
	}
	if InventoryStatus("overflow").IsValid() {
		t.Fatal("expected unknown inventory status to be invalid")
	}
}

func TestParseClinicEventType(t *testing.T) {
	evt, err := ParseClinicEventType("patient-deleted")
	if err != nil {
		t.Fatalf("ParseClinicEventType: %v", err)
	}
	if evt != EventPatientDeleted {
		t.Fatalf("expected patient-deleted, got %s", evt)
	}

	if _, err := ParseClinicEventType("patient-archived"); err == nil {
		t.Fatal("expected unknown event type to fail")
	}
}

func TestParseLabOrderPriority(t *testing.T) {
	priority, err := ParseLabOrderPriority("urgent")
	if err != nil {
		t.Fatalf("ParseLabOrderPriority: %v", err)
	}
	if priority != LabOrderPriorityUrgent {
		t.Fatalf("expected urgent, got %s", priority)
	}
}
