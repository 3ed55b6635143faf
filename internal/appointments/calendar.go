package appointments

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/pkg/enums"
	"github.com/clinicdesk/clinicdesk/pkg/types"
)

// fallbackPatientName is shown when neither the embedded snapshot nor the
// denormalized name survived the bridge round trip.
const fallbackPatientName = "Unknown patient"

// CalendarEvent is the display-ready projection of one appointment.
type CalendarEvent struct {
	ID     uuid.UUID
	Title  string
	Start  time.Time
	End    time.Time
	Status enums.AppointmentStatus
}

// BuildCalendar rebuilds the event list in full from the current
// appointments, sorted by start time. No incremental diffing.
func BuildCalendar(items []types.Appointment) []CalendarEvent {
	events := make([]CalendarEvent, 0, len(items))
	for _, apt := range items {
		events = append(events, CalendarEvent{
			ID:     apt.ID,
			Title:  eventTitle(apt),
			Start:  apt.StartTime,
			End:    apt.EndTime,
			Status: apt.Status,
		})
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
	return events
}

// eventTitle picks the patient name from the richest available source:
// embedded patient record first, then the denormalized name field, then a
// placeholder. Upstream data is inconsistent; the calendar tolerates it.
func eventTitle(apt types.Appointment) string {
	name := fallbackPatientName
	switch {
	case apt.Patient != nil && apt.Patient.FullName != "":
		name = apt.Patient.FullName
	case apt.PatientName != "":
		name = apt.PatientName
	}
	return fmt.Sprintf("%s - %s", name, apt.StartTime.Format("15:04"))
}
