package enums

import "fmt"

// CalendarView is the active scale of the appointments calendar.
type CalendarView string

const (
	CalendarViewMonth CalendarView = "month"
	CalendarViewWeek  CalendarView = "week"
	CalendarViewDay   CalendarView = "day"
)

var validCalendarViews = []CalendarView{
	CalendarViewMonth,
	CalendarViewWeek,
	CalendarViewDay,
}

// String implements fmt.Stringer.
func (c CalendarView) String() string {
	return string(c)
}

// IsValid reports whether the value is known.
func (c CalendarView) IsValid() bool {
	for _, candidate := range validCalendarViews {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCalendarView converts raw input into a CalendarView.
func ParseCalendarView(value string) (CalendarView, error) {
	for _, candidate := range validCalendarViews {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid calendar view %q", value)
}
