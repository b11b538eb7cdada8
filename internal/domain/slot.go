package domain

import "github.com/m04kA/SMC-AssistantBooking/pkg/types"

// Interval полуоткрытый интервал [Start, End) в минутах от начала суток
type Interval struct {
	Start int
	End   int
}

// Overlaps returns true if two half-open intervals share at least one minute
// Граничащие интервалы (10:00-10:30 и 10:30-11:00) не пересекаются
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && other.Start < i.End
}

// IntervalOf returns the interval occupied by an appointment
func IntervalOf(start types.TimeString, durationMinutes int) Interval {
	m := start.Minutes()
	return Interval{Start: m, End: m + durationMinutes}
}
