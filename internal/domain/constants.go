package domain

// Default values
const (
	DefaultSlotMinutes = 30
	MinSlotMinutes     = 5
	MaxSlotMinutes     = 480 // 8 часов

	MaxNameLength               = 200
	MaxServiceLength            = 200
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat        = "15:04"      // HH:MM
	DateFormat        = "2006-01-02" // YYYY-MM-DD, формат хранения и API
	VisitorDateFormat = "02/01/2006" // DD/MM/YYYY, формат ассистента
)

// InactiveStatuses статусы, которые не занимают слот
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
}

// ActiveStatuses статусы, которые занимают слот
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}
