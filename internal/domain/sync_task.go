package domain

import "time"

// SyncTaskKind вид внешней синхронизации после бронирования
type SyncTaskKind string

const (
	SyncCalendar     SyncTaskKind = "calendar"
	SyncOwnerEmail   SyncTaskKind = "owner_email"
	SyncVisitorEmail SyncTaskKind = "visitor_email"
	SyncBookingEvent SyncTaskKind = "booking_event"
)

// AllSyncTaskKinds порядок выполнения задач синхронизации
var AllSyncTaskKinds = []SyncTaskKind{
	SyncCalendar,
	SyncOwnerEmail,
	SyncVisitorEmail,
	SyncBookingEvent,
}

// SyncTaskStatus результат выполнения задачи
type SyncTaskStatus string

const (
	SyncDone    SyncTaskStatus = "done"
	SyncFailed  SyncTaskStatus = "failed"
	SyncSkipped SyncTaskStatus = "skipped"
)

// SyncTask состояние одной задачи синхронизации записи
// Задачи выполняются вне транзакции бронирования и могут повторяться независимо
type SyncTask struct {
	AppointmentID int64
	Kind          SyncTaskKind
	Status        SyncTaskStatus
	Attempts      int
	LastError     *string
	UpdatedAt     time.Time
}

// IsDone returns true if the task succeeded and must not be re-run
func (t *SyncTask) IsDone() bool {
	return t.Status == SyncDone
}
