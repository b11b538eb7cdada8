package syncdispatch

import (
	"time"

	"github.com/m04kA/SMC-AssistantBooking/internal/domain"
)

// RetryPolicy таймаут одной попытки и число попыток
type RetryPolicy struct {
	Timeout         time.Duration
	MaxTries        uint
	InitialInterval time.Duration
}

// Config настройки задач синхронизации
type Config struct {
	Calendar RetryPolicy
	Email    RetryPolicy
	Events   RetryPolicy
}

// Result результат одной задачи
type Result struct {
	Kind     domain.SyncTaskKind
	Status   domain.SyncTaskStatus
	Attempts int
	Error    string
}

// Report результаты всех задач синхронизации записи
type Report struct {
	Results []Result
}

// Status возвращает статус задачи или пустую строку, если задача не запускалась
func (r *Report) Status(kind domain.SyncTaskKind) domain.SyncTaskStatus {
	if r == nil {
		return ""
	}
	for _, res := range r.Results {
		if res.Kind == kind {
			return res.Status
		}
	}
	return ""
}

// Done returns true if the task of this kind completed successfully
func (r *Report) Done(kind domain.SyncTaskKind) bool {
	return r.Status(kind) == domain.SyncDone
}

// Failed возвращает задачи, завершившиеся ошибкой
func (r *Report) Failed() []Result {
	if r == nil {
		return nil
	}
	failed := make([]Result, 0)
	for _, res := range r.Results {
		if res.Status == domain.SyncFailed {
			failed = append(failed, res)
		}
	}
	return failed
}
