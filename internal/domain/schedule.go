package domain

import (
	"time"

	"github.com/m04kA/SMC-AssistantBooking/pkg/types"
)

// WorkingHours недельное правило: окно работы в указанный день недели
// На один день может быть несколько окон (например, 09:00-12:00 и 14:00-18:00)
type WorkingHours struct {
	ID          int64
	TenantID    int64
	Owner       OwnerRef
	Weekday     time.Weekday
	StartTime   types.TimeString
	EndTime     types.TimeString
	SlotMinutes int
}

// ScheduleException исключение на конкретную дату: выходной или особые часы
// Исключение всегда важнее недельного правила
type ScheduleException struct {
	ID          int64
	TenantID    int64
	Owner       OwnerRef
	Date        time.Time
	Closed      bool
	StartTime   *types.TimeString
	EndTime     *types.TimeString
	SlotMinutes *int
}

// Window рабочее окно с шагом сетки слотов
type Window struct {
	Start       types.TimeString
	End         types.TimeString
	SlotMinutes int
}

// Contains returns true if t lies on the window grid and a booking of
// durationMinutes starting at t ends no later than the window end
func (w Window) Contains(t types.TimeString, durationMinutes int) bool {
	start, end, at := w.Start.Minutes(), w.End.Minutes(), t.Minutes()
	if w.SlotMinutes <= 0 || at < start || at+durationMinutes > end {
		return false
	}
	return (at-start)%w.SlotMinutes == 0
}

// PlanSource уровень, из которого взят план дня
type PlanSource string

const (
	PlanSourceAgentException  PlanSource = "agent_exception"
	PlanSourceTenantException PlanSource = "tenant_exception"
	PlanSourceAgentWeekly     PlanSource = "agent_weekly"
	PlanSourceTenantWeekly    PlanSource = "tenant_weekly"
	PlanSourceNone            PlanSource = "none"
)

// DayPlan итоговое расписание владельца на конкретную дату
type DayPlan struct {
	Source  PlanSource
	Closed  bool
	Windows []Window
}

// IsOpen returns true if at least one window is bookable that day
func (p *DayPlan) IsOpen() bool {
	return !p.Closed && len(p.Windows) > 0
}

// WindowAt returns the window whose grid contains t for a booking of its own granularity
func (p *DayPlan) WindowAt(t types.TimeString) (Window, bool) {
	if !p.IsOpen() {
		return Window{}, false
	}
	for _, w := range p.Windows {
		if w.Contains(t, w.SlotMinutes) {
			return w, true
		}
	}
	return Window{}, false
}
