package availability

import (
	"sort"

	"github.com/m04kA/SMC-AssistantBooking/internal/domain"
	"github.com/m04kA/SMC-AssistantBooking/pkg/types"
)

// noCutoff означает, что дата не сегодняшняя и прошедшие слоты не отсекаются
const noCutoff = -1

// BuildSlots генерирует свободные слоты дня
//
// Для каждого окна слоты идут с шагом окна от его начала, пока t + duration <= конец окна.
// duration = 0 означает длительность, равную шагу окна.
// Слоты, пересекающиеся с занятыми интервалами, удаляются (граничащие интервалы не пересекаются).
// Слоты, начинающиеся раньше cutoff (минуты от начала суток), удаляются; noCutoff отключает отсечку.
func BuildSlots(plan *domain.DayPlan, busy []domain.Interval, duration, cutoff int) []Slot {
	if plan == nil || !plan.IsOpen() {
		return []Slot{}
	}

	seen := make(map[types.TimeString]struct{})
	result := make([]Slot, 0)

	for _, w := range plan.Windows {
		step := w.SlotMinutes
		if step <= 0 {
			continue
		}
		length := duration
		if length <= 0 {
			length = step
		}

		start, end := w.Start.Minutes(), w.End.Minutes()
		if start < 0 || end < 0 {
			continue
		}

		for at := start; at+length <= end; at += step {
			if cutoff != noCutoff && at < cutoff {
				continue
			}

			slot := domain.Interval{Start: at, End: at + length}
			if overlapsAny(slot, busy) {
				continue
			}

			t, err := types.FromMinutes(at)
			if err != nil {
				break
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			result = append(result, Slot{Start: t, DurationMinutes: length})
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Start.Minutes() < result[j].Start.Minutes()
	})

	return result
}

// busyIntervals занятые интервалы активных записей
func busyIntervals(appointments []*domain.Appointment) []domain.Interval {
	busy := make([]domain.Interval, 0, len(appointments))
	for _, a := range appointments {
		if !a.IsActive() {
			continue
		}
		busy = append(busy, domain.IntervalOf(a.StartTime, a.DurationMinutes))
	}
	return busy
}

func overlapsAny(slot domain.Interval, busy []domain.Interval) bool {
	for _, b := range busy {
		if slot.Overlaps(b) {
			return true
		}
	}
	return false
}
