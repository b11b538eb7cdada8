package availability

import (
	"iter"

	"github.com/m04kA/SMC-AssistantBooking/pkg/types"
)

// Slot свободный слот и длительность записи в нем
type Slot struct {
	Start           types.TimeString
	DurationMinutes int
}

// SlotSet упорядоченный конечный набор свободных слотов
// Набор неизменяем, поэтому All можно обходить повторно
type SlotSet struct {
	slots []Slot
}

// All возвращает время начала слотов по возрастанию
func (s SlotSet) All() iter.Seq[types.TimeString] {
	return func(yield func(types.TimeString) bool) {
		for _, slot := range s.slots {
			if !yield(slot.Start) {
				return
			}
		}
	}
}

// Slots возвращает слоты вместе с длительностью
func (s SlotSet) Slots() iter.Seq[Slot] {
	return func(yield func(Slot) bool) {
		for _, slot := range s.slots {
			if !yield(slot) {
				return
			}
		}
	}
}

// Len количество свободных слотов
func (s SlotSet) Len() int {
	return len(s.slots)
}

// Contains returns true if a free slot starts at t
func (s SlotSet) Contains(t types.TimeString) bool {
	for _, slot := range s.slots {
		if slot.Start == t {
			return true
		}
	}
	return false
}

// Reason причина результата проверки слота
type Reason string

const (
	ReasonFree    Reason = "free"
	ReasonPast    Reason = "past"     // дата или время уже прошли
	ReasonClosed  Reason = "closed"   // владелец не работает в этот день
	ReasonOffGrid Reason = "off_grid" // время вне сетки рабочих окон
	ReasonTaken   Reason = "taken"    // слот пересекается с существующей записью
)

// Verdict результат проверки слота
type Verdict struct {
	Reason          Reason
	DurationMinutes int
}

// Available returns true if the slot can be booked
func (v Verdict) Available() bool {
	return v.Reason == ReasonFree
}
