package validator

import "time"

// Clock источник текущего времени
type Clock interface {
	Now() time.Time
}

// RealClock возвращает системное время
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}
