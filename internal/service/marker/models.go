package marker

// PayloadKind результат поиска блока бронирования в тексте
type PayloadKind int

const (
	// PayloadAbsent открывающий маркер не найден
	PayloadAbsent PayloadKind = iota
	// PayloadUnterminated открывающий маркер без закрывающего
	PayloadUnterminated
	// PayloadPresent найден полный блок
	PayloadPresent
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadUnterminated:
		return "unterminated"
	case PayloadPresent:
		return "present"
	default:
		return "absent"
	}
}

// Payload содержимое первого блока между маркерами
type Payload struct {
	Kind PayloadKind
	Raw  string
}

// Found returns true if an opening marker was seen
func (p Payload) Found() bool {
	return p.Kind != PayloadAbsent
}
