package marker

import (
	"regexp"
	"strings"
)

// Маркеры по умолчанию, которыми ассистент обрамляет JSON заявки
const (
	DefaultOpen  = "[BOOKING]"
	DefaultClose = "[/BOOKING]"
)

var blankLines = regexp.MustCompile(`\n[ \t]*\n(?:[ \t]*\n)+`)

// Extractor вырезает блок бронирования из ответа ассистента
type Extractor struct {
	open  string
	close string
}

// NewExtractor создает экстрактор для пары маркеров
func NewExtractor(open, close string) (*Extractor, error) {
	if open == "" || close == "" {
		return nil, ErrEmptyMarker
	}
	if open == close {
		return nil, ErrSameMarkers
	}
	return &Extractor{open: open, close: close}, nil
}

// Extract возвращает видимый посетителю текст и содержимое первого блока
//
// Блок удаляется из видимого текста всегда, даже если его содержимое потом не пройдет
// валидацию. Разбирается только первый блок, последующие тоже вырезаются, но игнорируются.
// Незакрытый блок вырезается до конца текста. Текст без маркеров возвращается без изменений.
func (e *Extractor) Extract(text string) (string, Payload) {
	if !strings.Contains(text, e.open) && !strings.Contains(text, e.close) {
		return text, Payload{Kind: PayloadAbsent}
	}

	payload := Payload{Kind: PayloadAbsent}
	var visible strings.Builder
	rest := text

	for {
		start := strings.Index(rest, e.open)
		if start < 0 {
			visible.WriteString(rest)
			break
		}
		visible.WriteString(rest[:start])

		body := rest[start+len(e.open):]
		end := strings.Index(body, e.close)
		if end < 0 {
			if !payload.Found() {
				payload = Payload{Kind: PayloadUnterminated, Raw: strings.TrimSpace(body)}
			}
			break
		}

		if !payload.Found() {
			payload = Payload{Kind: PayloadPresent, Raw: strings.TrimSpace(body[:end])}
		}
		rest = body[end+len(e.close):]
	}

	// Одиночный закрывающий маркер тоже не должен попасть к посетителю
	cleaned := strings.ReplaceAll(visible.String(), e.close, "")

	return tidy(cleaned), payload
}

func tidy(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
