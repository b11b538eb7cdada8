package validator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-AssistantBooking/internal/domain"
	"github.com/m04kA/SMC-AssistantBooking/pkg/types"
)

var (
	visitorDatePattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	phoneSeparators    = strings.NewReplacer(" ", "", ".", "", "-", "", "(", "", ")", "")
)

const (
	minPhoneDigits = 6
	maxPhoneDigits = 15
)

// Service разбирает и проверяет JSON заявки из блока бронирования
type Service struct {
	loc   *time.Location
	clock Clock
}

// NewService создает валидатор для часового пояса бизнеса
func NewService(loc *time.Location, clock Clock) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &Service{loc: loc, clock: clock}
}

// Parse разбирает содержимое блока и проверяет все поля
// Ошибки накапливаются в порядке name, phone, email, date, time и не прерывают проверку.
func (s *Service) Parse(raw string) Outcome {
	fields, err := decodeObject(stripFence(raw))
	if err != nil {
		return Outcome{
			Kind:   Malformed,
			Errors: domain.FieldErrors{{Field: domain.FieldPayload, Message: msgPayloadMalformed}},
		}
	}

	var errs domain.FieldErrors
	text := func(field string) string {
		value, ok := fieldText(fields[field])
		if !ok {
			errs = append(errs, domain.FieldError{Field: field, Message: fmt.Sprintf(msgFieldType, field)})
		}
		return strings.TrimSpace(value)
	}

	name := text(domain.FieldName)
	phone := text(domain.FieldPhone)
	email := text(domain.FieldEmail)
	date := text(domain.FieldDate)
	hour := text(domain.FieldTime)
	service := text(domain.FieldService)

	// Ошибки типа поля уже добавлены; дальше проверяем только поля с текстом
	typed := func(field string) bool { return !errs.Has(field) }

	request := &domain.BookingRequest{Name: name}

	if typed(domain.FieldName) {
		switch {
		case name == "":
			errs = append(errs, domain.FieldError{Field: domain.FieldName, Message: msgNameRequired})
		case utf8.RuneCountInString(name) > domain.MaxNameLength:
			errs = append(errs, domain.FieldError{Field: domain.FieldName, Message: msgNameTooLong})
		}
	}

	if typed(domain.FieldPhone) && phone != "" {
		normalized, ok := normalizePhone(phone)
		if !ok {
			errs = append(errs, domain.FieldError{Field: domain.FieldPhone, Message: msgPhoneInvalid})
		} else {
			request.Phone = &normalized
		}
	}

	if typed(domain.FieldEmail) && email != "" {
		if !isEmail(email) {
			errs = append(errs, domain.FieldError{Field: domain.FieldEmail, Message: msgEmailInvalid})
		} else {
			request.Email = &email
		}
	}

	if typed(domain.FieldDate) {
		parsed, msg := s.parseDate(date)
		if msg != "" {
			errs = append(errs, domain.FieldError{Field: domain.FieldDate, Message: msg})
		}
		request.Date = parsed
	}

	if typed(domain.FieldTime) {
		switch parsed, err := types.ParseHourMark(hour); {
		case hour == "":
			errs = append(errs, domain.FieldError{Field: domain.FieldTime, Message: msgTimeRequired})
		case err != nil:
			errs = append(errs, domain.FieldError{Field: domain.FieldTime, Message: msgTimeFormat})
		default:
			request.Time = parsed
		}
	}

	if typed(domain.FieldService) && service != "" {
		if utf8.RuneCountInString(service) > domain.MaxServiceLength {
			errs = append(errs, domain.FieldError{Field: domain.FieldService, Message: msgServiceTooLong})
		} else {
			request.Service = &service
		}
	}

	outcome := Outcome{
		Echo: Echo{Name: name, Date: date, Time: hour, Service: service},
	}

	if len(errs) > 0 {
		outcome.Kind = Invalid
		outcome.Errors = sortByField(errs)
		return outcome
	}

	outcome.Kind = Valid
	outcome.Request = request
	return outcome
}

// parseDate возвращает дату в часовом поясе бизнеса или сообщение об ошибке
func (s *Service) parseDate(value string) (time.Time, string) {
	if value == "" {
		return time.Time{}, msgDateRequired
	}

	m := visitorDatePattern.FindStringSubmatch(value)
	if m == nil {
		return time.Time{}, msgDateFormat
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, s.loc)
	// time.Date нормализует 31/02 в 03/03, такие даты отклоняем
	if date.Day() != day || int(date.Month()) != month {
		return time.Time{}, msgDateFormat
	}

	today := domain.BusinessDate(s.clock.Now().In(s.loc), s.loc)
	if date.Before(today) {
		return date, msgDatePast
	}

	return date, ""
}

// stripFence убирает обрамление ```json ... ``` вокруг JSON
func stripFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}

	raw = strings.TrimPrefix(raw, "```")
	if nl := strings.IndexByte(raw, '\n'); nl >= 0 {
		// Первая строка может содержать язык: ```json
		if !strings.ContainsAny(raw[:nl], "{[") {
			raw = raw[nl+1:]
		}
	}
	raw = strings.TrimSpace(raw)
	raw = strings.TrimSuffix(raw, "```")

	return strings.TrimSpace(raw)
}

// decodeObject разбирает ровно один JSON объект, ключи приводятся к нижнему регистру
func decodeObject(raw string) (map[string]json.RawMessage, error) {
	dec := json.NewDecoder(strings.NewReader(raw))

	var fields map[string]json.RawMessage
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errors.New("payload is not an object")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after payload")
	}

	normalized := make(map[string]json.RawMessage, len(fields))
	for k, v := range fields {
		normalized[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return normalized, nil
}

// fieldText допускает строку, число или null; остальные типы JSON - ошибка поля
func fieldText(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", true
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var value interface{}
	if err := dec.Decode(&value); err != nil {
		return "", false
	}

	switch v := value.(type) {
	case nil:
		return "", true
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	default:
		return "", false
	}
}

// normalizePhone оставляет только цифры и необязательный ведущий +
func normalizePhone(phone string) (string, bool) {
	digits := phoneSeparators.Replace(phone)
	prefix := ""
	if strings.HasPrefix(digits, "+") {
		prefix = "+"
		digits = digits[1:]
	}

	if len(digits) < minPhoneDigits || len(digits) > maxPhoneDigits {
		return "", false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", false
		}
	}

	return prefix + digits, true
}

// isEmail мягкая проверка: локальная часть, @ и домен с точкой
func isEmail(email string) bool {
	if strings.ContainsAny(email, " \t\r\n") {
		return false
	}

	at := strings.LastIndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}

	host := email[at+1:]
	dot := strings.LastIndexByte(host, '.')
	return dot > 0 && dot < len(host)-1 && !strings.Contains(host, "..")
}

// sortByField упорядочивает ошибки по полям, сохраняя порядок внутри поля
func sortByField(errs domain.FieldErrors) domain.FieldErrors {
	sorted := make(domain.FieldErrors, 0, len(errs))
	for _, field := range []string{domain.FieldName, domain.FieldPhone, domain.FieldEmail, domain.FieldDate, domain.FieldTime, domain.FieldService} {
		for _, fe := range errs {
			if fe.Field == field {
				sorted = append(sorted, fe)
			}
		}
	}
	return sorted
}
