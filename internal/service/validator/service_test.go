package validator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AssistantBooking/internal/domain"
	"github.com/m04kA/SMC-AssistantBooking/pkg/types"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	return NewService(loc, fixedClock{now: time.Date(2025, 6, 10, 9, 0, 0, 0, loc)})
}

func fields(errs domain.FieldErrors) []string {
	result := make([]string, len(errs))
	for i, fe := range errs {
		result[i] = fe.Field
	}
	return result
}

func TestParse_Valid(t *testing.T) {
	s := newTestService(t)

	outcome := s.Parse(`{"name":"Bruno Martin","date":"15/06/2025","time":"15h00","service":"devis"}`)

	require.Equal(t, Valid, outcome.Kind, outcome.Errors)
	require.NotNil(t, outcome.Request)
	assert.Equal(t, "Bruno Martin", outcome.Request.Name)
	assert.Equal(t, types.TimeString("15:00"), outcome.Request.Time)
	assert.Equal(t, 2025, outcome.Request.Date.Year())
	assert.Equal(t, time.June, outcome.Request.Date.Month())
	assert.Equal(t, 15, outcome.Request.Date.Day())
	assert.Equal(t, "Europe/Paris", outcome.Request.Date.Location().String())
	assert.Equal(t, "devis", outcome.Request.ServiceName())
	assert.Nil(t, outcome.Request.Phone)
	assert.Nil(t, outcome.Request.Email)
	assert.Equal(t, Echo{Name: "Bruno Martin", Date: "15/06/2025", Time: "15h00", Service: "devis"}, outcome.Echo)
}

func TestParse_CodeFenceAndContacts(t *testing.T) {
	s := newTestService(t)

	raw := "```json\n{\"name\":\"Alice\",\"phone\":\"+33 (0)6 12-34.56.78\",\"email\":\"alice@example.fr\",\"date\":\"10/06/2025\",\"time\":\"9H30\"}\n```"
	outcome := s.Parse(raw)

	require.Equal(t, Valid, outcome.Kind, outcome.Errors)
	assert.Equal(t, "+330612345678", *outcome.Request.Phone)
	assert.Equal(t, "alice@example.fr", *outcome.Request.Email)
	assert.Equal(t, types.TimeString("09:30"), outcome.Request.Time)
}

func TestParse_NumbersAndNullsAccepted(t *testing.T) {
	s := newTestService(t)

	outcome := s.Parse(`{"name":"Bob","phone":612345678,"email":null,"date":"20/06/2025","time":"10h00","service":null}`)

	require.Equal(t, Valid, outcome.Kind, outcome.Errors)
	assert.Equal(t, "612345678", *outcome.Request.Phone)
	assert.Nil(t, outcome.Request.Service)
}

func TestParse_MissingFieldsAccumulate(t *testing.T) {
	s := newTestService(t)

	outcome := s.Parse(`{"service":"devis"}`)

	assert.Equal(t, Invalid, outcome.Kind)
	assert.Nil(t, outcome.Request)
	assert.Equal(t, []string{domain.FieldName, domain.FieldDate, domain.FieldTime}, fields(outcome.Errors))
	for _, msg := range outcome.Errors.Messages() {
		assert.NotEmpty(t, msg)
	}
}

func TestParse_ErrorOrder(t *testing.T) {
	s := newTestService(t)

	outcome := s.Parse(`{"time":"25h99","date":"99/99/2025","email":"pas-un-email","phone":"12ab","name":""}`)

	assert.Equal(t, Invalid, outcome.Kind)
	assert.Equal(t, []string{
		domain.FieldName,
		domain.FieldPhone,
		domain.FieldEmail,
		domain.FieldDate,
		domain.FieldTime,
	}, fields(outcome.Errors))
}

func TestParse_PastDate(t *testing.T) {
	s := newTestService(t)

	outcome := s.Parse(`{"name":"Bruno Martin","date":"09/06/2025","time":"15h00"}`)

	assert.Equal(t, Invalid, outcome.Kind)
	require.Len(t, outcome.Errors, 1)
	assert.Equal(t, domain.FieldDate, outcome.Errors[0].Field)
	assert.Equal(t, msgDatePast, outcome.Errors[0].Message)
}

func TestParse_TodayIsAccepted(t *testing.T) {
	s := newTestService(t)

	outcome := s.Parse(`{"name":"Bruno Martin","date":"10/06/2025","time":"08h00"}`)

	assert.Equal(t, Valid, outcome.Kind)
}

func TestParse_InvalidTime(t *testing.T) {
	tests := []string{"25h99", "12h60", "15:00", "quinze heures", "h30"}

	s := newTestService(t)
	for _, value := range tests {
		t.Run(value, func(t *testing.T) {
			outcome := s.Parse(`{"name":"Bruno Martin","date":"15/06/2025","time":"` + value + `"}`)

			assert.Equal(t, Invalid, outcome.Kind)
			require.Len(t, outcome.Errors, 1)
			assert.Equal(t, domain.FieldTime, outcome.Errors[0].Field)
		})
	}
}

func TestParse_InvalidDateFormat(t *testing.T) {
	tests := []string{"2025-06-15", "31/02/2026", "15/13/2025", "demain"}

	s := newTestService(t)
	for _, value := range tests {
		t.Run(value, func(t *testing.T) {
			outcome := s.Parse(`{"name":"Bruno Martin","date":"` + value + `","time":"15h00"}`)

			require.Len(t, outcome.Errors, 1)
			assert.Equal(t, domain.FieldDate, outcome.Errors[0].Field)
			assert.Equal(t, msgDateFormat, outcome.Errors[0].Message)
		})
	}
}

func TestParse_WrongFieldType(t *testing.T) {
	s := newTestService(t)

	outcome := s.Parse(`{"name":["Bruno"],"date":"15/06/2025","time":"15h00"}`)

	assert.Equal(t, Invalid, outcome.Kind)
	require.Len(t, outcome.Errors, 1)
	assert.Equal(t, domain.FieldName, outcome.Errors[0].Field)
}

func TestParse_Malformed(t *testing.T) {
	tests := map[string]string{
		"not json":      `name: Bruno`,
		"array":         `[{"name":"Bruno"}]`,
		"null":          `null`,
		"two objects":   `{"name":"a"} {"name":"b"}`,
		"unterminated":  `{"name":"Bruno"`,
		"empty payload": ``,
	}

	s := newTestService(t)
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			outcome := s.Parse(raw)

			assert.Equal(t, Malformed, outcome.Kind)
			require.Len(t, outcome.Errors, 1)
			assert.Equal(t, domain.FieldPayload, outcome.Errors[0].Field)
		})
	}
}

func TestIsEmail(t *testing.T) {
	assert.True(t, isEmail("a@b.fr"))
	assert.False(t, isEmail("a@b"))
	assert.False(t, isEmail("@b.fr"))
	assert.False(t, isEmail("a@.fr"))
	assert.False(t, isEmail("a b@c.fr"))
}
