package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHourMark(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr bool
	}{
		{name: "afternoon", input: "15h00", want: "15:00"},
		{name: "single digit hour", input: "9h30", want: "09:30"},
		{name: "upper case separator", input: "08H15", want: "08:15"},
		{name: "midnight", input: "00h00", want: "00:00"},
		{name: "last minute", input: "23h59", want: "23:59"},
		{name: "hour out of range", input: "25h99", wantErr: true},
		{name: "minutes out of range", input: "12h60", wantErr: true},
		{name: "colon format", input: "15:00", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHourMark(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_Arithmetic(t *testing.T) {
	start := TimeString("09:30")

	next, err := start.AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:15"), next)
	assert.Less(t, start.Minutes(), next.Minutes())
	assert.Equal(t, "10h15", next.HourMark())

	_, err = TimeString("23:30").AddMinutes(30)
	assert.ErrorIs(t, err, ErrTimeOverflow)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan([]byte("14:30:00")))
	assert.Equal(t, TimeString("14:30"), ts)

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 8, 5, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("08:05"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

func TestTimeString_On(t *testing.T) {
	loc := time.FixedZone("business", 2*60*60)
	date := time.Date(2025, 6, 15, 0, 0, 0, 0, loc)

	at := TimeString("15:00").On(date)
	assert.Equal(t, time.Date(2025, 6, 15, 15, 0, 0, 0, loc), at)
}
