package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockTime(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"10:00 AM", 600},
		{"10:00AM", 600},
		{"10:00 am", 600},
		{"2:30 PM", 870},
		{"2:30pm", 870},
		{"2 PM", 840},
		{"2pm", 840},
		{"12:00 PM", 720},
		{"12:00 AM", 0},
		{"12:15 a.m.", 15},
		{"09:00", 540},
		{"14:45", 885},
		{"0:05", 5},
		{"  11:30 AM  ", 690},
		{"১০:০০", 600},     // Bengali digits, 24-hour
		{"২:৩০ PM", 870},   // Bengali digits, 12-hour
		{"١٠:٣٠", 630},     // Arabic-Indic digits
	}
	for _, tc := range cases {
		got, err := ParseClockTime(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestParseClockTimeRejects(t *testing.T) {
	for _, in := range []string{
		"", "noon", "25:00", "10:75", "13:00 PM", "0:00 AM", "half past ten", "10", "10 o'clock",
	} {
		_, err := ParseClockTime(in)
		require.Error(t, err, "input %q", in)

		var schedErr *SchedulingError
		require.ErrorAs(t, err, &schedErr, "input %q", in)
		assert.Equal(t, CodeParseError, schedErr.Code, "input %q", in)
	}
}
