package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDigits(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"১০:০০", "10:00"},
		{"২:৩০ PM", "2:30 PM"},
		{"٠١٧١٢٣", "017123"},
		{"۰۹:۱۵", "09:15"},
		{"०९:००", "09:00"},
		{"10:00 AM", "10:00 AM"},
		{"", ""},
		{"মিটিং at ১১", "মিটিং at 11"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeDigits(tc.in), "input %q", tc.in)
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+88 01712-345678", "01712345678"},
		{"+8801712345678", "01712345678"},
		{"01712 345 678", "01712345678"},
		{"(017) 123-45678", "01712345678"},
		{"+88 ০১৭১২৩৪৫৬৭৮", "01712345678"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizePhone(tc.in), "input %q", tc.in)
	}
}
