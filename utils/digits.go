package utils

import "strings"

// Digit ranges that show up in transcribed speech for our callers. Each block
// is ten consecutive code points for 0-9.
var localizedZeros = []rune{
	'০', // Bengali
	'०', // Devanagari
	'٠', // Arabic-Indic
	'۰', // Extended Arabic-Indic
}

// NormalizeDigits converts localized digit glyphs to ASCII digits so that
// "১০:০০" and "10:00" parse identically. Other runes pass through unchanged.
func NormalizeDigits(s string) string {
	return strings.Map(func(r rune) rune {
		for _, zero := range localizedZeros {
			if r >= zero && r <= zero+9 {
				return '0' + (r - zero)
			}
		}
		return r
	}, s)
}

// NormalizePhone strips the country code, separators and localized digits from
// a phone number so lookups match regardless of how the number was spoken.
func NormalizePhone(phone string) string {
	phone = NormalizeDigits(phone)
	phone = strings.TrimPrefix(phone, "+88")
	replacer := strings.NewReplacer("-", "", " ", "", "(", "", ")", "")
	return replacer.Replace(phone)
}
