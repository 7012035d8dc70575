package scheduling

import (
	"regexp"
	"strconv"
	"strings"

	"frontdesk/utils"
)

var (
	clock12Re = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*([AaPp])\.?[Mm]\.?$`)
	clock24Re = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
)

// ParseClockTime parses a spoken or typed time of day into a minute-of-day
// value. Accepted forms: 12-hour with an AM/PM marker ("10:00 AM", "2:30pm",
// "2 PM") and 24-hour "HH:MM". Localized digit glyphs are normalized first, so
// "১০:০০" parses the same as "10:00". Anything else is a parse_error.
func ParseClockTime(text string) (int, error) {
	s := strings.TrimSpace(utils.NormalizeDigits(text))

	if m := clock12Re.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if hour < 1 || hour > 12 || minute > 59 {
			return 0, NewSchedulingError(CodeParseError, "time of day out of range: "+text)
		}
		hour = hour % 12
		if strings.EqualFold(m[3], "p") {
			hour += 12
		}
		return hour*60 + minute, nil
	}

	if m := clock24Re.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour > 23 || minute > 59 {
			return 0, NewSchedulingError(CodeParseError, "time of day out of range: "+text)
		}
		return hour*60 + minute, nil
	}

	return 0, NewSchedulingError(CodeParseError, "could not understand time: "+text)
}
