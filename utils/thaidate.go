package utils

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// BuddhistEraOffset is added to the Gregorian year for Thai dates.
const BuddhistEraOffset = 543

var thaiMonths = [12]string{
	"มกราคม", "กุมภาพันธ์", "มีนาคม", "เมษายน", "พฤษภาคม", "มิถุนายน",
	"กรกฎาคม", "สิงหาคม", "กันยายน", "ตุลาคม", "พฤศจิกายน", "ธันวาคม",
}

// ParseLocalDate parses YYYY-MM-DD as midnight in loc (never UTC unless loc is UTC).
func ParseLocalDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	// Rows written by older clients sometimes carry a full timestamp
	// ("2026-11-08T00:00:00Z" or "2026-11-08 00:00:00"); only the day counts.
	if len(s) > len(dateLayout) {
		if sep := s[len(dateLayout)]; sep != 'T' && sep != ' ' {
			return time.Time{}, fmt.Errorf("parse date %q: unexpected trailing text", s)
		}
		s = s[:len(dateLayout)]
	}
	return time.ParseInLocation(dateLayout, s, loc)
}

// ThaiLongDate formats t as "19 ตุลาคม 2569".
func ThaiLongDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), thaiMonths[t.Month()-1], t.Year()+BuddhistEraOffset)
}

// FormatThaiDate formats a YYYY-MM-DD string in Thai long form. Input that
// does not parse is returned unchanged.
func FormatThaiDate(s string) string {
	t, err := ParseLocalDate(s, time.Local)
	if err != nil {
		return s
	}
	return ThaiLongDate(t)
}

// DaysBetween counts calendar days from the day of from to the day of to,
// both taken in from's location.
func DaysBetween(from, to time.Time) int {
	loc := from.Location()
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	t := to.In(loc)
	b := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	days := b.Sub(a).Hours() / 24
	if days < 0 {
		return -int(-days + 0.5)
	}
	return int(days + 0.5)
}
