// Package jalali converts dates between the Gregorian calendar used by the
// backend and the Jalali (Solar Hijri) calendar used for display.
//
// None of the functions fail: malformed input is returned unchanged.
package jalali

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	ptime "github.com/yaa110/go-persian-calendar"
)

// localYearFloor is the smallest leading year treated as already Jalali.
const localYearFloor = 1300

// Tehran is Iran Standard Time. Iran has not observed DST since 2022.
var Tehran = time.FixedZone("IRST", 3*60*60+30*60)

var gregorianLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ToLocalDate renders a Gregorian date as YYYY/MM/DD in the Jalali calendar.
func ToLocalDate(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	if looksLocal(s) {
		return s
	}
	t, ok := parseGregorian(s)
	if !ok || !inLocalEra(t) {
		return s
	}
	return FormatDate(t)
}

// ToLocalDateTime is ToLocalDate keeping the HH:MM:SS part of the input.
func ToLocalDateTime(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	if looksLocal(s) {
		return s
	}
	t, ok := parseGregorian(s)
	if !ok || !inLocalEra(t) {
		return s
	}
	return FormatDateTime(t)
}

// ToGregorianFromLocal converts a Jalali YYYY/MM/DD date to Gregorian YYYY-MM-DD.
func ToGregorianFromLocal(s string) string {
	if s == "" {
		return ""
	}
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return s
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return s
		}
		nums[i] = n
	}
	jy, jm, jd := nums[0], nums[1], nums[2]
	if jy <= 0 || jm < 1 || jm > 12 || jd < 1 || jd > 31 {
		return s
	}
	g := ptime.Date(jy, ptime.Month(jm), jd, 0, 0, 0, 0, time.UTC).Time()
	return g.Format("2006-01-02")
}

// Today returns the current date in Jalali YYYY/MM/DD.
func Today() string {
	return FormatDate(time.Now())
}

// FormatDate renders t's calendar date in Jalali YYYY/MM/DD.
func FormatDate(t time.Time) string {
	p := ptime.New(t)
	return fmt.Sprintf("%04d/%02d/%02d", p.Year(), int(p.Month()), p.Day())
}

// FormatDateTime renders t in Jalali YYYY/MM/DD HH:MM:SS.
func FormatDateTime(t time.Time) string {
	return FormatDate(t) + t.Format(" 15:04:05")
}

// inLocalEra reports whether t falls on or after the first Jalali year.
func inLocalEra(t time.Time) bool {
	p := ptime.New(t)
	return p.Year() > 0 && p.Month() >= ptime.Farvardin
}

// looksLocal reports whether s already starts with a Jalali YYYY/MM/DD date.
func looksLocal(s string) bool {
	datePart := strings.Fields(s)[0]
	parts := strings.Split(datePart, "/")
	if len(parts) != 3 || len(parts[0]) != 4 {
		return false
	}
	year, err := strconv.Atoi(parts[0])
	return err == nil && year > localYearFloor
}

func parseGregorian(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range gregorianLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
