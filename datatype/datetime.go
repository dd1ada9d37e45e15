package datatype

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var reZoneFormat = regexp.MustCompile(`^(.*[dyms])+(\s*[xX]{1,5})$`)

var dateFormats = map[string]*regexp.Regexp{
	"yyyy-MM-dd":          regexp.MustCompile(`^(?P<yr>\d{4})-(?P<mo>\d{2})-(?P<da>\d{2})`),
	"yyyyMMdd":            regexp.MustCompile(`^(?P<yr>\d{4})(?P<mo>\d{2})(?P<da>\d{2})`),
	"dd-MM-yyyy":          regexp.MustCompile(`^(?P<da>\d{2})-(?P<mo>\d{2})-(?P<yr>\d{4})`),
	"d-M-yyyy":            regexp.MustCompile(`^(?P<da>\d{1,2})-(?P<mo>\d{1,2})-(?P<yr>\d{4})`),
	"MM-dd-yyyy":          regexp.MustCompile(`^(?P<mo>\d{2})-(?P<da>\d{2})-(?P<yr>\d{4})`),
	"M-d-yyyy":            regexp.MustCompile(`^(?P<mo>\d{1,2})-(?P<da>\d{1,2})-(?P<yr>\d{4})`),
	"dd/MM/yyyy":          regexp.MustCompile(`^(?P<da>\d{2})/(?P<mo>\d{2})/(?P<yr>\d{4})`),
	"d/M/yyyy":            regexp.MustCompile(`^(?P<da>\d{1,2})/(?P<mo>\d{1,2})/(?P<yr>\d{4})`),
	"MM/dd/yyyy":          regexp.MustCompile(`^(?P<mo>\d{2})/(?P<da>\d{2})/(?P<yr>\d{4})`),
	"M/d/yyyy":            regexp.MustCompile(`^(?P<mo>\d{1,2})/(?P<da>\d{1,2})/(?P<yr>\d{4})`),
	"dd.MM.yyyy":          regexp.MustCompile(`^(?P<da>\d{2})\.(?P<mo>\d{2})\.(?P<yr>\d{4})`),
	"d.M.yyyy":            regexp.MustCompile(`^(?P<da>\d{1,2})\.(?P<mo>\d{1,2})\.(?P<yr>\d{4})`),
	"MM.dd.yyyy":          regexp.MustCompile(`^(?P<mo>\d{2})\.(?P<da>\d{2})\.(?P<yr>\d{4})`),
	"M.d.yyyy":            regexp.MustCompile(`^(?P<mo>\d{1,2})\.(?P<da>\d{1,2})\.(?P<yr>\d{4})`),
	"yyyy-MM-ddTHH:mm:ss": regexp.MustCompile(`^(?P<yr>\d{4})-(?P<mo>\d{2})-(?P<da>\d{2})T(?P<hr>\d{2}):(?P<mi>\d{2}):(?P<se>\d{2})`),
}

var timeFormats = map[string]*regexp.Regexp{
	"HH:mm:ss": regexp.MustCompile(`^(?P<hr>\d{2}):(?P<mi>\d{2}):(?P<se>\d{2})`),
	"HHmmss":   regexp.MustCompile(`^(?P<hr>\d{2})(?P<mi>\d{2})(?P<se>\d{2})`),
	"HH:mm":    regexp.MustCompile(`^(?P<hr>\d{2}):(?P<mi>\d{2})`),
	"HHmm":     regexp.MustCompile(`^(?P<hr>\d{2})(?P<mi>\d{2})`),
}

type match map[string]string

func matchPrefix(re *regexp.Regexp, s string) (match, int) {
	sub := re.FindStringSubmatch(s)
	if sub == nil {
		return nil, 0
	}
	m := match{}
	for i, name := range re.SubexpNames() {
		if name != "" {
			m[name] = sub[i]
		}
	}
	return m, len(sub[0])
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// castDateTime rewrites value to the canonical xsd form using the format
// template. Without a format the value is passed through for validation.
func castDateTime(value, format, kind string) (string, []cellError) {
	if format == "" {
		return value, nil
	}
	orig := value
	var tz string
	if m := reZoneFormat.FindStringSubmatch(format); m != nil {
		format, tz = m[1], m[2]
	}

	dateFormat, timeFormat, _ := strings.Cut(format, " ")
	if kind == "time" {
		dateFormat, timeFormat = "", dateFormat
	}

	var errs []cellError
	var datePart, timePart match
	if dateFormat != "" {
		re, ok := dateFormats[dateFormat]
		if !ok {
			return orig, []cellError{{"cell_datetime_format", map[string]string{"format": dateFormat}}}
		}
		m, n := matchPrefix(re, value)
		if m == nil {
			return orig, []cellError{{"cell_format", map[string]string{"value": orig, "format": format + tz}}}
		}
		datePart = m
		value = value[n:]
		if strings.HasPrefix(value, " ") {
			value = strings.TrimLeft(value, " ")
		}
		if _, ok := m["hr"]; ok {
			timePart = m
		}
	}
	if timeFormat != "" {
		re, ok := timeFormats[timeFormat]
		if !ok {
			return orig, []cellError{{"cell_datetime_format", map[string]string{"format": timeFormat}}}
		}
		m, n := matchPrefix(re, value)
		if m == nil {
			return orig, []cellError{{"cell_format", map[string]string{"value": orig, "format": format + tz}}}
		}
		timePart = m
		value = value[n:]
	}

	var zone string
	if tz != "" {
		if strings.HasPrefix(tz, " ") {
			value = strings.TrimLeft(value, " ")
		}
		z, ok := normalizeZone(value)
		if !ok {
			errs = append(errs, cellError{"cell_format", map[string]string{"value": orig, "format": format + tz}})
		}
		zone = z
	} else if value != "" {
		errs = append(errs, cellError{"cell_format", map[string]string{"value": orig, "format": format}})
	}

	var parts []string
	if datePart != nil {
		parts = append(parts, fmt.Sprintf("%04d-%02d-%02d", atoi(datePart["yr"]), atoi(datePart["mo"]), atoi(datePart["da"])))
	}
	if timePart != nil {
		parts = append(parts, fmt.Sprintf("%02d:%02d:%02d", atoi(timePart["hr"]), atoi(timePart["mi"]), atoi(timePart["se"])))
	}
	return strings.Join(parts, "T") + zone, errs
}

// normalizeZone maps the X-pattern zone forms (Z, +hh, +hhmm, +hh:mm) to the
// xsd form.
func normalizeZone(z string) (string, bool) {
	if z == "" {
		return "", true
	}
	if z == "Z" {
		return "Z", true
	}
	if len(z) < 3 || (z[0] != '+' && z[0] != '-') {
		return z, false
	}
	digits := strings.ReplaceAll(z[1:], ":", "")
	for _, c := range digits {
		if c < '0' || c > '9' {
			return z, false
		}
	}
	switch len(digits) {
	case 2:
		return z[:1] + digits + ":00", true
	case 4:
		return z[:1] + digits[:2] + ":" + digits[2:], true
	}
	return z, false
}
