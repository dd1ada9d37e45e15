package datatype

import (
	"encoding/base64"
	"encoding/hex"
	"math/big"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

var (
	reDecimal  = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)
	reInteger  = regexp.MustCompile(`^[+-]?\d+$`)
	reDouble   = regexp.MustCompile(`^([+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?|[+-]?INF|NaN)$`)
	reTZ       = `(Z|[+-]\d{2}:\d{2})?`
	reDate     = regexp.MustCompile(`^(-?\d{4,})-(\d{2})-(\d{2})` + reTZ + `$`)
	reTime     = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})(\.\d+)?` + reTZ + `$`)
	reDateTime = regexp.MustCompile(`^(-?\d{4,})-(\d{2})-(\d{2})T(\d{2}):(\d{2}):(\d{2})(\.\d+)?` + reTZ + `$`)
	reGYear    = regexp.MustCompile(`^-?\d{4,}` + reTZ + `$`)
	reGYM      = regexp.MustCompile(`^-?\d{4,}-(0[1-9]|1[0-2])` + reTZ + `$`)
	reGMonth   = regexp.MustCompile(`^--(0[1-9]|1[0-2])` + reTZ + `$`)
	reGMonthDa = regexp.MustCompile(`^--(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])` + reTZ + `$`)
	reGDay     = regexp.MustCompile(`^---(0[1-9]|[12]\d|3[01])` + reTZ + `$`)
	reDuration = regexp.MustCompile(`^-?P(\d+Y)?(\d+M)?(\d+D)?(T(\d+H)?(\d+M)?(\d+(\.\d+)?S)?)?$`)
	reLanguage = regexp.MustCompile(`^[a-zA-Z]{1,8}(-[a-zA-Z0-9]{1,8})*$`)
	reName     = regexp.MustCompile(`^[\pL_:][\pL\pN._:\-]*$`)
	reNCName   = regexp.MustCompile(`^[\pL_][\pL\pN._\-]*$`)
	reNMToken  = regexp.MustCompile(`^[\pL\pN._:\-]+$`)
	reHex      = regexp.MustCompile(`^([0-9a-fA-F]{2})*$`)
)

// integer ranges; nil bounds are open.
var integerRanges = map[string][2]*big.Int{
	"long":               {bigInt("-9223372036854775808"), bigInt("9223372036854775807")},
	"int":                {bigInt("-2147483648"), bigInt("2147483647")},
	"short":              {bigInt("-32768"), bigInt("32767")},
	"byte":               {bigInt("-128"), bigInt("127")},
	"nonNegativeInteger": {bigInt("0"), nil},
	"positiveInteger":    {bigInt("1"), nil},
	"unsignedLong":       {bigInt("0"), bigInt("18446744073709551615")},
	"unsignedInt":        {bigInt("0"), bigInt("4294967295")},
	"unsignedShort":      {bigInt("0"), bigInt("65535")},
	"unsignedByte":       {bigInt("0"), bigInt("255")},
	"nonPositiveInteger": {nil, bigInt("0")},
	"negativeInteger":    {nil, bigInt("-1")},
}

func bigInt(s string) *big.Int {
	n, _ := new(big.Int).SetString(s, 10)
	return n
}

// Valid reports whether lexical is in the lexical space of kind. Kinds that
// are not built in are accepted as is.
func Valid(kind, lexical string) bool {
	switch c := Canonical(kind); {
	case c == "":
		return true
	case c == "boolean":
		switch lexical {
		case "true", "false", "1", "0":
			return true
		}
		return false
	case c == "decimal":
		return reDecimal.MatchString(lexical)
	case IsInteger(c):
		if !reInteger.MatchString(lexical) {
			return false
		}
		n, ok := new(big.Int).SetString(strings.TrimPrefix(lexical, "+"), 10)
		if !ok {
			return false
		}
		r := integerRanges[c]
		return (r[0] == nil || n.Cmp(r[0]) >= 0) && (r[1] == nil || n.Cmp(r[1]) <= 0)
	case c == "double" || c == "float":
		if !reDouble.MatchString(lexical) {
			return false
		}
		if strings.HasSuffix(lexical, "INF") || lexical == "NaN" {
			return true
		}
		bits := 64
		if c == "float" {
			bits = 32
		}
		_, err := strconv.ParseFloat(lexical, bits)
		return err == nil
	case c == "date":
		m := reDate.FindStringSubmatch(lexical)
		return m != nil && validDay(m[1], m[2], m[3])
	case c == "time":
		m := reTime.FindStringSubmatch(lexical)
		return m != nil && validClock(m[1], m[2], m[3], m[4])
	case c == "dateTime" || c == "dateTimeStamp":
		m := reDateTime.FindStringSubmatch(lexical)
		if m == nil || !validDay(m[1], m[2], m[3]) || !validClock(m[4], m[5], m[6], m[7]) {
			return false
		}
		return c == "dateTime" || m[8] != ""
	case c == "gYear":
		return reGYear.MatchString(lexical)
	case c == "gYearMonth":
		return reGYM.MatchString(lexical)
	case c == "gMonth":
		return reGMonth.MatchString(lexical)
	case c == "gMonthDay":
		return reGMonthDa.MatchString(lexical)
	case c == "gDay":
		return reGDay.MatchString(lexical)
	case IsDuration(c):
		return validDuration(c, lexical)
	case c == "anyURI":
		_, err := url.Parse(lexical)
		return err == nil
	case c == "base64Binary":
		_, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(lexical), ""))
		return err == nil
	case c == "hexBinary":
		if !reHex.MatchString(lexical) {
			return false
		}
		_, err := hex.DecodeString(lexical)
		return err == nil
	case c == "language":
		return reLanguage.MatchString(lexical)
	case c == "normalizedString":
		return !strings.ContainsAny(lexical, "\r\n\t")
	case c == "token":
		return validToken(lexical)
	case c == "Name":
		return reName.MatchString(lexical)
	case c == "NCName" || c == "ID" || c == "IDREF" || c == "ENTITY":
		return reNCName.MatchString(lexical)
	case c == "NMTOKEN":
		return reNMToken.MatchString(lexical)
	case c == "QName":
		prefix, local, ok := strings.Cut(lexical, ":")
		if !ok {
			return reNCName.MatchString(lexical)
		}
		return reNCName.MatchString(prefix) && reNCName.MatchString(local)
	case c == "json":
		return json.Valid([]byte(lexical))
	}
	return true
}

func validToken(s string) bool {
	if strings.ContainsAny(s, "\r\n\t") || strings.Contains(s, "  ") {
		return false
	}
	return strings.TrimSpace(s) == s
}

func validDuration(kind, s string) bool {
	m := reDuration.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	years, months, days, tpart := m[1], m[2], m[3], m[4]
	if years == "" && months == "" && days == "" && tpart == "" {
		return false
	}
	if tpart == "T" {
		return false
	}
	switch kind {
	case "dayTimeDuration":
		return years == "" && months == ""
	case "yearMonthDuration":
		return days == "" && tpart == ""
	}
	return true
}

func validDay(y, mo, d string) bool {
	year, err1 := strconv.Atoi(y)
	month, err2 := strconv.Atoi(mo)
	day, err3 := strconv.Atoi(d)
	if err1 != nil || err2 != nil || err3 != nil {
		return false
	}
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	return day <= daysIn(year, month)
}

func daysIn(year, month int) int {
	switch month {
	case 2:
		if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	}
	return 31
}

func validClock(h, m, s, frac string) bool {
	hour, _ := strconv.Atoi(h)
	minute, _ := strconv.Atoi(m)
	sec, _ := strconv.Atoi(s)
	if hour == 24 {
		return minute == 0 && sec == 0 && strings.Trim(frac, ".0") == ""
	}
	return hour < 24 && minute < 60 && sec < 60
}
