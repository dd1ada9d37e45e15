package datatype

import (
	"math/big"
	"regexp"
	"strings"
)

// castNumeric normalizes a numeric cell: group characters are removed, the
// decimal character becomes '.', and a trailing percent or per-mille sign
// scales the value.
func castNumeric(value string, d Descriptor, kind string) (string, []cellError) {
	var errs []cellError
	group := d.GroupChar
	if group == "" {
		group = ","
	}
	decimal := d.DecimalChar
	if decimal == "" {
		decimal = "."
	}
	if d.Pattern != "" {
		re, err := regexp.Compile(d.Pattern)
		if err != nil || !re.MatchString(value) {
			errs = append(errs, cellError{"cell_pattern", map[string]string{"value": value, "pattern": d.Pattern}})
		}
	}
	if strings.Contains(value, group+group) {
		errs = append(errs, cellError{"cell_repeating_group", map[string]string{"value": value, "group": `"` + group + `"`}})
	}
	v := strings.ReplaceAll(value, group, "")
	v = strings.Replace(v, decimal, ".", 1)

	var scale int64
	switch {
	case strings.HasSuffix(v, "%"):
		v, scale = strings.TrimSuffix(v, "%"), 100
	case strings.HasSuffix(v, "‰"):
		v, scale = strings.TrimSuffix(v, "‰"), 1000
	}
	if scale != 0 {
		if r, ok := new(big.Rat).SetString(v); ok && (kind == "double" || kind == "float" || reDecimal.MatchString(v)) {
			r.Quo(r, big.NewRat(scale, 1))
			v = ratString(r)
		}
	}
	return v, errs
}

// ratString renders r as an exact decimal without trailing zeros.
func ratString(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	for prec := 1; prec <= 1024; prec++ {
		s := r.FloatString(prec)
		if back, ok := new(big.Rat).SetString(s); ok && back.Cmp(r) == 0 {
			return s
		}
	}
	return r.FloatString(32)
}

// compareNumeric compares two numeric lexical forms. ok is false when either
// side is not a finite number.
func compareNumeric(a, b string) (int, bool) {
	ra, ok1 := new(big.Rat).SetString(strings.TrimPrefix(a, "+"))
	rb, ok2 := new(big.Rat).SetString(strings.TrimPrefix(b, "+"))
	if !ok1 || !ok2 {
		return 0, false
	}
	return ra.Cmp(rb), true
}
