// Package isbn validates ISBN-10 and ISBN-13 codes and computes check digits.
package isbn

import "strings"

// normalize strips hyphens and spaces.
func normalize(code string) string {
	r := strings.NewReplacer("-", "", " ", "")
	return r.Replace(code)
}

// IsValid reports whether code is a checksum-valid ISBN-10 or ISBN-13.
// Hyphens and spaces are ignored. ISBN-10 allows 'X' (or 'x') as the final
// character, counting as 10.
func IsValid(code string) bool {
	s := normalize(code)
	switch len(s) {
	case 10:
		sum := 0
		for i, c := range s {
			var v int
			switch {
			case c >= '0' && c <= '9':
				v = int(c - '0')
			case (c == 'X' || c == 'x') && i == 9:
				v = 10
			default:
				return false
			}
			sum += v * (i + 1)
		}
		return sum%11 == 0
	case 13:
		sum := 0
		for i, c := range s {
			if c < '0' || c > '9' {
				return false
			}
			v := int(c - '0')
			if i%2 == 1 {
				v *= 3
			}
			sum += v
		}
		return sum%10 == 0
	default:
		return false
	}
}

// CheckDigit10 computes the check digit for the first nine digits of an
// ISBN-10, returned as a single character ("0".."9" or "X").
// It returns "" if first9 is not exactly nine digits.
func CheckDigit10(first9 string) string {
	s := normalize(first9)
	if len(s) != 9 {
		return ""
	}
	sum := 0
	for i, c := range s {
		if c < '0' || c > '9' {
			return ""
		}
		sum += int(c-'0') * (i + 1)
	}
	d := sum % 11
	if d == 10 {
		return "X"
	}
	return string(rune('0' + d))
}

// CheckDigit13 computes the check digit for the first twelve digits of an
// ISBN-13. It returns "" if first12 is not exactly twelve digits.
func CheckDigit13(first12 string) string {
	s := normalize(first12)
	if len(s) != 12 {
		return ""
	}
	sum := 0
	for i, c := range s {
		if c < '0' || c > '9' {
			return ""
		}
		v := int(c - '0')
		if i%2 == 1 {
			v *= 3
		}
		sum += v
	}
	d := (10 - sum%10) % 10
	return string(rune('0' + d))
}
