package voice

import "strconv"

// Spoken numbers arrive either as digit strings ("5000") or as Chinese
// numerals ("五千", "五万三", "二十"). ParseNumber handles both.

var numeralDigits = map[rune]int{
	'零': 0, '一': 1, '二': 2, '两': 2, '三': 3, '四': 4,
	'五': 5, '六': 6, '七': 7, '八': 8, '九': 9,
}

var numeralUnits = map[rune]int{
	'十': 10, '百': 100, '千': 1000,
}

// ParseNumber converts a digit string or a Chinese numeral to an int.
// Returns false when s is neither.
func ParseNumber(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	return parseChineseNumeral(s)
}

// parseChineseNumeral evaluates a Chinese numeral by place-value
// accumulation: digits multiply the following unit, units accumulate into a
// section, and 万 (ten-thousand) closes a section and scales it.
// "五千" = 5000, "五万" = 50000, "两万三千" = 23000, "十五" = 15.
func parseChineseNumeral(s string) (int, bool) {
	total := 0   // completed 万 sections
	section := 0 // value accumulated since the last 万
	digit := 0   // pending digit awaiting its unit
	seen := false

	for _, r := range s {
		switch {
		case r == '万':
			section += digit
			if section == 0 {
				section = 1 // bare "万"
			}
			total += section * 10000
			section, digit = 0, 0
			seen = true
		case numeralUnits[r] != 0:
			unit := numeralUnits[r]
			if digit == 0 {
				digit = 1 // bare "十" means 10
			}
			section += digit * unit
			digit = 0
			seen = true
		default:
			d, ok := numeralDigits[r]
			if !ok {
				return 0, false
			}
			digit = digit*10 + d
			seen = true
		}
	}
	if !seen {
		return 0, false
	}
	return total + section + digit, true
}
