package sale

import (
	"regexp"
	"strconv"
	"strings"
)

const unspecified = "SIN ESPECIFICAR"

var (
	boundaryRE = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)\s*(.*)$`)
	numberRE   = regexp.MustCompile(`[\d.,]+`)
)

// ParseBoundary splits a free-text boundary description like
// "12.50 CALLE BENITO JUAREZ" into its length and neighboring reference.
// Unparseable input keeps the text and reports zero meters.
func ParseBoundary(raw string) Boundary {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Boundary{Adjoins: unspecified}
	}

	m := boundaryRE.FindStringSubmatch(text)
	if m == nil {
		return Boundary{Adjoins: text}
	}

	meters, _ := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)

	adjoins := strings.TrimSpace(m[2])
	if adjoins == "" {
		adjoins = unspecified
	}

	return Boundary{Meters: meters, Adjoins: adjoins}
}

// ParseSurface extracts the numeric surface from text such as
// "250 m2", "1,250.5" or "1.250,5".
func ParseSurface(raw string) float64 {
	m := numberRE.FindString(raw)
	if m == "" {
		return 0
	}

	n, err := strconv.ParseFloat(normalizeDecimal(m), 64)
	if err != nil {
		return 0
	}

	return n
}

// normalizeDecimal turns a human-formatted number into strconv syntax.
// When both separators appear the rightmost one is decimal; a lone comma
// followed by exactly three digits is read as a thousands separator.
func normalizeDecimal(s string) string {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastDot > lastComma {
			return strings.ReplaceAll(s, ",", "")
		}

		s = strings.ReplaceAll(s, ".", "")

		return strings.ReplaceAll(s, ",", ".")
	case lastComma >= 0:
		if len(s)-lastComma-1 == 3 {
			return strings.ReplaceAll(s, ",", "")
		}

		return strings.ReplaceAll(s, ",", ".")
	default:
		return s
	}
}
