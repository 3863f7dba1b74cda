package capture

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/JJ950407/lia-pagare/internal/sale"
	"github.com/JJ950407/lia-pagare/internal/schedule"
)

// The capture flow accepts free-form chat answers, so the parsers here are
// deliberately loose: they strip decoration, tolerate synonyms, and reject
// with a message the operator can act on.

// ParseYesNo reads an affirmative or negative answer.
func ParseYesNo(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "si", "sí", "yes", "y", "true", "1":
		return true, nil
	case "no", "n", "false", "0":
		return false, nil
	}

	return false, errors.New(`responde "sí" o "no"`)
}

var monthAliases = map[string]time.Month{
	"enero": time.January, "febrero": time.February, "marzo": time.March,
	"abril": time.April, "mayo": time.May, "junio": time.June,
	"julio": time.July, "agosto": time.August,
	"septiembre": time.September, "setiembre": time.September,
	"octubre": time.October, "noviembre": time.November, "diciembre": time.December,
}

// ParseMonth accepts 1..12 or a Spanish month name.
func ParseMonth(s string) (time.Month, error) {
	t := strings.ToLower(strings.TrimSpace(s))

	if n, err := strconv.Atoi(t); err == nil && n >= 1 && n <= 12 {
		return time.Month(n), nil
	}

	if m, ok := monthAliases[t]; ok {
		return m, nil
	}

	return 0, errors.New("indica un mes válido (1..12 o nombre del mes)")
}

// ParsePercent reads a percentage in the 0..100 range, "%" optional.
func ParsePercent(s string) (float64, error) {
	t := strings.TrimSpace(strings.ReplaceAll(s, "%", ""))

	n, err := strconv.ParseFloat(t, 64)
	if err != nil || n < 0 || n > 100 {
		return 0, errors.New("porcentaje inválido")
	}

	return n, nil
}

var nonDigits = regexp.MustCompile(`\D+`)

// ParsePhone keeps only digits and expects a 10 to 13 digit number.
func ParsePhone(s string) (string, error) {
	digits := nonDigits.ReplaceAllString(s, "")
	if len(digits) < 10 || len(digits) > 13 {
		return "", errors.New("ingresa un teléfono válido (10 dígitos o +52...)")
	}

	return digits, nil
}

// ParseRule maps the "este mes"/"siguiente mes" answer onto the first due
// date rule.
func ParseRule(s string) (schedule.DueDateRule, error) {
	t := strings.ToLower(strings.TrimSpace(s))

	same := []string{"este mes", "en este mes", "este", "mismo mes", "actual", "mes actual", "en el mes actual"}
	next := []string{"siguiente mes", "en el siguiente mes", "mes siguiente", "siguiente", "proximo mes", "próximo mes", "proximo", "próximo"}

	for _, v := range same {
		if t == v {
			return schedule.RuleSameHalf, nil
		}
	}

	for _, v := range next {
		if t == v {
			return schedule.RuleNextHalf, nil
		}
	}

	return "", errors.New(`escribe "este mes" o "siguiente mes"`)
}

// DocType selects which documents a session produces.
type DocType string

const (
	DocContract DocType = "contrato"
	DocNotes    DocType = "pagares"
	DocBoth     DocType = "ambos"
)

// ParseDocType reads the 1/2/3 menu answer, names accepted too.
func ParseDocType(s string) (DocType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "contrato":
		return DocContract, nil
	case "2", "pagares", "pagarés":
		return DocNotes, nil
	case "3", "ambos":
		return DocBoth, nil
	}

	return "", errors.New("responde 1, 2 o 3")
}

// ParseGender resolves the debtor's contract denomination.
func ParseGender(s string) (string, error) {
	t := strings.ToLower(strings.TrimSpace(s))

	switch t {
	case "1", "h", "hombre", "masculino", "el comprador", "comprador":
		return "EL COMPRADOR", nil
	case "2", "m", "mujer", "femenino", "la compradora", "compradora":
		return "LA COMPRADORA", nil
	}

	return "", errors.New("responde Hombre/Mujer (H/M, masculino/femenino)")
}

// ParseWitnesses splits "Testigo 1 | Testigo 2"; "/" works as well.
func ParseWitnesses(s string) ([2]string, error) {
	parts := regexp.MustCompile(`[|/]+`).Split(s, -1)

	var names []string
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			names = append(names, t)
		}
	}

	if len(names) < 2 {
		return [2]string{}, errors.New(`indica 2 testigos separados por "|" o "/"`)
	}

	return [2]string{names[0], names[1]}, nil
}

// ParseDate accepts "hoy" or a dd/mm/aaaa date, "-" and "." separators
// included.
func ParseDate(s string, now time.Time) (time.Time, error) {
	t := strings.ToLower(strings.TrimSpace(s))
	if t == "hoy" {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}

	normalized := strings.NewReplacer("-", "/", ".", "/").Replace(t)
	for _, layout := range []string{"02/01/2006", "2/1/2006", "02/01/06"} {
		if d, err := time.Parse(layout, normalized); err == nil {
			return d, nil
		}
	}

	return time.Time{}, fmt.Errorf("fecha inválida %q, usa dd/mm/aaaa o \"hoy\"", s)
}

// ParseBoundaryAnswer reads the "metros | colinda" answer for one side.
func ParseBoundaryAnswer(s string) (sale.Boundary, error) {
	parts := strings.SplitN(s, "|", 2)
	if len(parts) == 2 {
		return sale.ParseBoundary(strings.TrimSpace(parts[0]) + " " + strings.TrimSpace(parts[1])), nil
	}

	return sale.ParseBoundary(s), nil
}
