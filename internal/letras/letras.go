// Package letras spells out numbers in Spanish, uppercase, as legal
// documents in Mexico require ("DOSCIENTOS VEINTE MIL PESOS 00/100 M.N.").
package letras

import (
	"fmt"
	"strings"
)

var units = []string{"", "UN", "DOS", "TRES", "CUATRO", "CINCO", "SEIS", "SIETE", "OCHO", "NUEVE"}

var teens = []string{"DIEZ", "ONCE", "DOCE", "TRECE", "CATORCE", "QUINCE"}

var tens = []string{"", "", "VEINTE", "TREINTA", "CUARENTA", "CINCUENTA", "SESENTA", "SETENTA", "OCHENTA", "NOVENTA"}

var hundreds = []string{"", "CIENTO", "DOSCIENTOS", "TRESCIENTOS", "CUATROCIENTOS", "QUINIENTOS", "SEISCIENTOS", "SETECIENTOS", "OCHOCIENTOS", "NOVECIENTOS"}

// Number spells a non-negative integer up to the billions.
func Number(n int64) string {
	if n == 0 {
		return "CERO"
	}
	if n < 0 {
		return "MENOS " + Number(-n)
	}

	var parts []string

	if millions := n / 1_000_000; millions > 0 {
		if millions == 1 {
			parts = append(parts, "UN MILLÓN")
		} else {
			parts = append(parts, belowMillion(millions), "MILLONES")
		}
		n %= 1_000_000
	}

	if n > 0 {
		parts = append(parts, belowMillion(n))
	}

	return strings.Join(parts, " ")
}

// Currency spells an amount of cents as pesos with the cents fraction
// appended in the "NN/100 M.N." legal form.
func Currency(cents int64) string {
	pesos := cents / 100
	frac := cents % 100
	if frac < 0 {
		frac = -frac
	}

	word := "PESOS"
	if pesos == 1 {
		word = "PESO"
	}

	return fmt.Sprintf("%s %s %02d/100 M.N.", Number(pesos), word, frac)
}

func belowMillion(n int64) string {
	var parts []string

	if thousands := n / 1000; thousands > 0 {
		if thousands == 1 {
			parts = append(parts, "MIL")
		} else {
			parts = append(parts, belowThousand(thousands), "MIL")
		}
		n %= 1000
	}

	if n > 0 {
		parts = append(parts, belowThousand(n))
	}

	return strings.Join(parts, " ")
}

func belowThousand(n int64) string {
	var parts []string

	if h := n / 100; h > 0 {
		if h == 1 && n%100 == 0 {
			return "CIEN"
		}
		parts = append(parts, hundreds[h])
		n %= 100
	}

	if n > 0 {
		parts = append(parts, belowHundred(n))
	}

	return strings.Join(parts, " ")
}

func belowHundred(n int64) string {
	switch {
	case n < 10:
		return units[n]
	case n < 16:
		return teens[n-10]
	case n < 20:
		return "DIECI" + units[n-10]
	case n == 20:
		return "VEINTE"
	case n < 30:
		return "VEINTI" + units[n-20]
	default:
		t, u := n/10, n%10
		if u == 0 {
			return tens[t]
		}

		return tens[t] + " Y " + units[u]
	}
}
