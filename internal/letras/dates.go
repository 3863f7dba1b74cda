package letras

import (
	"fmt"
	"time"
)

var months = []string{
	"ENERO", "FEBRERO", "MARZO", "ABRIL", "MAYO", "JUNIO",
	"JULIO", "AGOSTO", "SEPTIEMBRE", "OCTUBRE", "NOVIEMBRE", "DICIEMBRE",
}

// MonthName is the uppercase Spanish month name.
func MonthName(m time.Month) string {
	return months[m-1]
}

// DateLong renders a date the way notarial documents spell it:
// "04 DE MARZO DE 2024".
func DateLong(t time.Time) string {
	return fmt.Sprintf("%02d DE %s DE %d", t.Day(), MonthName(t.Month()), t.Year())
}

// DateDMY renders "04/03/2024".
func DateDMY(t time.Time) string {
	return fmt.Sprintf("%02d/%02d/%d", t.Day(), int(t.Month()), t.Year())
}
