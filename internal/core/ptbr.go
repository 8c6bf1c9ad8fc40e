package core

import (
	"fmt"
	"time"
)

// pt-BR month names. These are display labels only; anything that needs to
// order by month must use the numeric (year, month) pair, since the
// alphabetical order of these strings is not chronological.
var (
	monthShortPT = [12]string{
		"jan", "fev", "mar", "abr", "mai", "jun",
		"jul", "ago", "set", "out", "nov", "dez",
	}
	monthLongPT = [12]string{
		"janeiro", "fevereiro", "março", "abril", "maio", "junho",
		"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
	}
)

// MonthShortPT returns the abbreviated pt-BR month name ("mar").
func MonthShortPT(m time.Month) string {
	return monthShortPT[int(m)-1]
}

// MonthLongPT returns the full pt-BR month name ("março").
func MonthLongPT(m time.Month) string {
	return monthLongPT[int(m)-1]
}

// MonthYearLabelPT renders the "mar/25" style label used by the trailing
// months report.
func MonthYearLabelPT(year int, m time.Month) string {
	return fmt.Sprintf("%s/%02d", MonthShortPT(m), year%100)
}

// DayLabelPT renders the "5 de março de 2025" heading used by the schedule.
func DayLabelPT(year int, m time.Month, day int) string {
	return fmt.Sprintf("%d de %s de %d", day, MonthLongPT(m), year)
}
