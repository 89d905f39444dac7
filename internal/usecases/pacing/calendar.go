package pacing

import "time"

// Calendar converte instantes em datas de calendário num único fuso.
// Datas dentro do motor são valores date-only normalizados para meia-noite UTC;
// a conversão de instantes acontece só aqui.
type Calendar struct {
	loc *time.Location
}

func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{loc: loc}
}

func (c Calendar) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// DateOf retorna a data de calendário do instante t no fuso configurado
func (c Calendar) DateOf(t time.Time) time.Time {
	y, m, d := t.In(c.Location()).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateOnly descarta o horário de um valor que já representa uma data
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween conta dias de calendário de from até to (negativo se to < from)
func DaysBetween(from, to time.Time) int {
	return int(DateOnly(to).Sub(DateOnly(from)).Hours() / 24)
}
