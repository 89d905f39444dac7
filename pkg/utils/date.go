package utils

import (
	"time"

	"github.com/pkg/errors"
)

const DateLayout = "2006-01-02"

// ParseDate lê uma data de calendário (YYYY-MM-DD) no fuso informado.
func ParseDate(dateStr string, loc *time.Location) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, errors.New("empty date")
	}
	if loc == nil {
		loc = time.UTC
	}

	date, err := time.ParseInLocation(DateLayout, dateStr, loc)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid date %q", dateStr)
	}

	return date, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
