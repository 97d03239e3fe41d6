package report

import "errors"

var (
	ErrPeriodTooLong = errors.New("summary period exceeds the allowed number of days")
)
