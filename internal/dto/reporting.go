package dto

import "time"

// PeriodQuery binds the from/to query parameters for period-based statements.
type PeriodQuery struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To   time.Time `form:"to" binding:"required" time_format:"2006-01-02"`
}

// AsOfQuery binds the as-of date for point-in-time statements.
type AsOfQuery struct {
	AsOf time.Time `form:"asOf" binding:"required" time_format:"2006-01-02"`
}
