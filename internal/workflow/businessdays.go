package workflow

import "time"

// DefaultProductionDays is the production estimate used when staff have not
// set one on the request.
const DefaultProductionDays = 15

// AddBusinessDays returns the date that is days business days (Mon-Fri) after
// start. The date advances one calendar day at a time and weekends are not
// counted, so the result always lands on a business day. With days <= 0 the
// start date is returned unchanged.
func AddBusinessDays(start time.Time, days int) time.Time {
	result := start
	count := 0
	for count < days {
		result = result.AddDate(0, 0, 1)
		if wd := result.Weekday(); wd != time.Saturday && wd != time.Sunday {
			count++
		}
	}
	return result
}
