package order

import "time"

// TimestampLayout is yyyy-mm-dd HH:MM:SS, 24-hour, zero padded
const TimestampLayout = "2006-01-02 15:04:05"

// taipei is a fixed +08:00 zone so the output does not depend on the host tz database
var taipei = time.FixedZone("Asia/Taipei", 8*60*60)

// FormatTaipeiDateTime renders t in +08:00 using TimestampLayout
func FormatTaipeiDateTime(t time.Time) string {
	return t.In(taipei).Format(TimestampLayout)
}
