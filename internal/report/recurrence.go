package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

var weekdayNames = map[string]string{
	"MO": "Monday", "TU": "Tuesday", "WE": "Wednesday", "TH": "Thursday",
	"FR": "Friday", "SA": "Saturday", "SU": "Sunday",
}

var freqNouns = map[rrule.Frequency]string{
	rrule.YEARLY:   "year",
	rrule.MONTHLY:  "month",
	rrule.WEEKLY:   "week",
	rrule.DAILY:    "day",
	rrule.HOURLY:   "hour",
	rrule.MINUTELY: "minute",
	rrule.SECONDLY: "second",
}

// describeRecurrence turns a raw RRULE value into a short human-readable
// descriptor. Occurrences are never enumerated. An RRULE that does not parse
// is shown verbatim.
func describeRecurrence(raw string) string {
	opt, err := rrule.StrToROption(raw)
	if err != nil {
		return raw
	}

	noun, ok := freqNouns[opt.Freq]
	if !ok {
		return raw
	}

	var b strings.Builder
	if opt.Interval > 1 {
		fmt.Fprintf(&b, "every %d %ss", opt.Interval, noun)
	} else {
		fmt.Fprintf(&b, "every %s", noun)
	}

	if len(opt.Byweekday) > 0 {
		names := make([]string, 0, len(opt.Byweekday))
		for _, wd := range opt.Byweekday {
			name := weekdayNames[wd.String()]
			if name == "" {
				name = wd.String()
			}
			names = append(names, name)
		}
		b.WriteString(" on " + strings.Join(names, ", "))
	}
	if len(opt.Bymonthday) > 0 {
		days := make([]string, 0, len(opt.Bymonthday))
		for _, d := range opt.Bymonthday {
			days = append(days, fmt.Sprintf("%d", d))
		}
		b.WriteString(" on day " + strings.Join(days, ", "))
	}

	if opt.Count > 0 {
		fmt.Fprintf(&b, ", %d times", opt.Count)
	} else if !opt.Until.IsZero() {
		fmt.Fprintf(&b, ", until %s", opt.Until.Format("2006-01-02"))
	}
	return b.String()
}

// describeTriggerDuration phrases a reminder offset relative to the event.
func describeTriggerDuration(d time.Duration) string {
	if d == 0 {
		return "at start"
	}
	abs := d
	rel := "after start"
	if d < 0 {
		abs = -d
		rel = "before start"
	}
	return fmt.Sprintf("%s %s", compactDuration(abs), rel)
}

func compactDuration(d time.Duration) string {
	var parts []string
	if h := int(d.Hours()); h >= 24 {
		parts = append(parts, fmt.Sprintf("%d day(s)", h/24))
		d -= time.Duration(h/24) * 24 * time.Hour
	}
	if h := int(d.Hours()); h > 0 {
		parts = append(parts, fmt.Sprintf("%d hour(s)", h))
		d -= time.Duration(h) * time.Hour
	}
	if m := int(d.Minutes()); m > 0 {
		parts = append(parts, fmt.Sprintf("%d minute(s)", m))
		d -= time.Duration(m) * time.Minute
	}
	if s := int(d.Seconds()); s > 0 && len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%d second(s)", s))
	}
	if len(parts) == 0 {
		return "0 minute(s)"
	}
	return strings.Join(parts, " ")
}
