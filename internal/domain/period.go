package domain

type Period string

const (
	PeriodMorning   Period = "morning"
	PeriodAfternoon Period = "afternoon"
	PeriodEvening   Period = "evening"
)

// Periods lists the day parts in display order.
var Periods = []Period{PeriodMorning, PeriodAfternoon, PeriodEvening}

// PeriodOf classifies a time label: morning [10:00,12:00), afternoon [12:00,16:00),
// evening [16:00,20:00]. Labels outside those ranges or unparsable labels report false.
func PeriodOf(label string) (Period, bool) {
	t, err := ParseTime(label)
	if err != nil {
		return "", false
	}
	minutes := t.Hour()*60 + t.Minute()

	switch {
	case minutes >= 10*60 && minutes < 12*60:
		return PeriodMorning, true
	case minutes >= 12*60 && minutes < 16*60:
		return PeriodAfternoon, true
	case minutes >= 16*60 && minutes <= 20*60:
		return PeriodEvening, true
	default:
		return "", false
	}
}
