package pkg

import (
	"fmt"
	"strconv"
	"time"
)

// daySlotLabels ordinal label of each school-day hour
var daySlotLabels = map[int]string{
	1:  "ראשונה",
	2:  "שניה",
	3:  "שלישית",
	4:  "רביעית",
	5:  "חמישית",
	6:  "שישית",
	7:  "שביעית",
	8:  "שמינית",
	9:  "תשיעית",
	10: "עשירית",
	11: "אחת עשרה",
}

// DaySlotLabel maps a slot code to its label. Unknown codes pass through
// as the raw number; a missing slot renders empty.
func DaySlotLabel(slot *int) string {
	if slot == nil || *slot == 0 {
		return ""
	}
	if label, ok := daySlotLabels[*slot]; ok {
		return label
	}
	return strconv.Itoa(*slot)
}

// FormatTimeLeft renders whole minutes and seconds, e.g. "9 דקות ו59 שניות"
func FormatTimeLeft(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	seconds := int(d / time.Second)
	return fmt.Sprintf("%d דקות ו%d שניות", seconds/60, seconds%60)
}
