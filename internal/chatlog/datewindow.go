package chatlog

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// DateWindow selects the transcript span: a single calendar day when Start
// and End fall on the same date, otherwise an inclusive range. The
// start <= end invariant is kept by clamping, never by rejecting a change.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

// SingleDay returns a window covering exactly one calendar day.
func SingleDay(day time.Time) DateWindow {
	return DateWindow{Start: day, End: day}
}

// Yesterday returns the default window used at startup.
func Yesterday() DateWindow {
	return SingleDay(time.Now().AddDate(0, 0, -1))
}

// IsSingleDay reports whether both bounds fall on the same calendar date.
func (w DateWindow) IsSingleDay() bool {
	return w.Start.Format(dateLayout) == w.End.Format(dateLayout)
}

// SetStart moves the start bound, dragging the end along when it would end
// up before the new start.
func (w *DateWindow) SetStart(day time.Time) {
	w.Start = day
	if w.End.Before(day) {
		w.End = day
	}
}

// SetEnd moves the end bound, dragging the start along when it would end up
// after the new end.
func (w *DateWindow) SetEnd(day time.Time) {
	w.End = day
	if w.Start.After(day) {
		w.Start = day
	}
}

// Query renders the window as the chat-log service's time parameter:
// "YYYY-MM-DD" for a single day, "YYYY-MM-DD~YYYY-MM-DD" for a range.
func (w DateWindow) Query() string {
	if w.IsSingleDay() {
		return w.Start.Format(dateLayout)
	}
	return w.Start.Format(dateLayout) + "~" + w.End.Format(dateLayout)
}

// ParseWindow accepts the same two forms Query emits. A range whose end
// precedes its start is clamped, matching the picker behavior.
func ParseWindow(value string) (DateWindow, error) {
	if idx := strings.IndexByte(value, '~'); idx >= 0 {
		start, err := time.Parse(dateLayout, value[:idx])
		if err != nil {
			return DateWindow{}, err
		}
		end, err := time.Parse(dateLayout, value[idx+1:])
		if err != nil {
			return DateWindow{}, err
		}
		w := SingleDay(start)
		w.SetEnd(end)
		return w, nil
	}
	day, err := time.Parse(dateLayout, value)
	if err != nil {
		return DateWindow{}, err
	}
	return SingleDay(day), nil
}
