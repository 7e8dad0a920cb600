package shipping

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	StatusUnknown  = "UNKNOWN"
	EventUndefined = "UNDEFINED"
	DisplayLayout  = "January 02, 2006 03:04 PM"
)

// Keywords found in event types, in lookup order.
var (
	acceptanceKeywords = []string{"ACCEPTED", "PICKED UP"}
	deliveredKeywords  = []string{"DELIVERED"}
)

// EventLayout holds the Go time layouts a carrier uses for the date and
// the time of day of an event.
type EventLayout struct {
	Date string
	Time string
}

// DefaultEventLayout parses dates like 06-29-2015 and times like 17:35:59.
var DefaultEventLayout = EventLayout{Date: "01-02-2006", Time: "15:04:05"}

// TrackingEvent is one status update for a tracked item.
type TrackingEvent struct {
	Type       string
	Timestamp  time.Time
	State      string
	City       string
	PostalCode string
}

// NewTrackingEvent parses date and clock with layout and combines them into
// a single UTC timestamp. An empty date falls back to 1970-01-01 and an
// empty clock to midnight; text that does not match the layout is an error.
func NewTrackingEvent(state, city, postalCode, eventType, date, clock string, layout EventLayout) (*TrackingEvent, error) {
	if strings.TrimSpace(eventType) == "" {
		eventType = EventUndefined
	}

	day := time.Unix(0, 0).UTC()
	if date = strings.TrimSpace(date); date != "" {
		d, err := time.Parse(layout.Date, date)
		if err != nil {
			return nil, errors.Wrapf(err, "parse event date %q", date)
		}
		day = d
	}

	var hour, minute, sec int
	if clock = strings.TrimSpace(clock); clock != "" {
		c, err := time.Parse(layout.Time, normalizeMeridiem(clock, layout.Time))
		if err != nil {
			return nil, errors.Wrapf(err, "parse event time %q", clock)
		}
		hour, minute, sec = c.Clock()
	}

	return &TrackingEvent{
		Type:       strings.ToUpper(eventType),
		Timestamp:  time.Date(day.Year(), day.Month(), day.Day(), hour, minute, sec, 0, time.UTC),
		State:      titleCase(state),
		City:       titleCase(city),
		PostalCode: postalCode,
	}, nil
}

// normalizeMeridiem folds AM/PM markers to the case the layout expects;
// Go matches them case-sensitively.
func normalizeMeridiem(value, layout string) string {
	switch {
	case strings.Contains(layout, "PM"):
		return strings.NewReplacer("am", "AM", "pm", "PM").Replace(value)
	case strings.Contains(layout, "pm"):
		return strings.NewReplacer("AM", "am", "PM", "pm").Replace(value)
	}
	return value
}

// Format renders the event timestamp, using DisplayLayout when layout is
// empty.
func (e *TrackingEvent) Format(layout string) string {
	if layout == "" {
		layout = DisplayLayout
	}
	return e.Timestamp.Format(layout)
}

func (e *TrackingEvent) hasKeyword(keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(e.Type, k) {
			return true
		}
	}
	return false
}

// TrackingResponse holds the events of a tracked item, most recent first.
// The order is the constructor's responsibility and is not checked.
type TrackingResponse struct {
	Events []*TrackingEvent
}

func NewTrackingResponse(events ...*TrackingEvent) *TrackingResponse {
	r := &TrackingResponse{}
	r.Add(events...)
	return r
}

func (r *TrackingResponse) Add(events ...*TrackingEvent) {
	if len(events) == 0 {
		return
	}
	r.Events = append(r.Events, events...)
}

// Status is the type of the most recent event, or UNKNOWN.
func (r *TrackingResponse) Status() string {
	if len(r.Events) == 0 {
		return StatusUnknown
	}
	return r.Events[0].Type
}

// Accepted walks the events oldest first and returns the timestamp of the
// first acceptance (ACCEPTED or PICKED UP) event.
func (r *TrackingResponse) Accepted() (time.Time, bool) {
	for i := len(r.Events) - 1; i >= 0; i-- {
		if r.Events[i].hasKeyword(acceptanceKeywords) {
			return r.Events[i].Timestamp, true
		}
	}
	return time.Time{}, false
}

// Delivered walks the events most recent first and returns the timestamp of
// the first DELIVERED event.
func (r *TrackingResponse) Delivered() (time.Time, bool) {
	for _, e := range r.Events {
		if e.hasKeyword(deliveredKeywords) {
			return e.Timestamp, true
		}
	}
	return time.Time{}, false
}
