package shipping

import (
	"testing"
	"time"
)

func mustEvent(t *testing.T, state, city, zip, eventType, date, clock string) *TrackingEvent {
	t.Helper()
	event, err := NewTrackingEvent(state, city, zip, eventType, date, clock, DefaultEventLayout)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return event
}

func TestTrackingEvent(t *testing.T) {
	event := mustEvent(t, "NY", "New York", "12345", "accepted", "07-03-2015", "13:21:00")

	if want := time.Date(2015, 7, 3, 13, 21, 0, 0, time.UTC); !event.Timestamp.Equal(want) {
		t.Fatalf("expected %v, got %v", want, event.Timestamp)
	}
	if event.Type != "ACCEPTED" {
		t.Fatalf("expected upper-cased type, got %q", event.Type)
	}
	if event.State != "Ny" || event.City != "New York" {
		t.Fatalf("expected title-cased location, got %q/%q", event.State, event.City)
	}
	if got := event.Format(""); got != "July 03, 2015 01:21 PM" {
		t.Fatalf("expected display format, got %q", got)
	}
}

func TestTrackingEventFallbacks(t *testing.T) {
	event := mustEvent(t, "", "", "", "", "", "")

	if event.Type != EventUndefined {
		t.Fatalf("expected %s, got %q", EventUndefined, event.Type)
	}
	if want := time.Unix(0, 0).UTC(); !event.Timestamp.Equal(want) {
		t.Fatalf("expected epoch placeholder, got %v", event.Timestamp)
	}
}

func TestTrackingEventCarrierLayout(t *testing.T) {
	layout := EventLayout{Date: "January 2, 2006", Time: "3:04 pm"}
	for _, clock := range []string{"10:08 pm", "10:08 PM"} {
		event, err := NewTrackingEvent("NY", "Brooklyn", "11218", "Delivered", "January 06, 2016", clock, layout)
		if err != nil {
			t.Fatalf("expected no error for %q, got %v", clock, err)
		}
		if want := time.Date(2016, 1, 6, 22, 8, 0, 0, time.UTC); !event.Timestamp.Equal(want) {
			t.Fatalf("expected %v, got %v", want, event.Timestamp)
		}
	}
}

func TestTrackingEventMalformedDate(t *testing.T) {
	if _, err := NewTrackingEvent("", "", "", "ACCEPTED", "2015/07/03", "", DefaultEventLayout); err == nil {
		t.Fatal("expected error for malformed date")
	}
	if _, err := NewTrackingEvent("", "", "", "ACCEPTED", "", "1pm", DefaultEventLayout); err == nil {
		t.Fatal("expected error for malformed time")
	}
}

func TestTrackingResponseEmpty(t *testing.T) {
	resp := NewTrackingResponse()

	if resp.Status() != StatusUnknown {
		t.Fatalf("expected UNKNOWN, got %q", resp.Status())
	}
	if _, ok := resp.Accepted(); ok {
		t.Fatal("expected no acceptance")
	}
	if _, ok := resp.Delivered(); ok {
		t.Fatal("expected no delivery")
	}
}

func TestTrackingResponseAcceptedDelivered(t *testing.T) {
	accepted := mustEvent(t, "NY", "New York", "12345", "ACCEPTED", "07-03-2015", "13:21:00")
	delivered := mustEvent(t, "BC", "Vancouver", "98765", "DELIVERED", "07-06-2015", "07:47:00")

	resp := NewTrackingResponse(delivered, accepted)

	if resp.Status() != "DELIVERED" {
		t.Fatalf("expected DELIVERED, got %q", resp.Status())
	}
	if got, ok := resp.Accepted(); !ok || !got.Equal(time.Date(2015, 7, 3, 13, 21, 0, 0, time.UTC)) {
		t.Fatalf("expected acceptance at 2015-07-03 13:21, got %v (%t)", got, ok)
	}
	if got, ok := resp.Delivered(); !ok || !got.Equal(time.Date(2015, 7, 6, 7, 47, 0, 0, time.UTC)) {
		t.Fatalf("expected delivery at 2015-07-06 07:47, got %v (%t)", got, ok)
	}
}

func TestTrackingResponseScanDirections(t *testing.T) {
	// Most recent first: two deliveries and two acceptance-like events.
	resp := NewTrackingResponse(
		mustEvent(t, "", "", "", "DELIVERED, IN/AT MAILBOX", "07-08-2015", "10:00:00"),
		mustEvent(t, "", "", "", "DELIVERED", "07-07-2015", "10:00:00"),
		mustEvent(t, "", "", "", "PICKED UP BY SHIPPING PARTNER", "07-02-2015", "10:00:00"),
		mustEvent(t, "", "", "", "ACCEPTED AT USPS ORIGIN FACILITY", "07-01-2015", "10:00:00"),
	)

	if got, _ := resp.Accepted(); got.Day() != 1 {
		t.Fatalf("expected oldest acceptance (July 1), got %v", got)
	}
	if got, _ := resp.Delivered(); got.Day() != 8 {
		t.Fatalf("expected most recent delivery (July 8), got %v", got)
	}
}
