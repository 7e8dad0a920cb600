package usps

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"

	"ponyexpress/courier"
)

const trackDelivered = `<?xml version="1.0" encoding="UTF-8"?>
<TrackResponse>
	<TrackInfo ID="9405510200881234567890">
		<TrackSummary>
			<EventTime>2:48 pm</EventTime>
			<EventDate>January 8, 2016</EventDate>
			<Event>Delivered, In/At Mailbox</Event>
			<EventCity>CUPERTINO</EventCity>
			<EventState>CA</EventState>
			<EventZIPCode>95014</EventZIPCode>
		</TrackSummary>
		<TrackDetail>
			<EventTime>8:10 am</EventTime>
			<EventDate>January 8, 2016</EventDate>
			<Event>Out for Delivery</Event>
			<EventCity>CUPERTINO</EventCity>
			<EventState>CA</EventState>
			<EventZIPCode>95014</EventZIPCode>
		</TrackDetail>
		<TrackDetail>
			<EventTime>10:08 pm</EventTime>
			<EventDate>January 6, 2016</EventDate>
			<Event>Accepted at USPS Origin Facility</Event>
			<EventCity>NEW YORK</EventCity>
			<EventState>NY</EventState>
			<EventZIPCode>10001</EventZIPCode>
		</TrackDetail>
		<TrackDetail>
			<EventTime></EventTime>
			<EventDate>January 6, 2016</EventDate>
			<Event>Shipping Label Created</Event>
			<EventCity></EventCity>
			<EventState></EventState>
			<EventZIPCode></EventZIPCode>
		</TrackDetail>
	</TrackInfo>
</TrackResponse>`

func TestTrack(t *testing.T) {
	c, requests := newTestCourier(t, http.StatusOK, trackDelivered)

	resp, err := c.Track(context.Background(), "9405510200881234567890")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	q := lastRequest(t, requests)
	if q.Get("API") != "TrackV2" {
		t.Fatalf("expected TrackV2, got %q", q.Get("API"))
	}
	if !strings.Contains(q.Get("XML"), `<TrackFieldRequest USERID="user"><TrackID ID="9405510200881234567890">`) {
		t.Fatalf("unexpected request XML %q", q.Get("XML"))
	}

	if len(resp.Events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(resp.Events))
	}
	if resp.Status() != "DELIVERED, IN/AT MAILBOX" {
		t.Fatalf("unexpected status %q", resp.Status())
	}
	if resp.Events[1].Type != "OUT FOR DELIVERY" || resp.Events[2].City != "New York" {
		t.Fatalf("events out of order: %+v %+v", resp.Events[1], resp.Events[2])
	}

	accepted, ok := resp.Accepted()
	if !ok || !accepted.Equal(time.Date(2016, 1, 6, 22, 8, 0, 0, time.UTC)) {
		t.Fatalf("unexpected acceptance %v (%v)", accepted, ok)
	}
	delivered, ok := resp.Delivered()
	if !ok || !delivered.Equal(time.Date(2016, 1, 8, 14, 48, 0, 0, time.UTC)) {
		t.Fatalf("unexpected delivery %v (%v)", delivered, ok)
	}

	created := resp.Events[3]
	if created.State != "None" || created.City != "None" {
		t.Fatalf("expected placeholder location, got %q %q", created.State, created.City)
	}
	if !created.Timestamp.Equal(time.Date(2016, 1, 6, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected midnight placeholder, got %v", created.Timestamp)
	}
}

func TestTrackEscapesID(t *testing.T) {
	c, requests := newTestCourier(t, http.StatusOK, trackDelivered)

	if _, err := c.Track(context.Background(), `A"&B`); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if xml := lastRequest(t, requests).Get("XML"); !strings.Contains(xml, `<TrackID ID="A&#34;&amp;B">`) {
		t.Fatalf("tracking id not escaped: %q", xml)
	}
}

func TestTrackMissingEvent(t *testing.T) {
	c, _ := newTestCourier(t, http.StatusOK, `<TrackResponse><TrackInfo ID="1">
		<TrackSummary><EventDate>January 8, 2016</EventDate></TrackSummary>
	</TrackInfo></TrackResponse>`)

	resp, err := c.Track(context.Background(), "1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.Status() != "UNDEFINED" {
		t.Fatalf("expected UNDEFINED, got %q", resp.Status())
	}
}

func TestTrackInfoError(t *testing.T) {
	c, _ := newTestCourier(t, http.StatusOK, `<TrackResponse><TrackInfo ID="1">
		<Error>
			<Number>-2147219302</Number>
			<Description>The Postal Service could not locate the tracking information for your request.</Description>
			<HelpFile/>
			<HelpContext/>
		</Error>
	</TrackInfo></TrackResponse>`)

	_, err := c.Track(context.Background(), "1")
	var cerr *courier.CarrierError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected CarrierError, got %v", err)
	}
	if cerr.Number != "-2147219302" || cerr.StatusCode != http.StatusOK || cerr.Operation != courier.Tracking {
		t.Fatalf("unexpected carrier error: %+v", cerr)
	}
}

func TestTrackRootError(t *testing.T) {
	c, _ := newTestCourier(t, http.StatusOK, authFailure)

	_, err := c.Track(context.Background(), "1")
	if !errors.Is(err, courier.ErrCarrier) {
		t.Fatalf("expected carrier error, got %v", err)
	}
}

func TestTrackMalformed(t *testing.T) {
	c, _ := newTestCourier(t, http.StatusOK, `<TrackResponse></TrackResponse>`)
	if _, err := c.Track(context.Background(), "1"); !errors.Is(err, courier.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}

	c, _ = newTestCourier(t, http.StatusOK, `not xml`)
	if _, err := c.Track(context.Background(), "1"); !errors.Is(err, courier.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}

	c, _ = newTestCourier(t, http.StatusOK, `<TrackResponse><TrackInfo ID="1">
		<TrackSummary><Event>Delivered</Event><EventDate>8/1/2016</EventDate></TrackSummary>
	</TrackInfo></TrackResponse>`)
	if _, err := c.Track(context.Background(), "1"); !errors.Is(err, courier.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse for bad date, got %v", err)
	}
}
