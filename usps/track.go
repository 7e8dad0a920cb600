package usps

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"ponyexpress/courier"
	"ponyexpress/shipping"
)

const unknownLocation = "NONE"

// Track fetches the event history of a package. The summary event comes
// first, followed by the details in the order USPS lists them.
func (c *Courier) Track(ctx context.Context, trackingID string) (*shipping.TrackingResponse, error) {
	var raw trackResponse
	params := map[string]string{"tracking_id": xmlText(trackingID)}
	if err := c.GetServerResponse(ctx, courier.Tracking, params, &raw); err != nil {
		return nil, err
	}
	if raw.isSet() {
		return nil, c.carrierError(ctx, courier.Tracking, raw.uspsError)
	}

	info := raw.TrackInfo
	if info == nil {
		return nil, errors.Wrap(courier.ErrMalformedResponse, "tracking response has no TrackInfo")
	}
	if info.Error != nil {
		return nil, c.carrierError(ctx, courier.Tracking, *info.Error)
	}

	events := make([]trackEvent, 0, len(info.TrackDetail)+1)
	if info.TrackSummary != nil {
		events = append(events, *info.TrackSummary)
	}
	events = append(events, info.TrackDetail...)

	resp := shipping.NewTrackingResponse()
	for _, e := range events {
		event, err := e.toEvent()
		if err != nil {
			return nil, errors.Wrapf(courier.ErrMalformedResponse, "tracking event: %v", err)
		}
		resp.Add(event)
	}
	return resp, nil
}

func (e trackEvent) toEvent() (*shipping.TrackingEvent, error) {
	return shipping.NewTrackingEvent(
		orUnknown(e.EventState),
		orUnknown(e.EventCity),
		strings.TrimSpace(e.EventZIPCode),
		strings.TrimSpace(e.Event),
		e.EventDate,
		e.EventTime,
		EventLayout,
	)
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return unknownLocation
	}
	return s
}
