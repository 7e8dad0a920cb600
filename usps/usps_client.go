package usps

import (
	"context"
	"encoding/xml"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"ponyexpress/config"
	"ponyexpress/courier"
	"ponyexpress/middleware/timer"
	"ponyexpress/shipping"
)

// EventLayout is how USPS writes tracking dates ("January 6, 2016") and
// times ("10:08 pm").
var EventLayout = shipping.EventLayout{Date: "January 2, 2006", Time: "3:04 pm"}

// Courier talks to the USPS Web Tools XML API.
type Courier struct {
	*courier.BaseCourier
}

func NewCourier(cfg config.Config, logger *zap.Logger) *Courier {
	if logger == nil {
		logger = zap.NewNop()
	}

	base := courier.NewBaseCourier(cfg.USPSUsername, cfg.USPSPassword)
	base.Endpoints = cfg.Endpoints()
	base.ResponseType = courier.XML
	base.Logger = logger.Named("usps")
	base.HTTPClient = &http.Client{
		Timeout:   cfg.HTTPTimeout,
		Transport: timer.RoundTripper(nil, base.Logger),
	}

	c := &Courier{BaseCourier: base}
	base.ErrorHook = c.ProcessError
	return c
}

// ProcessError turns a USPS <Error>, either reported inside a 2xx body or
// returned as the body of a failed request, into a *courier.CarrierError.
// Anything else is left to the base courier.
func (c *Courier) ProcessError(ctx context.Context, f *courier.Failure) error {
	if f == nil {
		return c.BaseCourier.ProcessError(ctx, f)
	}
	if f.Number != "" || f.Description != "" {
		return errors.WithStack(&courier.CarrierError{
			Operation:   f.Operation,
			StatusCode:  f.StatusCode,
			Number:      f.Number,
			Source:      f.Source,
			Description: f.Description,
		})
	}

	if len(f.Body) > 0 {
		var doc errorDocument
		if err := xml.Unmarshal(f.Body, &doc); err == nil && doc.isSet() {
			return errors.WithStack(&courier.CarrierError{
				Operation:   f.Operation,
				StatusCode:  f.StatusCode,
				Number:      strings.TrimSpace(doc.Number),
				Source:      strings.TrimSpace(doc.Source),
				Description: strings.TrimSpace(doc.Description),
			})
		}
	}
	return c.BaseCourier.ProcessError(ctx, f)
}

// carrierError routes an <Error> found in a successful response through
// the error hook.
func (c *Courier) carrierError(ctx context.Context, op courier.Operation, e uspsError) error {
	hook := c.ErrorHook
	if hook == nil {
		hook = c.ProcessError
	}
	c.log().Debug("carrier reported an error",
		zap.Stringer("operation", op),
		zap.String("number", strings.TrimSpace(e.Number)),
		zap.String("description", strings.TrimSpace(e.Description)),
	)
	return hook(ctx, &courier.Failure{
		Operation:   op,
		StatusCode:  http.StatusOK,
		Number:      strings.TrimSpace(e.Number),
		Source:      strings.TrimSpace(e.Source),
		Description: strings.TrimSpace(e.Description),
	})
}

func (c *Courier) log() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// xmlText escapes s for use inside an XML element or attribute of a
// request template.
func xmlText(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

var _ courier.Courier = (*Courier)(nil)
