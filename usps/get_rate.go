package usps

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"ponyexpress/courier"
	"ponyexpress/shipping"
)

const allServices = "ALL"

// packageTemplate is the <Package> node of a rate request. {method} is
// left in place so the template can be reused for a detailed rate.
const packageTemplate = `<Package ID="0">` +
	`<Service>{method}</Service>` +
	`<ZipOrigination>%s</ZipOrigination>` +
	`<ZipDestination>%s</ZipDestination>` +
	`<Pounds>%d</Pounds>` +
	`<Ounces>%s</Ounces>` +
	`<Container>%s</Container>` +
	`<Size>%s</Size>` +
	`<Width>%s</Width>` +
	`<Length>%s</Length>` +
	`<Height>%s</Height>` +
	`<Machinable>true</Machinable>` +
	`</Package>`

// GetRate quotes pkg for method, or for every service when method is
// empty. The package request template is cached on pkg.
func (c *Courier) GetRate(ctx context.Context, rateType shipping.RateType, method string, pkg *shipping.Package) (*shipping.RateCalculationResponse, error) {
	if pkg == nil {
		return nil, errors.Wrap(courier.ErrInvalidArgument, "a package is required to calculate a rate")
	}
	op, err := courier.RateOperation(rateType)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(method) == "" {
		method = allServices
	}

	tmpl := packageRequestTemplate(pkg)
	pkg.SetRequestTemplate(tmpl)

	node, err := c.requestRate(ctx, op, tmpl, method)
	if err != nil {
		return nil, err
	}

	resp := shipping.NewRateCalculationResponse()
	for _, q := range node.quotes() {
		rate, err := shipping.ParseRateCalculation(pkg, q.Rate, q.MailService, rateType)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: %s", op, q.MailService)
		}
		resp.Add(rate)
	}
	return resp, nil
}

// GetDetailedRate re-quotes a single rate for its own service and attaches
// the special services USPS offers with it.
func (c *Courier) GetDetailedRate(ctx context.Context, rate *shipping.RateCalculation) (*shipping.RateCalculation, error) {
	if rate == nil || rate.Package == nil {
		return nil, errors.Wrap(courier.ErrInvalidArgument, "a rate with a package is required")
	}
	method, err := ServiceMethod(rate.Method)
	if err != nil {
		return nil, err
	}
	op, err := courier.RateOperation(rate.Type)
	if err != nil {
		return nil, err
	}

	tmpl, ok := rate.Package.RequestTemplate()
	if !ok {
		tmpl = packageRequestTemplate(rate.Package)
		rate.Package.SetRequestTemplate(tmpl)
	}

	node, err := c.requestRate(ctx, op, tmpl, method)
	if err != nil {
		return nil, err
	}
	quotes := node.quotes()
	if len(quotes) == 0 {
		return nil, errors.Wrapf(courier.ErrMalformedResponse, "%s: no postage returned for %s", op, method)
	}

	q := quotes[0]
	detailed, err := shipping.ParseRateCalculation(rate.Package, q.Rate, q.MailService, rate.Type)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: %s", op, q.MailService)
	}
	for _, svc := range q.Services {
		option, err := shipping.ParseRateOption(svc.ServiceName, svc.Price, strings.TrimSpace(svc.ServiceID))
		if err != nil {
			return nil, errors.Wrapf(err, "%s: special service %s", op, svc.ServiceName)
		}
		detailed.AddOptions(option)
	}
	return detailed, nil
}

func (c *Courier) requestRate(ctx context.Context, op courier.Operation, tmpl, method string) (*packageNode, error) {
	params := map[string]string{"package": strings.Replace(tmpl, "{method}", xmlText(method), 1)}

	var raw rateResponse
	if err := c.GetServerResponse(ctx, op, params, &raw); err != nil {
		return nil, err
	}
	if raw.isSet() {
		return nil, c.carrierError(ctx, op, raw.uspsError)
	}
	if raw.Package == nil {
		return nil, errors.Wrapf(courier.ErrMalformedResponse, "%s: response has no Package", op)
	}
	if raw.Package.Error != nil {
		return nil, c.carrierError(ctx, op, *raw.Package.Error)
	}
	return raw.Package, nil
}

func packageRequestTemplate(pkg *shipping.Package) string {
	return fmt.Sprintf(packageTemplate,
		xmlText(pkg.Origin),
		xmlText(pkg.Destination),
		pkg.Weight.Pounds,
		formatFloat(pkg.Weight.Ounces),
		pkg.Shape(),
		pkg.Size(),
		formatFloat(pkg.Width),
		formatFloat(pkg.Length),
		formatFloat(pkg.Height),
	)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
