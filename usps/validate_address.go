package usps

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"ponyexpress/courier"
	"ponyexpress/shipping"
)

// ValidateAddress asks USPS to standardize an address. An address USPS
// cannot find is not an error: the response simply holds no addresses.
func (c *Courier) ValidateAddress(ctx context.Context, req courier.AddressRequest) (*shipping.AddressValidationResponse, error) {
	zip5, zip4 := splitZip(req.PostalCode)
	params := map[string]string{
		"name":      uspsField(req.Name),
		"address_1": uspsField(req.Street1),
		"address_2": uspsField(req.Street2),
		"city":      uspsField(req.City),
		"state":     uspsField(req.State),
		"zip5":      xmlText(zip5),
		"zip4":      xmlText(zip4),
	}

	var raw addressValidateResponse
	if err := c.GetServerResponse(ctx, courier.AddressValidation, params, &raw); err != nil {
		return nil, err
	}
	if raw.isSet() {
		return nil, c.carrierError(ctx, courier.AddressValidation, raw.uspsError)
	}

	resp := shipping.NewAddressValidationResponse()
	if len(raw.Addresses) == 0 {
		return resp, nil
	}
	if e := raw.Addresses[0].Error; e != nil {
		c.log().Debug("address not validated",
			zap.String("number", strings.TrimSpace(e.Number)),
			zap.String("description", strings.TrimSpace(e.Description)),
		)
		return resp, nil
	}

	for _, node := range raw.Addresses {
		zip := strings.TrimSpace(node.Zip5)
		if z4 := strings.TrimSpace(node.Zip4); z4 != "" {
			zip += "-" + z4
		}
		resp.Add(shipping.NewAddress(node.State, node.City, zip, node.Address2, node.DeliveryPoint, node.CarrierRoute))
	}
	return resp, nil
}

// splitZip separates a ZIP+4 code. The +4 part is only used when the code
// has exactly one dash.
func splitZip(postalCode string) (zip5, zip4 string) {
	parts := strings.Split(strings.TrimSpace(postalCode), "-")
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return parts[0], ""
}

func uspsField(s string) string {
	return xmlText(strings.ToUpper(strings.TrimSpace(s)))
}
