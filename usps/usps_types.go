package usps

import "encoding/xml"

// uspsError is the <Error> element USPS returns either as the document
// root (request-level failures) or nested in a result node.
type uspsError struct {
	Number      string `xml:"Number"`
	Source      string `xml:"Source"`
	Description string `xml:"Description"`
	HelpFile    string `xml:"HelpFile"`
	HelpContext string `xml:"HelpContext"`
}

type errorDocument struct {
	XMLName xml.Name `xml:"Error"`
	uspsError
}

type trackResponse struct {
	XMLName xml.Name
	uspsError
	TrackInfo *trackInfo `xml:"TrackInfo"`
}

type trackInfo struct {
	ID           string       `xml:"ID,attr"`
	Error        *uspsError   `xml:"Error"`
	TrackSummary *trackEvent  `xml:"TrackSummary"`
	TrackDetail  []trackEvent `xml:"TrackDetail"`
}

type trackEvent struct {
	EventTime    string `xml:"EventTime"`
	EventDate    string `xml:"EventDate"`
	Event        string `xml:"Event"`
	EventCity    string `xml:"EventCity"`
	EventState   string `xml:"EventState"`
	EventZIPCode string `xml:"EventZIPCode"`
	EventCountry string `xml:"EventCountry"`
	FirmName     string `xml:"FirmName"`
}

type addressValidateResponse struct {
	XMLName xml.Name
	uspsError
	Addresses []addressNode `xml:"Address"`
}

type addressNode struct {
	ID            string     `xml:"ID,attr"`
	Error         *uspsError `xml:"Error"`
	FirmName      string     `xml:"FirmName"`
	Address1      string     `xml:"Address1"`
	Address2      string     `xml:"Address2"`
	City          string     `xml:"City"`
	State         string     `xml:"State"`
	Zip5          string     `xml:"Zip5"`
	Zip4          string     `xml:"Zip4"`
	DeliveryPoint string     `xml:"DeliveryPoint"`
	CarrierRoute  string     `xml:"CarrierRoute"`
}

type rateResponse struct {
	XMLName xml.Name
	uspsError
	Package *packageNode `xml:"Package"`
}

type packageNode struct {
	ID      string        `xml:"ID,attr"`
	Error   *uspsError    `xml:"Error"`
	Postage []postageNode `xml:"Postage"`
	Service []intlService `xml:"Service"`
}

// postageNode is one domestic (RateV4) quote.
type postageNode struct {
	ClassID         string           `xml:"CLASSID,attr"`
	MailService     string           `xml:"MailService"`
	Rate            string           `xml:"Rate"`
	CommercialRate  string           `xml:"CommercialRate"`
	SpecialServices []specialService `xml:"SpecialServices>SpecialService"`
}

// intlService is one international (IntlRateV2) quote.
type intlService struct {
	ID             string           `xml:"ID,attr"`
	Postage        string           `xml:"Postage"`
	SvcDescription string           `xml:"SvcDescription"`
	SvcCommitments string           `xml:"SvcCommitments"`
	ExtraServices  []specialService `xml:"ExtraServices>ExtraService"`
}

type specialService struct {
	ServiceID   string `xml:"ServiceID"`
	ServiceName string `xml:"ServiceName"`
	Available   string `xml:"Available"`
	Price       string `xml:"Price"`
}

// quote is a domestic or international rate flattened to what the
// shipping model needs.
type quote struct {
	MailService string
	Rate        string
	Services    []specialService
}

func (p *packageNode) quotes() []quote {
	out := make([]quote, 0, len(p.Postage)+len(p.Service))
	for _, postage := range p.Postage {
		out = append(out, quote{MailService: postage.MailService, Rate: postage.Rate, Services: postage.SpecialServices})
	}
	for _, svc := range p.Service {
		out = append(out, quote{MailService: svc.SvcDescription, Rate: svc.Postage, Services: svc.ExtraServices})
	}
	return out
}

func (e uspsError) isSet() bool {
	return e.Number != "" || e.Description != ""
}
