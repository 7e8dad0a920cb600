package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"ponyexpress/courier"
)

const (
	uspsAPI = "https://production.shippingapis.com/ShippingAPI.dll"

	DefaultTrackingEndpoint = uspsAPI + `?API=TrackV2&XML=` +
		`<TrackFieldRequest USERID="{username}">` +
		`<TrackID ID="{tracking_id}"></TrackID>` +
		`</TrackFieldRequest>`

	DefaultAddressValidationEndpoint = uspsAPI + `?API=Verify&XML=` +
		`<AddressValidateRequest USERID="{username}">` +
		`<IncludeOptionalElements>true</IncludeOptionalElements>` +
		`<ReturnCarrierRoute>true</ReturnCarrierRoute>` +
		`<Address ID="0">` +
		`<FirmName>{name}</FirmName>` +
		`<Address1>{address_1}</Address1>` +
		`<Address2>{address_2}</Address2>` +
		`<City>{city}</City>` +
		`<State>{state}</State>` +
		`<Zip5>{zip5}</Zip5>` +
		`<Zip4>{zip4}</Zip4>` +
		`</Address>` +
		`</AddressValidateRequest>`

	DefaultDomesticRateEndpoint = uspsAPI + `?API=RateV4&XML=` +
		`<RateV4Request USERID="{username}">` +
		`<Revision>2</Revision>` +
		`{package}` +
		`</RateV4Request>`

	DefaultInternationalRateEndpoint = uspsAPI + `?API=IntlRateV2&XML=` +
		`<IntlRateV2Request USERID="{username}">` +
		`<Revision>2</Revision>` +
		`{package}` +
		`</IntlRateV2Request>`
)

// DefaultHTTPTimeout also replaces an unparsable or non-positive
// http.timeout.
const DefaultHTTPTimeout = 20 * time.Second

type Config struct {
	USPSUsername              string
	USPSPassword              string
	TrackingEndpoint          string
	AddressValidationEndpoint string
	DomesticRateEndpoint      string
	InternationalRateEndpoint string
	HTTPTimeout               time.Duration
	LogLevel                  string
}

// LoadConfig reads config.json from the working directory, overridden by
// environment variables such as USPS_USERNAME or HTTP_TIMEOUT.
func LoadConfig() Config {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	_ = v.ReadInConfig()

	return fromViper(v)
}

func fromViper(v *viper.Viper) Config {
	timeout := v.GetDuration("http.timeout")
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}

	return Config{
		USPSUsername:              v.GetString("usps.username"),
		USPSPassword:              v.GetString("usps.password"),
		TrackingEndpoint:          v.GetString("usps.tracking_endpoint"),
		AddressValidationEndpoint: v.GetString("usps.address_validation_endpoint"),
		DomesticRateEndpoint:      v.GetString("usps.domestic_rate_endpoint"),
		InternationalRateEndpoint: v.GetString("usps.international_rate_endpoint"),
		HTTPTimeout:               timeout,
		LogLevel:                  v.GetString("log.level"),
	}
}

// Endpoints returns the configured USPS templates. Empty templates are
// left out so the courier reports them as not configured.
func (c Config) Endpoints() courier.Endpoints {
	endpoints := courier.Endpoints{}
	for op, tmpl := range map[courier.Operation]string{
		courier.Tracking:          c.TrackingEndpoint,
		courier.AddressValidation: c.AddressValidationEndpoint,
		courier.DomesticRate:      c.DomesticRateEndpoint,
		courier.InternationalRate: c.InternationalRateEndpoint,
	} {
		if strings.TrimSpace(tmpl) != "" {
			endpoints[op] = tmpl
		}
	}
	return endpoints
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("usps.username", "")
	v.SetDefault("usps.password", "")
	v.SetDefault("usps.tracking_endpoint", DefaultTrackingEndpoint)
	v.SetDefault("usps.address_validation_endpoint", DefaultAddressValidationEndpoint)
	v.SetDefault("usps.domestic_rate_endpoint", DefaultDomesticRateEndpoint)
	v.SetDefault("usps.international_rate_endpoint", DefaultInternationalRateEndpoint)
	v.SetDefault("http.timeout", DefaultHTTPTimeout.String())
	v.SetDefault("log.level", "info")
}
