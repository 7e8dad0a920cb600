package courier

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"ponyexpress/shipping"
)

// Operation identifies one carrier service endpoint.
type Operation int

const (
	Tracking Operation = iota
	AddressValidation
	DomesticRate
	InternationalRate
)

func (o Operation) String() string {
	switch o {
	case Tracking:
		return "Tracking"
	case AddressValidation:
		return "Address Validation"
	case DomesticRate:
		return "Domestic Rate"
	case InternationalRate:
		return "International Rate"
	}
	return "Unknown"
}

// RateOperation maps a rate type onto its endpoint. An empty type is
// domestic.
func RateOperation(rateType shipping.RateType) (Operation, error) {
	switch rateType {
	case shipping.Domestic, "":
		return DomesticRate, nil
	case shipping.International:
		return InternationalRate, nil
	}
	return 0, errors.Wrapf(ErrInvalidArgument, "unknown rate type %q", rateType)
}

// Endpoints holds URL templates per operation. Templates reference
// parameters as {name}; username and password are always available.
type Endpoints map[Operation]string

var placeholder = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// FormatEndpoint substitutes {name} placeholders with percent-encoded
// values and re-quotes whatever the template itself leaves unsafe, so a
// template may embed a raw XML document in its query. A placeholder with no
// matching parameter is ErrNotConfigured.
func FormatEndpoint(template string, params map[string]string) (string, error) {
	for _, m := range placeholder.FindAllStringSubmatch(template, -1) {
		if _, ok := params[m[1]]; !ok {
			return "", errors.Wrapf(ErrNotConfigured, "endpoint template references unknown parameter %s", m[0])
		}
	}

	pairs := make([]string, 0, len(params)*2)
	for name, value := range params {
		pairs = append(pairs, "{"+name+"}", escapeComponent(value))
	}
	return requote(strings.NewReplacer(pairs...).Replace(template)), nil
}

func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

const upperhex = "0123456789ABCDEF"

// requote percent-encodes bytes that are neither reserved nor unreserved
// URI characters. Existing %XX escapes are kept.
func requote(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(c)
		case c != '%' && isURIChar(c):
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&15])
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func isURIChar(c byte) bool {
	if 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' {
		return true
	}
	return strings.IndexByte("-._~:/?#[]@!$&'()*+,;=", c) >= 0
}
