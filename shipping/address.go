package shipping

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Address holds the identifiers of a US postal address as returned by a
// carrier. State, city and street are stored title-cased.
type Address struct {
	State         string
	City          string
	Zip           string
	Street        string
	DeliveryPoint string
	CarrierRoute  string
}

func NewAddress(state, city, zip, street, deliveryPoint, carrierRoute string) *Address {
	return &Address{
		State:         titleCase(state),
		City:          titleCase(city),
		Zip:           zip,
		Street:        titleCase(street),
		DeliveryPoint: deliveryPoint,
		CarrierRoute:  carrierRoute,
	}
}

// SimpleZip returns the 5-digit prefix of a 5 or 5+4 digit zip code.
func (a *Address) SimpleZip() string {
	zip, _, _ := strings.Cut(a.Zip, "-")
	return zip
}

// AddressValidationResponse collects the addresses a carrier matched for a
// validation request. More than one address means the carrier corrected the
// input or found several candidates; callers must inspect all of them.
type AddressValidationResponse struct {
	Addresses []*Address
}

func NewAddressValidationResponse(addresses ...*Address) *AddressValidationResponse {
	r := &AddressValidationResponse{}
	r.Add(addresses...)
	return r
}

func (r *AddressValidationResponse) Add(addresses ...*Address) {
	if len(addresses) == 0 {
		return
	}
	r.Addresses = append(r.Addresses, addresses...)
}

// Validated reports whether the carrier matched at least one address.
func (r *AddressValidationResponse) Validated() bool {
	return len(r.Addresses) > 0
}

// Address returns the first matched address, or nil.
func (r *AddressValidationResponse) Address() *Address {
	if len(r.Addresses) == 0 {
		return nil
	}
	return r.Addresses[0]
}

// titleCase title-cases each word, where an apostrophe also starts a new
// word ("O'NEIL" -> "O'Neil"). It builds a fresh Caser per call; a Caser
// keeps state and must not be shared between goroutines.
func titleCase(s string) string {
	caser := cases.Title(language.Und)

	var b strings.Builder
	b.Grow(len(s))
	start := 0
	for start < len(s) {
		end := strings.IndexFunc(s[start:], isApostrophe)
		if end < 0 {
			b.WriteString(caser.String(s[start:]))
			break
		}
		b.WriteString(caser.String(s[start : start+end]))
		r, size := utf8.DecodeRuneInString(s[start+end:])
		b.WriteRune(r)
		start += end + size
	}
	return b.String()
}

func isApostrophe(r rune) bool {
	return r == '\'' || r == '\u2019'
}
