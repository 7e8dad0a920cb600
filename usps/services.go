package usps

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"ponyexpress/courier"
)

// servicePatterns map a USPS mail service description to the service
// code RateV4 accepts. Order matters: the first match wins.
var servicePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(PRIORITY(?: MAIL EXPRESS)?(?: COMMERCIAL)?).*`),
	regexp.MustCompile(`(MEDIA)`),
	regexp.MustCompile(`(LIBRARY)`),
	regexp.MustCompile(`(FIRST[ -]CLASS)`),
}

var emptyTagPair = regexp.MustCompile(`<([a-zA-Z]+)></([a-zA-Z]+)>`)

// ServiceMethod derives the request service code from a mail service
// description such as "Priority Mail Express 1-Day<sup>™</sup>".
func ServiceMethod(mailService string) (string, error) {
	name := strings.ToUpper(stripEmptyTags(asciiOnly(mailService)))
	for _, p := range servicePatterns {
		if m := p.FindStringSubmatch(name); m != nil {
			return strings.ReplaceAll(m[1], "-", " "), nil
		}
	}
	return "", errors.Wrapf(courier.ErrInvalidArgument, "unrecognized USPS mail service %q", mailService)
}

func asciiOnly(s string) string {
	nonASCII := runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })
	out, _, err := transform.String(runes.Remove(nonASCII), s)
	if err != nil {
		return s
	}
	return out
}

// stripEmptyTags drops markup such as <sup></sup> left behind once the
// trademark symbols are removed.
func stripEmptyTags(s string) string {
	return emptyTagPair.ReplaceAllStringFunc(s, func(tags string) string {
		m := emptyTagPair.FindStringSubmatch(tags)
		if m[1] == m[2] {
			return ""
		}
		return tags
	})
}
