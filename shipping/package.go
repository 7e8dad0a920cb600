package shipping

import (
	"fmt"
	"math"
	"strconv"
)

type Size string

const (
	SizeRegular Size = "REGULAR"
	SizeLarge   Size = "LARGE"
)

type Shape string

const (
	ShapeRectangular    Shape = "RECTANGULAR"
	ShapeNonRectangular Shape = "NONRECTANGULAR"
)

// largeDimension is the size in inches above which any dimension makes a
// package LARGE.
const largeDimension = 12

// Weight is always whole pounds plus the remaining ounces.
type Weight struct {
	Pounds int
	Ounces float64
}

// OuncesWeight normalizes a single ounce value into pounds and ounces.
func OuncesWeight(ounces float64) Weight {
	pounds := math.Floor(ounces / 16)
	return Weight{
		Pounds: int(pounds),
		Ounces: ounces - pounds*16,
	}
}

// PoundsOunces stores an explicit pounds/ounces pair unchanged.
func PoundsOunces(pounds int, ounces float64) Weight {
	return Weight{Pounds: pounds, Ounces: ounces}
}

func (w Weight) String() string {
	return fmt.Sprintf("%dlb %soz", w.Pounds, strconv.FormatFloat(w.Ounces, 'f', -1, 64))
}

// Package describes a shippable item. Dimensions are in inches; Origin and
// Destination are zip codes.
//
// A carrier may memoize its partially formatted rate request on the package
// (see RequestTemplate). The memo has a single writer: do not share one
// Package across concurrent rate requests without external locking.
type Package struct {
	Weight      Weight
	Length      float64
	Width       float64
	Height      float64
	Rectangular bool
	Origin      string
	Destination string
	TrackingID  string

	requestTemplate string
}

func NewPackage(weight Weight, length, width, height float64, rectangular bool, origin, destination string) *Package {
	return &Package{
		Weight:      weight,
		Length:      length,
		Width:       width,
		Height:      height,
		Rectangular: rectangular,
		Origin:      origin,
		Destination: destination,
	}
}

// Size is LARGE when any dimension exceeds 12 inches.
func (p *Package) Size() Size {
	for _, dim := range []float64{p.Width, p.Height, p.Length} {
		if dim > largeDimension {
			return SizeLarge
		}
	}
	return SizeRegular
}

func (p *Package) Shape() Shape {
	if p.Rectangular {
		return ShapeRectangular
	}
	return ShapeNonRectangular
}

// RequestTemplate returns the carrier request skeleton cached by a previous
// rate request, if any.
func (p *Package) RequestTemplate() (string, bool) {
	return p.requestTemplate, p.requestTemplate != ""
}

func (p *Package) SetRequestTemplate(tmpl string) {
	p.requestTemplate = tmpl
}
