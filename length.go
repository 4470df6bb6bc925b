package html2pdf

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Unit is a physical length unit understood by the print engine.
type Unit string

// Supported units.
const (
	UnitInch       Unit = "in"
	UnitCentimeter Unit = "cm"
	UnitMillimeter Unit = "mm"
	UnitPixel      Unit = "px" // CSS pixel, 96 per inch
)

// Length is a non-negative physical length such as a page margin.
type Length struct {
	Value float64
	Unit  Unit
}

// inchesPer converts one unit to inches.
var inchesPer = map[Unit]float64{
	UnitInch:       1,
	UnitCentimeter: 1 / 2.54,
	UnitMillimeter: 1 / 25.4,
	UnitPixel:      1.0 / 96,
}

// ParseLength parses literals like "1cm", "0.5in", "12mm" or "96px".
// A bare "0" is accepted and means zero inches.
func ParseLength(s string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "0" {
		return Length{Unit: UnitInch}, nil
	}

	for unit := range inchesPer {
		num, ok := strings.CutSuffix(v, string(unit))
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return Length{}, fmt.Errorf("%w: %q", ErrInvalidLength, s)
		}
		if f < 0 {
			return Length{}, fmt.Errorf("%w: %q must not be negative", ErrInvalidLength, s)
		}
		return Length{Value: f, Unit: unit}, nil
	}

	return Length{}, fmt.Errorf("%w: %q (units: in, cm, mm, px)", ErrInvalidLength, s)
}

// Inches returns the length in inches, the unit DevTools expects.
func (l Length) Inches() float64 {
	return l.Value * inchesPer[l.Unit]
}

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + string(l.Unit)
}
