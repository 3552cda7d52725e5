package amf

import (
	"encoding/xml"
	"fmt"
	"strings"
)

type Unit string

const (
	Millimeter Unit = "millimeter"
	Inch       Unit = "inch"
	Feet       Unit = "feet"
	Meter      Unit = "meter"
	Micron     Unit = "micron"
)

// Version written by the encoder
const Version = "1.1"

// ParseUnit accepts the unit names of the format, case insensitive.
// An empty string is millimeter.
func ParseUnit(s string) (Unit, error) {
	if s == "" {
		return Millimeter, nil
	}
	u := Unit(strings.ToLower(strings.TrimSpace(s)))
	switch u {
	case Millimeter, Inch, Feet, Meter, Micron:
		return u, nil
	}
	return "", fmt.Errorf("unknown unit %q", s)
}

// Millimeters is the length of one unit in millimeters
func (u Unit) Millimeters() float64 {
	switch u {
	case Inch:
		return 25.4
	case Feet:
		return 304.8
	case Meter:
		return 1000
	case Micron:
		return 0.001
	}
	return 1
}

// Header holds the attributes of the root element
type Header struct {
	Unit    Unit
	Version string
}

func (h Header) String() string {
	return fmt.Sprintf("Unit: %s, Version: %s", h.Unit, h.Version)
}

func readHeader(start xml.StartElement) (h Header, err error) {
	h.Unit = Millimeter
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "unit":
			h.Unit, err = ParseUnit(attr.Value)
			if err != nil {
				return
			}
		case "version":
			h.Version = attr.Value
		}
	}
	return
}

func (h Header) attrs() []xml.Attr {
	return []xml.Attr{
		{Name: xml.Name{Local: "unit"}, Value: string(h.Unit)},
		{Name: xml.Name{Local: "version"}, Value: h.Version},
	}
}
