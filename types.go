package html2pdf

import (
	"strings"
	"time"

	"github.com/go-rod/rod/lib/proto"
)

// ConversionRequest is the input of one conversion.
type ConversionRequest struct {
	HTML string // Complete HTML document (required)
}

// Validate rejects empty or whitespace-only HTML.
func (r ConversionRequest) Validate() error {
	if strings.TrimSpace(r.HTML) == "" {
		return ErrEmptyHTML
	}
	return nil
}

// RenderedDocument is the output of one conversion. The caller owns PDF.
type RenderedDocument struct {
	PDF   []byte
	Pages int // Page count read back from the PDF structure
}

// RenderOptions is the immutable print configuration for one request.
type RenderOptions struct {
	MarginTop    Length
	MarginRight  Length
	MarginBottom Length
	MarginLeft   Length

	HeaderTemplate string
	FooterTemplate string

	DisplayHeaderFooter bool
	PrintBackground     bool
	PreferCSSPageSize   bool
}

// toProto converts the options to the DevTools print request.
// Margins are always sent explicitly so zero means zero, not the engine
// default.
func (o RenderOptions) toProto() *proto.PagePrintToPDF {
	return &proto.PagePrintToPDF{
		MarginTop:           floatPtr(o.MarginTop.Inches()),
		MarginRight:         floatPtr(o.MarginRight.Inches()),
		MarginBottom:        floatPtr(o.MarginBottom.Inches()),
		MarginLeft:          floatPtr(o.MarginLeft.Inches()),
		HeaderTemplate:      o.HeaderTemplate,
		FooterTemplate:      o.FooterTemplate,
		DisplayHeaderFooter: o.DisplayHeaderFooter,
		PrintBackground:     o.PrintBackground,
		PreferCSSPageSize:   o.PreferCSSPageSize,
	}
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

// Timeouts bounds each blocking stage of a conversion.
type Timeouts struct {
	Launch time.Duration // start the browser and open a page
	Load   time.Duration // set content, load event, fonts
	Print  time.Duration // print and read the PDF stream
}

// Default stage timeouts.
const (
	DefaultLaunchTimeout = 30 * time.Second
	DefaultLoadTimeout   = 30 * time.Second
	DefaultPrintTimeout  = 60 * time.Second
)

// DefaultTimeouts returns the default stage timeouts.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Launch: DefaultLaunchTimeout,
		Load:   DefaultLoadTimeout,
		Print:  DefaultPrintTimeout,
	}
}

// withDefaults fills zero fields from DefaultTimeouts.
func (t Timeouts) withDefaults() Timeouts {
	d := DefaultTimeouts()
	if t.Launch > 0 {
		d.Launch = t.Launch
	}
	if t.Load > 0 {
		d.Load = t.Load
	}
	if t.Print > 0 {
		d.Print = t.Print
	}
	return d
}
