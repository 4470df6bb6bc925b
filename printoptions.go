package html2pdf

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"

	"github.com/alnah/go-html2pdf/internal/assets"
)

// AssetLoader supplies the header/footer templates and the footer logo.
// Templates are named "header" and "footer", the logo "footer-logo".
type AssetLoader interface {
	LoadTemplate(name string) (string, error)
	LoadImage(name string) ([]byte, error)
}

// PrintConfig holds the fixed business values of the printed page.
type PrintConfig struct {
	MarginTop    string // e.g. "1cm"
	MarginRight  string
	MarginBottom string
	MarginLeft   string

	PreferCSSPageSize   bool
	PrintBackground     bool
	DisplayHeaderFooter bool

	Attribution string // footer legal text
	Mission     string // footer tagline
}

// DefaultPrintConfig returns the production page layout: 1cm above for the
// page counter, 2cm below for the footer, full-bleed sides.
func DefaultPrintConfig() PrintConfig {
	return PrintConfig{
		MarginTop:           "1cm",
		MarginRight:         "0cm",
		MarginBottom:        "2cm",
		MarginLeft:          "0cm",
		PreferCSSPageSize:   true,
		PrintBackground:     true,
		DisplayHeaderFooter: true,
		Attribution:         assets.DefaultAttribution,
		Mission:             assets.DefaultMission,
	}
}

// footerData fills the footer template.
type footerData struct {
	Attribution string
	Mission     string
	Logo        template.URL
}

// PrintOptionsBuilder assembles RenderOptions. Templates are resolved and
// executed once at construction; Build is pure.
type PrintOptionsBuilder struct {
	opts RenderOptions
}

// NewPrintOptionsBuilder parses the margins and renders the header and footer
// from loader. A nil loader selects the embedded assets.
func NewPrintOptionsBuilder(cfg PrintConfig, loader AssetLoader) (*PrintOptionsBuilder, error) {
	if loader == nil {
		loader = assets.NewEmbeddedLoader()
	}

	var opts RenderOptions
	margins := []struct {
		name string
		in   string
		out  *Length
	}{
		{"top", cfg.MarginTop, &opts.MarginTop},
		{"right", cfg.MarginRight, &opts.MarginRight},
		{"bottom", cfg.MarginBottom, &opts.MarginBottom},
		{"left", cfg.MarginLeft, &opts.MarginLeft},
	}
	for _, m := range margins {
		l, err := ParseLength(m.in)
		if err != nil {
			return nil, fmt.Errorf("margin %s: %w", m.name, err)
		}
		*m.out = l
	}

	deco, err := assets.LoadDecorations(loader)
	if err != nil {
		return nil, fmt.Errorf("loading page decorations: %w", err)
	}

	footer, err := renderFooter(deco.Footer, footerData{
		Attribution: cfg.Attribution,
		Mission:     cfg.Mission,
		Logo:        jpegDataURI(deco.Logo),
	})
	if err != nil {
		return nil, err
	}

	opts.HeaderTemplate = deco.Header
	opts.FooterTemplate = footer
	opts.DisplayHeaderFooter = cfg.DisplayHeaderFooter
	opts.PrintBackground = cfg.PrintBackground
	opts.PreferCSSPageSize = cfg.PreferCSSPageSize

	return &PrintOptionsBuilder{opts: opts}, nil
}

// Build returns the render options. RenderOptions holds only values, so
// each call returns an independent copy.
func (b *PrintOptionsBuilder) Build() RenderOptions {
	return b.opts
}

func renderFooter(src string, data footerData) (string, error) {
	tmpl, err := template.New("footer").Parse(src)
	if err != nil {
		return "", fmt.Errorf("parsing footer template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing footer template: %w", err)
	}
	return buf.String(), nil
}

// jpegDataURI inlines img so the footer needs no network access.
func jpegDataURI(img []byte) template.URL {
	if len(img) == 0 {
		return ""
	}
	// #nosec G203 -- base64 of image bytes, no markup
	return template.URL("data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(img))
}
