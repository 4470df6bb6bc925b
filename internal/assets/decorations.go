package assets

import (
	"errors"
	"fmt"
)

// Names of the built-in page decoration assets.
const (
	HeaderTemplateName = "header"
	FooterTemplateName = "footer"
	FooterLogoName     = "footer-logo"
)

// Default footer text.
const (
	DefaultAttribution = "Copyright © 2013 - 2022 Huntington Mark, LLC. This Huntington Learning Center is franchised by AJ Squared Education LLC under a franchise agreement with Huntington Learning Centers, Inc."
	DefaultMission     = "OUR MISSION IS TO GIVE EVERY STUDENT THE BEST EDUCATION POSSIBLE"
)

// Decorations holds the raw assets stamped on every PDF page.
// Footer is an html/template source; Header is used verbatim.
type Decorations struct {
	Header string
	Footer string
	Logo   []byte // JPEG, nil when no logo is available
}

// LoadDecorations loads the header, footer and footer logo through loader.
// Both templates are required. A missing logo is not an error: the footer
// renders without it.
func LoadDecorations(loader AssetLoader) (*Decorations, error) {
	header, err := loader.LoadTemplate(HeaderTemplateName)
	if err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrIncompleteDecorations, err)
		}
		return nil, err
	}

	footer, err := loader.LoadTemplate(FooterTemplateName)
	if err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrIncompleteDecorations, err)
		}
		return nil, err
	}

	logo, err := loader.LoadImage(FooterLogoName)
	if err != nil && !errors.Is(err, ErrImageNotFound) {
		return nil, err
	}

	return &Decorations{Header: header, Footer: footer, Logo: logo}, nil
}
