package html2pdf

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var pdfSignature = []byte("%PDF-")

var disablePDFConfigDir sync.Once

// verifyPDF checks the file signature and parses the document structure,
// returning the page count. Engine output that fails here is never handed
// to the caller.
func verifyPDF(data []byte) (int, error) {
	if !bytes.HasPrefix(data, pdfSignature) {
		return 0, &RenderError{Stage: StageVerify, Err: errors.New("output lacks %PDF- signature")}
	}

	// pdfcpu otherwise writes a config file under the user config dir.
	disablePDFConfigDir.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pages, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return 0, &RenderError{Stage: StageVerify, Err: fmt.Errorf("parsing PDF: %w", err)}
	}
	if pages < 1 {
		return 0, &RenderError{Stage: StageVerify, Err: errors.New("PDF has no pages")}
	}
	return pages, nil
}
