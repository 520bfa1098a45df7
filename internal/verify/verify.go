// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package verify checks that converted output is a readable PDF.
package verify

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Verifier inspects a written document and returns its page count.
type Verifier interface {
	Verify(path string) (pages int, err error)
}

// PDFValidator validates files with pdfcpu in relaxed mode, which accepts
// the minor spec deviations common in office-suite exports.
type PDFValidator struct {
	conf *model.Configuration
}

// NewPDFValidator returns a validator using pdfcpu's default configuration
// with relaxed validation.
func NewPDFValidator() *PDFValidator {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PDFValidator{conf: conf}
}

// Verify validates the PDF at path and returns its page count. A document
// with no pages is rejected. pdfcpu panics on some malformed files; those
// panics are returned as errors.
func (v *PDFValidator) Verify(path string) (pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = 0, fmt.Errorf("validating %s: %v", path, r)
		}
	}()

	if err := api.ValidateFile(path, v.conf); err != nil {
		return 0, fmt.Errorf("validating %s: %w", path, err)
	}
	pages, err = api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("counting pages in %s: %w", path, err)
	}
	if pages == 0 {
		return 0, fmt.Errorf("validating %s: document has no pages", path)
	}
	return pages, nil
}
