// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package automation

import (
	"fmt"
	"strings"

	"github.com/pdiddy/pptx2pdf/internal/logging"
	"github.com/pdiddy/pptx2pdf/pkg/types"
)

const namePowerPoint = "powerpoint"

// Options configures backend construction.
type Options struct {
	// Image is the container image for the container backend.
	Image string
	Log   logging.Logger
}

// Candidates returns every backend in auto-detection order: PowerPoint,
// local LibreOffice, containerised LibreOffice.
func Candidates(opts Options) []Application {
	return []Application{
		NewPowerPoint(opts.Log),
		NewLibreOffice(opts.Log),
		NewContainerOffice(opts.Image, opts.Log),
	}
}

// New returns the backend called name. BackendAuto (or an empty name)
// picks the first available candidate.
func New(name types.BackendName, opts Options) (Application, error) {
	switch types.BackendName(strings.ToLower(string(name))) {
	case types.BackendPowerPoint:
		return NewPowerPoint(opts.Log), nil
	case types.BackendLibreOffice:
		return NewLibreOffice(opts.Log), nil
	case types.BackendContainer:
		return NewContainerOffice(opts.Image, opts.Log), nil
	case types.BackendAuto, "":
		return Detect(Candidates(opts)...)
	default:
		return nil, fmt.Errorf("unknown backend %q: use auto, powerpoint, libreoffice, or container", name)
	}
}

// Detect returns the first available application. Returns an error if none
// is available.
func Detect(apps ...Application) (Application, error) {
	names := make([]string, 0, len(apps))
	for _, app := range apps {
		if app.Available() {
			return app, nil
		}
		names = append(names, app.Name())
	}
	return nil, fmt.Errorf("no presentation application available: tried %s", strings.Join(names, ", "))
}
