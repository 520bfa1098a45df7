// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build !windows

package automation

import (
	"fmt"
	"runtime"

	"github.com/pdiddy/pptx2pdf/internal/logging"
)

// PowerPoint drives Microsoft PowerPoint over COM automation. COM is only
// available on Windows; elsewhere the backend is never available.
type PowerPoint struct {
	log logging.Logger
}

// NewPowerPoint creates the PowerPoint backend.
func NewPowerPoint(log logging.Logger) *PowerPoint {
	return &PowerPoint{log: logging.OrNoOp(log)}
}

func (p *PowerPoint) Name() string { return namePowerPoint }

func (p *PowerPoint) Available() bool { return false }

func (p *PowerPoint) Connect() (Session, error) {
	return nil, fmt.Errorf("PowerPoint on %s: %w", runtime.GOOS, ErrUnsupportedPlatform)
}
