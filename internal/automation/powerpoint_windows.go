// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build windows

package automation

import (
	"fmt"
	"path/filepath"
	"runtime"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"github.com/pdiddy/pptx2pdf/internal/logging"
)

const progIDPowerPoint = "PowerPoint.Application"

// sFalse is returned by CoInitializeEx when COM is already initialised on
// the thread. It still requires a matching CoUninitialize.
const sFalse = 0x00000001

// PowerPoint drives Microsoft PowerPoint over COM automation.
type PowerPoint struct {
	log logging.Logger
}

// NewPowerPoint creates the PowerPoint backend.
func NewPowerPoint(log logging.Logger) *PowerPoint {
	return &PowerPoint{log: logging.OrNoOp(log)}
}

func (p *PowerPoint) Name() string { return namePowerPoint }

// Available reports whether the PowerPoint COM class is registered.
func (p *PowerPoint) Available() bool {
	_, err := ole.ClassIDFrom(progIDPowerPoint)
	return err == nil
}

// Connect initialises COM on a locked OS thread and starts PowerPoint. The
// calling goroutine stays locked to its thread until Quit.
func (p *PowerPoint) Connect() (Session, error) {
	runtime.LockOSThread()
	s := &pptSession{log: p.log}

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		oleErr, ok := err.(*ole.OleError)
		if !ok || oleErr.Code() != sFalse {
			runtime.UnlockOSThread()
			return nil, fmt.Errorf("initialising COM: %w", err)
		}
	}
	s.comInit = true

	unknown, err := oleutil.CreateObject(progIDPowerPoint)
	if err != nil {
		_ = s.Quit()
		return nil, fmt.Errorf("starting %s: %w", progIDPowerPoint, err)
	}
	app, err := unknown.QueryInterface(ole.IID_IDispatch)
	unknown.Release()
	if err != nil {
		_ = s.Quit()
		return nil, fmt.Errorf("querying %s dispatch: %w", progIDPowerPoint, err)
	}
	s.app = app

	// PowerPoint refuses to hide its main window over automation; documents
	// are opened windowless instead.
	if _, err := oleutil.PutProperty(app, "Visible", true); err != nil {
		_ = s.Quit()
		return nil, fmt.Errorf("showing %s: %w", progIDPowerPoint, err)
	}

	presentations, err := oleutil.GetProperty(app, "Presentations")
	if err != nil {
		_ = s.Quit()
		return nil, fmt.Errorf("reading Presentations: %w", err)
	}
	s.presentations = presentations.ToIDispatch()

	p.log.Debug("connected to PowerPoint")
	return s, nil
}

type pptSession struct {
	app           *ole.IDispatch
	presentations *ole.IDispatch
	comInit       bool
	closed        bool
	log           logging.Logger
}

func (s *pptSession) Open(path string) (Document, error) {
	if s.closed || s.presentations == nil {
		return nil, fmt.Errorf("opening %s: session already quit", path)
	}
	if err := checkSource(path); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	// Open(FileName, ReadOnly, Untitled, WithWindow)
	v, err := oleutil.CallMethod(s.presentations, "Open", abs, true, false, false)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", abs, err)
	}
	return &pptDocument{pres: v.ToIDispatch(), source: abs}, nil
}

// Quit asks PowerPoint to exit and releases every COM reference held by the
// session. It runs at most once.
func (s *pptSession) Quit() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var quitErr error
	if s.presentations != nil {
		s.presentations.Release()
		s.presentations = nil
	}
	if s.app != nil {
		if _, err := oleutil.CallMethod(s.app, "Quit"); err != nil {
			quitErr = fmt.Errorf("quitting %s: %w", progIDPowerPoint, err)
		}
		s.app.Release()
		s.app = nil
	}
	if s.comInit {
		ole.CoUninitialize()
		runtime.UnlockOSThread()
	}
	s.log.Debug("PowerPoint session closed")
	return quitErr
}

type pptDocument struct {
	pres   *ole.IDispatch
	source string
	closed bool
}

func (d *pptDocument) SaveAs(path string, format FormatCode) error {
	if d.closed {
		return ErrDocumentClosed
	}
	if err := checkFormat(format); err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	if _, err := oleutil.CallMethod(d.pres, "SaveAs", abs, int32(format)); err != nil {
		return fmt.Errorf("saving %s: %w", abs, err)
	}
	return nil
}

func (d *pptDocument) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	_, err := oleutil.CallMethod(d.pres, "Close")
	d.pres.Release()
	if err != nil {
		return fmt.Errorf("closing %s: %w", d.source, err)
	}
	return nil
}

// Saved reads the presentation's Saved flag (an MsoTriState; zero is false).
func (d *pptDocument) Saved() bool {
	if d.closed {
		return true
	}
	v, err := oleutil.GetProperty(d.pres, "Saved")
	if err != nil {
		return false
	}
	defer v.Clear()
	switch val := v.Value().(type) {
	case int32:
		return val != 0
	case bool:
		return val
	default:
		return false
	}
}
