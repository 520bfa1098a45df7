// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package automation drives a presentation application through its
// automation surface. An Application is connected once per batch to obtain
// a Session; the session opens Documents, each of which is saved in the
// target format and closed. The session is owned by the caller and must be
// released with Quit exactly once.
//
// Backends: PowerPoint over COM (Windows), LibreOffice in headless mode, and
// LibreOffice inside a container image.
package automation

import (
	"errors"
	"fmt"
	"os"
)

// FormatCode identifies a save-as target format understood by the host
// application.
type FormatCode int

// FormatPDF is the host application's save-as code for PDF output.
const FormatPDF FormatCode = 32

// Extension returns the filename extension for documents saved in f.
func (f FormatCode) Extension() string {
	if f == FormatPDF {
		return ".pdf"
	}
	return ""
}

var (
	// ErrUnsupportedFormat is returned by SaveAs for any format but FormatPDF.
	ErrUnsupportedFormat = errors.New("unsupported target format")

	// ErrUnsupportedPlatform is returned by Connect when the backend cannot
	// run on the current operating system.
	ErrUnsupportedPlatform = errors.New("backend not supported on this platform")

	// ErrDocumentClosed is returned when a closed document is used.
	ErrDocumentClosed = errors.New("document already closed")
)

// Application is a host application that can be connected to.
type Application interface {
	// Name returns the backend name ("powerpoint", "libreoffice", "container").
	Name() string

	// Available reports whether the host application appears to be
	// installed and usable, without starting it.
	Available() bool

	// Connect starts or attaches to the host application. On failure any
	// partially started instance is shut down before the error is returned.
	Connect() (Session, error)
}

// Session is an exclusive connection to a running host application.
type Session interface {
	// Open loads the presentation at path without a visible document window.
	Open(path string) (Document, error)

	// Quit shuts the host application down. Calling Quit more than once is
	// a no-op.
	Quit() error
}

// Document is a presentation opened in a session.
type Document interface {
	// SaveAs writes the document to path in the given format.
	SaveAs(path string, format FormatCode) error

	// Close releases the document.
	Close() error

	// Saved reports whether the document has no unsaved changes.
	Saved() bool
}

// checkSource verifies that path names a readable regular file.
func checkSource(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("opening %s: not a regular file", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	return f.Close()
}

func checkFormat(format FormatCode) error {
	if format != FormatPDF {
		return fmt.Errorf("save as format %d: %w", format, ErrUnsupportedFormat)
	}
	return nil
}
