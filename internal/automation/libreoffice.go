// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package automation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pdiddy/pptx2pdf/internal/logging"
)

const nameLibreOffice = "libreoffice"

// officeBinaries lists the LibreOffice executables tried, in order.
var officeBinaries = []string{"soffice", "libreoffice"}

// commander abstracts command execution for testing.
type commander interface {
	LookPath(file string) (string, error)
	Run(name string, args []string, stdout io.Writer) error
}

// osCommander is the production commander backed by os/exec. Stderr is
// captured so failures carry the application's own message.
type osCommander struct{}

func (osCommander) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osCommander) Run(name string, args []string, stdout io.Writer) error {
	var stderr bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

// LibreOffice drives a locally installed LibreOffice in headless mode. Each
// session runs against a private user profile so it never shares state with
// a desktop instance the user may have open.
type LibreOffice struct {
	exec    commander
	tempDir string
	log     logging.Logger
}

// NewLibreOffice creates the headless LibreOffice backend.
func NewLibreOffice(log logging.Logger) *LibreOffice {
	return &LibreOffice{exec: osCommander{}, log: logging.OrNoOp(log)}
}

func (l *LibreOffice) Name() string { return nameLibreOffice }

func (l *LibreOffice) Available() bool {
	_, err := l.binary()
	return err == nil
}

func (l *LibreOffice) binary() (string, error) {
	for _, bin := range officeBinaries {
		if path, err := l.exec.LookPath(bin); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("LibreOffice not found on PATH (tried %s)", strings.Join(officeBinaries, ", "))
}

// Connect locates the binary, creates the session profile and checks that
// the application starts.
func (l *LibreOffice) Connect() (Session, error) {
	bin, err := l.binary()
	if err != nil {
		return nil, err
	}

	profile, err := os.MkdirTemp(l.tempDir, "pptx2pdf-profile-")
	if err != nil {
		return nil, fmt.Errorf("creating LibreOffice profile: %w", err)
	}

	s := &officeSession{
		bin:     bin,
		profile: profile,
		exec:    l.exec,
		log:     l.log,
	}

	var version bytes.Buffer
	if err := l.exec.Run(bin, append(s.baseArgs(), "--version"), &version); err != nil {
		_ = s.Quit()
		return nil, fmt.Errorf("starting %s: %w", bin, err)
	}
	l.log.Debug("connected to LibreOffice", "binary", bin, "version", strings.TrimSpace(version.String()))
	return s, nil
}

type officeSession struct {
	bin     string
	profile string
	exec    commander
	log     logging.Logger
	closed  bool
}

// baseArgs are passed on every invocation of the session binary.
func (s *officeSession) baseArgs() []string {
	return []string{
		"--headless",
		"--norestore",
		"--nolockcheck",
		"-env:UserInstallation=" + fileURL(s.profile),
	}
}

func (s *officeSession) Open(path string) (Document, error) {
	if s.closed {
		return nil, errors.New("session already quit")
	}
	if err := checkSource(path); err != nil {
		return nil, err
	}
	return &officeDocument{
		source: path,
		convert: func(src, outDir string) error {
			args := append(s.baseArgs(), "--convert-to", "pdf", "--outdir", outDir, src)
			return s.exec.Run(s.bin, args, io.Discard)
		},
		log: s.log,
	}, nil
}

func (s *officeSession) Quit() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := os.RemoveAll(s.profile); err != nil {
		return fmt.Errorf("removing LibreOffice profile: %w", err)
	}
	return nil
}

// officeDocument is a presentation queued for conversion by a LibreOffice
// process. The conversion writes into a scratch directory next to the target
// and the result is renamed into place, so a failed save leaves no output.
type officeDocument struct {
	source  string
	convert func(src, outDir string) error
	log     logging.Logger
	saved   bool
	closed  bool
}

func (d *officeDocument) SaveAs(path string, format FormatCode) error {
	if d.closed {
		return ErrDocumentClosed
	}
	if err := checkFormat(format); err != nil {
		return err
	}

	scratch, err := os.MkdirTemp(filepath.Dir(path), ".pptx2pdf-")
	if err != nil {
		return fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	if err := d.convert(d.source, scratch); err != nil {
		return fmt.Errorf("converting %s: %w", filepath.Base(d.source), err)
	}
	if err := collectOutput(scratch, d.source, path, format); err != nil {
		return err
	}
	d.saved = true
	d.log.Debug("saved document", "source", d.source, "target", path)
	return nil
}

func (d *officeDocument) Close() error {
	d.closed = true
	return nil
}

func (d *officeDocument) Saved() bool { return d.saved }

// collectOutput moves the file LibreOffice wrote for src out of scratch and
// onto target.
func collectOutput(scratch, src, target string, format FormatCode) error {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	produced := filepath.Join(scratch, base+format.Extension())

	info, err := os.Stat(produced)
	if err != nil {
		return fmt.Errorf("converting %s: no output produced", filepath.Base(src))
	}
	if info.Size() == 0 {
		return fmt.Errorf("converting %s: empty output produced", filepath.Base(src))
	}
	if err := os.Rename(produced, target); err != nil {
		return fmt.Errorf("moving output to %s: %w", target, err)
	}
	return nil
}

// fileURL renders an absolute path as a file:// URL.
func fileURL(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return "file://" + p
}
