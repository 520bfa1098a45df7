// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert implements folder-at-a-time presentation conversion.
// ConvertFolder validates the folder, connects one automation session, runs
// every matching presentation through open, save-as and close, and tallies
// the outcomes. A single file's failure never aborts the batch.
package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/pdiddy/pptx2pdf/internal/automation"
	"github.com/pdiddy/pptx2pdf/internal/logging"
	"github.com/pdiddy/pptx2pdf/internal/verify"
	"github.com/pdiddy/pptx2pdf/pkg/types"
)

const (
	// DefaultExtension selects the presentations converted when no other
	// suffix is configured.
	DefaultExtension = ".pptx"

	// lockPrefix marks the owner files office suites leave next to open
	// documents.
	lockPrefix = "~$"
)

const (
	codeInvalidInput   = "INVALID_INPUT_DIRECTORY"
	codeConnectFailure = "APPLICATION_CONNECT_FAILED"
	codeInvalidOutput  = "INVALID_OUTPUT_DIRECTORY"
)

// Options tunes a conversion run. The zero value converts .pptx files to
// PDF without verification.
type Options struct {
	// Extension is the filename suffix of presentations to convert.
	Extension string

	// Format is the save-as target; only automation.FormatPDF is supported
	// by the backends.
	Format automation.FormatCode

	// Verifier, when set, checks every written output. A rejected output is
	// removed and the file counts as failed.
	Verifier verify.Verifier

	Log logging.Logger
}

func (o Options) withDefaults() Options {
	if o.Extension == "" {
		o.Extension = DefaultExtension
	}
	if o.Format == 0 {
		o.Format = automation.FormatPDF
	}
	o.Log = logging.OrNoOp(o.Log)
	return o
}

// NewJob derives the job for inputDir. The output folder is outputDirName
// inside inputDir; an empty name selects types.DefaultOutputDirName.
func NewJob(inputDir, outputDirName string) types.Job {
	if outputDirName == "" {
		outputDirName = types.DefaultOutputDirName
	}
	return types.Job{
		InputDir:  inputDir,
		OutputDir: filepath.Join(inputDir, outputDirName),
	}
}

// IsInvalidInput reports whether err means the input folder, or the output
// folder inside it, was unusable.
func IsInvalidInput(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryValidation)
}

// IsConnectFailure reports whether err means the presentation application
// could not be reached.
func IsConnectFailure(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryCommand)
}

// ConvertFolder converts every presentation in job.InputDir into
// job.OutputDir using a single session of app, printing per-file progress
// and a summary to w.
//
// It returns an invalid-input error without touching the filesystem when
// job.InputDir is not a directory, and a connect-failure error without
// opening any file when app cannot be connected. Per-file failures are
// reported in the summary, not as an error.
func ConvertFolder(app automation.Application, job types.Job, opts Options, w io.Writer) (types.Summary, error) {
	opts = opts.withDefaults()

	files, err := matchingFiles(job.InputDir, opts.Extension)
	if err != nil {
		return types.Summary{}, err
	}

	if err := ensureDir(job.OutputDir, w); err != nil {
		return types.Summary{}, err
	}

	fmt.Fprintf(w, "Starting conversion in folder: %s\n", job.InputDir)

	summary, err := convertWithSession(app, files, job.OutputDir, opts, w)
	if err != nil {
		return types.Summary{}, err
	}

	printSummary(w, summary)
	return summary, nil
}

// convertWithSession owns the session for the duration of the batch; the
// deferred Quit runs on every path after a successful Connect.
func convertWithSession(app automation.Application, files []string, outDir string, opts Options, w io.Writer) (types.Summary, error) {
	session, err := app.Connect()
	if err != nil {
		return types.Summary{}, goerrors.Wrap(err, goerrors.CategoryCommand,
			fmt.Sprintf("could not connect to %s: %v", app.Name(), err)).
			WithTextCode(codeConnectFailure)
	}
	defer func() {
		if err := session.Quit(); err != nil {
			opts.Log.Warn("session quit failed", "backend", app.Name(), "error", err)
		}
	}()

	fmt.Fprintf(w, "Connected to %s.\n", app.Name())
	opts.Log.Info("session started", "backend", app.Name(), "files", len(files))

	return ConvertFiles(session, files, outDir, opts, w), nil
}

// ConvertFiles runs each path through the session in order and returns the
// tally. It never stops early.
func ConvertFiles(s automation.Session, paths []string, outDir string, opts Options, w io.Writer) types.Summary {
	opts = opts.withDefaults()

	summary := types.Summary{OutputDir: outDir}
	for _, p := range paths {
		res := ConvertFile(s, p, outDir, opts, w)
		switch res.Status {
		case types.ConversionDone:
			summary.Converted++
		case types.ConversionFailed:
			summary.Failed++
		}
		summary.Results = append(summary.Results, res)
	}
	return summary
}

// ConvertFile opens src, saves it into outDir under the same base name and
// closes it. On failure the document is closed if it was left open and
// unsaved, and any output written for src is removed.
func ConvertFile(s automation.Session, src, outDir string, opts Options, w io.Writer) types.ConversionResult {
	opts = opts.withDefaults()
	start := time.Now()

	name := filepath.Base(src)
	base := strings.TrimSuffix(name, filepath.Ext(name))
	target := filepath.Join(outDir, base+opts.Format.Extension())

	res := types.ConversionResult{Name: name, SourcePath: src}
	fail := func(err error) types.ConversionResult {
		removeOutput(target, opts.Log)
		res.Status = types.ConversionFailed
		res.Reason = err.Error()
		res.Duration = time.Since(start)
		fmt.Fprintf(w, "failed:    %s (%v)\n", name, err)
		opts.Log.Error("conversion failed", "file", name, "error", err)
		return res
	}

	fmt.Fprintf(w, "converting: %s\n", name)

	doc, err := s.Open(src)
	if err != nil {
		return fail(err)
	}

	if err := doc.SaveAs(target, opts.Format); err != nil {
		if !doc.Saved() {
			if cerr := doc.Close(); cerr != nil {
				opts.Log.Warn("closing document after failed save", "file", name, "error", cerr)
			}
		}
		return fail(err)
	}

	if err := doc.Close(); err != nil {
		return fail(fmt.Errorf("closing %s: %w", name, err))
	}

	if opts.Verifier != nil {
		pages, err := opts.Verifier.Verify(target)
		if err != nil {
			return fail(err)
		}
		res.Pages = pages
	}

	res.Status = types.ConversionDone
	res.OutputPath = target
	res.Duration = time.Since(start)
	fmt.Fprintf(w, "converted: %s -> %s\n", name, filepath.Base(target))
	opts.Log.Debug("converted", "file", name, "target", target, "pages", res.Pages, "duration", res.Duration)
	return res
}

// matchingFiles lists files in dir ending in ext, in directory order. It is
// also the precondition check on the input folder.
func matchingFiles(dir, ext string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, invalidInput(dir, err, "does not exist")
	}
	if !info.IsDir() {
		return nil, invalidInput(dir, fmt.Errorf("%s is not a directory", dir), "is not a directory")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, invalidInput(dir, err, "cannot be read")
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ext) || strings.HasPrefix(name, lockPrefix) {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	return files, nil
}

func invalidInput(dir string, cause error, what string) error {
	return goerrors.Wrap(cause, goerrors.CategoryValidation,
		fmt.Sprintf("the folder %q %s", dir, what)).
		WithTextCode(codeInvalidInput)
}

// ensureDir creates dir when absent. An existing directory is not an error.
func ensureDir(dir string, w io.Writer) error {
	if info, err := os.Stat(dir); err == nil {
		if !info.IsDir() {
			return goerrors.Wrap(fmt.Errorf("%s is not a directory", dir), goerrors.CategoryValidation,
				fmt.Sprintf("the output path %q exists and is not a folder", dir)).
				WithTextCode(codeInvalidOutput)
		}
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output folder %s: %w", dir, err)
	}
	fmt.Fprintf(w, "Created output folder: %s\n", dir)
	return nil
}

func removeOutput(path string, log logging.Logger) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warn("removing output of failed conversion", "path", path, "error", err)
	}
}

func printSummary(w io.Writer, s types.Summary) {
	fmt.Fprintf(w, "\nConversion summary:\n")
	fmt.Fprintf(w, "  Total presentations found: %d\n", s.Total())
	fmt.Fprintf(w, "  Successfully converted:    %d\n", s.Converted)
	fmt.Fprintf(w, "  Failed conversions:        %d\n", s.Failed)
	fmt.Fprintf(w, "  PDFs saved in:             %s\n", s.OutputDir)
}
