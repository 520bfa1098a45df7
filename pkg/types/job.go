// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ConversionStatus indicates the outcome of converting one presentation.
type ConversionStatus string

const (
	ConversionDone   ConversionStatus = "converted"
	ConversionFailed ConversionStatus = "failed"
)

// DefaultOutputDirName is the subdirectory of the input folder that receives
// converted PDFs when no other name is configured.
const DefaultOutputDirName = "Converted_PDFs"

// Job pairs the folder being converted with the folder receiving output.
type Job struct {
	// InputDir is the folder scanned for presentations.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputDir is where converted documents are written. It is normally
	// derived from InputDir by NewJob.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// ConversionResult is the outcome for a single presentation. A result is
// either succeeded (Status == ConversionDone, OutputPath set) or failed
// (Status == ConversionFailed, Reason set).
type ConversionResult struct {
	// Name is the base filename of the source presentation.
	Name string `json:"name" yaml:"name"`

	// SourcePath is the full path of the presentation.
	SourcePath string `json:"source_path" yaml:"source_path"`

	Status ConversionStatus `json:"status" yaml:"status"`

	// OutputPath is the written document. Empty on failure.
	OutputPath string `json:"output_path,omitempty" yaml:"output_path,omitempty"`

	// Reason describes why the conversion failed. Empty on success.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`

	// Pages is the page count of the output when verification ran.
	Pages int `json:"pages,omitempty" yaml:"pages,omitempty"`

	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Succeeded reports whether the conversion produced an output document.
func (r ConversionResult) Succeeded() bool {
	return r.Status == ConversionDone
}

// Summary tallies a completed folder conversion.
type Summary struct {
	Converted int                `json:"converted" yaml:"converted"`
	Failed    int                `json:"failed" yaml:"failed"`
	OutputDir string             `json:"output_dir" yaml:"output_dir"`
	Results   []ConversionResult `json:"results" yaml:"results"`
}

// Total returns the number of presentations seen.
func (s Summary) Total() int {
	return s.Converted + s.Failed
}

// HasFailures reports whether any presentation failed conversion.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Run is one recorded invocation of the converter, as kept in the history
// ledger.
type Run struct {
	ID         int64     `json:"id" yaml:"id"`
	Backend    string    `json:"backend" yaml:"backend"`
	Job        Job       `json:"job" yaml:"job"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
	Summary    Summary   `json:"summary" yaml:"summary"`
}
