package types

// BackendName identifies the host application driven for conversion.
type BackendName string

const (
	BackendAuto        BackendName = "auto"
	BackendPowerPoint  BackendName = "powerpoint"
	BackendLibreOffice BackendName = "libreoffice"
	BackendContainer   BackendName = "container"
)

// ConversionConfig holds settings for the convert command.
type ConversionConfig struct {
	// InputDir is the folder to convert when none is given on the command line.
	InputDir string `json:"input_dir" yaml:"input_dir" mapstructure:"input_dir"`

	// Backend selects the host application: auto, powerpoint, libreoffice,
	// or container.
	Backend BackendName `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Extension is the filename suffix of presentations to convert (default ".pptx").
	Extension string `json:"extension" yaml:"extension" mapstructure:"extension"`

	// OutputDirName is the output subdirectory created inside the input
	// folder (default "Converted_PDFs").
	OutputDirName string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// Image is the container image used by the container backend.
	Image string `json:"image" yaml:"image" mapstructure:"image"`

	// Verify enables PDF validation of each output.
	Verify bool `json:"verify" yaml:"verify" mapstructure:"verify"`
}

// HistoryConfig holds settings for the run ledger.
type HistoryConfig struct {
	// Record stores every run in the ledger when true.
	Record bool `json:"record" yaml:"record" mapstructure:"record"`

	// Dir is the directory holding the ledger database.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// Limit is the default number of runs listed or exported (default 20).
	Limit int `json:"limit" yaml:"limit" mapstructure:"limit"`

	// Files lists per-file results under each run in the history table.
	Files bool `json:"files" yaml:"files" mapstructure:"files"`
}

// LogConfig holds diagnostic logging settings.
type LogConfig struct {
	// Level is one of trace, debug, info, warn, error. Empty disables
	// diagnostic logging.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is json, console, or pretty.
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups all settings read from the config file and environment.
type Config struct {
	Convert ConversionConfig `json:"convert" yaml:"convert" mapstructure:"convert"`
	History HistoryConfig    `json:"history" yaml:"history" mapstructure:"history"`
	Log     LogConfig        `json:"log" yaml:"log" mapstructure:"log"`
}
