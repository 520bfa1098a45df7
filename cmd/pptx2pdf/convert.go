package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pptx2pdf/internal/automation"
	"github.com/pdiddy/pptx2pdf/internal/convert"
	"github.com/pdiddy/pptx2pdf/internal/history"
	"github.com/pdiddy/pptx2pdf/internal/logging"
	"github.com/pdiddy/pptx2pdf/internal/verify"
	"github.com/pdiddy/pptx2pdf/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [folder]",
	Short: "Convert every presentation in a folder to PDF",
	Long: `Convert opens each presentation in the folder with the selected
application, saves it as PDF into the output subfolder, and closes it.
A file that fails to convert is reported and skipped; the rest of the
batch continues. The folder defaults to convert.input_dir from the config.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("backend", "", "application to drive: auto, powerpoint, libreoffice, or container (default auto)")
	convertCmd.Flags().String("ext", "", "suffix of files to convert (default .pptx)")
	convertCmd.Flags().String("output-dir", "", "name of the output subfolder (default Converted_PDFs)")
	convertCmd.Flags().String("image", "", "container image for the container backend")
	convertCmd.Flags().Bool("verify", false, "validate every PDF written and count its pages")
	convertCmd.Flags().Bool("record", false, "record the run in the history ledger")
	convertCmd.Flags().String("history-dir", "", "directory holding the history ledger")

	for key, flag := range map[string]string{
		"convert.backend":    "backend",
		"convert.extension":  "ext",
		"convert.output_dir": "output-dir",
		"convert.image":      "image",
		"convert.verify":     "verify",
		"history.record":     "record",
		"history.dir":        "history-dir",
	} {
		_ = viper.BindPFlag(key, convertCmd.Flags().Lookup(flag))
	}

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dir := cfg.Convert.InputDir
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		return fmt.Errorf("provide a folder to convert or set convert.input_dir in the config")
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}

	app, err := automation.New(cfg.Convert.Backend, automation.Options{
		Image: cfg.Convert.Image,
		Log:   log,
	})
	if err != nil {
		return err
	}

	opts := convert.Options{
		Extension: cfg.Convert.Extension,
		Log:       log,
	}
	if cfg.Convert.Verify {
		opts.Verifier = verify.NewPDFValidator()
	}

	job := convert.NewJob(dir, cfg.Convert.OutputDirName)
	started := time.Now()
	summary, err := convert.ConvertFolder(app, job, opts, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	if cfg.History.Record {
		run := types.Run{
			Backend:    app.Name(),
			Job:        job,
			StartedAt:  started,
			FinishedAt: time.Now(),
			Summary:    summary,
		}
		if err := recordRun(cmd.Context(), cfg.History, run, cmd.ErrOrStderr(), log); err != nil {
			return err
		}
	}

	if summary.HasFailures() {
		return fmt.Errorf("%d presentation(s) failed conversion", summary.Failed)
	}
	return nil
}

// recordRun appends run to the history ledger.
func recordRun(ctx context.Context, cfg types.HistoryConfig, run types.Run, w io.Writer, log logging.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := history.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.Record(ctx, run)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Recorded run %d in %s\n", id, cfg.Dir)
	log.Debug("run recorded", "id", id, "dir", cfg.Dir)
	return nil
}
