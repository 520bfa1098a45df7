// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pptx2pdf/internal/history"
	"github.com/pdiddy/pptx2pdf/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or export recorded conversion runs",
	Long: `History lists runs recorded with convert --record, newest first.
Use --export to write them to export.yaml or export.json in the history
directory instead.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 0, "number of runs to show (default 20)")
	historyCmd.Flags().String("export", "", "export format: yaml or json")
	historyCmd.Flags().Bool("files", false, "list per-file results under each run")

	_ = viper.BindPFlag("history.limit", historyCmd.Flags().Lookup("limit"))
	_ = viper.BindPFlag("history.files", historyCmd.Flags().Lookup("files"))

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("export")

	store, err := history.NewStore(cfg.History)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	w := cmd.OutOrStdout()

	switch format {
	case "":
	case "yaml":
		path, err := store.ExportYAML(ctx, cfg.History.Limit)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Exported to %s\n", path)
		return nil
	case "json":
		path, err := store.ExportJSON(ctx, cfg.History.Limit)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Exported to %s\n", path)
		return nil
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	runs, err := store.Recent(ctx, cfg.History.Limit)
	if err != nil {
		return err
	}
	formatHistory(w, runs, cfg.History.Files)
	return nil
}

func formatHistory(w io.Writer, runs []types.Run, showFiles bool) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}

	fmt.Fprintf(w, "%-5s  %-20s  %-12s  %-9s  %-6s  %s\n",
		"Run", "Started", "Backend", "Converted", "Failed", "Folder")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	for _, r := range runs {
		fmt.Fprintf(w, "%-5d  %-20s  %-12s  %-9d  %-6d  %s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Backend,
			r.Summary.Converted, r.Summary.Failed, r.Job.InputDir)
		if !showFiles {
			continue
		}
		for _, f := range r.Summary.Results {
			line := fmt.Sprintf("       %-9s %s", f.Status, f.Name)
			if f.Reason != "" {
				line += " (" + f.Reason + ")"
			}
			fmt.Fprintln(w, line)
		}
	}

	fmt.Fprintf(w, "\n%d runs\n", len(runs))
}
