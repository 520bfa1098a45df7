// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pptx2pdf/internal/automation"
)

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "List conversion backends and whether they are available",
	Long: `Backends reports each application pptx2pdf can drive, in the order
auto-detection tries them, and whether it is usable on this machine.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		for _, app := range automation.Candidates(automation.Options{Image: cfg.Convert.Image}) {
			status := "unavailable"
			if app.Available() {
				status = "available"
			}
			fmt.Fprintf(w, "%-12s  %s\n", app.Name(), status)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backendsCmd)
}
