// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pptx2pdf CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pptx2pdf/internal/automation"
	"github.com/pdiddy/pptx2pdf/internal/convert"
	"github.com/pdiddy/pptx2pdf/internal/logging"
	"github.com/pdiddy/pptx2pdf/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the pptx2pdf CLI.
var rootCmd = &cobra.Command{
	Use:   "pptx2pdf",
	Short: "Batch-convert presentations to PDF",
	Long: `pptx2pdf converts every presentation in a folder to PDF by driving an
installed presentation application: PowerPoint over COM on Windows,
LibreOffice in headless mode, or LibreOffice inside a container image.

Converted documents are written to a Converted_PDFs folder inside the
input folder, one PDF per presentation with the same base name.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pptx2pdf.yaml or ~/.config/pptx2pdf/pptx2pdf.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "diagnostic log level: trace, debug, info, warn, error (default: off)")
	rootCmd.PersistentFlags().String("log-format", "console", "diagnostic log format: console, json, or pretty")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))

	viper.SetDefault("convert.backend", string(types.BackendAuto))
	viper.SetDefault("convert.extension", convert.DefaultExtension)
	viper.SetDefault("convert.output_dir", types.DefaultOutputDirName)
	viper.SetDefault("convert.image", automation.DefaultImage)
	viper.SetDefault("history.dir", defaultHistoryDir())
	viper.SetDefault("history.limit", 20)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pptx2pdf")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pptx2pdf"))
		}
	}

	viper.SetEnvPrefix("PPTX2PDF")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig decodes the merged flag, environment and file settings.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("reading configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds the diagnostic logger from cfg.
func newLogger(cfg types.Config) (logging.Logger, error) {
	return logging.New("pptx2pdf", logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
}

func defaultHistoryDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".pptx2pdf", "history")
	}
	return filepath.Join(dir, "pptx2pdf", "history")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
